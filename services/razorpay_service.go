package services

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"os"
	"time"

	"github.com/nomanqadri34/vcx-mart-sub003/models"
)

// RazorpayService handles interactions with the Razorpay orders API.
// Checkout itself happens in the frontend widget; the backend creates
// orders and verifies the signed payment result.
type RazorpayService struct {
	baseURL   string
	keyID     string
	keySecret string
	client    *http.Client
}

// NewRazorpayService creates a new Razorpay service instance
func NewRazorpayService() *RazorpayService {
	keyID := os.Getenv("RAZORPAY_KEY_ID")
	keySecret := os.Getenv("RAZORPAY_KEY_SECRET")

	if keyID == "" || keySecret == "" {
		log.Printf("WARNING: Razorpay credentials not fully configured:")
		if keyID == "" {
			log.Printf("  - RAZORPAY_KEY_ID is missing")
		}
		if keySecret == "" {
			log.Printf("  - RAZORPAY_KEY_SECRET is missing")
		}
		log.Printf("Please set these environment variables for payment collection to work")
	}

	return &RazorpayService{
		baseURL:   "https://api.razorpay.com/v1",
		keyID:     keyID,
		keySecret: keySecret,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

// CreateOrder creates a gateway order for the given amount in currency
// units. Razorpay expects amounts in the smallest unit (paise).
func (s *RazorpayService) CreateOrder(amount float64, currency, receipt string) (*models.PaymentOrder, error) {
	if s.keyID == "" || s.keySecret == "" {
		return nil, fmt.Errorf("missing Razorpay credentials. Please set RAZORPAY_KEY_ID and RAZORPAY_KEY_SECRET environment variables")
	}

	payload := map[string]interface{}{
		"amount":   int64(math.Round(amount * 100)),
		"currency": currency,
		"receipt":  receipt,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, s.baseURL+"/orders", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(s.keyID, s.keySecret)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if os.Getenv("RAZORPAY_DEBUG") == "true" {
		log.Printf("Razorpay API response (%d): %s", resp.StatusCode, string(respBody))
	}

	if resp.StatusCode != http.StatusOK {
		var gatewayErr models.GatewayErrorResponse
		if err := json.Unmarshal(respBody, &gatewayErr); err == nil && gatewayErr.Error.Description != "" {
			return nil, fmt.Errorf("gateway error: %s", gatewayErr.Error.Description)
		}
		return nil, fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}

	var order models.GatewayOrderResponse
	if err := json.Unmarshal(respBody, &order); err != nil {
		return nil, fmt.Errorf("failed to decode order response: %w", err)
	}

	return &models.PaymentOrder{
		ID:       order.ID,
		Amount:   float64(order.Amount) / 100,
		Currency: order.Currency,
		Receipt:  order.Receipt,
		Status:   order.Status,
		KeyID:    s.keyID,
	}, nil
}

// VerifySignature checks the checkout result signature: HMAC-SHA256 over
// "orderID|paymentID" keyed with the API secret, hex encoded.
func (s *RazorpayService) VerifySignature(orderID, paymentID, signature string) bool {
	if s.keySecret == "" || orderID == "" || paymentID == "" || signature == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(s.keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	return subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) == 1
}

// NewRazorpayServiceWithCredentials builds a service with explicit
// credentials; used by tests.
func NewRazorpayServiceWithCredentials(keyID, keySecret string) *RazorpayService {
	return &RazorpayService{
		baseURL:   "https://api.razorpay.com/v1",
		keyID:     keyID,
		keySecret: keySecret,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}
