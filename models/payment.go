// models/payment.go
package models

// PaymentOrder is an order created at the payment gateway. The frontend
// opens the gateway checkout with this id; the signed result comes back
// through the verify endpoints.
type PaymentOrder struct {
	ID       string  `json:"id"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	Receipt  string  `json:"receipt"`
	Status   string  `json:"status"`
	KeyID    string  `json:"keyId,omitempty"`
}

// GatewayOrderResponse is the raw gateway order payload. Amounts are in the
// smallest currency unit (paise).
type GatewayOrderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// GatewayErrorResponse is the gateway's error envelope
type GatewayErrorResponse struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}
