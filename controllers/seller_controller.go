// controllers/seller_controller.go
package controllers

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image/png"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/nomanqadri34/vcx-mart-sub003/config"
	"github.com/nomanqadri34/vcx-mart-sub003/models"
	"github.com/nomanqadri34/vcx-mart-sub003/utils"
	"github.com/nomanqadri34/vcx-mart-sub003/websocket"
)

// SellerController handles the seller side of the onboarding flow
type SellerController struct {
	DB    *mongo.Client
	WSHub *websocket.Hub
}

// NewSellerController creates a new seller controller
func NewSellerController(db *mongo.Client, wsHub *websocket.Hub) *SellerController {
	return &SellerController{DB: db, WSHub: wsHub}
}

// Apply submits a new seller application. Registration fee must be paid
// first; the check reads server state rather than trusting the client.
func (sc *SellerController) Apply(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID",
		})
	}

	var req models.SellerApplicationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Validation failed: " + err.Error(),
		})
	}
	if msg := validateApplicationFields(&req); msg != "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: msg,
		})
	}

	// Registration fee gate
	var subscription models.SellerSubscription
	err = config.GetCollection(sc.DB, "sellerSubscriptions").FindOne(ctx, bson.M{"userId": userID}).Decode(&subscription)
	if err != nil || !subscription.RegistrationPaid {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "Registration fee must be paid before applying",
		})
	}

	applicationsCollection := config.GetCollection(sc.DB, "sellerApplications")
	var existing models.SellerApplication
	err = applicationsCollection.FindOne(ctx, bson.M{"userId": userID}).Decode(&existing)
	if err == nil {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "You already have a seller application",
			Data:    map[string]interface{}{"status": existing.Status},
		})
	} else if err != mongo.ErrNoDocuments {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error checking existing applications",
		})
	}

	now := time.Now()
	application := models.SellerApplication{
		ID:                  primitive.NewObjectID(),
		UserID:              userID,
		ApplicationID:       newApplicationID(),
		Status:              models.ApplicationStatusPending,
		BusinessName:        utils.SanitizeInput(req.BusinessName),
		BusinessType:        utils.SanitizeInput(req.BusinessType),
		BusinessCategory:    utils.SanitizeInput(req.BusinessCategory),
		BusinessDescription: utils.SanitizeInput(req.BusinessDescription),
		BusinessAddress:     utils.SanitizeInput(req.BusinessAddress),
		BusinessEmail:       strings.ToLower(strings.TrimSpace(req.BusinessEmail)),
		BusinessPhone:       utils.SanitizeInput(req.BusinessPhone),
		City:                utils.SanitizeInput(req.City),
		State:               utils.SanitizeInput(req.State),
		Pincode:             strings.TrimSpace(req.Pincode),
		PanNumber:           strings.ToUpper(strings.TrimSpace(req.PanNumber)),
		GstNumber:           strings.ToUpper(strings.TrimSpace(req.GstNumber)),
		BankAccountNumber:   strings.TrimSpace(req.BankAccountNumber),
		BankName:            utils.SanitizeInput(req.BankName),
		BankIFSC:            strings.ToUpper(strings.TrimSpace(req.BankIFSC)),
		AccountHolderName:   utils.SanitizeInput(req.AccountHolderName),
		SubmittedAt:         now,
		Version:             1,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	_, err = applicationsCollection.InsertOne(ctx, application)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return c.JSON(http.StatusConflict, models.Response{
				Status:  http.StatusConflict,
				Message: "You already have a seller application",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to submit application",
		})
	}

	sc.WSHub.NotifyApplicationSubmitted(map[string]interface{}{
		"applicationId": application.ApplicationID,
		"businessName":  application.BusinessName,
	})
	if err := utils.NotifyAdmin(
		"New Seller Application",
		fmt.Sprintf("%s has applied to sell on VCX MART (application %s). Please review.",
			application.BusinessName, application.ApplicationID),
	); err != nil {
		log.Printf("Failed to send admin notification email: %v", err)
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Application submitted successfully",
		Data:    application,
	})
}

// GetMyApplication returns the caller's application
func (sc *SellerController) GetMyApplication(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID",
		})
	}

	var application models.SellerApplication
	err = config.GetCollection(sc.DB, "sellerApplications").FindOne(ctx, bson.M{"userId": userID}).Decode(&application)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "No application found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to find application",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Application retrieved successfully",
		Data:    application,
	})
}

// Resubmit updates a requires_changes application and returns it to the
// review queue.
func (sc *SellerController) Resubmit(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID",
		})
	}

	var req models.SellerApplicationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Validation failed: " + err.Error(),
		})
	}
	if msg := validateApplicationFields(&req); msg != "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: msg,
		})
	}

	applicationsCollection := config.GetCollection(sc.DB, "sellerApplications")
	var application models.SellerApplication
	err = applicationsCollection.FindOne(ctx, bson.M{"userId": userID}).Decode(&application)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "No application found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to find application",
		})
	}

	now := time.Now()
	if err := application.Resubmit(now); err != nil {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: err.Error(),
		})
	}

	update := bson.M{
		"$set": bson.M{
			"status":              application.Status,
			"businessName":        utils.SanitizeInput(req.BusinessName),
			"businessType":        utils.SanitizeInput(req.BusinessType),
			"businessCategory":    utils.SanitizeInput(req.BusinessCategory),
			"businessDescription": utils.SanitizeInput(req.BusinessDescription),
			"businessAddress":     utils.SanitizeInput(req.BusinessAddress),
			"businessEmail":       strings.ToLower(strings.TrimSpace(req.BusinessEmail)),
			"businessPhone":       utils.SanitizeInput(req.BusinessPhone),
			"city":                utils.SanitizeInput(req.City),
			"state":               utils.SanitizeInput(req.State),
			"pincode":             strings.TrimSpace(req.Pincode),
			"submittedAt":         now,
			"updatedAt":           now,
		},
		"$unset": bson.M{
			"reviewedAt":      "",
			"reviewer":        "",
			"reviewNotes":     "",
			"rejectionReason": "",
		},
		"$inc": bson.M{"version": 1},
	}

	result, err := applicationsCollection.UpdateOne(ctx, bson.M{
		"_id":     application.ID,
		"version": application.Version,
	}, update)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to resubmit application",
		})
	}
	if result.MatchedCount == 0 {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "Application was modified concurrently, please retry",
		})
	}

	sc.WSHub.NotifyApplicationSubmitted(map[string]interface{}{
		"applicationId": application.ApplicationID,
		"businessName":  req.BusinessName,
		"resubmission":  true,
	})

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Application resubmitted successfully",
	})
}

// GetOnboarding returns server-derived onboarding progress. The frontend
// drives its step UI from this instead of local storage flags.
func (sc *SellerController) GetOnboarding(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID",
		})
	}

	registrationPaid := false
	subscriptionStatus := ""
	var subscription models.SellerSubscription
	err = config.GetCollection(sc.DB, "sellerSubscriptions").FindOne(ctx, bson.M{"userId": userID}).Decode(&subscription)
	if err == nil {
		registrationPaid = subscription.RegistrationPaid
		subscriptionStatus = subscription.Status
	}

	applicationStatus := ""
	var application models.SellerApplication
	err = config.GetCollection(sc.DB, "sellerApplications").FindOne(ctx, bson.M{"userId": userID}).Decode(&application)
	if err == nil {
		applicationStatus = application.Status
	}

	nextStep := "create_subscription"
	switch {
	case subscriptionStatus == "":
	case !registrationPaid:
		nextStep = "pay_registration"
	case subscriptionStatus == models.SubscriptionStatusPending:
		nextStep = "pay_monthly"
	case applicationStatus == "":
		nextStep = "submit_application"
	case applicationStatus == models.ApplicationStatusRequiresChanges:
		nextStep = "resubmit_application"
	case applicationStatus == models.ApplicationStatusApproved:
		nextStep = "done"
	default:
		nextStep = "await_review"
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Onboarding state retrieved successfully",
		Data: map[string]interface{}{
			"registrationPaid":   registrationPaid,
			"subscriptionStatus": subscriptionStatus,
			"applicationStatus":  applicationStatus,
			"nextStep":           nextStep,
		},
	})
}

// GetStorefrontQR returns a base64 PNG QR code linking to the seller's
// public storefront page.
func (sc *SellerController) GetStorefrontQR(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID",
		})
	}

	var application models.SellerApplication
	err = config.GetCollection(sc.DB, "sellerApplications").FindOne(ctx, bson.M{
		"userId": userID,
		"status": models.ApplicationStatusApproved,
	}).Decode(&application)
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "No approved seller application found",
		})
	}

	frontendURL := os.Getenv("FRONTEND_URL")
	if frontendURL == "" {
		frontendURL = "https://vcxmart.com"
	}
	storeURL := fmt.Sprintf("%s/store/%s", frontendURL, userID.Hex())

	qrCode, err := qr.Encode(storeURL, qr.M, qr.Auto)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate QR code",
		})
	}
	qrCode, err = barcode.Scale(qrCode, 256, 256)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to scale QR code",
		})
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, qrCode); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to encode QR code",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Storefront QR code generated successfully",
		Data: map[string]interface{}{
			"storeUrl": storeURL,
			"qrCode":   "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()),
		},
	})
}

// validateApplicationFields runs the marketplace identifier checks that the
// struct tags cannot express.
func validateApplicationFields(req *models.SellerApplicationRequest) string {
	if !utils.IsValidPincode(req.Pincode) {
		return "Invalid pincode"
	}
	if !utils.IsValidIFSC(req.BankIFSC) {
		return "Invalid bank IFSC code"
	}
	if req.PanNumber != "" && !utils.IsValidPAN(req.PanNumber) {
		return "Invalid PAN number"
	}
	if req.GstNumber != "" && !utils.IsValidGST(req.GstNumber) {
		return "Invalid GST number"
	}
	return ""
}

// newApplicationID builds the human-readable application identifier
func newApplicationID() string {
	return "APP-" + strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:10])
}
