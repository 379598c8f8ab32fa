// controllers/subscription_controller.go
package controllers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/nomanqadri34/vcx-mart-sub003/config"
	"github.com/nomanqadri34/vcx-mart-sub003/models"
	"github.com/nomanqadri34/vcx-mart-sub003/services"
	"github.com/nomanqadri34/vcx-mart-sub003/utils"
)

// overdueGrace is how long past nextPaymentDate an active subscription may
// stay unpaid before the sweep suspends it.
const overdueGrace = 3 * 24 * time.Hour

// SubscriptionController handles seller subscription billing
type SubscriptionController struct {
	DB      *mongo.Client
	Gateway *services.RazorpayService
}

// NewSubscriptionController creates a new subscription controller
func NewSubscriptionController(db *mongo.Client, gateway *services.RazorpayService) *SubscriptionController {
	return &SubscriptionController{DB: db, Gateway: gateway}
}

// CreateSubscription selects a plan and creates the pending subscription
// record. Fees are fixed server side from the plan type.
func (sc *SubscriptionController) CreateSubscription(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID",
		})
	}

	var req models.CreateSubscriptionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Subscription type must be early_bird or regular",
		})
	}

	subscription, err := models.NewSellerSubscription(userID, req.SubscriptionType, time.Now())
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	_, err = config.GetCollection(sc.DB, "sellerSubscriptions").InsertOne(ctx, subscription)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return c.JSON(http.StatusConflict, models.Response{
				Status:  http.StatusConflict,
				Message: "You already have a subscription",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create subscription",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Subscription created successfully",
		Data:    subscription,
	})
}

// CreateRegistrationOrder creates a gateway order for the one-time
// registration fee.
func (sc *SubscriptionController) CreateRegistrationOrder(c echo.Context) error {
	return sc.createOrder(c, models.PaymentTypeRegistration)
}

// CreateMonthlyOrder creates a gateway order for the recurring monthly fee.
func (sc *SubscriptionController) CreateMonthlyOrder(c echo.Context) error {
	return sc.createOrder(c, models.PaymentTypeMonthly)
}

func (sc *SubscriptionController) createOrder(c echo.Context, paymentType string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID",
		})
	}

	subscription, errResp := sc.loadSubscription(ctx, c, userID)
	if subscription == nil {
		return errResp
	}
	if subscription.Status == models.SubscriptionStatusCancelled {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "Subscription is cancelled",
		})
	}

	amount := subscription.RegistrationFee
	if paymentType == models.PaymentTypeMonthly {
		if !subscription.RegistrationPaid {
			return c.JSON(http.StatusConflict, models.Response{
				Status:  http.StatusConflict,
				Message: "Registration fee must be paid first",
			})
		}
		amount = subscription.MonthlyFee
	} else if subscription.RegistrationPaid {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "Registration fee already paid",
		})
	}

	receipt := paymentType + "_" + uuid.New().String()[:18]
	order, err := sc.Gateway.CreateOrder(amount, "INR", receipt)
	if err != nil {
		log.Printf("Failed to create %s order for user %s: %v", paymentType, userID.Hex(), err)
		return c.JSON(http.StatusBadGateway, models.Response{
			Status:  http.StatusBadGateway,
			Message: "Failed to create payment order",
		})
	}

	// The pending entry fixes which order ID verification may settle
	now := time.Now()
	if err := subscription.AddPendingOrder(paymentType, amount, order.ID, now); err != nil {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: err.Error(),
		})
	}
	_, err = config.GetCollection(sc.DB, "sellerSubscriptions").UpdateOne(ctx,
		bson.M{"_id": subscription.ID},
		bson.M{"$set": bson.M{
			"payments":  subscription.Payments,
			"updatedAt": subscription.UpdatedAt,
		}},
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to record payment order",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Payment order created successfully",
		Data:    order,
	})
}

// VerifyRegistrationPayment verifies the checkout signature and records the
// registration fee payment.
func (sc *SubscriptionController) VerifyRegistrationPayment(c echo.Context) error {
	return sc.verifyPayment(c, models.PaymentTypeRegistration, "Registration fee paid successfully")
}

// VerifyMonthlyPayment verifies the checkout signature, records the monthly
// payment and activates the subscription for one more month.
func (sc *SubscriptionController) VerifyMonthlyPayment(c echo.Context) error {
	return sc.verifyPayment(c, models.PaymentTypeMonthly, "Monthly payment recorded, subscription active")
}

func (sc *SubscriptionController) verifyPayment(c echo.Context, paymentType, successMessage string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID",
		})
	}

	var req models.VerifyPaymentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "orderId, paymentId and signature are required",
		})
	}

	if !sc.Gateway.VerifySignature(req.OrderID, req.PaymentID, req.Signature) {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Payment verification failed",
		})
	}

	subscription, errResp := sc.loadSubscription(ctx, c, userID)
	if subscription == nil {
		return errResp
	}

	now := time.Now()
	if err := subscription.CompletePayment(paymentType, req.OrderID, req.PaymentID, req.Signature, now); err != nil {
		if err == models.ErrUnknownPaymentOrder {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Payment verification failed",
			})
		}
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: err.Error(),
		})
	}

	set := bson.M{
		"payments":  subscription.Payments,
		"status":    subscription.Status,
		"updatedAt": subscription.UpdatedAt,
	}
	if paymentType == models.PaymentTypeRegistration {
		set["registrationPaid"] = subscription.RegistrationPaid
		set["registrationPaymentId"] = subscription.RegistrationPaymentID
	} else {
		set["nextPaymentDate"] = subscription.NextPaymentDate
	}

	_, err = config.GetCollection(sc.DB, "sellerSubscriptions").UpdateOne(ctx,
		bson.M{"_id": subscription.ID},
		bson.M{"$set": set},
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to record payment",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: successMessage,
		Data:    subscription,
	})
}

// GetSubscriptionStatus returns the caller's subscription with its payment
// log.
func (sc *SubscriptionController) GetSubscriptionStatus(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID",
		})
	}

	subscription, errResp := sc.loadSubscription(ctx, c, userID)
	if subscription == nil {
		return errResp
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Subscription retrieved successfully",
		Data:    subscription,
	})
}

// GetSubscriptionStatusByID lets an admin inspect any user's subscription.
func (sc *SubscriptionController) GetSubscriptionStatusByID(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID",
		})
	}

	subscription, errResp := sc.loadSubscription(ctx, c, userID)
	if subscription == nil {
		return errResp
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Subscription retrieved successfully",
		Data:    subscription,
	})
}

// CancelSubscription permanently ends the caller's subscription.
func (sc *SubscriptionController) CancelSubscription(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID",
		})
	}

	subscription, errResp := sc.loadSubscription(ctx, c, userID)
	if subscription == nil {
		return errResp
	}

	now := time.Now()
	if err := subscription.Cancel(now); err != nil {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: err.Error(),
		})
	}

	_, err = config.GetCollection(sc.DB, "sellerSubscriptions").UpdateOne(ctx,
		bson.M{"_id": subscription.ID},
		bson.M{"$set": bson.M{
			"status":      subscription.Status,
			"cancelledAt": subscription.CancelledAt,
			"updatedAt":   subscription.UpdatedAt,
		}},
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to cancel subscription",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Subscription cancelled",
		Data:    subscription,
	})
}

func (sc *SubscriptionController) loadSubscription(ctx context.Context, c echo.Context, userID primitive.ObjectID) (*models.SellerSubscription, error) {
	var subscription models.SellerSubscription
	err := config.GetCollection(sc.DB, "sellerSubscriptions").FindOne(ctx, bson.M{"userId": userID}).Decode(&subscription)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "No subscription found",
			})
		}
		return nil, c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch subscription",
		})
	}
	return &subscription, nil
}

// MarkOverdueSubscriptions suspends active subscriptions whose next payment
// date has passed the grace period. Runs from a background loop in main.
func MarkOverdueSubscriptions(db *mongo.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cutoff := time.Now().Add(-overdueGrace)
	result, err := config.GetCollection(db, "sellerSubscriptions").UpdateMany(ctx,
		bson.M{
			"status":          models.SubscriptionStatusActive,
			"nextPaymentDate": bson.M{"$lt": cutoff},
		},
		bson.M{"$set": bson.M{
			"status":    models.SubscriptionStatusSuspended,
			"updatedAt": time.Now(),
		}},
	)
	if err != nil {
		log.Printf("Failed to mark overdue subscriptions: %v", err)
		return
	}
	if result.ModifiedCount > 0 {
		log.Printf("Suspended %d overdue subscriptions", result.ModifiedCount)
	}
}
