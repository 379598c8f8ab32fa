// controllers/order_controller.go
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
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nomanqadri34/vcx-mart-sub003/config"
	"github.com/nomanqadri34/vcx-mart-sub003/models"
	"github.com/nomanqadri34/vcx-mart-sub003/services"
	"github.com/nomanqadri34/vcx-mart-sub003/utils"
)

// OrderController handles checkout and order history
type OrderController struct {
	DB      *mongo.Client
	Gateway *services.RazorpayService
}

// NewOrderController creates a new order controller
func NewOrderController(db *mongo.Client, gateway *services.RazorpayService) *OrderController {
	return &OrderController{DB: db, Gateway: gateway}
}

// Checkout snapshots the cart into a pending order, creates the gateway
// order and clears the cart. The amount comes from the snapshot, never the
// client.
func (oc *OrderController) Checkout(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	userID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID",
		})
	}

	var cart models.Cart
	err = config.GetCollection(oc.DB, "carts").FindOne(ctx, bson.M{"userId": userID}).Decode(&cart)
	if err != nil || len(cart.Items) == 0 {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "Cart is empty",
		})
	}

	now := time.Now()
	order := models.Order{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Receipt:   "order_" + uuid.New().String()[:18],
		Items:     cart.Items,
		Amount:    cart.Subtotal(),
		Status:    models.OrderStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	gatewayOrder, err := oc.Gateway.CreateOrder(order.Amount, "INR", order.Receipt)
	if err != nil {
		log.Printf("Failed to create gateway order for user %s: %v", userID.Hex(), err)
		return c.JSON(http.StatusBadGateway, models.Response{
			Status:  http.StatusBadGateway,
			Message: "Failed to create payment order",
		})
	}
	order.GatewayOrderID = gatewayOrder.ID

	if _, err := config.GetCollection(oc.DB, "orders").InsertOne(ctx, order); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create order",
		})
	}

	if _, err := config.GetCollection(oc.DB, "carts").UpdateOne(ctx,
		bson.M{"userId": userID},
		bson.M{"$set": bson.M{"items": []models.CartItem{}, "updatedAt": now}},
	); err != nil {
		log.Printf("Failed to clear cart for user %s: %v", userID.Hex(), err)
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Order created successfully",
		Data: map[string]interface{}{
			"order":        order,
			"paymentOrder": gatewayOrder,
		},
	})
}

// VerifyOrderPayment verifies the checkout signature and marks the order
// paid.
func (oc *OrderController) VerifyOrderPayment(c echo.Context) error {
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

	if !oc.Gateway.VerifySignature(req.OrderID, req.PaymentID, req.Signature) {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Payment verification failed",
		})
	}

	now := time.Now()
	result, err := config.GetCollection(oc.DB, "orders").UpdateOne(ctx,
		bson.M{
			"userId":         userID,
			"gatewayOrderId": req.OrderID,
			"status":         models.OrderStatusPending,
		},
		bson.M{"$set": bson.M{
			"status":           models.OrderStatusPaid,
			"gatewayPaymentId": req.PaymentID,
			"paidAt":           now,
			"updatedAt":        now,
		}},
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update order",
		})
	}
	if result.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "No pending order found for this payment",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Payment recorded, order confirmed",
	})
}

// GetOrders lists the caller's orders, newest first
func (oc *OrderController) GetOrders(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID",
		})
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := config.GetCollection(oc.DB, "orders").Find(ctx, bson.M{"userId": userID}, findOptions)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch orders",
		})
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode orders",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Orders retrieved successfully",
		Data:    orders,
	})
}

// GetOrder returns one of the caller's orders
func (oc *OrderController) GetOrder(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID",
		})
	}
	orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid order ID",
		})
	}

	var order models.Order
	err = config.GetCollection(oc.DB, "orders").FindOne(ctx, bson.M{
		"_id":    orderID,
		"userId": userID,
	}).Decode(&order)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Order not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch order",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Order retrieved successfully",
		Data:    order,
	})
}
