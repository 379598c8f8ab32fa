// models/order.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order statuses
const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusCancelled = "cancelled"
)

// Order is created at checkout from a snapshot of the cart.
type Order struct {
	ID               primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID           primitive.ObjectID `json:"userId" bson:"userId"`
	Receipt          string             `json:"receipt" bson:"receipt"`
	Items            []CartItem         `json:"items" bson:"items"`
	Amount           float64            `json:"amount" bson:"amount"`
	Status           string             `json:"status" bson:"status"`
	GatewayOrderID   string             `json:"gatewayOrderId,omitempty" bson:"gatewayOrderId,omitempty"`
	GatewayPaymentID string             `json:"gatewayPaymentId,omitempty" bson:"gatewayPaymentId,omitempty"`
	PaidAt           *time.Time         `json:"paidAt,omitempty" bson:"paidAt,omitempty"`
	CreatedAt        time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time          `json:"updatedAt" bson:"updatedAt"`
}
