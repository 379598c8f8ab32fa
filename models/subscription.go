// models/subscription.go
package models

import (
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Subscription plan types and fixed fees. The registration fee is a one-time
// charge collected before recurring billing begins.
const (
	SubscriptionTypeEarlyBird = "early_bird"
	SubscriptionTypeRegular   = "regular"

	RegistrationFeeAmount = 50.0
	EarlyBirdMonthlyFee   = 500.0
	RegularMonthlyFee     = 800.0
)

// Subscription statuses
const (
	SubscriptionStatusPending   = "pending"
	SubscriptionStatusActive    = "active"
	SubscriptionStatusSuspended = "suspended"
	SubscriptionStatusCancelled = "cancelled"
)

// Payment entry types and statuses
const (
	PaymentTypeRegistration = "registration"
	PaymentTypeMonthly      = "monthly"

	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

var (
	ErrUnknownSubscriptionType = errors.New("unknown subscription type")
	ErrSubscriptionCancelled   = errors.New("subscription is cancelled")
	ErrUnknownPaymentOrder     = errors.New("no pending payment order with this reference")
	ErrPaymentAlreadyRecorded  = errors.New("payment reference already recorded")
)

// SubscriptionPayment is one entry in the append-only payment log.
type SubscriptionPayment struct {
	Type      string     `json:"type" bson:"type"`
	Amount    float64    `json:"amount" bson:"amount"`
	OrderID   string     `json:"orderId,omitempty" bson:"orderId,omitempty"`
	PaymentID string     `json:"paymentId,omitempty" bson:"paymentId,omitempty"`
	Signature string     `json:"signature,omitempty" bson:"signature,omitempty"`
	Status    string     `json:"status" bson:"status"`
	PaidAt    *time.Time `json:"paidAt,omitempty" bson:"paidAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt" bson:"createdAt"`
}

// SellerSubscription tracks registration-fee payment and recurring monthly
// billing for one user. At most one subscription exists per user (unique
// index on userId).
type SellerSubscription struct {
	ID                    primitive.ObjectID    `json:"id,omitempty" bson:"_id,omitempty"`
	UserID                primitive.ObjectID    `json:"userId" bson:"userId"`
	SubscriptionType      string                `json:"subscriptionType" bson:"subscriptionType"`
	MonthlyFee            float64               `json:"monthlyFee" bson:"monthlyFee"`
	RegistrationFee       float64               `json:"registrationFee" bson:"registrationFee"`
	RegistrationPaid      bool                  `json:"registrationPaid" bson:"registrationPaid"`
	RegistrationPaymentID string                `json:"registrationPaymentId,omitempty" bson:"registrationPaymentId,omitempty"`
	Status                string                `json:"status" bson:"status"`
	NextPaymentDate       *time.Time            `json:"nextPaymentDate,omitempty" bson:"nextPaymentDate,omitempty"`
	Payments              []SubscriptionPayment `json:"payments" bson:"payments"`
	CancelledAt           *time.Time            `json:"cancelledAt,omitempty" bson:"cancelledAt,omitempty"`
	CreatedAt             time.Time             `json:"createdAt" bson:"createdAt"`
	UpdatedAt             time.Time             `json:"updatedAt" bson:"updatedAt"`
}

// MonthlyFeeFor returns the fixed monthly fee for a plan type.
func MonthlyFeeFor(subscriptionType string) (float64, error) {
	switch subscriptionType {
	case SubscriptionTypeEarlyBird:
		return EarlyBirdMonthlyFee, nil
	case SubscriptionTypeRegular:
		return RegularMonthlyFee, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnknownSubscriptionType, subscriptionType)
	}
}

// NewSellerSubscription creates a pending subscription with fees fixed by
// the plan type at creation time.
func NewSellerSubscription(userID primitive.ObjectID, subscriptionType string, now time.Time) (*SellerSubscription, error) {
	fee, err := MonthlyFeeFor(subscriptionType)
	if err != nil {
		return nil, err
	}
	return &SellerSubscription{
		ID:               primitive.NewObjectID(),
		UserID:           userID,
		SubscriptionType: subscriptionType,
		MonthlyFee:       fee,
		RegistrationFee:  RegistrationFeeAmount,
		Status:           SubscriptionStatusPending,
		Payments:         []SubscriptionPayment{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// AddPendingOrder logs a gateway order awaiting verification. The entry
// fixes the type and amount the later verification must settle against.
func (s *SellerSubscription) AddPendingOrder(paymentType string, amount float64, orderID string, now time.Time) error {
	if s.Status == SubscriptionStatusCancelled {
		return ErrSubscriptionCancelled
	}
	for i := range s.Payments {
		if s.Payments[i].OrderID == orderID {
			return ErrPaymentAlreadyRecorded
		}
	}
	s.Payments = append(s.Payments, SubscriptionPayment{
		Type:      paymentType,
		Amount:    amount,
		OrderID:   orderID,
		Status:    PaymentStatusPending,
		CreatedAt: now,
	})
	s.UpdatedAt = now
	return nil
}

// CompletePayment settles the pending entry for orderID and applies its
// effect: a registration payment flips RegistrationPaid, a monthly payment
// activates the subscription. References that were never issued for this
// subscription and type, or that are already settled, are rejected, so a
// verified checkout result cannot be replayed or redeemed as a different
// payment type.
func (s *SellerSubscription) CompletePayment(paymentType, orderID, paymentID, signature string, now time.Time) error {
	if s.Status == SubscriptionStatusCancelled {
		return ErrSubscriptionCancelled
	}

	var entry *SubscriptionPayment
	for i := range s.Payments {
		p := &s.Payments[i]
		if p.Status == PaymentStatusCompleted && (p.OrderID == orderID || p.PaymentID == paymentID) {
			return ErrPaymentAlreadyRecorded
		}
		if p.OrderID == orderID && p.Status == PaymentStatusPending && p.Type == paymentType {
			entry = p
		}
	}
	if entry == nil {
		return ErrUnknownPaymentOrder
	}

	paidAt := now
	entry.Status = PaymentStatusCompleted
	entry.PaymentID = paymentID
	entry.Signature = signature
	entry.PaidAt = &paidAt
	s.UpdatedAt = now

	switch entry.Type {
	case PaymentTypeRegistration:
		s.RegistrationPaid = true
		s.RegistrationPaymentID = paymentID
	case PaymentTypeMonthly:
		s.Activate(now)
	}
	return nil
}

// Activate marks the subscription active and sets the next payment date to
// exactly one calendar month from now. The previous nextPaymentDate is
// ignored so repeated late payments do not compound.
func (s *SellerSubscription) Activate(now time.Time) {
	next := now.AddDate(0, 1, 0)
	s.Status = SubscriptionStatusActive
	s.NextPaymentDate = &next
	s.UpdatedAt = now
}

// Cancel permanently ends the subscription.
func (s *SellerSubscription) Cancel(now time.Time) error {
	if s.Status == SubscriptionStatusCancelled {
		return ErrSubscriptionCancelled
	}
	s.Status = SubscriptionStatusCancelled
	s.CancelledAt = &now
	s.UpdatedAt = now
	return nil
}

// IsOverdue reports whether an active subscription has gone unpaid past the
// grace period.
func (s *SellerSubscription) IsOverdue(now time.Time, grace time.Duration) bool {
	if s.Status != SubscriptionStatusActive || s.NextPaymentDate == nil {
		return false
	}
	return now.After(s.NextPaymentDate.Add(grace))
}

// CompletedPayments returns the completed entries of the given type.
func (s *SellerSubscription) CompletedPayments(paymentType string) []SubscriptionPayment {
	var out []SubscriptionPayment
	for _, p := range s.Payments {
		if p.Type == paymentType && p.Status == PaymentStatusCompleted {
			out = append(out, p)
		}
	}
	return out
}

// CreateSubscriptionRequest is the plan selection payload
type CreateSubscriptionRequest struct {
	SubscriptionType string `json:"subscriptionType" validate:"required,oneof=early_bird regular"`
}

// VerifyPaymentRequest carries the gateway references returned by the
// checkout widget for server-side signature verification.
type VerifyPaymentRequest struct {
	OrderID   string `json:"orderId" validate:"required"`
	PaymentID string `json:"paymentId" validate:"required"`
	Signature string `json:"signature" validate:"required"`
}
