package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMonthlyFeeFor(t *testing.T) {
	fee, err := MonthlyFeeFor(SubscriptionTypeEarlyBird)
	require.NoError(t, err)
	assert.Equal(t, 500.0, fee)

	fee, err = MonthlyFeeFor(SubscriptionTypeRegular)
	require.NoError(t, err)
	assert.Equal(t, 800.0, fee)

	_, err = MonthlyFeeFor("premium")
	assert.ErrorIs(t, err, ErrUnknownSubscriptionType)
}

func TestNewSellerSubscription(t *testing.T) {
	now := time.Now()
	sub, err := NewSellerSubscription(primitive.NewObjectID(), SubscriptionTypeEarlyBird, now)
	require.NoError(t, err)

	assert.Equal(t, SubscriptionStatusPending, sub.Status)
	assert.Equal(t, 500.0, sub.MonthlyFee)
	assert.Equal(t, 50.0, sub.RegistrationFee)
	assert.False(t, sub.RegistrationPaid)
	assert.Nil(t, sub.NextPaymentDate)
	assert.Empty(t, sub.Payments)

	_, err = NewSellerSubscription(primitive.NewObjectID(), "gold", now)
	assert.Error(t, err)
}

func TestAddPendingOrder(t *testing.T) {
	now := time.Now()
	sub, err := NewSellerSubscription(primitive.NewObjectID(), SubscriptionTypeRegular, now)
	require.NoError(t, err)

	require.NoError(t, sub.AddPendingOrder(PaymentTypeRegistration, sub.RegistrationFee, "order_reg1", now))
	require.Len(t, sub.Payments, 1)
	assert.Equal(t, PaymentStatusPending, sub.Payments[0].Status)
	assert.Nil(t, sub.Payments[0].PaidAt)

	// A pending entry does not move any state
	assert.False(t, sub.RegistrationPaid)
	assert.Equal(t, SubscriptionStatusPending, sub.Status)

	// The same order reference cannot be logged twice
	assert.ErrorIs(t,
		sub.AddPendingOrder(PaymentTypeRegistration, sub.RegistrationFee, "order_reg1", now),
		ErrPaymentAlreadyRecorded)
}

func TestCompleteRegistrationPayment(t *testing.T) {
	now := time.Now()
	sub, err := NewSellerSubscription(primitive.NewObjectID(), SubscriptionTypeRegular, now)
	require.NoError(t, err)
	require.NoError(t, sub.AddPendingOrder(PaymentTypeRegistration, sub.RegistrationFee, "order_reg1", now))

	err = sub.CompletePayment(PaymentTypeRegistration, "order_reg1", "pay_reg1", "sig_reg1", now)
	require.NoError(t, err)

	assert.True(t, sub.RegistrationPaid)
	assert.Equal(t, "pay_reg1", sub.RegistrationPaymentID)
	// Registration alone does not activate recurring billing
	assert.Equal(t, SubscriptionStatusPending, sub.Status)
	assert.Nil(t, sub.NextPaymentDate)

	require.Len(t, sub.Payments, 1)
	assert.Equal(t, PaymentStatusCompleted, sub.Payments[0].Status)
	require.NotNil(t, sub.Payments[0].PaidAt)
}

func TestCompleteMonthlyPaymentActivates(t *testing.T) {
	now := time.Date(2026, time.January, 15, 10, 0, 0, 0, time.UTC)
	sub, err := NewSellerSubscription(primitive.NewObjectID(), SubscriptionTypeEarlyBird, now)
	require.NoError(t, err)
	require.NoError(t, sub.AddPendingOrder(PaymentTypeMonthly, sub.MonthlyFee, "order_m1", now))

	err = sub.CompletePayment(PaymentTypeMonthly, "order_m1", "pay_m1", "sig_m1", now)
	require.NoError(t, err)

	assert.Equal(t, SubscriptionStatusActive, sub.Status)
	require.NotNil(t, sub.NextPaymentDate)
	assert.Equal(t, time.Date(2026, time.February, 15, 10, 0, 0, 0, time.UTC), *sub.NextPaymentDate)
}

func TestCompletePaymentRejectsCrossTypeReferences(t *testing.T) {
	now := time.Now()
	sub, err := NewSellerSubscription(primitive.NewObjectID(), SubscriptionTypeEarlyBird, now)
	require.NoError(t, err)

	// Pay the 50-unit registration fee
	require.NoError(t, sub.AddPendingOrder(PaymentTypeRegistration, sub.RegistrationFee, "order_1", now))
	require.NoError(t, sub.CompletePayment(PaymentTypeRegistration, "order_1", "pay_1", "sig_1", now))

	// Presenting the same references as a monthly payment must not
	// activate the subscription
	err = sub.CompletePayment(PaymentTypeMonthly, "order_1", "pay_1", "sig_1", now)
	assert.ErrorIs(t, err, ErrPaymentAlreadyRecorded)
	assert.Equal(t, SubscriptionStatusPending, sub.Status)
	assert.Nil(t, sub.NextPaymentDate)
	assert.Len(t, sub.Payments, 1)
}

func TestCompletePaymentRejectsReplay(t *testing.T) {
	now := time.Date(2026, time.January, 15, 10, 0, 0, 0, time.UTC)
	sub, err := NewSellerSubscription(primitive.NewObjectID(), SubscriptionTypeEarlyBird, now)
	require.NoError(t, err)
	require.NoError(t, sub.AddPendingOrder(PaymentTypeMonthly, sub.MonthlyFee, "order_m1", now))
	require.NoError(t, sub.CompletePayment(PaymentTypeMonthly, "order_m1", "pay_m1", "sig_m1", now))

	firstDue := *sub.NextPaymentDate

	// Replaying the settled references a month later must not extend the
	// paid-up period
	later := now.AddDate(0, 1, 0)
	err = sub.CompletePayment(PaymentTypeMonthly, "order_m1", "pay_m1", "sig_m1", later)
	assert.ErrorIs(t, err, ErrPaymentAlreadyRecorded)
	assert.Equal(t, firstDue, *sub.NextPaymentDate)
	assert.Len(t, sub.Payments, 1)
}

func TestCompletePaymentUnknownOrder(t *testing.T) {
	now := time.Now()
	sub, err := NewSellerSubscription(primitive.NewObjectID(), SubscriptionTypeRegular, now)
	require.NoError(t, err)

	// No pending order was ever created for this reference
	err = sub.CompletePayment(PaymentTypeMonthly, "order_forged", "pay_forged", "sig", now)
	assert.ErrorIs(t, err, ErrUnknownPaymentOrder)
	assert.Equal(t, SubscriptionStatusPending, sub.Status)
	assert.Empty(t, sub.Payments)
}

func TestActivateIgnoresPreviousDueDate(t *testing.T) {
	sub := &SellerSubscription{Status: SubscriptionStatusSuspended}
	stale := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	sub.NextPaymentDate = &stale

	// Paying two months late schedules one month from payment time, not
	// from the old due date.
	paidAt := time.Date(2026, time.May, 10, 12, 0, 0, 0, time.UTC)
	sub.Activate(paidAt)

	assert.Equal(t, SubscriptionStatusActive, sub.Status)
	assert.Equal(t, time.Date(2026, time.June, 10, 12, 0, 0, 0, time.UTC), *sub.NextPaymentDate)
}

func TestCancel(t *testing.T) {
	now := time.Now()
	sub, err := NewSellerSubscription(primitive.NewObjectID(), SubscriptionTypeRegular, now)
	require.NoError(t, err)

	require.NoError(t, sub.Cancel(now))
	assert.Equal(t, SubscriptionStatusCancelled, sub.Status)
	require.NotNil(t, sub.CancelledAt)

	// Cancelled is terminal
	assert.ErrorIs(t, sub.Cancel(now), ErrSubscriptionCancelled)
	assert.ErrorIs(t, sub.AddPendingOrder(PaymentTypeMonthly, sub.MonthlyFee, "order_x", now),
		ErrSubscriptionCancelled)
	assert.ErrorIs(t, sub.CompletePayment(PaymentTypeMonthly, "order_x", "pay_x", "sig", now),
		ErrSubscriptionCancelled)
}

func TestIsOverdue(t *testing.T) {
	due := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)
	grace := 3 * 24 * time.Hour

	sub := &SellerSubscription{Status: SubscriptionStatusActive, NextPaymentDate: &due}

	assert.False(t, sub.IsOverdue(due.Add(24*time.Hour), grace))
	assert.False(t, sub.IsOverdue(due.Add(grace), grace))
	assert.True(t, sub.IsOverdue(due.Add(grace+time.Minute), grace))

	// Only active subscriptions go overdue
	sub.Status = SubscriptionStatusPending
	assert.False(t, sub.IsOverdue(due.Add(30*24*time.Hour), grace))

	sub.Status = SubscriptionStatusActive
	sub.NextPaymentDate = nil
	assert.False(t, sub.IsOverdue(due.Add(30*24*time.Hour), grace))
}

func TestCompletedPayments(t *testing.T) {
	now := time.Now()
	sub, err := NewSellerSubscription(primitive.NewObjectID(), SubscriptionTypeEarlyBird, now)
	require.NoError(t, err)

	require.NoError(t, sub.AddPendingOrder(PaymentTypeRegistration, sub.RegistrationFee, "order_1", now))
	require.NoError(t, sub.CompletePayment(PaymentTypeRegistration, "order_1", "pay_1", "sig_1", now))
	require.NoError(t, sub.AddPendingOrder(PaymentTypeMonthly, sub.MonthlyFee, "order_2", now))
	require.NoError(t, sub.AddPendingOrder(PaymentTypeMonthly, sub.MonthlyFee, "order_3", now))
	require.NoError(t, sub.CompletePayment(PaymentTypeMonthly, "order_3", "pay_3", "sig_3", now))

	monthly := sub.CompletedPayments(PaymentTypeMonthly)
	require.Len(t, monthly, 1)
	assert.Equal(t, "pay_3", monthly[0].PaymentID)

	registration := sub.CompletedPayments(PaymentTypeRegistration)
	require.Len(t, registration, 1)
	assert.Equal(t, "pay_1", registration[0].PaymentID)
}
