package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newPendingApplication() *SellerApplication {
	return &SellerApplication{
		ID:           primitive.NewObjectID(),
		UserID:       primitive.NewObjectID(),
		BusinessName: "Acme Traders",
		Status:       ApplicationStatusPending,
		SubmittedAt:  time.Now(),
		Version:      1,
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from    string
		to      string
		allowed bool
	}{
		{ApplicationStatusPending, ApplicationStatusUnderReview, true},
		{ApplicationStatusPending, ApplicationStatusApproved, true},
		{ApplicationStatusPending, ApplicationStatusRejected, true},
		{ApplicationStatusPending, ApplicationStatusRequiresChanges, true},
		{ApplicationStatusUnderReview, ApplicationStatusApproved, true},
		{ApplicationStatusUnderReview, ApplicationStatusRejected, true},
		{ApplicationStatusUnderReview, ApplicationStatusRequiresChanges, true},
		{ApplicationStatusUnderReview, ApplicationStatusPending, false},
		{ApplicationStatusRequiresChanges, ApplicationStatusPending, true},
		{ApplicationStatusRequiresChanges, ApplicationStatusApproved, false},
		{ApplicationStatusApproved, ApplicationStatusRejected, false},
		{ApplicationStatusApproved, ApplicationStatusPending, false},
		{ApplicationStatusRejected, ApplicationStatusPending, false},
		{ApplicationStatusRejected, ApplicationStatusApproved, false},
	}

	for _, tt := range tests {
		app := &SellerApplication{Status: tt.from}
		assert.Equal(t, tt.allowed, app.CanTransition(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestApproveSetsReviewMetadata(t *testing.T) {
	app := newPendingApplication()
	adminID := primitive.NewObjectID()
	now := time.Now()

	err := app.Approve(adminID, "looks good", now)
	require.NoError(t, err)

	assert.Equal(t, ApplicationStatusApproved, app.Status)
	require.NotNil(t, app.ReviewedAt)
	assert.Equal(t, now, *app.ReviewedAt)
	require.NotNil(t, app.Reviewer)
	assert.Equal(t, adminID, *app.Reviewer)
	assert.Equal(t, "looks good", app.ReviewNotes)
}

func TestApproveTwiceFails(t *testing.T) {
	app := newPendingApplication()
	adminID := primitive.NewObjectID()
	now := time.Now()
	require.NoError(t, app.Approve(adminID, "", now))

	other := primitive.NewObjectID()
	err := app.Approve(other, "again", now.Add(time.Minute))

	var transitionErr *InvalidTransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, ApplicationStatusApproved, transitionErr.From)

	// The failed call must not mutate the record
	assert.Equal(t, adminID, *app.Reviewer)
	assert.Equal(t, now, *app.ReviewedAt)
}

func TestRejectRequiresReason(t *testing.T) {
	for _, reason := range []string{"", "   ", "\t\n"} {
		app := newPendingApplication()
		err := app.Reject(primitive.NewObjectID(), reason, "", time.Now())
		assert.ErrorIs(t, err, ErrEmptyRejectionReason)
		assert.Equal(t, ApplicationStatusPending, app.Status)
		assert.Nil(t, app.ReviewedAt)
	}
}

func TestReject(t *testing.T) {
	app := newPendingApplication()
	adminID := primitive.NewObjectID()
	now := time.Now()

	err := app.Reject(adminID, "incomplete bank details", "checked twice", now)
	require.NoError(t, err)

	assert.Equal(t, ApplicationStatusRejected, app.Status)
	assert.Equal(t, "incomplete bank details", app.RejectionReason)
	assert.Equal(t, "checked twice", app.ReviewNotes)
	require.NotNil(t, app.ReviewedAt)
	require.NotNil(t, app.Reviewer)
}

func TestStartReview(t *testing.T) {
	app := newPendingApplication()
	adminID := primitive.NewObjectID()

	require.NoError(t, app.StartReview(adminID))
	assert.Equal(t, ApplicationStatusUnderReview, app.Status)
	require.NotNil(t, app.Reviewer)
	assert.Equal(t, adminID, *app.Reviewer)
	assert.Nil(t, app.ReviewedAt)

	// Claiming an already claimed application fails
	err := app.StartReview(primitive.NewObjectID())
	var transitionErr *InvalidTransitionError
	require.ErrorAs(t, err, &transitionErr)
}

func TestRequireChangesThenResubmit(t *testing.T) {
	app := newPendingApplication()
	adminID := primitive.NewObjectID()
	reviewedAt := time.Now()

	require.NoError(t, app.RequireChanges(adminID, "fix GST number", reviewedAt))
	assert.Equal(t, ApplicationStatusRequiresChanges, app.Status)
	assert.Equal(t, "fix GST number", app.ReviewNotes)

	resubmittedAt := reviewedAt.Add(2 * time.Hour)
	require.NoError(t, app.Resubmit(resubmittedAt))

	assert.Equal(t, ApplicationStatusPending, app.Status)
	assert.Equal(t, resubmittedAt, app.SubmittedAt)
	assert.Nil(t, app.ReviewedAt)
	assert.Nil(t, app.Reviewer)
	assert.Empty(t, app.ReviewNotes)
	assert.Empty(t, app.RejectionReason)
}

func TestSortApplicationsForReview(t *testing.T) {
	base := time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)
	apps := []SellerApplication{
		{BusinessName: "approved-old", Status: ApplicationStatusApproved, SubmittedAt: base},
		{BusinessName: "pending-new", Status: ApplicationStatusPending, SubmittedAt: base.Add(48 * time.Hour)},
		{BusinessName: "rejected", Status: ApplicationStatusRejected, SubmittedAt: base.Add(time.Hour)},
		{BusinessName: "pending-old", Status: ApplicationStatusPending, SubmittedAt: base.Add(time.Hour)},
		{BusinessName: "in-review", Status: ApplicationStatusUnderReview, SubmittedAt: base},
		{BusinessName: "changes", Status: ApplicationStatusRequiresChanges, SubmittedAt: base},
	}

	SortApplicationsForReview(apps)

	got := make([]string, len(apps))
	for i, a := range apps {
		got[i] = a.BusinessName
	}
	assert.Equal(t, []string{
		"pending-old", "pending-new", "in-review", "changes", "approved-old", "rejected",
	}, got)
}

func TestResubmitOnlyFromRequiresChanges(t *testing.T) {
	for _, status := range []string{
		ApplicationStatusPending,
		ApplicationStatusUnderReview,
		ApplicationStatusApproved,
		ApplicationStatusRejected,
	} {
		app := newPendingApplication()
		app.Status = status
		err := app.Resubmit(time.Now())
		assert.Error(t, err, "resubmit from %s should fail", status)
	}
}
