// models/seller_application.go
package models

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Seller application statuses
const (
	ApplicationStatusPending         = "pending"
	ApplicationStatusUnderReview     = "under_review"
	ApplicationStatusApproved        = "approved"
	ApplicationStatusRejected        = "rejected"
	ApplicationStatusRequiresChanges = "requires_changes"
)

var (
	ErrEmptyRejectionReason = errors.New("rejection reason is required")
	ErrAlreadyReviewed      = errors.New("application has already been reviewed")
)

// InvalidTransitionError is returned when a status transition is not allowed
// from the application's current status.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition application from %s to %s", e.From, e.To)
}

// allowedTransitions defines every legal status edge. approved and rejected
// are terminal; requires_changes can only go back to pending via Resubmit.
var allowedTransitions = map[string]map[string]bool{
	ApplicationStatusPending: {
		ApplicationStatusUnderReview:     true,
		ApplicationStatusApproved:        true,
		ApplicationStatusRejected:        true,
		ApplicationStatusRequiresChanges: true,
	},
	ApplicationStatusUnderReview: {
		ApplicationStatusApproved:        true,
		ApplicationStatusRejected:        true,
		ApplicationStatusRequiresChanges: true,
	},
	ApplicationStatusRequiresChanges: {
		ApplicationStatusPending: true,
	},
}

// SellerApplication is the record a prospective seller submits for admin
// review. It lives in its own collection keyed by userId rather than being
// embedded on the user document.
type SellerApplication struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID        primitive.ObjectID `json:"userId" bson:"userId"`
	ApplicationID string             `json:"applicationId" bson:"applicationId"`
	Status        string             `json:"status" bson:"status"`

	BusinessName        string `json:"businessName" bson:"businessName"`
	BusinessType        string `json:"businessType" bson:"businessType"`
	BusinessCategory    string `json:"businessCategory" bson:"businessCategory"`
	BusinessDescription string `json:"businessDescription" bson:"businessDescription"`
	BusinessAddress     string `json:"businessAddress" bson:"businessAddress"`
	BusinessEmail       string `json:"businessEmail" bson:"businessEmail"`
	BusinessPhone       string `json:"businessPhone" bson:"businessPhone"`
	City                string `json:"city" bson:"city"`
	State               string `json:"state" bson:"state"`
	Pincode             string `json:"pincode" bson:"pincode"`

	PanNumber         string `json:"panNumber,omitempty" bson:"panNumber,omitempty"`
	GstNumber         string `json:"gstNumber,omitempty" bson:"gstNumber,omitempty"`
	BankAccountNumber string `json:"bankAccountNumber" bson:"bankAccountNumber"`
	BankName          string `json:"bankName" bson:"bankName"`
	BankIFSC          string `json:"bankIFSC" bson:"bankIFSC"`
	AccountHolderName string `json:"accountHolderName" bson:"accountHolderName"`

	SubmittedAt     time.Time           `json:"submittedAt" bson:"submittedAt"`
	ReviewedAt      *time.Time          `json:"reviewedAt,omitempty" bson:"reviewedAt,omitempty"`
	Reviewer        *primitive.ObjectID `json:"reviewer,omitempty" bson:"reviewer,omitempty"`
	ReviewNotes     string              `json:"reviewNotes,omitempty" bson:"reviewNotes,omitempty"`
	RejectionReason string              `json:"rejectionReason,omitempty" bson:"rejectionReason,omitempty"`

	// Version guards review transitions against concurrent admin updates.
	Version   int64     `json:"version" bson:"version"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// statusQueueRank orders the admin review queue: actionable work first,
// settled applications last.
var statusQueueRank = map[string]int{
	ApplicationStatusPending:         0,
	ApplicationStatusUnderReview:     1,
	ApplicationStatusRequiresChanges: 2,
	ApplicationStatusApproved:        3,
	ApplicationStatusRejected:        4,
}

// SortApplicationsForReview orders applications pending first, then by
// submission time within each status.
func SortApplicationsForReview(applications []SellerApplication) {
	sort.SliceStable(applications, func(i, j int) bool {
		ri, rj := statusQueueRank[applications[i].Status], statusQueueRank[applications[j].Status]
		if ri != rj {
			return ri < rj
		}
		return applications[i].SubmittedAt.Before(applications[j].SubmittedAt)
	})
}

// CanTransition reports whether moving from the current status to the given
// one is a legal edge.
func (a *SellerApplication) CanTransition(to string) bool {
	return allowedTransitions[a.Status][to]
}

func (a *SellerApplication) transition(to string) error {
	if !a.CanTransition(to) {
		return &InvalidTransitionError{From: a.Status, To: to}
	}
	a.Status = to
	return nil
}

// StartReview moves a pending application under review.
func (a *SellerApplication) StartReview(adminID primitive.ObjectID) error {
	if err := a.transition(ApplicationStatusUnderReview); err != nil {
		return err
	}
	a.Reviewer = &adminID
	return nil
}

// Approve finalizes the review. ReviewedAt and Reviewer are always set
// together.
func (a *SellerApplication) Approve(adminID primitive.ObjectID, notes string, now time.Time) error {
	if err := a.transition(ApplicationStatusApproved); err != nil {
		return err
	}
	a.ReviewedAt = &now
	a.Reviewer = &adminID
	a.ReviewNotes = notes
	return nil
}

// Reject finalizes the review with a mandatory reason.
func (a *SellerApplication) Reject(adminID primitive.ObjectID, reason, notes string, now time.Time) error {
	if strings.TrimSpace(reason) == "" {
		return ErrEmptyRejectionReason
	}
	if err := a.transition(ApplicationStatusRejected); err != nil {
		return err
	}
	a.ReviewedAt = &now
	a.Reviewer = &adminID
	a.RejectionReason = reason
	a.ReviewNotes = notes
	return nil
}

// RequireChanges sends the application back to the seller for edits.
func (a *SellerApplication) RequireChanges(adminID primitive.ObjectID, notes string, now time.Time) error {
	if err := a.transition(ApplicationStatusRequiresChanges); err != nil {
		return err
	}
	a.ReviewedAt = &now
	a.Reviewer = &adminID
	a.ReviewNotes = notes
	return nil
}

// Resubmit returns a requires_changes application to the review queue and
// clears the previous review metadata.
func (a *SellerApplication) Resubmit(now time.Time) error {
	if err := a.transition(ApplicationStatusPending); err != nil {
		return err
	}
	a.SubmittedAt = now
	a.ReviewedAt = nil
	a.Reviewer = nil
	a.ReviewNotes = ""
	a.RejectionReason = ""
	return nil
}

// SellerApplicationRequest is the submission payload
type SellerApplicationRequest struct {
	BusinessName        string `json:"businessName" validate:"required"`
	BusinessType        string `json:"businessType" validate:"required"`
	BusinessCategory    string `json:"businessCategory" validate:"required"`
	BusinessDescription string `json:"businessDescription" validate:"required"`
	BusinessAddress     string `json:"businessAddress" validate:"required"`
	BusinessEmail       string `json:"businessEmail" validate:"required,email"`
	BusinessPhone       string `json:"businessPhone" validate:"required"`
	City                string `json:"city" validate:"required"`
	State               string `json:"state" validate:"required"`
	Pincode             string `json:"pincode" validate:"required"`
	PanNumber           string `json:"panNumber,omitempty"`
	GstNumber           string `json:"gstNumber,omitempty"`
	BankAccountNumber   string `json:"bankAccountNumber" validate:"required"`
	BankName            string `json:"bankName" validate:"required"`
	BankIFSC            string `json:"bankIFSC" validate:"required"`
	AccountHolderName   string `json:"accountHolderName" validate:"required"`
}

// ReviewRequest is the admin decision payload for approve/require-changes
type ReviewRequest struct {
	Notes string `json:"notes"`
}

// RejectRequest is the admin rejection payload
type RejectRequest struct {
	Reason string `json:"reason" validate:"required"`
	Notes  string `json:"notes"`
}

// ApplicationStats holds aggregate counts by status
type ApplicationStats struct {
	Total           int64 `json:"total"`
	Pending         int64 `json:"pending"`
	UnderReview     int64 `json:"underReview"`
	Approved        int64 `json:"approved"`
	Rejected        int64 `json:"rejected"`
	RequiresChanges int64 `json:"requiresChanges"`
}
