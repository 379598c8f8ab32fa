// controllers/admin_seller_controller.go
package controllers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nomanqadri34/vcx-mart-sub003/config"
	"github.com/nomanqadri34/vcx-mart-sub003/models"
	"github.com/nomanqadri34/vcx-mart-sub003/repositories"
	"github.com/nomanqadri34/vcx-mart-sub003/utils"
	"github.com/nomanqadri34/vcx-mart-sub003/websocket"
)

// AdminSellerController handles the admin review queue for seller
// applications.
type AdminSellerController struct {
	DB    *mongo.Client
	Users *repositories.UserRepository
	WSHub *websocket.Hub
}

// NewAdminSellerController creates a new admin seller controller
func NewAdminSellerController(db *mongo.Client, wsHub *websocket.Hub) *AdminSellerController {
	return &AdminSellerController{
		DB:    db,
		Users: repositories.NewUserRepository(db),
		WSHub: wsHub,
	}
}

// GetApplications lists applications for the review queue, pending first
// and oldest submissions first within each status. An optional status query
// parameter narrows the list.
func (asc *AdminSellerController) GetApplications(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if status := c.QueryParam("status"); status != "" {
		filter["status"] = status
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "submittedAt", Value: 1}})
	cursor, err := config.GetCollection(asc.DB, "sellerApplications").Find(ctx, filter, findOptions)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch applications",
		})
	}
	defer cursor.Close(ctx)

	applications := []models.SellerApplication{}
	if err := cursor.All(ctx, &applications); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode applications",
		})
	}
	models.SortApplicationsForReview(applications)

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Applications retrieved successfully",
		Data:    applications,
	})
}

// GetApplication returns one application with its subscription state so the
// reviewer sees payment standing alongside the business details.
func (asc *AdminSellerController) GetApplication(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	applicationID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid application ID",
		})
	}

	var application models.SellerApplication
	err = config.GetCollection(asc.DB, "sellerApplications").FindOne(ctx, bson.M{"_id": applicationID}).Decode(&application)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Application not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch application",
		})
	}

	data := map[string]interface{}{"application": application}
	var subscription models.SellerSubscription
	err = config.GetCollection(asc.DB, "sellerSubscriptions").FindOne(ctx, bson.M{"userId": application.UserID}).Decode(&subscription)
	if err == nil {
		data["subscription"] = subscription
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Application retrieved successfully",
		Data:    data,
	})
}

// StartReview claims a pending application for the calling admin
func (asc *AdminSellerController) StartReview(c echo.Context) error {
	return asc.review(c, func(app *models.SellerApplication, adminID primitive.ObjectID, _ time.Time) error {
		return app.StartReview(adminID)
	}, "Application moved under review", nil)
}

// Approve grants the application, promotes the user to seller and notifies
// them by email and WebSocket.
func (asc *AdminSellerController) Approve(c echo.Context) error {
	var req models.ReviewRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	return asc.review(c, func(app *models.SellerApplication, adminID primitive.ObjectID, now time.Time) error {
		return app.Approve(adminID, req.Notes, now)
	}, "Application approved successfully", func(ctx context.Context, app *models.SellerApplication) {
		if err := asc.Users.PromoteToSeller(ctx, app.UserID); err != nil {
			log.Printf("Failed to promote user %s to seller: %v", app.UserID.Hex(), err)
		}
		asc.notifySeller(ctx, app,
			websocket.NotificationTypeApplicationApproved,
			"Your seller application has been approved",
			"Seller Application Approved",
			fmt.Sprintf("Congratulations! Your application %s for %s has been approved. You can now start listing products.",
				app.ApplicationID, app.BusinessName))
	})
}

// Reject denies the application. A reason is mandatory.
func (asc *AdminSellerController) Reject(c echo.Context) error {
	var req models.RejectRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Rejection reason is required",
		})
	}

	return asc.review(c, func(app *models.SellerApplication, adminID primitive.ObjectID, now time.Time) error {
		return app.Reject(adminID, req.Reason, req.Notes, now)
	}, "Application rejected", func(ctx context.Context, app *models.SellerApplication) {
		asc.notifySeller(ctx, app,
			websocket.NotificationTypeApplicationRejected,
			"Your seller application has been rejected",
			"Seller Application Rejected",
			fmt.Sprintf("Your application %s was rejected. Reason: %s", app.ApplicationID, app.RejectionReason))
	})
}

// RequireChanges sends the application back to the seller with notes
func (asc *AdminSellerController) RequireChanges(c echo.Context) error {
	var req models.ReviewRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	return asc.review(c, func(app *models.SellerApplication, adminID primitive.ObjectID, now time.Time) error {
		return app.RequireChanges(adminID, req.Notes, now)
	}, "Application returned for changes", func(ctx context.Context, app *models.SellerApplication) {
		asc.notifySeller(ctx, app,
			websocket.NotificationTypeApplicationRequiresChanges,
			"Your seller application needs changes",
			"Seller Application Needs Changes",
			fmt.Sprintf("Your application %s needs changes before it can be approved. Notes: %s",
				app.ApplicationID, app.ReviewNotes))
	})
}

// review loads the application, applies the transition and persists it with
// a version guard. A lost race returns 409 so the admin retries against
// fresh state.
func (asc *AdminSellerController) review(
	c echo.Context,
	apply func(app *models.SellerApplication, adminID primitive.ObjectID, now time.Time) error,
	successMessage string,
	afterUpdate func(ctx context.Context, app *models.SellerApplication),
) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	adminID, err := utils.GetUserIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID",
		})
	}

	applicationID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid application ID",
		})
	}

	applicationsCollection := config.GetCollection(asc.DB, "sellerApplications")
	var application models.SellerApplication
	err = applicationsCollection.FindOne(ctx, bson.M{"_id": applicationID}).Decode(&application)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Application not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch application",
		})
	}

	now := time.Now()
	if err := apply(&application, adminID, now); err != nil {
		var transitionErr *models.InvalidTransitionError
		if errors.As(err, &transitionErr) {
			return c.JSON(http.StatusConflict, models.Response{
				Status:  http.StatusConflict,
				Message: transitionErr.Error(),
			})
		}
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	set := bson.M{
		"status":    application.Status,
		"reviewer":  application.Reviewer,
		"updatedAt": now,
	}
	if application.ReviewedAt != nil {
		set["reviewedAt"] = application.ReviewedAt
	}
	if application.ReviewNotes != "" {
		set["reviewNotes"] = application.ReviewNotes
	}
	if application.RejectionReason != "" {
		set["rejectionReason"] = application.RejectionReason
	}

	result, err := applicationsCollection.UpdateOne(ctx, bson.M{
		"_id":     application.ID,
		"version": application.Version,
	}, bson.M{
		"$set": set,
		"$inc": bson.M{"version": 1},
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update application",
		})
	}
	if result.MatchedCount == 0 {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "Application was modified concurrently, please retry",
		})
	}

	if afterUpdate != nil {
		afterUpdate(ctx, &application)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: successMessage,
		Data:    application,
	})
}

// notifySeller delivers a review decision over WebSocket and email. Both are
// best effort.
func (asc *AdminSellerController) notifySeller(ctx context.Context, app *models.SellerApplication, wsType, wsMessage, emailSubject, emailBody string) {
	if err := asc.WSHub.NotifyApplicationDecision(app.UserID, wsType, wsMessage, map[string]interface{}{
		"applicationId": app.ApplicationID,
		"status":        app.Status,
	}); err != nil {
		log.Printf("WebSocket notification skipped for user %s: %v", app.UserID.Hex(), err)
	}

	user, err := asc.Users.FindByID(ctx, app.UserID)
	if err != nil {
		log.Printf("Failed to load user %s for email notification: %v", app.UserID.Hex(), err)
		return
	}
	if err := utils.SendEmail(user.Email, emailSubject, emailBody); err != nil {
		log.Printf("Failed to send decision email to %s: %v", user.Email, err)
	}
}

// GetApplicationStats aggregates application counts by status
func (asc *AdminSellerController) GetApplicationStats(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pipeline := []bson.M{
		{"$group": bson.M{
			"_id":   "$status",
			"count": bson.M{"$sum": 1},
		}},
	}
	cursor, err := config.GetCollection(asc.DB, "sellerApplications").Aggregate(ctx, pipeline)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to aggregate application stats",
		})
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Status string `bson:"_id"`
		Count  int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode application stats",
		})
	}

	var stats models.ApplicationStats
	for _, row := range rows {
		stats.Total += row.Count
		switch row.Status {
		case models.ApplicationStatusPending:
			stats.Pending = row.Count
		case models.ApplicationStatusUnderReview:
			stats.UnderReview = row.Count
		case models.ApplicationStatusApproved:
			stats.Approved = row.Count
		case models.ApplicationStatusRejected:
			stats.Rejected = row.Count
		case models.ApplicationStatusRequiresChanges:
			stats.RequiresChanges = row.Count
		}
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Application stats retrieved successfully",
		Data:    stats,
	})
}
