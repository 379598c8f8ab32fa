package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/nomanqadri34/vcx-mart-sub003/controllers"
	"github.com/nomanqadri34/vcx-mart-sub003/middleware"
	"github.com/nomanqadri34/vcx-mart-sub003/models"
	"github.com/nomanqadri34/vcx-mart-sub003/services"
	"github.com/nomanqadri34/vcx-mart-sub003/websocket"
)

// RegisterAdminRoutes sets up the admin review queue routes
func RegisterAdminRoutes(e *echo.Echo, db *mongo.Client, hub *websocket.Hub) {
	adminSellerController := controllers.NewAdminSellerController(db, hub)
	subscriptionController := controllers.NewSubscriptionController(db, services.NewRazorpayService())

	admin := e.Group("/api/v1/admin")
	admin.Use(middleware.JWTMiddleware())
	admin.Use(middleware.RequireRole(models.RoleAdmin))

	admin.GET("/applications", adminSellerController.GetApplications)
	admin.GET("/applications/stats", adminSellerController.GetApplicationStats)
	admin.GET("/applications/:id", adminSellerController.GetApplication)
	admin.POST("/applications/:id/review", adminSellerController.StartReview)
	admin.POST("/applications/:id/approve", adminSellerController.Approve)
	admin.POST("/applications/:id/reject", adminSellerController.Reject)
	admin.POST("/applications/:id/require-changes", adminSellerController.RequireChanges)

	admin.GET("/subscriptions/:userId", subscriptionController.GetSubscriptionStatusByID)
}
