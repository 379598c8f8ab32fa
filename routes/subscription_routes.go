package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/nomanqadri34/vcx-mart-sub003/controllers"
	"github.com/nomanqadri34/vcx-mart-sub003/middleware"
	"github.com/nomanqadri34/vcx-mart-sub003/services"
)

// RegisterSubscriptionRoutes sets up seller subscription billing routes
func RegisterSubscriptionRoutes(e *echo.Echo, db *mongo.Client) {
	subscriptionController := controllers.NewSubscriptionController(db, services.NewRazorpayService())

	subscription := e.Group("/api/v1/subscription")
	subscription.Use(middleware.JWTMiddleware())

	subscription.POST("", subscriptionController.CreateSubscription)
	subscription.GET("/status", subscriptionController.GetSubscriptionStatus)
	subscription.DELETE("", subscriptionController.CancelSubscription)

	subscription.POST("/registration/order", subscriptionController.CreateRegistrationOrder)
	subscription.POST("/registration/verify", subscriptionController.VerifyRegistrationPayment)
	subscription.POST("/monthly/order", subscriptionController.CreateMonthlyOrder)
	subscription.POST("/monthly/verify", subscriptionController.VerifyMonthlyPayment)
}
