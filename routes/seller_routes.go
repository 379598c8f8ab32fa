package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/nomanqadri34/vcx-mart-sub003/controllers"
	"github.com/nomanqadri34/vcx-mart-sub003/middleware"
	"github.com/nomanqadri34/vcx-mart-sub003/models"
	"github.com/nomanqadri34/vcx-mart-sub003/websocket"
)

// RegisterSellerRoutes sets up the seller onboarding routes
func RegisterSellerRoutes(e *echo.Echo, db *mongo.Client, hub *websocket.Hub) {
	sellerController := controllers.NewSellerController(db, hub)

	seller := e.Group("/api/v1/seller")
	seller.Use(middleware.JWTMiddleware())

	seller.POST("/apply", sellerController.Apply)
	seller.GET("/application", sellerController.GetMyApplication)
	seller.PUT("/application/resubmit", sellerController.Resubmit)
	seller.GET("/onboarding", sellerController.GetOnboarding)

	storefront := e.Group("/api/v1/seller")
	storefront.Use(middleware.JWTMiddleware())
	storefront.Use(middleware.RequireRole(models.RoleSeller, models.RoleAdmin))
	storefront.GET("/storefront/qr", sellerController.GetStorefrontQR)
}
