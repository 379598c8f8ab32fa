package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/nomanqadri34/vcx-mart-sub003/controllers"
	"github.com/nomanqadri34/vcx-mart-sub003/middleware"
	"github.com/nomanqadri34/vcx-mart-sub003/services"
)

// RegisterCartRoutes sets up the cart and checkout routes
func RegisterCartRoutes(e *echo.Echo, db *mongo.Client) {
	cartController := controllers.NewCartController(db)
	orderController := controllers.NewOrderController(db, services.NewRazorpayService())

	cart := e.Group("/api/v1/cart")
	cart.Use(middleware.JWTMiddleware())

	cart.GET("", cartController.GetCart)
	cart.POST("/items", cartController.AddItem)
	cart.PUT("/items/:productId", cartController.UpdateItem)
	cart.DELETE("/items/:productId", cartController.RemoveItem)
	cart.POST("/checkout", orderController.Checkout)

	orders := e.Group("/api/v1/orders")
	orders.Use(middleware.JWTMiddleware())

	orders.GET("", orderController.GetOrders)
	orders.GET("/:id", orderController.GetOrder)
	orders.POST("/verify-payment", orderController.VerifyOrderPayment)
}
