package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/nomanqadri34/vcx-mart-sub003/controllers"
	"github.com/nomanqadri34/vcx-mart-sub003/middleware"
	"github.com/nomanqadri34/vcx-mart-sub003/models"
)

// RegisterProductRoutes sets up the product catalog routes
func RegisterProductRoutes(e *echo.Echo, db *mongo.Client) {
	productController := controllers.NewProductController(db)

	// Public storefront
	e.GET("/api/v1/products", productController.GetProducts)
	e.GET("/api/v1/products/:id", productController.GetProduct)

	seller := e.Group("/api/v1/seller/products")
	seller.Use(middleware.JWTMiddleware())
	seller.Use(middleware.RequireRole(models.RoleSeller, models.RoleAdmin))

	seller.GET("", productController.GetMyProducts)
	seller.POST("", productController.CreateProduct)
	seller.PUT("/:id", productController.UpdateProduct)
	seller.POST("/:id/image", productController.UploadProductImage)
	seller.DELETE("/:id", productController.DeleteProduct)
}
