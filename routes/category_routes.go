package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/nomanqadri34/vcx-mart-sub003/controllers"
	"github.com/nomanqadri34/vcx-mart-sub003/middleware"
	"github.com/nomanqadri34/vcx-mart-sub003/models"
)

// RegisterCategoryRoutes sets up the catalog category routes
func RegisterCategoryRoutes(e *echo.Echo, db *mongo.Client) {
	categoryController := controllers.NewCategoryController(db)

	// Public storefront tree
	e.GET("/api/v1/categories/tree", categoryController.GetCategoryTree)

	admin := e.Group("/api/v1/admin/categories")
	admin.Use(middleware.JWTMiddleware())
	admin.Use(middleware.RequireRole(models.RoleAdmin))

	admin.GET("", categoryController.GetCategories)
	admin.POST("", categoryController.CreateCategory)
	admin.PUT("/:id", categoryController.UpdateCategory)
	admin.POST("/:id/image", categoryController.UploadCategoryImage)
	admin.DELETE("/:id", categoryController.DeleteCategory)
}
