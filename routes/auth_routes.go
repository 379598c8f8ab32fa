package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/nomanqadri34/vcx-mart-sub003/controllers"
	"github.com/nomanqadri34/vcx-mart-sub003/middleware"
)

// RegisterAuthRoutes sets up registration, login and session routes
func RegisterAuthRoutes(e *echo.Echo, db *mongo.Client) {
	authController := controllers.NewAuthController(db)

	auth := e.Group("/api/v1/auth")
	auth.POST("/register", authController.Register)
	auth.POST("/login", authController.Login)

	session := e.Group("/api/v1/auth")
	session.Use(middleware.JWTMiddleware())
	session.POST("/logout", authController.Logout)
	session.GET("/me", authController.Me)
}
