package main

import (
	"log"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/nomanqadri34/vcx-mart-sub003/config"
	"github.com/nomanqadri34/vcx-mart-sub003/controllers"
	"github.com/nomanqadri34/vcx-mart-sub003/middleware"
	"github.com/nomanqadri34/vcx-mart-sub003/routes"
	"github.com/nomanqadri34/vcx-mart-sub003/websocket"
)

// CustomValidator is a custom validator for Echo
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates the request body
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// Connect to Redis
	config.ConnectRedis()
	defer config.CloseRedis()

	// Connect to database
	client := config.ConnectDB()

	// Create WebSocket hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Create a new Echo instance
	e := echo.New()

	// Initialize custom validator
	e.Validator = &CustomValidator{validator: validator.New()}

	// Initialize rate limiter
	rateLimiter := middleware.NewRateLimiter()

	// Middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.Secure())
	e.Use(rateLimiter.RateLimit())
	e.Use(middleware.SecurityHeadersWithConfig(middleware.SecurityConfig{
		AllowedDomains: []string{"*"},
		AllowInlineJS:  true,
	}))

	e.Match([]string{"GET", "HEAD"}, "/", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":  "OK",
			"message": "VCX MART backend is running",
			"version": "1.0",
		})
	})

	e.Match([]string{"GET", "HEAD"}, "/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":   "healthy",
			"database": "connected",
		})
	})

	// Register routes
	routes.RegisterAuthRoutes(e, client)
	routes.RegisterSellerRoutes(e, client, wsHub)
	routes.RegisterAdminRoutes(e, client, wsHub)
	routes.RegisterSubscriptionRoutes(e, client)
	routes.RegisterCategoryRoutes(e, client)
	routes.RegisterProductRoutes(e, client)
	routes.RegisterCartRoutes(e, client)
	routes.RegisterWebSocketRoutes(e, wsHub)

	// Suspend subscriptions that have gone unpaid past the grace period
	go func() {
		for {
			controllers.MarkOverdueSubscriptions(client)
			time.Sleep(1 * time.Hour)
		}
	}()

	// Drop expired entries from the token blacklist
	go middleware.CleanupBlacklist()

	// Ensure uploads directories exist
	os.MkdirAll("uploads", 0755)
	os.MkdirAll("uploads/categories", 0755)
	os.MkdirAll("uploads/products", 0755)
	os.MkdirAll("uploads/thumbnails", 0755)

	e.Static("/uploads", "uploads")

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	e.Logger.Fatal(e.Start(":" + port))
}
