package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nomanqadri34/vcx-mart-sub003/middleware"
	"github.com/nomanqadri34/vcx-mart-sub003/models"
	"github.com/nomanqadri34/vcx-mart-sub003/websocket"
)

// RegisterWebSocketRoutes sets up the notification stream endpoint
func RegisterWebSocketRoutes(e *echo.Echo, hub *websocket.Hub) {
	ws := e.Group("/api/v1/ws")
	ws.Use(middleware.JWTMiddleware())

	ws.GET("", func(c echo.Context) error {
		userID, err := primitive.ObjectIDFromHex(middleware.GetUserIDFromToken(c))
		if err != nil {
			return c.JSON(http.StatusUnauthorized, models.Response{
				Status:  http.StatusUnauthorized,
				Message: "Invalid token",
			})
		}
		return websocket.HandleWebSocket(c, hub, userID, middleware.ExtractRole(c))
	})
}
