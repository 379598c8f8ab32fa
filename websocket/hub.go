package websocket

import (
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification types pushed to dashboards
const (
	NotificationTypeApplicationSubmitted       = "application_submitted"
	NotificationTypeApplicationApproved        = "application_approved"
	NotificationTypeApplicationRejected        = "application_rejected"
	NotificationTypeApplicationRequiresChanges = "application_requires_changes"
)

// Notification represents a message sent over WebSocket
type Notification struct {
	Type    string      `json:"type"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	UserID  string      `json:"userID,omitempty"`
}

// Client represents a connected WebSocket client
type Client struct {
	UserID primitive.ObjectID
	Role   string
	Conn   *websocket.Conn
}

// Hub maintains the set of active clients and broadcasts messages
type Hub struct {
	clients    map[primitive.ObjectID]*Client
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[primitive.ObjectID]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = client
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.UserID]; ok {
				delete(h.clients, client.UserID)
			}
			client.Conn.Close()
			h.mu.Unlock()
		}
	}
}

// SendToUser sends a message to a specific user
func (h *Hub) SendToUser(userID primitive.ObjectID, notification Notification) error {
	h.mu.RLock()
	client, ok := h.clients[userID]
	h.mu.RUnlock()

	if !ok {
		return fmt.Errorf("user not connected")
	}

	return client.Conn.WriteJSON(notification)
}

// BroadcastToRole sends a message to every connected client with the role
func (h *Hub) BroadcastToRole(role string, notification Notification) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients {
		if client.Role == role {
			client.Conn.WriteJSON(notification)
		}
	}
}

// NotifyApplicationSubmitted pushes a new-application event to connected
// admin dashboards.
func (h *Hub) NotifyApplicationSubmitted(applicationData interface{}) {
	h.BroadcastToRole("admin", Notification{
		Type:    NotificationTypeApplicationSubmitted,
		Message: "New seller application submitted",
		Data:    applicationData,
	})
}

// NotifyApplicationDecision pushes a review decision to the owning seller.
func (h *Hub) NotifyApplicationDecision(userID primitive.ObjectID, notificationType, message string, data interface{}) error {
	return h.SendToUser(userID, Notification{
		Type:    notificationType,
		Message: message,
		Data:    data,
		UserID:  userID.Hex(),
	})
}
