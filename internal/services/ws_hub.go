package services

import (
	"encoding/json"
	"fmt"
	"sync"

	"travel-story-backend/internal/models"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Story event types pushed to the owner's live connection
const (
	EventStoryCreated = "story_created"
	EventStoryUpdated = "story_updated"
	EventStoryDeleted = "story_deleted"
)

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type    string              `json:"type"`
	StoryID string              `json:"story_id,omitempty"`
	Story   *models.TravelStory `json:"story,omitempty"`
	Message string              `json:"message,omitempty"`
}

// Conn is the part of a websocket connection the hub writes to
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

type wsClient struct {
	conn Conn
	// gorilla connections allow a single concurrent writer
	writeMu sync.Mutex
}

// WSHub manages one live WebSocket connection per user
type WSHub struct {
	mu          sync.RWMutex
	connections map[string]*wsClient
}

// NewWSHub creates a new WebSocket hub
func NewWSHub() *WSHub {
	return &WSHub{
		connections: make(map[string]*wsClient),
	}
}

// Register registers a connection for a user, closing any previous one
func (h *WSHub) Register(userID string, conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if existing, exists := h.connections[userID]; exists {
		existing.conn.Close()
	}

	h.connections[userID] = &wsClient{conn: conn}

	log.Info().Str("user_id", userID).Msg("WebSocket connection registered")
}

// Unregister removes the connection of a user if it is still conn
func (h *WSHub) Unregister(userID string, conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if client, exists := h.connections[userID]; exists && client.conn == conn {
		client.conn.Close()
		delete(h.connections, userID)
		log.Info().Str("user_id", userID).Msg("WebSocket connection unregistered")
	}
}

// SendToUser sends a message to a specific user
func (h *WSHub) SendToUser(userID string, message WSMessage) error {
	h.mu.RLock()
	client, exists := h.connections[userID]
	h.mu.RUnlock()

	if !exists {
		return fmt.Errorf("user %s is not connected", userID)
	}

	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	client.writeMu.Lock()
	err = client.conn.WriteMessage(websocket.TextMessage, data)
	client.writeMu.Unlock()
	if err != nil {
		h.Unregister(userID, client.conn)
		return fmt.Errorf("failed to send message: %w", err)
	}

	return nil
}

// IsOnline checks if a user is online
func (h *WSHub) IsOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, exists := h.connections[userID]
	return exists
}

// NotifyStory pushes a story event to the owner if they are connected.
// Delivery is best-effort.
func (h *WSHub) NotifyStory(eventType string, story *models.TravelStory) {
	if story == nil || !h.IsOnline(story.UserID) {
		return
	}

	message := WSMessage{Type: eventType, StoryID: story.ID}
	if eventType != EventStoryDeleted {
		message.Story = story
	}

	if err := h.SendToUser(story.UserID, message); err != nil {
		log.Error().
			Err(err).
			Str("user_id", story.UserID).
			Str("story_id", story.ID).
			Str("type", eventType).
			Msg("Failed to notify story event")
	}
}
