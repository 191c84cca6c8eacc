package handlers

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/fintrackhq/fintrack-be/internal/auth"
	"github.com/fintrackhq/fintrack-be/internal/services"
	ws "github.com/fintrackhq/fintrack-be/internal/websocket"
)

// WebSocketHandler upgrades HTTP connections to the notification stream.
type WebSocketHandler struct {
	hub             *ws.Hub
	notificationSvc services.NotificationServiceProvider
}

// NewWebSocketHandler creates a new WebSocketHandler.
func NewWebSocketHandler(hub *ws.Hub, notificationSvc services.NotificationServiceProvider) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, notificationSvc: notificationSvc}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins (consider tightening this in production).
		return true
	},
}

// Serve handles the WebSocket connection request. It runs behind the JWT
// middleware, so the subscribing user is taken from the request context.
func (h *WebSocketHandler) Serve(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeBadRequest(w, "Could not retrieve user from token")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade websocket connection")
		return
	}

	client := ws.NewClient(h.hub, conn, userID)
	h.hub.Register <- client

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		client.WritePump()
	}()
	go func() {
		defer wg.Done()
		client.ReadPump(h.handleIncomingWSMessage)
	}()

	// Cleanup on disconnect.
	go func() {
		wg.Wait()
		h.hub.Unregister <- client
	}()
}

// handleIncomingWSMessage processes messages received from a websocket client.
func (h *WebSocketHandler) handleIncomingWSMessage(client *ws.Client, message []byte) {
	var msg ws.Message
	if err := json.Unmarshal(message, &msg); err != nil {
		log.Error().Err(err).Bytes("message", message).Msg("Error decoding websocket message")
		return
	}

	switch msg.Action {
	case "mark_read":
		payload, ok := msg.Payload.(map[string]interface{})
		if !ok {
			client.Send <- ws.NewErrorMessage("Invalid payload for mark_read")
			return
		}
		id, ok := payload["id"].(string)
		if !ok || id == "" {
			client.Send <- ws.NewErrorMessage("Invalid or empty notification id")
			return
		}
		if err := h.notificationSvc.MarkRead(client.UserID, id); err != nil {
			client.Send <- ws.NewErrorMessage(err.Error())
		}
	default:
		log.Warn().Str("action", msg.Action).Msg("Unknown websocket action received")
		client.Send <- ws.NewErrorMessage("Unknown action: " + msg.Action)
	}
}
