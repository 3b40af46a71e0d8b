package handler

import (
	"encoding/json"
	"net/http"

	"github.com/oldcrow/westeros/internal/auth"
	"github.com/oldcrow/westeros/internal/repository"
	"github.com/oldcrow/westeros/pkg/westeros"
)

// MessageHandler handles in-game messaging endpoints.
type MessageHandler struct {
	messageRepo repository.MessageRepository
	cache       repository.GameCache
	hub         *Hub
}

// NewMessageHandler creates a MessageHandler.
func NewMessageHandler(messageRepo repository.MessageRepository, cache repository.GameCache, hub *Hub) *MessageHandler {
	return &MessageHandler{messageRepo: messageRepo, cache: cache, hub: hub}
}

// ListMessages handles GET /api/v1/games/{id}/messages
func (h *MessageHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	userID := auth.UserIDFromContext(r.Context())
	messages, err := h.messageRepo.ListByGame(r.Context(), gameID, userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if messages == nil {
		writeJSON(w, http.StatusOK, []struct{}{})
		return
	}
	writeJSON(w, http.StatusOK, messages)
}

// SendMessage handles POST /api/v1/games/{id}/messages
func (h *MessageHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	userID := auth.UserIDFromContext(r.Context())

	var req struct {
		RecipientID string `json:"recipient_id,omitempty"`
		Content     string `json:"content"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Content == "" {
		writeError(w, http.StatusBadRequest, "content is required")
		return
	}

	// Tag the message with the current round for context.
	round := 0
	if stateJSON, err := h.cache.GetGameState(r.Context(), gameID); err == nil && stateJSON != nil {
		var gs westeros.GameState
		if err := json.Unmarshal(stateJSON, &gs); err == nil {
			round = gs.Round
		}
	}

	msg, err := h.messageRepo.Create(r.Context(), gameID, userID, req.RecipientID, req.Content, round)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// Broadcast: private messages go to recipient only, public to the game
	event := WSEvent{Type: EventMessage, GameID: gameID, Data: msg}
	if req.RecipientID != "" {
		h.hub.BroadcastToUser(req.RecipientID, event)
		h.hub.BroadcastToUser(userID, event) // also to sender
	} else {
		h.hub.BroadcastToGame(gameID, event)
	}

	writeJSON(w, http.StatusCreated, msg)
}
