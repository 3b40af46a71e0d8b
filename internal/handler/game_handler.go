package handler

import (
	"errors"
	"net/http"

	"github.com/oldcrow/westeros/internal/auth"
	"github.com/oldcrow/westeros/internal/service"
)

// GameHandler handles game lifecycle endpoints.
type GameHandler struct {
	gameSvc *service.GameService
	planSvc *service.PlanService
	wsHub   *Hub
}

// NewGameHandler creates a GameHandler.
func NewGameHandler(gameSvc *service.GameService, planSvc *service.PlanService, wsHub *Hub) *GameHandler {
	return &GameHandler{gameSvc: gameSvc, planSvc: planSvc, wsHub: wsHub}
}

// CreateGame handles POST /api/v1/games
func (h *GameHandler) CreateGame(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	var req struct {
		Name         string `json:"name"`
		PlayerCount  int    `json:"player_count"`
		TurnDuration string `json:"turn_duration,omitempty"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	game, err := h.gameSvc.CreateGame(r.Context(), req.Name, userID, req.PlayerCount, req.TurnDuration)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrInvalidSeats) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, game)
}

// ListGames handles GET /api/v1/games
func (h *GameHandler) ListGames(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	filter := r.URL.Query().Get("filter")
	games, err := h.gameSvc.ListGames(r.Context(), userID, filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if games == nil {
		writeJSON(w, http.StatusOK, []struct{}{})
		return
	}
	writeJSON(w, http.StatusOK, games)
}

// GetGame handles GET /api/v1/games/{id}
func (h *GameHandler) GetGame(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	game, err := h.gameSvc.GetGame(r.Context(), gameID)
	if err != nil {
		if errors.Is(err, service.ErrGameNotFound) {
			writeError(w, http.StatusNotFound, "game not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if game.Status == "active" {
		if count, err := h.planSvc.ReadyCount(r.Context(), gameID); err == nil {
			game.ReadyCount = count
		}
	}

	writeJSON(w, http.StatusOK, game)
}

// JoinGame handles POST /api/v1/games/{id}/join
func (h *GameHandler) JoinGame(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	userID := auth.UserIDFromContext(r.Context())

	if err := h.gameSvc.JoinGame(r.Context(), gameID, userID); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrGameNotFound) {
			status = http.StatusNotFound
		} else if errors.Is(err, service.ErrGameFull) || errors.Is(err, service.ErrGameNotWaiting) || errors.Is(err, service.ErrAlreadyJoined) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "joined"})
}

// StartGame handles POST /api/v1/games/{id}/start
func (h *GameHandler) StartGame(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	userID := auth.UserIDFromContext(r.Context())

	game, err := h.gameSvc.StartGame(r.Context(), gameID, userID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrGameNotFound) {
			status = http.StatusNotFound
		} else if errors.Is(err, service.ErrNotCreator) || errors.Is(err, service.ErrNotEnough) || errors.Is(err, service.ErrGameNotWaiting) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, game)
}

// DeleteGame handles DELETE /api/v1/games/{id}
func (h *GameHandler) DeleteGame(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	userID := auth.UserIDFromContext(r.Context())

	if err := h.gameSvc.DeleteGame(r.Context(), gameID, userID); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrGameNotFound) {
			status = http.StatusNotFound
		} else if errors.Is(err, service.ErrGameNotWaiting) {
			status = http.StatusBadRequest
		} else if errors.Is(err, service.ErrNotCreator) {
			status = http.StatusForbidden
		}
		writeError(w, status, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// StopGame handles POST /api/v1/games/{id}/stop
func (h *GameHandler) StopGame(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	userID := auth.UserIDFromContext(r.Context())

	game, err := h.gameSvc.StopGame(r.Context(), gameID, userID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrGameNotFound) {
			status = http.StatusNotFound
		} else if errors.Is(err, service.ErrGameNotActive) {
			status = http.StatusBadRequest
		} else if errors.Is(err, service.ErrNotCreator) {
			status = http.StatusForbidden
		}
		writeError(w, status, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, game)
}
