package handler

import (
	"errors"
	"net/http"

	"github.com/oldcrow/westeros/internal/auth"
	"github.com/oldcrow/westeros/internal/service"
	"github.com/oldcrow/westeros/pkg/westeros"
)

// ActionHandler routes player actions into the rules engine.
type ActionHandler struct {
	roundSvc *service.RoundService
}

// NewActionHandler creates an ActionHandler.
func NewActionHandler(roundSvc *service.RoundService) *ActionHandler {
	return &ActionHandler{roundSvc: roundSvc}
}

// ApplyAction handles POST /api/v1/games/{id}/actions
func (h *ActionHandler) ApplyAction(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	userID := auth.UserIDFromContext(r.Context())

	var req service.ActionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Type == "" {
		writeError(w, http.StatusBadRequest, "type is required")
		return
	}

	state, err := h.roundSvc.ApplyAction(r.Context(), gameID, userID, req)
	if err != nil {
		var ruleErr *westeros.RuleError
		if errors.As(err, &ruleErr) {
			writeRuleViolation(w, ruleErr)
			return
		}
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, service.ErrGameNotFound):
			status = http.StatusNotFound
		case errors.Is(err, service.ErrNotInGame), errors.Is(err, service.ErrNotYourTurn):
			status = http.StatusForbidden
		case errors.Is(err, service.ErrGameNotActive), errors.Is(err, service.ErrUnknownAction):
			status = http.StatusBadRequest
		}
		writeError(w, status, err.Error())
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write(state)
}

// GetState handles GET /api/v1/games/{id}/state
func (h *ActionHandler) GetState(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")

	state, err := h.roundSvc.GameState(r.Context(), gameID)
	if err != nil {
		if errors.Is(err, service.ErrNoGameState) {
			writeError(w, http.StatusNotFound, "no game state")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write(state)
}
