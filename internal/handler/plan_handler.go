package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/oldcrow/westeros/internal/auth"
	"github.com/oldcrow/westeros/internal/service"
)

// PlanHandler handles hidden order submission and ready endpoints for
// the Planning phase.
type PlanHandler struct {
	planSvc  *service.PlanService
	roundSvc *service.RoundService
	hub      *Hub
}

// NewPlanHandler creates a PlanHandler.
func NewPlanHandler(planSvc *service.PlanService, roundSvc *service.RoundService, hub *Hub) *PlanHandler {
	return &PlanHandler{planSvc: planSvc, roundSvc: roundSvc, hub: hub}
}

// SubmitPlans handles POST /api/v1/games/{id}/plans
func (h *PlanHandler) SubmitPlans(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	userID := auth.UserIDFromContext(r.Context())

	var req service.PlanSubmission
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.planSvc.SubmitPlans(r.Context(), gameID, userID, req.Plans); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrGameNotFound) {
			status = http.StatusNotFound
		} else if errors.Is(err, service.ErrNotInGame) || errors.Is(err, service.ErrGameNotActive) || errors.Is(err, service.ErrNotPlanning) {
			status = http.StatusBadRequest
		} else if errors.Is(err, service.ErrInvalidPlan) {
			status = http.StatusUnprocessableEntity
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "submitted"})
}

// MarkReady handles POST /api/v1/games/{id}/plans/ready
func (h *PlanHandler) MarkReady(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	userID := auth.UserIDFromContext(r.Context())

	readyCount, totalHouses, err := h.planSvc.MarkReady(r.Context(), gameID, userID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrGameNotFound) {
			status = http.StatusNotFound
		} else if errors.Is(err, service.ErrNotInGame) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err.Error())
		return
	}

	h.hub.BroadcastToGame(gameID, WSEvent{
		Type:   EventPlayerReady,
		GameID: gameID,
		Data: map[string]any{
			"ready_count":  readyCount,
			"total_houses": totalHouses,
		},
	})

	// If all houses are ready, reveal the planning phase early.
	// Use a detached context since the request context is cancelled on
	// handler return.
	if readyCount >= totalHouses {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := h.roundSvc.RevealPlans(ctx, gameID); err != nil {
				log.Error().Err(err).Str("gameId", gameID).Msg("Early planning reveal failed")
			}
		}()
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ready_count":  readyCount,
		"total_houses": totalHouses,
		"all_ready":    readyCount >= totalHouses,
	})
}

// UnmarkReady handles DELETE /api/v1/games/{id}/plans/ready
func (h *PlanHandler) UnmarkReady(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	userID := auth.UserIDFromContext(r.Context())

	readyCount, totalHouses, err := h.planSvc.UnmarkReady(r.Context(), gameID, userID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrGameNotFound) {
			status = http.StatusNotFound
		} else if errors.Is(err, service.ErrNotInGame) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err.Error())
		return
	}

	h.hub.BroadcastToGame(gameID, WSEvent{
		Type:   EventPlayerReady,
		GameID: gameID,
		Data: map[string]any{
			"ready_count":  readyCount,
			"total_houses": totalHouses,
		},
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"ready_count":  readyCount,
		"total_houses": totalHouses,
	})
}
