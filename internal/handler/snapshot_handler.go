package handler

import (
	"net/http"

	"github.com/oldcrow/westeros/internal/repository"
)

// SnapshotHandler serves the persisted state history of a game.
type SnapshotHandler struct {
	snapRepo repository.SnapshotRepository
}

// NewSnapshotHandler creates a SnapshotHandler.
func NewSnapshotHandler(snapRepo repository.SnapshotRepository) *SnapshotHandler {
	return &SnapshotHandler{snapRepo: snapRepo}
}

// ListSnapshots handles GET /api/v1/games/{id}/snapshots
func (h *SnapshotHandler) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	snaps, err := h.snapRepo.ListByGame(r.Context(), gameID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if snaps == nil {
		writeJSON(w, http.StatusOK, []struct{}{})
		return
	}
	writeJSON(w, http.StatusOK, snaps)
}

// LatestSnapshot handles GET /api/v1/games/{id}/snapshots/latest
func (h *SnapshotHandler) LatestSnapshot(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	snap, err := h.snapRepo.Latest(r.Context(), gameID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if snap == nil {
		writeError(w, http.StatusNotFound, "no snapshots")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}
