package api

import (
	"net/http"

	"github.com/tierraquerida/tq-admin/internal/config"
	"github.com/tierraquerida/tq-admin/internal/repository"
)

// ShiftHandler exposes the read-only shift board.
type ShiftHandler struct {
	repo *repository.ShiftRepository
}

func NewShiftHandler(repo *repository.ShiftRepository) *ShiftHandler {
	return &ShiftHandler{repo: repo}
}

func (h *ShiftHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/admin/shifts/active", h.handleActive)
}

func (h *ShiftHandler) handleActive(w http.ResponseWriter, r *http.Request) {
	shifts, err := h.repo.Active(r.Context())
	if err != nil {
		apiLogger.Error().Err(err).Msg("Active shifts failed")
		writeError(w, http.StatusInternalServerError, config.ErrInternalGeneric)
		return
	}
	writeOK(w, map[string]any{"items": shifts})
}
