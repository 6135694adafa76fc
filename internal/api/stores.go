package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/tierraquerida/tq-admin/internal/config"
	"github.com/tierraquerida/tq-admin/internal/model"
	"github.com/tierraquerida/tq-admin/internal/repository"
)

// StoreHandler manages the points of sale ("pv" in the URL space).
type StoreHandler struct {
	repo *repository.StoreRepository
}

func NewStoreHandler(repo *repository.StoreRepository) *StoreHandler {
	return &StoreHandler{repo: repo}
}

func (h *StoreHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/admin/pv", h.handleList)
	mux.HandleFunc("GET /api/admin/pv/meta", h.handleMeta)
	mux.HandleFunc("POST /api/admin/pv", h.handleCreate)
	mux.HandleFunc("PUT /api/admin/pv/{id}", h.handleUpdate)
	mux.HandleFunc("DELETE /api/admin/pv/{id}", h.handleDelete)
}

func validateStore(s model.Store) string {
	if strings.TrimSpace(s.Department) == "" {
		return "Departamento es obligatorio"
	}
	if strings.TrimSpace(s.Municipality) == "" {
		return "Municipio es obligatorio"
	}
	if strings.TrimSpace(s.Address) == "" {
		return "Direccion es obligatoria"
	}
	if strings.TrimSpace(s.Neighborhood) == "" {
		return "Barrio es obligatorio"
	}
	return ""
}

func (h *StoreHandler) handleList(w http.ResponseWriter, r *http.Request) {
	stores, err := h.repo.List(r.Context())
	if err != nil {
		apiLogger.Error().Err(err).Msg("Store list failed")
		writeError(w, http.StatusInternalServerError, config.ErrInternalGeneric)
		return
	}
	writeOK(w, map[string]any{"items": stores})
}

// handleMeta feeds the department and municipality dropdowns.
func (h *StoreHandler) handleMeta(w http.ResponseWriter, r *http.Request) {
	meta, err := h.repo.Meta(r.Context())
	if err != nil {
		apiLogger.Error().Err(err).Msg("Store meta failed")
		writeError(w, http.StatusInternalServerError, config.ErrInternalGeneric)
		return
	}
	writeOK(w, map[string]any{"meta": meta})
}

func (h *StoreHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var s model.Store
	if !decodeBody(w, r, &s) {
		return
	}
	if msg := validateStore(s); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	created, err := h.repo.Create(r.Context(), s)
	if err != nil {
		apiLogger.Error().Err(err).Msg("Store create failed")
		writeError(w, http.StatusInternalServerError, config.ErrInternalGeneric)
		return
	}
	writeOK(w, map[string]any{"item": created})
}

func (h *StoreHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var s model.Store
	if !decodeBody(w, r, &s) {
		return
	}
	if msg := validateStore(s); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	updated, err := h.repo.Update(r.Context(), id, s)
	if err != nil {
		if errors.Is(err, repository.ErrNoSuchRecord) {
			writeError(w, http.StatusNotFound, config.ErrRecordGone)
			return
		}
		apiLogger.Error().Err(err).Int64("id", id).Msg("Store update failed")
		writeError(w, http.StatusInternalServerError, config.ErrInternalGeneric)
		return
	}
	writeOK(w, map[string]any{"item": updated})
}

func (h *StoreHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNoSuchRecord) {
			writeError(w, http.StatusNotFound, config.ErrRecordGone)
			return
		}
		apiLogger.Error().Err(err).Int64("id", id).Msg("Store delete failed")
		writeError(w, http.StatusInternalServerError, config.ErrInternalGeneric)
		return
	}
	writeOK(w, nil)
}
