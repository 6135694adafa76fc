package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/tierraquerida/tq-admin/internal/config"
	"github.com/tierraquerida/tq-admin/internal/model"
	"github.com/tierraquerida/tq-admin/internal/repository"
)

// MenuHandler serves the plain CRUD surface of the menu. The draft-based
// editing flow lives under /api/admin/edit/menu; these endpoints are the
// direct writes the panel's quick actions use.
type MenuHandler struct {
	repo *repository.MenuRepository
}

func NewMenuHandler(repo *repository.MenuRepository) *MenuHandler {
	return &MenuHandler{repo: repo}
}

func (h *MenuHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/admin/menu", h.handleList)
	mux.HandleFunc("POST /api/admin/menu", h.handleCreate)
	mux.HandleFunc("PUT /api/admin/menu/{id}", h.handleUpdate)
	mux.HandleFunc("DELETE /api/admin/menu/{id}", h.handleDelete)
	mux.HandleFunc("DELETE /api/admin/menu/type/{tipo}", h.handleDeleteType)
}

func validateMenuItem(m model.MenuItem) string {
	if strings.TrimSpace(m.Name) == "" {
		return "Nombre es obligatorio"
	}
	if strings.TrimSpace(m.Description) == "" {
		return "Descripcion es obligatoria"
	}
	if m.Type <= 0 {
		return "tipo es obligatorio"
	}
	return ""
}

func (h *MenuHandler) handleList(w http.ResponseWriter, r *http.Request) {
	items, err := h.repo.List(r.Context())
	if err != nil {
		apiLogger.Error().Err(err).Msg("Menu list failed")
		writeError(w, http.StatusInternalServerError, config.ErrInternalGeneric)
		return
	}
	writeOK(w, map[string]any{"items": items})
}

func (h *MenuHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var m model.MenuItem
	if !decodeBody(w, r, &m) {
		return
	}
	if msg := validateMenuItem(m); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	created, err := h.repo.Create(r.Context(), m)
	if err != nil {
		apiLogger.Error().Err(err).Msg("Menu create failed")
		writeError(w, http.StatusInternalServerError, config.ErrInternalGeneric)
		return
	}
	writeOK(w, map[string]any{"item": created})
}

func (h *MenuHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var m model.MenuItem
	if !decodeBody(w, r, &m) {
		return
	}
	if msg := validateMenuItem(m); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	updated, err := h.repo.Update(r.Context(), id, m)
	if err != nil {
		if errors.Is(err, repository.ErrNoSuchRecord) {
			writeError(w, http.StatusNotFound, config.ErrRecordGone)
			return
		}
		apiLogger.Error().Err(err).Int64("id", id).Msg("Menu update failed")
		writeError(w, http.StatusInternalServerError, config.ErrInternalGeneric)
		return
	}
	writeOK(w, map[string]any{"item": updated})
}

func (h *MenuHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNoSuchRecord) {
			writeError(w, http.StatusNotFound, config.ErrRecordGone)
			return
		}
		apiLogger.Error().Err(err).Int64("id", id).Msg("Menu delete failed")
		writeError(w, http.StatusInternalServerError, config.ErrInternalGeneric)
		return
	}
	writeOK(w, nil)
}

func (h *MenuHandler) handleDeleteType(w http.ResponseWriter, r *http.Request) {
	tipo, err := strconv.ParseInt(r.PathValue("tipo"), 10, 64)
	if err != nil || tipo <= 0 {
		writeError(w, http.StatusBadRequest, config.ErrInvalidID)
		return
	}
	if err := h.repo.DeleteByType(r.Context(), tipo); err != nil {
		apiLogger.Error().Err(err).Int64("tipo", tipo).Msg("Menu category delete failed")
		writeError(w, http.StatusInternalServerError, config.ErrInternalGeneric)
		return
	}
	writeOK(w, nil)
}
