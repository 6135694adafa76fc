package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/tierraquerida/tq-admin/internal/auth"
	"github.com/tierraquerida/tq-admin/internal/config"
	"github.com/tierraquerida/tq-admin/internal/model"
	"github.com/tierraquerida/tq-admin/internal/repository"
)

// StaffHandler manages the per-store kitchen accounts. Passwords are
// bcrypt-hashed here; the reset endpoint returns the generated plaintext
// exactly once so the admin can hand it over.
type StaffHandler struct {
	repo *repository.KitchenRepository
}

func NewStaffHandler(repo *repository.KitchenRepository) *StaffHandler {
	return &StaffHandler{repo: repo}
}

func (h *StaffHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/admin/usercocina", h.handleList)
	mux.HandleFunc("POST /api/admin/usercocina", h.handleCreate)
	mux.HandleFunc("PUT /api/admin/usercocina/{id}", h.handleUpdate)
	mux.HandleFunc("DELETE /api/admin/usercocina/{id}", h.handleDelete)
	mux.HandleFunc("POST /api/admin/usercocina/{id}/reset-password", h.handleResetPassword)
}

type kitchenUserRequest struct {
	Administrator string `json:"administrador"`
	Email         string `json:"correo"`
	Store         string `json:"PuntoVenta"`
	Password      string `json:"contrasena"`
}

func (req *kitchenUserRequest) validate(passwordRequired bool) string {
	if strings.TrimSpace(req.Administrator) == "" {
		return "administrador es obligatorio"
	}
	if strings.TrimSpace(req.Email) == "" {
		return "correo es obligatorio"
	}
	if strings.TrimSpace(req.Store) == "" {
		return "PuntoVenta es obligatorio"
	}
	if passwordRequired && req.Password == "" {
		return "contrasena es obligatoria"
	}
	return ""
}

func (req *kitchenUserRequest) toModel() model.KitchenUser {
	return model.KitchenUser{
		Administrator: strings.TrimSpace(req.Administrator),
		Email:         strings.TrimSpace(strings.ToLower(req.Email)),
		Store:         strings.TrimSpace(req.Store),
	}
}

func (h *StaffHandler) handleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.repo.List(r.Context())
	if err != nil {
		apiLogger.Error().Err(err).Msg("Kitchen user list failed")
		writeError(w, http.StatusInternalServerError, config.ErrInternalGeneric)
		return
	}
	writeOK(w, map[string]any{"items": users})
}

func (h *StaffHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req kitchenUserRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if msg := req.validate(true); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	if err := auth.ValidateStrong(req.Password); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		apiLogger.Error().Err(err).Msg("Password hash failed")
		writeError(w, http.StatusInternalServerError, config.ErrInternalGeneric)
		return
	}

	created, err := h.repo.Create(r.Context(), req.toModel(), hash)
	if err != nil {
		apiLogger.Error().Err(err).Msg("Kitchen user create failed")
		writeError(w, http.StatusInternalServerError, config.ErrInternalGeneric)
		return
	}
	writeOK(w, map[string]any{"item": created})
}

func (h *StaffHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req kitchenUserRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if msg := req.validate(false); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	var hash string
	if req.Password != "" {
		if err := auth.ValidateStrong(req.Password); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		var err error
		hash, err = auth.HashPassword(req.Password)
		if err != nil {
			apiLogger.Error().Err(err).Msg("Password hash failed")
			writeError(w, http.StatusInternalServerError, config.ErrInternalGeneric)
			return
		}
	}

	updated, err := h.repo.Update(r.Context(), id, req.toModel(), hash)
	if err != nil {
		if errors.Is(err, repository.ErrNoSuchRecord) {
			writeError(w, http.StatusNotFound, config.ErrRecordGone)
			return
		}
		apiLogger.Error().Err(err).Int64("id", id).Msg("Kitchen user update failed")
		writeError(w, http.StatusInternalServerError, config.ErrInternalGeneric)
		return
	}
	writeOK(w, map[string]any{"item": updated})
}

func (h *StaffHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNoSuchRecord) {
			writeError(w, http.StatusNotFound, config.ErrRecordGone)
			return
		}
		apiLogger.Error().Err(err).Int64("id", id).Msg("Kitchen user delete failed")
		writeError(w, http.StatusInternalServerError, config.ErrInternalGeneric)
		return
	}
	writeOK(w, nil)
}

// handleResetPassword generates a fresh credential and returns it in the
// response body. It is never stored or logged in plaintext.
func (h *StaffHandler) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	password, err := auth.GeneratePassword()
	if err != nil {
		apiLogger.Error().Err(err).Msg("Password generation failed")
		writeError(w, http.StatusInternalServerError, config.ErrInternalGeneric)
		return
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		apiLogger.Error().Err(err).Msg("Password hash failed")
		writeError(w, http.StatusInternalServerError, config.ErrInternalGeneric)
		return
	}

	if err := h.repo.SetPassword(r.Context(), id, hash); err != nil {
		if errors.Is(err, repository.ErrNoSuchRecord) {
			writeError(w, http.StatusNotFound, config.ErrRecordGone)
			return
		}
		apiLogger.Error().Err(err).Int64("id", id).Msg("Password reset failed")
		writeError(w, http.StatusInternalServerError, config.ErrInternalGeneric)
		return
	}
	writeOK(w, map[string]any{"passwordPlain": password})
}
