package api

import (
	"io"
	"net/http"
	"strings"

	"github.com/tierraquerida/tq-admin/internal/config"
	"github.com/tierraquerida/tq-admin/internal/storage"
)

// UploadHandler moves images between the panel and the public bucket.
// Object keys are deterministic per (scope, record, slot), so replacing
// an image overwrites the old object instead of orphaning it.
type UploadHandler struct {
	store    *storage.ImageStore
	maxBytes int64
}

func NewUploadHandler(store *storage.ImageStore, maxBytes int64) *UploadHandler {
	return &UploadHandler{store: store, maxBytes: maxBytes}
}

func (h *UploadHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/admin/upload-image", h.handleUpload)
	mux.HandleFunc("POST /api/admin/delete-image", h.handleDelete)
}

func (h *UploadHandler) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "La imagen supera el tamaño máximo permitido")
		return
	}

	scope := strings.TrimSpace(r.FormValue("scope"))
	recordKey := strings.TrimSpace(r.FormValue("recordKey"))
	slot := strings.TrimSpace(r.FormValue("slot"))
	if slot == "" {
		slot = "principal"
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Falta el archivo de imagen")
		return
	}
	defer file.Close()

	contentType := header.Header.Get(config.HCType)
	objectPath, err := h.store.ObjectPath(scope, recordKey, slot, contentType)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		apiLogger.Error().Err(err).Msg("Upload read failed")
		writeError(w, http.StatusInternalServerError, config.ErrInternalGeneric)
		return
	}

	publicURL, err := h.store.Upload(r.Context(), objectPath, contentType, data)
	if err != nil {
		apiLogger.Error().Err(err).Str("path", objectPath).Msg("Upload failed")
		writeError(w, http.StatusInternalServerError, config.ErrInternalGeneric)
		return
	}
	writeOK(w, map[string]any{"publicUrl": publicURL, "path": objectPath})
}

func (h *UploadHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Path      string `json:"path"`
		PublicURL string `json:"publicUrl"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	objectPath := strings.TrimSpace(body.Path)
	if objectPath == "" {
		objectPath = h.store.ExtractPath(body.PublicURL)
	}
	if objectPath == "" {
		writeError(w, http.StatusBadRequest, "Ruta de imagen inválida")
		return
	}

	if err := h.store.Delete(r.Context(), objectPath); err != nil {
		apiLogger.Error().Err(err).Str("path", objectPath).Msg("Image delete failed")
		writeError(w, http.StatusInternalServerError, config.ErrInternalGeneric)
		return
	}
	writeOK(w, nil)
}
