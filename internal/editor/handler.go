package editor

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"

	"github.com/tierraquerida/tq-admin/internal/cache"
	"github.com/tierraquerida/tq-admin/internal/config"
)

// Handler exposes one entity's editing sessions over HTTP. Sessions live
// server-side, one per admin session token, the same way the archive kept
// its drafts server-side keyed by a cookie.
//
// Confirmation is a round trip: a gated operation without a `confirm`
// field answers 409 with the prompt; the client repeats the request with
// confirm set to true or false.
type Handler[R Record] struct {
	resource string

	newSession func() *Session[R]
	token      func(r *http.Request) string

	sessions *cache.Cache[string, *sessionEntry[R]]
}

type sessionEntry[R Record] struct {
	sess    *Session[R]
	once    sync.Once
	initErr error
}

func NewHandler[R Record](resource string, token func(r *http.Request) string, factory func() *Session[R]) *Handler[R] {
	return &Handler[R]{
		resource:   resource,
		newSession: factory,
		token:      token,
		sessions:   cache.NewCache[string, *sessionEntry[R]](),
	}
}

func (h *Handler[R]) Register(mux *http.ServeMux) {
	base := "/api/admin/edit/" + h.resource
	mux.HandleFunc(base+"/records", h.handleRecords)
	mux.HandleFunc(base+"/select", h.handleSelect)
	mux.HandleFunc(base+"/field", h.handleField)
	mux.HandleFunc(base+"/effective", h.handleEffective)
	mux.HandleFunc(base+"/save", h.handleSave)
	mux.HandleFunc(base+"/discard", h.handleDiscard)
	mux.HandleFunc(base+"/delete", h.handleDelete)
	mux.HandleFunc(base+"/create", h.handleCreate)
	mux.HandleFunc(base+"/filter", h.handleFilter)
	mux.HandleFunc(base+"/leave", h.handleLeave)
}

func (h *Handler[R]) session(w http.ResponseWriter, r *http.Request) (*Session[R], bool) {
	token := h.token(r)
	if token == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"ok": false, "error": config.ErrNotAuthorized})
		return nil, false
	}

	e := h.sessions.GetOrSet(token, func() *sessionEntry[R] {
		return &sessionEntry[R]{sess: h.newSession()}
	})
	e.once.Do(func() {
		e.initErr = e.sess.Reload(r.Context())
	})
	if e.initErr != nil {
		editorLogger.Error().Err(e.initErr).Str("resource", h.resource).Msg("Error loading editing session")
		h.sessions.Delete(token)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"ok": false, "error": config.ErrInternalGeneric})
		return nil, false
	}
	return e.sess, true
}

type editRequest struct {
	ID      int64           `json:"id"`
	Field   string          `json:"field"`
	Value   any             `json:"value"`
	Item    json.RawMessage `json:"item"`
	Filter  *Filter         `json:"filter"`
	Confirm *bool           `json:"confirm"`
}

func (h *Handler[R]) decode(w http.ResponseWriter, r *http.Request) (*editRequest, *AnswerConfirmer, bool) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"ok": false, "error": config.ErrMethodSpanish})
		return nil, nil, false
	}

	var req editRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "JSON inválido"})
		return nil, nil, false
	}
	return &req, &AnswerConfirmer{Answer: req.Confirm}, true
}

func (h *Handler[R]) state(sess *Session[R]) map[string]any {
	return map[string]any{
		"ok":       true,
		"items":    sess.Visible(),
		"selected": sess.Selected(),
		"dirty":    sess.DirtyIDs(),
		"filter":   sess.Filter(),
	}
}

func (h *Handler[R]) handleRecords(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"ok": false, "error": config.ErrMethodSpanish})
		return
	}
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.state(sess))
}

func (h *Handler[R]) handleSelect(w http.ResponseWriter, r *http.Request) {
	req, confirm, ok := h.decode(w, r)
	if !ok {
		return
	}
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	err := sess.Select(WithConfirmer(r.Context(), confirm), req.ID)
	if err != nil && !errors.Is(err, ErrDeclined) {
		h.fail(w, err, confirm)
		return
	}
	writeJSON(w, http.StatusOK, h.state(sess))
}

func (h *Handler[R]) handleField(w http.ResponseWriter, r *http.Request) {
	req, _, ok := h.decode(w, r)
	if !ok {
		return
	}
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	if err := sess.Edit(req.ID, req.Field, req.Value); err != nil {
		h.fail(w, err, nil)
		return
	}
	item, _ := sess.Effective(req.ID)
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "item": item, "dirty": sess.DirtyIDs()})
}

func (h *Handler[R]) handleEffective(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"ok": false, "error": config.ErrMethodSpanish})
		return
	}
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	id, err := parseID(r.URL.Query().Get("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": config.ErrInvalidID})
		return
	}
	item, found := sess.Effective(id)
	if !found {
		writeJSON(w, http.StatusNotFound, map[string]any{"ok": false, "error": config.ErrRecordGone})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "item": item, "dirty": sess.IsDirty(id)})
}

func (h *Handler[R]) handleSave(w http.ResponseWriter, r *http.Request) {
	req, _, ok := h.decode(w, r)
	if !ok {
		return
	}
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	item, err := sess.Save(r.Context(), req.ID)
	if err != nil {
		if errors.Is(err, ErrNothingToSave) {
			writeJSON(w, http.StatusOK, map[string]any{"ok": true, "notice": config.ErrNothingToSave})
			return
		}
		h.fail(w, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "item": item, "dirty": sess.DirtyIDs()})
}

func (h *Handler[R]) handleDiscard(w http.ResponseWriter, r *http.Request) {
	req, _, ok := h.decode(w, r)
	if !ok {
		return
	}
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	sess.Discard(req.ID)
	writeJSON(w, http.StatusOK, h.state(sess))
}

func (h *Handler[R]) handleDelete(w http.ResponseWriter, r *http.Request) {
	req, confirm, ok := h.decode(w, r)
	if !ok {
		return
	}
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	warnings, err := sess.Delete(WithConfirmer(r.Context(), confirm), req.ID)
	if err != nil && !errors.Is(err, ErrDeclined) {
		h.fail(w, err, confirm)
		return
	}
	resp := h.state(sess)
	if len(warnings) > 0 {
		resp["warnings"] = warnings
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler[R]) handleCreate(w http.ResponseWriter, r *http.Request) {
	req, _, ok := h.decode(w, r)
	if !ok {
		return
	}
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	var item R
	if err := json.Unmarshal(req.Item, &item); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "JSON inválido"})
		return
	}
	created, err := sess.Create(r.Context(), item)
	if err != nil {
		h.fail(w, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "item": created})
}

func (h *Handler[R]) handleFilter(w http.ResponseWriter, r *http.Request) {
	req, confirm, ok := h.decode(w, r)
	if !ok {
		return
	}
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	f := Filter{}
	if req.Filter != nil {
		f = *req.Filter
	}
	err := sess.SetFilter(WithConfirmer(r.Context(), confirm), f)
	if err != nil && !errors.Is(err, ErrDeclined) {
		h.fail(w, err, confirm)
		return
	}
	writeJSON(w, http.StatusOK, h.state(sess))
}

func (h *Handler[R]) handleLeave(w http.ResponseWriter, r *http.Request) {
	_, confirm, ok := h.decode(w, r)
	if !ok {
		return
	}
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	err := sess.Leave(WithConfirmer(r.Context(), confirm))
	if err != nil && !errors.Is(err, ErrDeclined) {
		h.fail(w, err, confirm)
		return
	}
	writeJSON(w, http.StatusOK, h.state(sess))
}

func (h *Handler[R]) fail(w http.ResponseWriter, err error, confirm *AnswerConfirmer) {
	var vErr *ValidationError
	switch {
	case errors.Is(err, ErrConfirmRequired) && confirm != nil && confirm.Asked != nil:
		writeJSON(w, http.StatusConflict, map[string]any{
			"ok":      false,
			"error":   "Confirmación requerida",
			"confirm": confirm.Asked,
		})
	case errors.As(err, &vErr):
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": vErr.Error(), "field": vErr.Field})
	case errors.Is(err, ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]any{"ok": false, "error": config.ErrRecordGone})
	case errors.Is(err, ErrNotVisible):
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "El registro no está visible con el filtro actual"})
	case errors.Is(err, ErrUnknownField):
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "Campo desconocido"})
	default:
		editorLogger.Error().Err(err).Str("resource", h.resource).Msg("Editing operation failed")
		writeJSON(w, http.StatusInternalServerError, map[string]any{"ok": false, "error": config.ErrInternalGeneric})
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set(config.HCType, config.CTypeJSON)
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func parseID(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}
