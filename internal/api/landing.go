package api

import (
	"net/http"
	"strings"

	"github.com/tierraquerida/tq-admin/internal/config"
	"github.com/tierraquerida/tq-admin/internal/model"
	"github.com/tierraquerida/tq-admin/internal/repository"
)

// LandingHandler manages the public landing page content: the hero
// carousel, the about section and the Instagram grid. The PUT endpoints
// replace whole sections because that is how the panel saves them.
type LandingHandler struct {
	heroes    *repository.HeroRepository
	about     *repository.AboutRepository
	instagram *repository.InstagramRepository
}

func NewLandingHandler(heroes *repository.HeroRepository, about *repository.AboutRepository, instagram *repository.InstagramRepository) *LandingHandler {
	return &LandingHandler{heroes: heroes, about: about, instagram: instagram}
}

func (h *LandingHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/admin/landing/hero", h.handleHeroGet)
	mux.HandleFunc("PUT /api/admin/landing/hero", h.handleHeroPut)
	mux.HandleFunc("GET /api/admin/landing/about", h.handleAboutGet)
	mux.HandleFunc("PUT /api/admin/landing/about", h.handleAboutPut)
	mux.HandleFunc("GET /api/admin/landing/instagram", h.handleInstagramGet)
	mux.HandleFunc("PUT /api/admin/landing/instagram", h.handleInstagramPut)
}

func (h *LandingHandler) handleHeroGet(w http.ResponseWriter, r *http.Request) {
	slides, err := h.heroes.List(r.Context())
	if err != nil {
		apiLogger.Error().Err(err).Msg("Hero list failed")
		writeError(w, http.StatusInternalServerError, config.ErrInternalGeneric)
		return
	}
	writeOK(w, map[string]any{"items": slides})
}

func (h *LandingHandler) handleHeroPut(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Items []model.HeroSlide `json:"items"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	for _, slide := range body.Items {
		if strings.TrimSpace(slide.Title) == "" {
			writeError(w, http.StatusBadRequest, "title es obligatorio")
			return
		}
		if strings.TrimSpace(slide.ImageURL) == "" {
			writeError(w, http.StatusBadRequest, "image_url es obligatorio")
			return
		}
	}

	slides, err := h.heroes.Replace(r.Context(), body.Items)
	if err != nil {
		apiLogger.Error().Err(err).Msg("Hero upsert failed")
		writeError(w, http.StatusInternalServerError, config.ErrInternalGeneric)
		return
	}
	writeOK(w, map[string]any{"items": slides})
}

func (h *LandingHandler) handleAboutGet(w http.ResponseWriter, r *http.Request) {
	about, err := h.about.Get(r.Context())
	if err != nil {
		apiLogger.Error().Err(err).Msg("About read failed")
		writeError(w, http.StatusInternalServerError, config.ErrInternalGeneric)
		return
	}
	writeOK(w, map[string]any{"about": about})
}

func (h *LandingHandler) handleAboutPut(w http.ResponseWriter, r *http.Request) {
	var about model.About
	if !decodeBody(w, r, &about) {
		return
	}
	if strings.TrimSpace(about.Title) == "" {
		writeError(w, http.StatusBadRequest, "title es obligatorio")
		return
	}

	saved, err := h.about.Upsert(r.Context(), about)
	if err != nil {
		apiLogger.Error().Err(err).Msg("About upsert failed")
		writeError(w, http.StatusInternalServerError, config.ErrInternalGeneric)
		return
	}
	writeOK(w, map[string]any{"about": saved})
}

func (h *LandingHandler) handleInstagramGet(w http.ResponseWriter, r *http.Request) {
	posts, err := h.instagram.List(r.Context())
	if err != nil {
		apiLogger.Error().Err(err).Msg("Instagram list failed")
		writeError(w, http.StatusInternalServerError, config.ErrInternalGeneric)
		return
	}
	writeOK(w, map[string]any{"items": posts})
}

func (h *LandingHandler) handleInstagramPut(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Items []model.InstagramPost `json:"items"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	for _, post := range body.Items {
		if strings.TrimSpace(post.ImageURL) == "" {
			writeError(w, http.StatusBadRequest, "image_url es obligatorio")
			return
		}
	}

	posts, err := h.instagram.Replace(r.Context(), body.Items)
	if err != nil {
		apiLogger.Error().Err(err).Msg("Instagram upsert failed")
		writeError(w, http.StatusInternalServerError, config.ErrInternalGeneric)
		return
	}
	writeOK(w, map[string]any{"items": posts})
}
