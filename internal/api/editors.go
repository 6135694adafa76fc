package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/tierraquerida/tq-admin/internal/auth"
	"github.com/tierraquerida/tq-admin/internal/editor"
	"github.com/tierraquerida/tq-admin/internal/model"
	"github.com/tierraquerida/tq-admin/internal/repository"
	"github.com/tierraquerida/tq-admin/internal/storage"
)

// sessionToken scopes editing sessions to the admin's login session, so
// drafts survive page reloads but die with the session.
func sessionToken(r *http.Request) string {
	return auth.SessionTokenFromContext(r.Context())
}

func menuSchema() editor.Schema[model.MenuItem] {
	return editor.Schema[model.MenuItem]{
		Fields: map[string]editor.Field[model.MenuItem]{
			"Nombre": {
				Kind: editor.Text, Label: "Nombre", Required: true,
				Apply: func(m *model.MenuItem, v any) { m.Name = v.(string) },
				Empty: func(m model.MenuItem) bool { return strings.TrimSpace(m.Name) == "" },
			},
			"Descripcion": {
				Kind: editor.Text, Label: "Descripcion", Required: true,
				Apply: func(m *model.MenuItem, v any) { m.Description = v.(string) },
				Empty: func(m model.MenuItem) bool { return strings.TrimSpace(m.Description) == "" },
			},
			"tipo": {
				Kind: editor.Number, Label: "tipo",
				Apply: func(m *model.MenuItem, v any) { m.Type = int64(v.(float64)) },
			},
			"Activo": {
				Kind: editor.Bool, Label: "Activo",
				Apply: func(m *model.MenuItem, v any) {
					if v.(bool) {
						m.Active = 1
					} else {
						m.Active = 0
					}
				},
			},
			"PrecioOriente": {
				Kind: editor.Number, Label: "PrecioOriente",
				Apply: func(m *model.MenuItem, v any) { m.PriceEast = v.(float64) },
			},
			"PrecioAreaMetrop": {
				Kind: editor.Number, Label: "PrecioAreaMetrop",
				Apply: func(m *model.MenuItem, v any) { m.PriceMetro = v.(float64) },
			},
			"PrecioRestoPais": {
				Kind: editor.Number, Label: "PrecioRestoPais",
				Apply: func(m *model.MenuItem, v any) { m.PriceRest = v.(float64) },
			},
			"Cantidad": {
				Kind: editor.Number, Label: "Cantidad",
				Apply: func(m *model.MenuItem, v any) { m.Quantity = int64(v.(float64)) },
			},
			"imagen": {
				Kind: editor.Text, Label: "imagen",
				Apply: func(m *model.MenuItem, v any) { m.Image = v.(string) },
			},
		},
		Normalize: func(m *model.MenuItem) {
			m.Name = strings.TrimSpace(m.Name)
			m.Description = strings.TrimSpace(m.Description)
		},
	}
}

func matchMenu(m model.MenuItem, f editor.Filter) bool {
	if f.Search != "" && !strings.Contains(strings.ToLower(m.Name), strings.ToLower(f.Search)) {
		return false
	}
	if f.Category != "all" && f.Category != "" {
		if tipo, err := strconv.ParseInt(strings.TrimSpace(f.Category), 10, 64); err == nil && m.Type != tipo {
			return false
		}
	}
	switch f.Active {
	case "active":
		return m.Active != 0
	case "inactive":
		return m.Active == 0
	}
	return true
}

// NewMenuEditor wires the draft editor for the menu. Deleting a product
// also drops its bucket image; that failure is a warning, not a
// rollback.
func NewMenuEditor(repo *repository.MenuRepository, images *storage.ImageStore) *editor.Handler[model.MenuItem] {
	return editor.NewHandler("menu", sessionToken, func() *editor.Session[model.MenuItem] {
		return editor.NewSession(editor.Options[model.MenuItem]{
			Collection: repo,
			Schema:     menuSchema(),
			Match:      matchMenu,
			SortKey:    func(m model.MenuItem) string { return m.Name },
			Cleanup: func(ctx context.Context, m model.MenuItem) error {
				if images == nil || m.Image == "" {
					return nil
				}
				path := images.ExtractPath(m.Image)
				if path == "" {
					return nil
				}
				return images.Delete(ctx, path)
			},
		})
	})
}

func storeSchema() editor.Schema[model.Store] {
	return editor.Schema[model.Store]{
		Fields: map[string]editor.Field[model.Store]{
			"Departamento": {
				Kind: editor.Text, Label: "Departamento", Required: true,
				Apply: func(s *model.Store, v any) { s.Department = v.(string) },
				Empty: func(s model.Store) bool { return strings.TrimSpace(s.Department) == "" },
			},
			"Municipio": {
				Kind: editor.Text, Label: "Municipio", Required: true,
				Apply: func(s *model.Store, v any) { s.Municipality = v.(string) },
				Empty: func(s model.Store) bool { return strings.TrimSpace(s.Municipality) == "" },
			},
			"Direccion": {
				Kind: editor.Text, Label: "Direccion", Required: true,
				Apply: func(s *model.Store, v any) { s.Address = v.(string) },
				Empty: func(s model.Store) bool { return strings.TrimSpace(s.Address) == "" },
			},
			"Barrio": {
				Kind: editor.Text, Label: "Barrio", Required: true,
				Apply: func(s *model.Store, v any) { s.Neighborhood = v.(string) },
				Empty: func(s model.Store) bool { return strings.TrimSpace(s.Neighborhood) == "" },
			},
			"Latitud": {
				Kind: editor.Number, Label: "Latitud",
				Apply: func(s *model.Store, v any) { s.Latitude = v.(float64) },
			},
			"Longitud": {
				Kind: editor.Number, Label: "Longitud",
				Apply: func(s *model.Store, v any) { s.Longitude = v.(float64) },
			},
			"num_whatsapp": {
				Kind: editor.Text, Label: "num_whatsapp",
				Apply: func(s *model.Store, v any) { s.WhatsApp = v.(string) },
			},
			"URL_image": {
				Kind: editor.Text, Label: "URL_image",
				Apply: func(s *model.Store, v any) { s.ImageURL = v.(string) },
			},
		},
		Normalize: func(s *model.Store) {
			s.Department = strings.TrimSpace(s.Department)
			s.Municipality = strings.TrimSpace(s.Municipality)
			s.Address = strings.TrimSpace(s.Address)
			s.Neighborhood = strings.TrimSpace(s.Neighborhood)
			s.WhatsApp = strings.TrimSpace(s.WhatsApp)
		},
	}
}

func matchStore(s model.Store, f editor.Filter) bool {
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(s.Neighborhood), needle) &&
			!strings.Contains(strings.ToLower(s.Municipality), needle) {
			return false
		}
	}
	if f.Category != "all" && f.Category != "" && !strings.EqualFold(s.Department, f.Category) {
		return false
	}
	return true
}

func NewStoreEditor(repo *repository.StoreRepository) *editor.Handler[model.Store] {
	return editor.NewHandler("pv", sessionToken, func() *editor.Session[model.Store] {
		return editor.NewSession(editor.Options[model.Store]{
			Collection: repo,
			Schema:     storeSchema(),
			Match:      matchStore,
			SortKey:    func(s model.Store) string { return s.Department + " " + s.Municipality + " " + s.Neighborhood },
		})
	})
}

func heroSchema() editor.Schema[model.HeroSlide] {
	return editor.Schema[model.HeroSlide]{
		Fields: map[string]editor.Field[model.HeroSlide]{
			"title": {
				Kind: editor.Text, Label: "title", Required: true,
				Apply: func(h *model.HeroSlide, v any) { h.Title = v.(string) },
				Empty: func(h model.HeroSlide) bool { return strings.TrimSpace(h.Title) == "" },
			},
			"description": {
				Kind: editor.Text, Label: "description",
				Apply: func(h *model.HeroSlide, v any) { h.Description = v.(string) },
			},
			"tag": {
				Kind: editor.Text, Label: "tag",
				Apply: func(h *model.HeroSlide, v any) { h.Tag = v.(string) },
			},
			"image_url": {
				Kind: editor.Text, Label: "image_url", Required: true,
				Apply: func(h *model.HeroSlide, v any) { h.ImageURL = v.(string) },
				Empty: func(h model.HeroSlide) bool { return strings.TrimSpace(h.ImageURL) == "" },
			},
			"order_index": {
				Kind: editor.Number, Label: "order_index",
				Apply: func(h *model.HeroSlide, v any) { h.OrderIndex = int64(v.(float64)) },
			},
			"is_active": {
				Kind: editor.Bool, Label: "is_active",
				Apply: func(h *model.HeroSlide, v any) { h.IsActive = v.(bool) },
			},
		},
		Normalize: func(h *model.HeroSlide) {
			h.Title = strings.TrimSpace(h.Title)
		},
	}
}

func matchHero(h model.HeroSlide, f editor.Filter) bool {
	if f.Search != "" && !strings.Contains(strings.ToLower(h.Title), strings.ToLower(f.Search)) {
		return false
	}
	switch f.Active {
	case "active":
		return h.IsActive
	case "inactive":
		return !h.IsActive
	}
	return true
}

func NewHeroEditor(repo *repository.HeroRepository) *editor.Handler[model.HeroSlide] {
	return editor.NewHandler("hero", sessionToken, func() *editor.Session[model.HeroSlide] {
		return editor.NewSession(editor.Options[model.HeroSlide]{
			Collection: repo,
			Schema:     heroSchema(),
			Match:      matchHero,
			SortKey:    func(h model.HeroSlide) string { return h.Title },
		})
	})
}

func instagramSchema() editor.Schema[model.InstagramPost] {
	return editor.Schema[model.InstagramPost]{
		Fields: map[string]editor.Field[model.InstagramPost]{
			"image_url": {
				Kind: editor.Text, Label: "image_url", Required: true,
				Apply: func(p *model.InstagramPost, v any) { p.ImageURL = v.(string) },
				Empty: func(p model.InstagramPost) bool { return strings.TrimSpace(p.ImageURL) == "" },
			},
			"caption": {
				Kind: editor.Text, Label: "caption",
				Apply: func(p *model.InstagramPost, v any) { p.Caption = v.(string) },
			},
			"href": {
				Kind: editor.Text, Label: "href",
				Apply: func(p *model.InstagramPost, v any) { p.Href = v.(string) },
			},
			"order_index": {
				Kind: editor.Number, Label: "order_index",
				Apply: func(p *model.InstagramPost, v any) { p.OrderIndex = int64(v.(float64)) },
			},
			"is_active": {
				Kind: editor.Bool, Label: "is_active",
				Apply: func(p *model.InstagramPost, v any) { p.IsActive = v.(bool) },
			},
		},
	}
}

func matchInstagram(p model.InstagramPost, f editor.Filter) bool {
	if f.Search != "" && !strings.Contains(strings.ToLower(p.Caption), strings.ToLower(f.Search)) {
		return false
	}
	switch f.Active {
	case "active":
		return p.IsActive
	case "inactive":
		return !p.IsActive
	}
	return true
}

func NewInstagramEditor(repo *repository.InstagramRepository) *editor.Handler[model.InstagramPost] {
	return editor.NewHandler("instagram", sessionToken, func() *editor.Session[model.InstagramPost] {
		return editor.NewSession(editor.Options[model.InstagramPost]{
			Collection: repo,
			Schema:     instagramSchema(),
			Match:      matchInstagram,
			SortKey:    func(p model.InstagramPost) string { return p.Caption },
		})
	})
}
