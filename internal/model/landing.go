package model

type HeroSlide struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Tag         string `json:"tag"`
	ImageURL    string `json:"image_url"`
	OrderIndex  int64  `json:"order_index"`
	IsActive    bool   `json:"is_active"`
}

func (h HeroSlide) RecordID() int64 { return h.ID }

// About is a single-row section; ID 0 means it has never been persisted
// and the handler serves the built-in defaults.
type About struct {
	ID              int64  `json:"id"`
	Title           string `json:"title"`
	Tagline         string `json:"tagline"`
	Body            string `json:"body"`
	ImageURL        string `json:"image_url"`
	BadgeText       string `json:"badge_text"`
	CTAText         string `json:"cta_text"`
	CTAHref         string `json:"cta_href"`
	InstagramHandle string `json:"instagram_handle"`
}

type InstagramPost struct {
	ID         int64  `json:"id"`
	ImageURL   string `json:"image_url"`
	Caption    string `json:"caption"`
	Href       string `json:"href"`
	OrderIndex int64  `json:"order_index"`
	IsActive   bool   `json:"is_active"`
}

func (p InstagramPost) RecordID() int64 { return p.ID }

// DefaultAbout matches what the landing page renders before anyone has
// saved the section.
func DefaultAbout() About {
	return About{
		Title:           "¿Quiénes Somos?",
		Tagline:         "#Movimiento TQ",
		ImageURL:        "/img/empleados.png",
		CTAText:         "Pide aquí",
		CTAHref:         "/stores",
		InstagramHandle: "@tierraquerida20",
	}
}
