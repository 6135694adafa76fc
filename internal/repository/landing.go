package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tierraquerida/tq-admin/internal/db"
	"github.com/tierraquerida/tq-admin/internal/model"
)

// HeroRepository manages the landing hero carousel. The bulk Replace
// path backs the original PUT endpoint; the row-level methods implement
// editor.Collection for the appearance editor.
type HeroRepository struct {
	db db.DB
}

func NewHeroRepository(db db.DB) *HeroRepository {
	return &HeroRepository{db: db}
}

func scanHero(row interface{ Scan(...any) error }) (model.HeroSlide, error) {
	var h model.HeroSlide
	var tag sql.NullString
	err := row.Scan(&h.ID, &h.Title, &h.Description, &tag, &h.ImageURL, &h.OrderIndex, &h.IsActive)
	h.Tag = tag.String
	return h, err
}

func (r *HeroRepository) List(ctx context.Context) ([]model.HeroSlide, error) {
	rows, err := r.db.Get().QueryContext(ctx,
		`SELECT id, title, description, tag, image_url, order_index, is_active FROM landing_hero ORDER BY order_index ASC`)
	if err != nil {
		return nil, fmt.Errorf("error querying hero slides: %w", err)
	}
	defer rows.Close()

	slides := make([]model.HeroSlide, 0)
	for rows.Next() {
		h, err := scanHero(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning hero slide: %w", err)
		}
		slides = append(slides, h)
	}
	return slides, rows.Err()
}

func (r *HeroRepository) Get(ctx context.Context, id int64) (model.HeroSlide, error) {
	h, err := scanHero(r.db.Get().QueryRowContext(ctx,
		`SELECT id, title, description, tag, image_url, order_index, is_active FROM landing_hero WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.HeroSlide{}, fmt.Errorf("hero slide %d: %w", id, ErrNoSuchRecord)
	}
	if err != nil {
		return model.HeroSlide{}, fmt.Errorf("error reading hero slide %d: %w", id, err)
	}
	return h, nil
}

func (r *HeroRepository) Create(ctx context.Context, h model.HeroSlide) (model.HeroSlide, error) {
	res, err := r.db.Get().ExecContext(ctx,
		`INSERT INTO landing_hero (title, description, tag, image_url, order_index, is_active) VALUES (?, ?, ?, ?, ?, ?)`,
		h.Title, h.Description, nullable(h.Tag), h.ImageURL, h.OrderIndex, h.IsActive)
	if err != nil {
		return model.HeroSlide{}, fmt.Errorf("error creating hero slide: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.HeroSlide{}, fmt.Errorf("error reading new hero id: %w", err)
	}
	return r.Get(ctx, id)
}

func (r *HeroRepository) Update(ctx context.Context, id int64, h model.HeroSlide) (model.HeroSlide, error) {
	res, err := r.db.Get().ExecContext(ctx,
		`UPDATE landing_hero SET title = ?, description = ?, tag = ?, image_url = ?, order_index = ?, is_active = ? WHERE id = ?`,
		h.Title, h.Description, nullable(h.Tag), h.ImageURL, h.OrderIndex, h.IsActive, id)
	if err != nil {
		return model.HeroSlide{}, fmt.Errorf("error updating hero slide %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.HeroSlide{}, fmt.Errorf("hero slide %d: %w", id, ErrNoSuchRecord)
	}
	return r.Get(ctx, id)
}

func (r *HeroRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.Get().ExecContext(ctx, `DELETE FROM landing_hero WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("error deleting hero slide %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("hero slide %d: %w", id, ErrNoSuchRecord)
	}
	return nil
}

// Replace upserts the full carousel in one transaction and returns the
// resulting rows in order.
func (r *HeroRepository) Replace(ctx context.Context, slides []model.HeroSlide) ([]model.HeroSlide, error) {
	tx, err := r.db.Get().BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("error starting hero upsert: %w", err)
	}
	defer tx.Rollback()

	for _, h := range slides {
		if h.ID > 0 {
			if _, err := tx.ExecContext(ctx,
				`UPDATE landing_hero SET title = ?, description = ?, tag = ?, image_url = ?, order_index = ?, is_active = ? WHERE id = ?`,
				h.Title, h.Description, nullable(h.Tag), h.ImageURL, h.OrderIndex, h.IsActive, h.ID); err != nil {
				return nil, fmt.Errorf("error upserting hero slide %d: %w", h.ID, err)
			}
		} else {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO landing_hero (title, description, tag, image_url, order_index, is_active) VALUES (?, ?, ?, ?, ?, ?)`,
				h.Title, h.Description, nullable(h.Tag), h.ImageURL, h.OrderIndex, h.IsActive); err != nil {
				return nil, fmt.Errorf("error inserting hero slide: %w", err)
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("error committing hero upsert: %w", err)
	}
	return r.List(ctx)
}

// InstagramRepository mirrors HeroRepository for the Instagram grid.
type InstagramRepository struct {
	db db.DB
}

func NewInstagramRepository(db db.DB) *InstagramRepository {
	return &InstagramRepository{db: db}
}

func scanInstagram(row interface{ Scan(...any) error }) (model.InstagramPost, error) {
	var p model.InstagramPost
	var caption, href sql.NullString
	err := row.Scan(&p.ID, &p.ImageURL, &caption, &href, &p.OrderIndex, &p.IsActive)
	p.Caption = caption.String
	p.Href = href.String
	return p, err
}

func (r *InstagramRepository) List(ctx context.Context) ([]model.InstagramPost, error) {
	rows, err := r.db.Get().QueryContext(ctx,
		`SELECT id, image_url, caption, href, order_index, is_active FROM landing_instagram ORDER BY order_index ASC`)
	if err != nil {
		return nil, fmt.Errorf("error querying instagram posts: %w", err)
	}
	defer rows.Close()

	posts := make([]model.InstagramPost, 0)
	for rows.Next() {
		p, err := scanInstagram(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning instagram post: %w", err)
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (r *InstagramRepository) Get(ctx context.Context, id int64) (model.InstagramPost, error) {
	p, err := scanInstagram(r.db.Get().QueryRowContext(ctx,
		`SELECT id, image_url, caption, href, order_index, is_active FROM landing_instagram WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.InstagramPost{}, fmt.Errorf("instagram post %d: %w", id, ErrNoSuchRecord)
	}
	if err != nil {
		return model.InstagramPost{}, fmt.Errorf("error reading instagram post %d: %w", id, err)
	}
	return p, nil
}

func (r *InstagramRepository) Create(ctx context.Context, p model.InstagramPost) (model.InstagramPost, error) {
	res, err := r.db.Get().ExecContext(ctx,
		`INSERT INTO landing_instagram (image_url, caption, href, order_index, is_active) VALUES (?, ?, ?, ?, ?)`,
		p.ImageURL, nullable(p.Caption), nullable(p.Href), p.OrderIndex, p.IsActive)
	if err != nil {
		return model.InstagramPost{}, fmt.Errorf("error creating instagram post: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.InstagramPost{}, fmt.Errorf("error reading new instagram id: %w", err)
	}
	return r.Get(ctx, id)
}

func (r *InstagramRepository) Update(ctx context.Context, id int64, p model.InstagramPost) (model.InstagramPost, error) {
	res, err := r.db.Get().ExecContext(ctx,
		`UPDATE landing_instagram SET image_url = ?, caption = ?, href = ?, order_index = ?, is_active = ? WHERE id = ?`,
		p.ImageURL, nullable(p.Caption), nullable(p.Href), p.OrderIndex, p.IsActive, id)
	if err != nil {
		return model.InstagramPost{}, fmt.Errorf("error updating instagram post %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.InstagramPost{}, fmt.Errorf("instagram post %d: %w", id, ErrNoSuchRecord)
	}
	return r.Get(ctx, id)
}

func (r *InstagramRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.Get().ExecContext(ctx, `DELETE FROM landing_instagram WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("error deleting instagram post %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("instagram post %d: %w", id, ErrNoSuchRecord)
	}
	return nil
}

func (r *InstagramRepository) Replace(ctx context.Context, posts []model.InstagramPost) ([]model.InstagramPost, error) {
	tx, err := r.db.Get().BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("error starting instagram upsert: %w", err)
	}
	defer tx.Rollback()

	for _, p := range posts {
		if p.ID > 0 {
			if _, err := tx.ExecContext(ctx,
				`UPDATE landing_instagram SET image_url = ?, caption = ?, href = ?, order_index = ?, is_active = ? WHERE id = ?`,
				p.ImageURL, nullable(p.Caption), nullable(p.Href), p.OrderIndex, p.IsActive, p.ID); err != nil {
				return nil, fmt.Errorf("error upserting instagram post %d: %w", p.ID, err)
			}
		} else {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO landing_instagram (image_url, caption, href, order_index, is_active) VALUES (?, ?, ?, ?, ?)`,
				p.ImageURL, nullable(p.Caption), nullable(p.Href), p.OrderIndex, p.IsActive); err != nil {
				return nil, fmt.Errorf("error inserting instagram post: %w", err)
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("error committing instagram upsert: %w", err)
	}
	return r.List(ctx)
}

// AboutRepository manages the single-row about section.
type AboutRepository struct {
	db db.DB
}

func NewAboutRepository(db db.DB) *AboutRepository {
	return &AboutRepository{db: db}
}

// Get returns the stored section, or the landing page defaults when
// nothing has been saved yet.
func (r *AboutRepository) Get(ctx context.Context) (model.About, error) {
	var a model.About
	var tagline, badge, handle sql.NullString
	err := r.db.Get().QueryRowContext(ctx,
		`SELECT id, title, tagline, body, image_url, badge_text, cta_text, cta_href, instagram_handle
		 FROM landing_about ORDER BY id ASC LIMIT 1`).
		Scan(&a.ID, &a.Title, &tagline, &a.Body, &a.ImageURL, &badge, &a.CTAText, &a.CTAHref, &handle)
	if errors.Is(err, sql.ErrNoRows) {
		return model.DefaultAbout(), nil
	}
	if err != nil {
		return model.About{}, fmt.Errorf("error reading about section: %w", err)
	}
	a.Tagline = tagline.String
	a.BadgeText = badge.String
	a.InstagramHandle = handle.String
	return a, nil
}

func (r *AboutRepository) Upsert(ctx context.Context, a model.About) (model.About, error) {
	if a.ID > 0 {
		_, err := r.db.Get().ExecContext(ctx,
			`UPDATE landing_about SET title = ?, tagline = ?, body = ?, image_url = ?, badge_text = ?,
			 cta_text = ?, cta_href = ?, instagram_handle = ? WHERE id = ?`,
			a.Title, nullable(a.Tagline), a.Body, a.ImageURL, nullable(a.BadgeText),
			a.CTAText, a.CTAHref, nullable(a.InstagramHandle), a.ID)
		if err != nil {
			return model.About{}, fmt.Errorf("error updating about section: %w", err)
		}
	} else {
		_, err := r.db.Get().ExecContext(ctx,
			`INSERT INTO landing_about (title, tagline, body, image_url, badge_text, cta_text, cta_href, instagram_handle)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			a.Title, nullable(a.Tagline), a.Body, a.ImageURL, nullable(a.BadgeText),
			a.CTAText, a.CTAHref, nullable(a.InstagramHandle))
		if err != nil {
			return model.About{}, fmt.Errorf("error inserting about section: %w", err)
		}
	}
	return r.Get(ctx)
}
