package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tierraquerida/tq-admin/internal/db"
	"github.com/tierraquerida/tq-admin/internal/model"
)

var ErrNoSuchRecord = errors.New("no such record")

type MenuRepository struct { // implements editor.Collection[model.MenuItem]
	db db.DB
}

func NewMenuRepository(db db.DB) *MenuRepository {
	return &MenuRepository{db: db}
}

const menuColumns = `id, nombre, descripcion, tipo, activo, precio_oriente, precio_area_metrop, precio_resto_pais, cantidad, imagen`

func scanMenuItem(row interface{ Scan(...any) error }) (model.MenuItem, error) {
	var m model.MenuItem
	err := row.Scan(&m.ID, &m.Name, &m.Description, &m.Type, &m.Active,
		&m.PriceEast, &m.PriceMetro, &m.PriceRest, &m.Quantity, &m.Image)
	return m, err
}

func (r *MenuRepository) List(ctx context.Context) ([]model.MenuItem, error) {
	rows, err := r.db.Get().QueryContext(ctx, `SELECT `+menuColumns+` FROM menu ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("error querying menu: %w", err)
	}
	defer rows.Close()

	items := make([]model.MenuItem, 0)
	for rows.Next() {
		m, err := scanMenuItem(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning menu item: %w", err)
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

func (r *MenuRepository) Get(ctx context.Context, id int64) (model.MenuItem, error) {
	m, err := scanMenuItem(r.db.Get().QueryRowContext(ctx,
		`SELECT `+menuColumns+` FROM menu WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.MenuItem{}, fmt.Errorf("menu item %d: %w", id, ErrNoSuchRecord)
	}
	if err != nil {
		return model.MenuItem{}, fmt.Errorf("error reading menu item %d: %w", id, err)
	}
	return m, nil
}

func (r *MenuRepository) Create(ctx context.Context, m model.MenuItem) (model.MenuItem, error) {
	res, err := r.db.Get().ExecContext(ctx,
		`INSERT INTO menu (nombre, descripcion, tipo, activo, precio_oriente, precio_area_metrop, precio_resto_pais, cantidad, imagen)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.Name, m.Description, m.Type, m.Active, m.PriceEast, m.PriceMetro, m.PriceRest, m.Quantity, m.Image)
	if err != nil {
		return model.MenuItem{}, fmt.Errorf("error creating menu item: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return model.MenuItem{}, fmt.Errorf("error reading new menu id: %w", err)
	}
	repoLogger.Debug().Int64("id", id).Str("nombre", m.Name).Msg("Menu item created")
	return r.Get(ctx, id)
}

func (r *MenuRepository) Update(ctx context.Context, id int64, m model.MenuItem) (model.MenuItem, error) {
	res, err := r.db.Get().ExecContext(ctx,
		`UPDATE menu SET nombre = ?, descripcion = ?, tipo = ?, activo = ?, precio_oriente = ?,
		 precio_area_metrop = ?, precio_resto_pais = ?, cantidad = ?, imagen = ? WHERE id = ?`,
		m.Name, m.Description, m.Type, m.Active, m.PriceEast, m.PriceMetro, m.PriceRest, m.Quantity, m.Image, id)
	if err != nil {
		return model.MenuItem{}, fmt.Errorf("error updating menu item %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.MenuItem{}, fmt.Errorf("menu item %d: %w", id, ErrNoSuchRecord)
	}
	return r.Get(ctx, id)
}

func (r *MenuRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.Get().ExecContext(ctx, `DELETE FROM menu WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("error deleting menu item %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("menu item %d: %w", id, ErrNoSuchRecord)
	}
	return nil
}

// DeleteByType removes a whole category and its products.
func (r *MenuRepository) DeleteByType(ctx context.Context, tipo int64) error {
	_, err := r.db.Get().ExecContext(ctx, `DELETE FROM menu WHERE tipo = ?`, tipo)
	if err != nil {
		return fmt.Errorf("error deleting menu type %d: %w", tipo, err)
	}
	return nil
}
