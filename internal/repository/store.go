package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/tierraquerida/tq-admin/internal/db"
	"github.com/tierraquerida/tq-admin/internal/model"
)

type StoreRepository struct { // implements editor.Collection[model.Store]
	db db.DB
}

func NewStoreRepository(db db.DB) *StoreRepository {
	return &StoreRepository{db: db}
}

const storeColumns = `id, departamento, municipio, direccion, barrio, latitud, longitud, num_whatsapp, url_image`

func scanStore(row interface{ Scan(...any) error }) (model.Store, error) {
	var s model.Store
	var whatsapp, imageURL sql.NullString
	err := row.Scan(&s.ID, &s.Department, &s.Municipality, &s.Address, &s.Neighborhood,
		&s.Latitude, &s.Longitude, &whatsapp, &imageURL)
	s.WhatsApp = whatsapp.String
	s.ImageURL = imageURL.String
	return s, err
}

func (r *StoreRepository) List(ctx context.Context) ([]model.Store, error) {
	rows, err := r.db.Get().QueryContext(ctx,
		`SELECT `+storeColumns+` FROM coordenadas_pv ORDER BY departamento ASC, municipio ASC, barrio ASC`)
	if err != nil {
		return nil, fmt.Errorf("error querying stores: %w", err)
	}
	defer rows.Close()

	stores := make([]model.Store, 0)
	for rows.Next() {
		s, err := scanStore(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning store: %w", err)
		}
		stores = append(stores, s)
	}
	return stores, rows.Err()
}

func (r *StoreRepository) Get(ctx context.Context, id int64) (model.Store, error) {
	s, err := scanStore(r.db.Get().QueryRowContext(ctx,
		`SELECT `+storeColumns+` FROM coordenadas_pv WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Store{}, fmt.Errorf("store %d: %w", id, ErrNoSuchRecord)
	}
	if err != nil {
		return model.Store{}, fmt.Errorf("error reading store %d: %w", id, err)
	}
	return s, nil
}

func (r *StoreRepository) Create(ctx context.Context, s model.Store) (model.Store, error) {
	res, err := r.db.Get().ExecContext(ctx,
		`INSERT INTO coordenadas_pv (departamento, municipio, direccion, barrio, latitud, longitud, num_whatsapp, url_image)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.Department, s.Municipality, s.Address, s.Neighborhood, s.Latitude, s.Longitude,
		nullable(s.WhatsApp), nullable(s.ImageURL))
	if err != nil {
		return model.Store{}, fmt.Errorf("error creating store: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return model.Store{}, fmt.Errorf("error reading new store id: %w", err)
	}
	repoLogger.Debug().Int64("id", id).Str("barrio", s.Neighborhood).Msg("Store created")
	return r.Get(ctx, id)
}

func (r *StoreRepository) Update(ctx context.Context, id int64, s model.Store) (model.Store, error) {
	res, err := r.db.Get().ExecContext(ctx,
		`UPDATE coordenadas_pv SET departamento = ?, municipio = ?, direccion = ?, barrio = ?,
		 latitud = ?, longitud = ?, num_whatsapp = ?, url_image = ? WHERE id = ?`,
		s.Department, s.Municipality, s.Address, s.Neighborhood, s.Latitude, s.Longitude,
		nullable(s.WhatsApp), nullable(s.ImageURL), id)
	if err != nil {
		return model.Store{}, fmt.Errorf("error updating store %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.Store{}, fmt.Errorf("store %d: %w", id, ErrNoSuchRecord)
	}
	return r.Get(ctx, id)
}

func (r *StoreRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.Get().ExecContext(ctx, `DELETE FROM coordenadas_pv WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("error deleting store %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("store %d: %w", id, ErrNoSuchRecord)
	}
	return nil
}

// Meta builds the department and municipality dropdown data.
func (r *StoreRepository) Meta(ctx context.Context) (model.StoreMeta, error) {
	stores, err := r.List(ctx)
	if err != nil {
		return model.StoreMeta{}, err
	}

	depSet := make(map[string]struct{})
	munByDep := make(map[string]map[string]struct{})
	for _, s := range stores {
		dep := strings.TrimSpace(s.Department)
		mun := strings.TrimSpace(s.Municipality)
		if dep == "" {
			continue
		}
		depSet[dep] = struct{}{}
		if mun != "" {
			if munByDep[dep] == nil {
				munByDep[dep] = make(map[string]struct{})
			}
			munByDep[dep][mun] = struct{}{}
		}
	}

	meta := model.StoreMeta{
		Departments:         make([]string, 0, len(depSet)),
		MunicipalitiesByDep: make(map[string][]string, len(munByDep)),
	}
	for dep := range depSet {
		meta.Departments = append(meta.Departments, dep)
	}
	slices.Sort(meta.Departments)
	for dep, muns := range munByDep {
		list := make([]string, 0, len(muns))
		for mun := range muns {
			list = append(list, mun)
		}
		slices.Sort(list)
		meta.MunicipalitiesByDep[dep] = list
	}
	return meta, nil
}

func nullable(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}
