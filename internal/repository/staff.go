package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tierraquerida/tq-admin/internal/db"
	"github.com/tierraquerida/tq-admin/internal/model"
)

// KitchenRepository manages the per-store kitchen accounts. The stored
// hash is bcrypt; callers hash before writing and never read it back
// out of this package except to verify a login.
type KitchenRepository struct {
	db db.DB
}

func NewKitchenRepository(db db.DB) *KitchenRepository {
	return &KitchenRepository{db: db}
}

func scanKitchenUser(row interface{ Scan(...any) error }) (model.KitchenUser, error) {
	var u model.KitchenUser
	err := row.Scan(&u.ID, &u.Administrator, &u.Email, &u.Store)
	return u, err
}

func (r *KitchenRepository) List(ctx context.Context) ([]model.KitchenUser, error) {
	rows, err := r.db.Get().QueryContext(ctx,
		`SELECT id, administrador, correo, punto_venta FROM usercocina ORDER BY punto_venta ASC`)
	if err != nil {
		return nil, fmt.Errorf("error querying kitchen users: %w", err)
	}
	defer rows.Close()

	users := make([]model.KitchenUser, 0)
	for rows.Next() {
		u, err := scanKitchenUser(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning kitchen user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *KitchenRepository) Get(ctx context.Context, id int64) (model.KitchenUser, error) {
	u, err := scanKitchenUser(r.db.Get().QueryRowContext(ctx,
		`SELECT id, administrador, correo, punto_venta FROM usercocina WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.KitchenUser{}, fmt.Errorf("kitchen user %d: %w", id, ErrNoSuchRecord)
	}
	if err != nil {
		return model.KitchenUser{}, fmt.Errorf("error reading kitchen user %d: %w", id, err)
	}
	return u, nil
}

// Create inserts the account with an already-hashed password.
func (r *KitchenRepository) Create(ctx context.Context, u model.KitchenUser, passwordHash string) (model.KitchenUser, error) {
	res, err := r.db.Get().ExecContext(ctx,
		`INSERT INTO usercocina (administrador, correo, contrasena, punto_venta) VALUES (?, ?, ?, ?)`,
		u.Administrator, u.Email, passwordHash, u.Store)
	if err != nil {
		return model.KitchenUser{}, fmt.Errorf("error creating kitchen user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.KitchenUser{}, fmt.Errorf("error reading new kitchen user id: %w", err)
	}
	repoLogger.Debug().Int64("id", id).Str("punto_venta", u.Store).Msg("Kitchen user created")
	return r.Get(ctx, id)
}

// Update rewrites the profile fields. An empty passwordHash keeps the
// current credential.
func (r *KitchenRepository) Update(ctx context.Context, id int64, u model.KitchenUser, passwordHash string) (model.KitchenUser, error) {
	var res sql.Result
	var err error
	if passwordHash != "" {
		res, err = r.db.Get().ExecContext(ctx,
			`UPDATE usercocina SET administrador = ?, correo = ?, contrasena = ?, punto_venta = ? WHERE id = ?`,
			u.Administrator, u.Email, passwordHash, u.Store, id)
	} else {
		res, err = r.db.Get().ExecContext(ctx,
			`UPDATE usercocina SET administrador = ?, correo = ?, punto_venta = ? WHERE id = ?`,
			u.Administrator, u.Email, u.Store, id)
	}
	if err != nil {
		return model.KitchenUser{}, fmt.Errorf("error updating kitchen user %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.KitchenUser{}, fmt.Errorf("kitchen user %d: %w", id, ErrNoSuchRecord)
	}
	return r.Get(ctx, id)
}

func (r *KitchenRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.Get().ExecContext(ctx, `DELETE FROM usercocina WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("error deleting kitchen user %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("kitchen user %d: %w", id, ErrNoSuchRecord)
	}
	return nil
}

// SetPassword swaps the credential without touching profile fields.
func (r *KitchenRepository) SetPassword(ctx context.Context, id int64, passwordHash string) error {
	res, err := r.db.Get().ExecContext(ctx,
		`UPDATE usercocina SET contrasena = ? WHERE id = ?`, passwordHash, id)
	if err != nil {
		return fmt.Errorf("error resetting kitchen password %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("kitchen user %d: %w", id, ErrNoSuchRecord)
	}
	repoLogger.Debug().Int64("id", id).Msg("Kitchen password reset")
	return nil
}
