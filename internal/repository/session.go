package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tierraquerida/tq-admin/internal/db"
	"github.com/tierraquerida/tq-admin/internal/model"
)

// AdminRepository backs the panel's own login: admin accounts and
// their opaque session tokens.
type AdminRepository struct {
	db db.DB
}

func NewAdminRepository(db db.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

// AdminByEmail returns the account with its password hash for login
// verification. Inactive accounts are invisible here.
func (r *AdminRepository) AdminByEmail(ctx context.Context, email string) (model.Admin, error) {
	var a model.Admin
	var active int64
	err := r.db.Get().QueryRowContext(ctx,
		`SELECT id, email, password_hash, role, is_active FROM admin_users WHERE email = ? AND is_active = 1`,
		email).Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Role, &active)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Admin{}, fmt.Errorf("admin %q: %w", email, ErrNoSuchRecord)
	}
	if err != nil {
		return model.Admin{}, fmt.Errorf("error reading admin %q: %w", email, err)
	}
	a.IsActive = active != 0
	return a, nil
}

// AdminByToken resolves a session cookie to its live admin. Expired
// tokens and deactivated accounts both come back as ErrNoSuchRecord.
func (r *AdminRepository) AdminByToken(ctx context.Context, token string) (model.Admin, error) {
	var a model.Admin
	var active int64
	err := r.db.Get().QueryRowContext(ctx,
		`SELECT u.id, u.email, u.role, u.is_active
		 FROM admin_sessions s JOIN admin_users u ON u.id = s.admin_id
		 WHERE s.token = ? AND s.expires_at > ? AND u.is_active = 1`,
		token, time.Now()).Scan(&a.ID, &a.Email, &a.Role, &active)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Admin{}, fmt.Errorf("session: %w", ErrNoSuchRecord)
	}
	if err != nil {
		return model.Admin{}, fmt.Errorf("error resolving session: %w", err)
	}
	a.IsActive = active != 0
	return a, nil
}

func (r *AdminRepository) CreateSession(ctx context.Context, s model.Session) error {
	_, err := r.db.Get().ExecContext(ctx,
		`INSERT INTO admin_sessions (token, admin_id, expires_at) VALUES (?, ?, ?)`,
		s.Token, s.AdminID, s.ExpiresAt)
	if err != nil {
		return fmt.Errorf("error creating session: %w", err)
	}
	repoLogger.Debug().Int64("admin_id", int64(s.AdminID)).Time("expires_at", s.ExpiresAt).Msg("Session created")
	return nil
}

func (r *AdminRepository) DeleteSession(ctx context.Context, token string) error {
	if _, err := r.db.Get().ExecContext(ctx,
		`DELETE FROM admin_sessions WHERE token = ?`, token); err != nil {
		return fmt.Errorf("error deleting session: %w", err)
	}
	return nil
}

// PurgeExpired drops stale sessions and returns how many were removed.
func (r *AdminRepository) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := r.db.Get().ExecContext(ctx,
		`DELETE FROM admin_sessions WHERE expires_at <= ?`, time.Now())
	if err != nil {
		return 0, fmt.Errorf("error purging sessions: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// CreateAdmin inserts a panel account with an already-hashed password.
func (r *AdminRepository) CreateAdmin(ctx context.Context, email, passwordHash, role string) (model.AdminID, error) {
	if role == "" {
		role = "admin"
	}
	res, err := r.db.Get().ExecContext(ctx,
		`INSERT INTO admin_users (email, password_hash, role) VALUES (?, ?, ?)`,
		email, passwordHash, role)
	if err != nil {
		return 0, fmt.Errorf("error creating admin: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("error reading new admin id: %w", err)
	}
	return model.AdminID(id), nil
}
