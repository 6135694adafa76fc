package repository

import (
	"context"
	"fmt"

	"github.com/tierraquerida/tq-admin/internal/db"
	"github.com/tierraquerida/tq-admin/internal/model"
)

// ShiftRepository exposes the read-only shift board. Shifts are opened
// and closed by the kitchen app; the panel only observes them.
type ShiftRepository struct {
	db db.DB
}

func NewShiftRepository(db db.DB) *ShiftRepository {
	return &ShiftRepository{db: db}
}

// Active lists open shifts, newest first.
func (r *ShiftRepository) Active(ctx context.Context) ([]model.Shift, error) {
	rows, err := r.db.Get().QueryContext(ctx,
		`SELECT id, store_id, COALESCE(opened_by, ''), opened_at, closed_at, COALESCE(notes, ''),
		        COALESCE(admin_name, ''), COALESCE(sede_name, ''), expires_at, warning_sent_at, extended_minutes
		 FROM shifts WHERE closed_at IS NULL ORDER BY opened_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("error querying active shifts: %w", err)
	}
	defer rows.Close()

	shifts := make([]model.Shift, 0)
	for rows.Next() {
		var s model.Shift
		if err := rows.Scan(&s.ID, &s.StoreID, &s.OpenedBy, &s.OpenedAt, &s.ClosedAt, &s.Notes,
			&s.AdminName, &s.SedeName, &s.ExpiresAt, &s.WarningSentAt, &s.ExtendedMinutes); err != nil {
			return nil, fmt.Errorf("error scanning shift: %w", err)
		}
		shifts = append(shifts, s)
	}
	return shifts, rows.Err()
}
