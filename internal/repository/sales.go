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

// SalesRepository reads storefront order lines. The panel never writes
// pedido_items; the storefront service owns inserts.
type SalesRepository struct {
	db db.DB
}

func NewSalesRepository(db db.DB) *SalesRepository {
	return &SalesRepository{db: db}
}

const saleColumns = `menu_id, COALESCE(nombre_snapshot, ''), qty, line_total, created_at, COALESCE(pv_id, 0)`

func scanSaleItem(row interface{ Scan(...any) error }) (model.SaleItem, error) {
	var s model.SaleItem
	err := row.Scan(&s.MenuID, &s.NameSnapshot, &s.Qty, &s.LineTotal, &s.CreatedAt, &s.StoreID)
	return s, err
}

func (r *SalesRepository) collect(rows *sql.Rows) ([]model.SaleItem, error) {
	defer rows.Close()
	lines := make([]model.SaleItem, 0)
	for rows.Next() {
		s, err := scanSaleItem(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning sale line: %w", err)
		}
		lines = append(lines, s)
	}
	return lines, rows.Err()
}

// ItemsAll returns every line in [start, end). A zero bound is open on
// that side.
func (r *SalesRepository) ItemsAll(ctx context.Context, start, end time.Time) ([]model.SaleItem, error) {
	query := `SELECT ` + saleColumns + ` FROM pedido_items WHERE 1=1`
	args := make([]any, 0, 2)
	if !start.IsZero() {
		query += ` AND created_at >= ?`
		args = append(args, start)
	}
	if !end.IsZero() {
		query += ` AND created_at < ?`
		args = append(args, end)
	}
	query += ` ORDER BY created_at ASC`

	rows, err := r.db.Get().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying sale lines: %w", err)
	}
	return r.collect(rows)
}

// ItemsForStore narrows ItemsAll to one point of sale.
func (r *SalesRepository) ItemsForStore(ctx context.Context, storeID int64, start, end time.Time) ([]model.SaleItem, error) {
	query := `SELECT ` + saleColumns + ` FROM pedido_items WHERE pv_id = ?`
	args := []any{storeID}
	if !start.IsZero() {
		query += ` AND created_at >= ?`
		args = append(args, start)
	}
	if !end.IsZero() {
		query += ` AND created_at < ?`
		args = append(args, end)
	}
	query += ` ORDER BY created_at ASC`

	rows, err := r.db.Get().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying sale lines for store %d: %w", storeID, err)
	}
	return r.collect(rows)
}

// LatestCreatedAt returns the newest order-line timestamp, or the zero
// time when the table is empty. The live-sales poller uses it as its
// high-water mark.
func (r *SalesRepository) LatestCreatedAt(ctx context.Context) (time.Time, error) {
	var ts time.Time
	err := r.db.Get().QueryRowContext(ctx,
		`SELECT created_at FROM pedido_items ORDER BY created_at DESC LIMIT 1`).Scan(&ts)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("error reading latest sale timestamp: %w", err)
	}
	return ts, nil
}

// StoresWithSalesSince lists the distinct stores that received lines
// after the given timestamp, so the poller can notify only the dashboards
// watching them.
func (r *SalesRepository) StoresWithSalesSince(ctx context.Context, since time.Time) ([]int64, error) {
	rows, err := r.db.Get().QueryContext(ctx,
		`SELECT DISTINCT COALESCE(pv_id, 0) FROM pedido_items WHERE created_at > ?`, since)
	if err != nil {
		return nil, fmt.Errorf("error querying stores with recent sales: %w", err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning store id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
