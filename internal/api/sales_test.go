package api

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/tierraquerida/tq-admin/internal/db"
	"github.com/tierraquerida/tq-admin/internal/repository"
	"github.com/tierraquerida/tq-admin/internal/sse"
)

func newSalesServer(t *testing.T) (*httptest.Server, db.DB) {
	t.Helper()
	database := db.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err := database.InitDB(); err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	mux := http.NewServeMux()
	NewSalesHandler(repository.NewSalesRepository(database), sse.NewSSEClients(), time.UTC).Register(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, database
}

func insertSale(t *testing.T, database db.DB, menuID int64, name string, qty int64, total float64, at time.Time, storeID int64) {
	t.Helper()
	_, err := database.Get().Exec(
		`INSERT INTO pedido_items (menu_id, nombre_snapshot, qty, line_total, created_at, pv_id)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		menuID, name, qty, total, at, storeID)
	if err != nil {
		t.Fatalf("Failed to insert sale line: %v", err)
	}
}

func reportTotals(t *testing.T, body map[string]any) (qty float64, revenue float64) {
	t.Helper()
	report, ok := body["report"].(map[string]any)
	if !ok {
		t.Fatalf("Expected report in response, got %v", body)
	}
	totals := report["totals"].(map[string]any)
	return totals["qty"].(float64), totals["revenue"].(float64)
}

func TestSalesByTimestamp(t *testing.T) {
	srv, database := newSalesServer(t)

	shiftOpen := time.Date(2024, 3, 5, 14, 0, 0, 0, time.UTC)
	shiftClose := time.Date(2024, 3, 5, 22, 0, 0, 0, time.UTC)

	insertSale(t, database, 1, "Arepa", 2, 10, shiftOpen.Add(-time.Second), 7)
	insertSale(t, database, 1, "Arepa", 3, 15, shiftOpen, 7)
	insertSale(t, database, 2, "Bandeja", 1, 30, shiftClose.Add(-time.Minute), 7)
	insertSale(t, database, 2, "Bandeja", 4, 120, shiftClose, 7)
	insertSale(t, database, 3, "Patacón", 9, 45, shiftOpen.Add(time.Hour), 8)

	t.Run("Bounds are inclusive-exclusive", func(t *testing.T) {
		code, body := doJSON(t, http.MethodGet, srv.URL+"/api/admin/pv/7/sales-ts"+
			"?from_ts="+shiftOpen.Format(time.RFC3339)+
			"&to_ts="+shiftClose.Format(time.RFC3339), nil)
		if code != http.StatusOK {
			t.Fatalf("Expected 200, got %d (%v)", code, body)
		}
		qty, revenue := reportTotals(t, body)
		if qty != 4 || revenue != 45 {
			t.Errorf("Expected qty 4 revenue 45 inside the shift, got qty %v revenue %v", qty, revenue)
		}
	})

	t.Run("Scoped to the requested store", func(t *testing.T) {
		code, body := doJSON(t, http.MethodGet, srv.URL+"/api/admin/pv/8/sales-ts", nil)
		if code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", code)
		}
		qty, _ := reportTotals(t, body)
		if qty != 9 {
			t.Errorf("Expected only store 8's lines, got qty %v", qty)
		}
	})

	t.Run("Missing bounds cover everything", func(t *testing.T) {
		code, body := doJSON(t, http.MethodGet, srv.URL+"/api/admin/pv/7/sales-ts", nil)
		if code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", code)
		}
		qty, _ := reportTotals(t, body)
		if qty != 10 {
			t.Errorf("Expected all of store 7, got qty %v", qty)
		}
	})

	t.Run("Malformed bound is ignored", func(t *testing.T) {
		code, body := doJSON(t, http.MethodGet, srv.URL+"/api/admin/pv/7/sales-ts?from_ts=ayer", nil)
		if code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", code)
		}
		qty, _ := reportTotals(t, body)
		if qty != 10 {
			t.Errorf("Expected unbounded window, got qty %v", qty)
		}
	})

	t.Run("Invalid id", func(t *testing.T) {
		code, _ := doJSON(t, http.MethodGet, srv.URL+"/api/admin/pv/abc/sales-ts", nil)
		if code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", code)
		}
	})
}

func TestSalesSummaryRoute(t *testing.T) {
	srv, database := newSalesServer(t)
	insertSale(t, database, 1, "Arepa", 2, 10, time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC), 7)

	code, body := doJSON(t, http.MethodGet, srv.URL+"/api/admin/pv/sales/summary", nil)
	if code != http.StatusOK {
		t.Fatalf("Expected 200, got %d (%v)", code, body)
	}
	qty, revenue := reportTotals(t, body)
	if qty != 2 || revenue != 10 {
		t.Errorf("Unexpected totals: qty %v revenue %v", qty, revenue)
	}
}
