package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/tierraquerida/tq-admin/internal/db"
	"github.com/tierraquerida/tq-admin/internal/model"
)

func newTestDB(t *testing.T) db.DB {
	t.Helper()
	database := db.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err := database.InitDB(); err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func TestMenuRepositoryCRUD(t *testing.T) {
	repo := NewMenuRepository(newTestDB(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, model.MenuItem{
		Name: "Arepa", Description: "Con queso", Type: 1, Active: 1,
		PriceEast: 5, PriceMetro: 6, PriceRest: 7, Quantity: 10,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("Expected assigned id")
	}
	if created.Name != "Arepa" || created.PriceMetro != 6 {
		t.Errorf("Canonical record mismatch: %+v", created)
	}

	t.Run("List", func(t *testing.T) {
		items, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(items) != 1 || items[0].ID != created.ID {
			t.Errorf("Unexpected list: %+v", items)
		}
	})

	t.Run("Update returns canonical row", func(t *testing.T) {
		created.Name = "Arepa Rellena"
		updated, err := repo.Update(ctx, created.ID, created)
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if updated.Name != "Arepa Rellena" {
			t.Errorf("Update not persisted: %+v", updated)
		}
	})

	t.Run("Update missing row", func(t *testing.T) {
		_, err := repo.Update(ctx, 9999, created)
		if !errors.Is(err, ErrNoSuchRecord) {
			t.Errorf("Expected ErrNoSuchRecord, got %v", err)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := repo.Delete(ctx, created.ID); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if err := repo.Delete(ctx, created.ID); !errors.Is(err, ErrNoSuchRecord) {
			t.Errorf("Expected ErrNoSuchRecord on second delete, got %v", err)
		}
		if _, err := repo.Get(ctx, created.ID); !errors.Is(err, ErrNoSuchRecord) {
			t.Errorf("Expected ErrNoSuchRecord on get, got %v", err)
		}
	})
}

func TestMenuRepositoryDeleteByType(t *testing.T) {
	repo := NewMenuRepository(newTestDB(t))
	ctx := context.Background()

	for i, tipo := range []int64{1, 1, 2} {
		_, err := repo.Create(ctx, model.MenuItem{Name: "Item", Description: "d", Type: tipo, Quantity: int64(i)})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	if err := repo.DeleteByType(ctx, 1); err != nil {
		t.Fatalf("DeleteByType failed: %v", err)
	}

	items, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(items) != 1 || items[0].Type != 2 {
		t.Errorf("Expected only type 2 to survive, got %+v", items)
	}
}

func TestStoreRepositoryMeta(t *testing.T) {
	repo := NewStoreRepository(newTestDB(t))
	ctx := context.Background()

	stores := []model.Store{
		{Department: "Antioquia", Municipality: "Medellín", Address: "Cra 1", Neighborhood: "Laureles", Latitude: 6.2, Longitude: -75.5},
		{Department: "Antioquia", Municipality: "Envigado", Address: "Cra 2", Neighborhood: "Centro", Latitude: 6.1, Longitude: -75.5},
		{Department: "Cundinamarca", Municipality: "Bogotá", Address: "Cll 3", Neighborhood: "Chapinero", Latitude: 4.6, Longitude: -74.0},
	}
	for _, s := range stores {
		if _, err := repo.Create(ctx, s); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	meta, err := repo.Meta(ctx)
	if err != nil {
		t.Fatalf("Meta failed: %v", err)
	}
	if len(meta.Departments) != 2 || meta.Departments[0] != "Antioquia" {
		t.Errorf("Unexpected departments: %v", meta.Departments)
	}
	muns := meta.MunicipalitiesByDep["Antioquia"]
	if len(muns) != 2 || muns[0] != "Envigado" || muns[1] != "Medellín" {
		t.Errorf("Unexpected municipalities: %v", muns)
	}
}

func TestStoreRepositoryNullableColumns(t *testing.T) {
	repo := NewStoreRepository(newTestDB(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, model.Store{
		Department: "Antioquia", Municipality: "Medellín", Address: "Cra 1",
		Neighborhood: "Laureles", Latitude: 6.2, Longitude: -75.5,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.WhatsApp != "" || created.ImageURL != "" {
		t.Errorf("Expected empty optional fields, got %+v", created)
	}

	created.WhatsApp = "+573001234567"
	updated, err := repo.Update(ctx, created.ID, created)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.WhatsApp != "+573001234567" {
		t.Errorf("WhatsApp not persisted: %+v", updated)
	}
}

func TestSalesRepositoryWindows(t *testing.T) {
	database := newTestDB(t)
	repo := NewSalesRepository(database)
	ctx := context.Background()

	insert := func(menuID, pvID int64, ts time.Time, qty int64, total float64) {
		t.Helper()
		_, err := database.Get().ExecContext(ctx,
			`INSERT INTO pedido_items (menu_id, nombre_snapshot, qty, line_total, created_at, pv_id) VALUES (?, ?, ?, ?, ?, ?)`,
			menuID, "Producto", qty, total, ts, pvID)
		if err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	day := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	insert(1, 1, day, 2, 10)
	insert(1, 2, day.Add(time.Hour), 1, 5)
	insert(2, 1, day.AddDate(0, 0, 2), 1, 8)

	t.Run("ItemsAll bounded", func(t *testing.T) {
		start := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
		end := time.Date(2024, 1, 11, 0, 0, 0, 0, time.UTC)
		lines, err := repo.ItemsAll(ctx, start, end)
		if err != nil {
			t.Fatalf("ItemsAll failed: %v", err)
		}
		if len(lines) != 2 {
			t.Errorf("Expected 2 lines in window, got %d", len(lines))
		}
	})

	t.Run("ItemsAll unbounded", func(t *testing.T) {
		lines, err := repo.ItemsAll(ctx, time.Time{}, time.Time{})
		if err != nil {
			t.Fatalf("ItemsAll failed: %v", err)
		}
		if len(lines) != 3 {
			t.Errorf("Expected all 3 lines, got %d", len(lines))
		}
	})

	t.Run("ItemsForStore", func(t *testing.T) {
		lines, err := repo.ItemsForStore(ctx, 1, time.Time{}, time.Time{})
		if err != nil {
			t.Fatalf("ItemsForStore failed: %v", err)
		}
		if len(lines) != 2 {
			t.Errorf("Expected 2 lines for store 1, got %d", len(lines))
		}
		for _, line := range lines {
			if line.StoreID != 1 {
				t.Errorf("Foreign store line leaked: %+v", line)
			}
		}
	})

	t.Run("LatestCreatedAt", func(t *testing.T) {
		latest, err := repo.LatestCreatedAt(ctx)
		if err != nil {
			t.Fatalf("LatestCreatedAt failed: %v", err)
		}
		if !latest.Equal(day.AddDate(0, 0, 2)) {
			t.Errorf("Expected latest %v, got %v", day.AddDate(0, 0, 2), latest)
		}
	})

	t.Run("StoresWithSalesSince", func(t *testing.T) {
		ids, err := repo.StoresWithSalesSince(ctx, day.AddDate(0, 0, 1))
		if err != nil {
			t.Fatalf("StoresWithSalesSince failed: %v", err)
		}
		if len(ids) != 1 || ids[0] != 1 {
			t.Errorf("Expected only store 1, got %v", ids)
		}
	})
}

func TestSalesRepositoryEmpty(t *testing.T) {
	repo := NewSalesRepository(newTestDB(t))

	latest, err := repo.LatestCreatedAt(context.Background())
	if err != nil {
		t.Fatalf("LatestCreatedAt failed: %v", err)
	}
	if !latest.IsZero() {
		t.Errorf("Expected zero time on empty table, got %v", latest)
	}
}

func TestAdminRepositorySessions(t *testing.T) {
	repo := NewAdminRepository(newTestDB(t))
	ctx := context.Background()

	id, err := repo.CreateAdmin(ctx, "ops@tierraquerida.com", "$2a$10$fakehashfakehashfakehash", "")
	if err != nil {
		t.Fatalf("CreateAdmin failed: %v", err)
	}

	t.Run("AdminByEmail", func(t *testing.T) {
		admin, err := repo.AdminByEmail(ctx, "ops@tierraquerida.com")
		if err != nil {
			t.Fatalf("AdminByEmail failed: %v", err)
		}
		if admin.ID != id || admin.Role != "admin" || !admin.IsActive {
			t.Errorf("Unexpected admin: %+v", admin)
		}
	})

	t.Run("Unknown email", func(t *testing.T) {
		if _, err := repo.AdminByEmail(ctx, "nadie@example.com"); !errors.Is(err, ErrNoSuchRecord) {
			t.Errorf("Expected ErrNoSuchRecord, got %v", err)
		}
	})

	t.Run("Valid token resolves", func(t *testing.T) {
		session := model.Session{Token: "tok-valid", AdminID: id, ExpiresAt: time.Now().Add(time.Hour)}
		if err := repo.CreateSession(ctx, session); err != nil {
			t.Fatalf("CreateSession failed: %v", err)
		}
		admin, err := repo.AdminByToken(ctx, "tok-valid")
		if err != nil {
			t.Fatalf("AdminByToken failed: %v", err)
		}
		if admin.ID != id {
			t.Errorf("Wrong admin resolved: %+v", admin)
		}
	})

	t.Run("Expired token rejected", func(t *testing.T) {
		session := model.Session{Token: "tok-expired", AdminID: id, ExpiresAt: time.Now().Add(-time.Hour)}
		if err := repo.CreateSession(ctx, session); err != nil {
			t.Fatalf("CreateSession failed: %v", err)
		}
		if _, err := repo.AdminByToken(ctx, "tok-expired"); !errors.Is(err, ErrNoSuchRecord) {
			t.Errorf("Expected ErrNoSuchRecord for expired token, got %v", err)
		}
	})

	t.Run("PurgeExpired removes stale sessions", func(t *testing.T) {
		n, err := repo.PurgeExpired(ctx)
		if err != nil {
			t.Fatalf("PurgeExpired failed: %v", err)
		}
		if n != 1 {
			t.Errorf("Expected 1 purged session, got %d", n)
		}
		// The live session survives.
		if _, err := repo.AdminByToken(ctx, "tok-valid"); err != nil {
			t.Errorf("Valid session purged: %v", err)
		}
	})

	t.Run("DeleteSession revokes", func(t *testing.T) {
		if err := repo.DeleteSession(ctx, "tok-valid"); err != nil {
			t.Fatalf("DeleteSession failed: %v", err)
		}
		if _, err := repo.AdminByToken(ctx, "tok-valid"); !errors.Is(err, ErrNoSuchRecord) {
			t.Errorf("Expected revoked session to be rejected, got %v", err)
		}
	})
}

func TestKitchenRepositoryPasswordFlow(t *testing.T) {
	repo := NewKitchenRepository(newTestDB(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, model.KitchenUser{
		Administrator: "Luisa", Email: "laureles@tq.com", Store: "Laureles",
	}, "hash-1")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.PasswordHash != "" {
		t.Error("Password hash must not be read back")
	}

	t.Run("Update keeps password when empty", func(t *testing.T) {
		created.Administrator = "Luisa M"
		if _, err := repo.Update(ctx, created.ID, created, ""); err != nil {
			t.Fatalf("Update failed: %v", err)
		}
	})

	t.Run("SetPassword", func(t *testing.T) {
		if err := repo.SetPassword(ctx, created.ID, "hash-2"); err != nil {
			t.Fatalf("SetPassword failed: %v", err)
		}
		if err := repo.SetPassword(ctx, 9999, "hash-3"); !errors.Is(err, ErrNoSuchRecord) {
			t.Errorf("Expected ErrNoSuchRecord, got %v", err)
		}
	})
}

func TestHeroRepositoryReplace(t *testing.T) {
	repo := NewHeroRepository(newTestDB(t))
	ctx := context.Background()

	slides, err := repo.Replace(ctx, []model.HeroSlide{
		{Title: "Uno", Description: "d1", ImageURL: "/a.webp", OrderIndex: 0, IsActive: true},
		{Title: "Dos", Description: "d2", ImageURL: "/b.webp", OrderIndex: 1, IsActive: true},
	})
	if err != nil {
		t.Fatalf("Replace failed: %v", err)
	}
	if len(slides) != 2 || slides[0].Title != "Uno" {
		t.Fatalf("Unexpected slides: %+v", slides)
	}

	// Second replace updates in place and appends.
	slides[0].Title = "Uno v2"
	slides = append(slides, model.HeroSlide{Title: "Tres", Description: "d3", ImageURL: "/c.webp", OrderIndex: 2})
	again, err := repo.Replace(ctx, slides)
	if err != nil {
		t.Fatalf("Second replace failed: %v", err)
	}
	if len(again) != 3 || again[0].Title != "Uno v2" {
		t.Errorf("Replace did not upsert: %+v", again)
	}
}

func TestAboutRepositoryDefaults(t *testing.T) {
	repo := NewAboutRepository(newTestDB(t))
	ctx := context.Background()

	about, err := repo.Get(ctx)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if about.ID != 0 || about.Title != "¿Quiénes Somos?" {
		t.Errorf("Expected defaults before first save, got %+v", about)
	}

	about.Title = "Nosotros"
	saved, err := repo.Upsert(ctx, about)
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if saved.ID == 0 || saved.Title != "Nosotros" {
		t.Errorf("Upsert did not persist: %+v", saved)
	}

	saved.Body = "Texto nuevo"
	updated, err := repo.Upsert(ctx, saved)
	if err != nil {
		t.Fatalf("Second upsert failed: %v", err)
	}
	if updated.ID != saved.ID || updated.Body != "Texto nuevo" {
		t.Errorf("Upsert created a second row: %+v", updated)
	}
}

func TestShiftRepositoryActive(t *testing.T) {
	database := newTestDB(t)
	repo := NewShiftRepository(database)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	_, err := database.Get().ExecContext(ctx,
		`INSERT INTO shifts (store_id, opened_by, opened_at, sede_name) VALUES (1, 'Luisa', ?, 'Laureles')`, now)
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	_, err = database.Get().ExecContext(ctx,
		`INSERT INTO shifts (store_id, opened_by, opened_at, closed_at) VALUES (2, 'Pedro', ?, ?)`,
		now.Add(-8*time.Hour), now)
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	shifts, err := repo.Active(ctx)
	if err != nil {
		t.Fatalf("Active failed: %v", err)
	}
	if len(shifts) != 1 || shifts[0].StoreID != 1 {
		t.Errorf("Expected only the open shift, got %+v", shifts)
	}
	if shifts[0].ClosedAt != nil {
		t.Errorf("Open shift has closed_at: %+v", shifts[0])
	}
}
