package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/tierraquerida/tq-admin/internal/api"
	"github.com/tierraquerida/tq-admin/internal/auth"
	"github.com/tierraquerida/tq-admin/internal/config"
	"github.com/tierraquerida/tq-admin/internal/db"
	"github.com/tierraquerida/tq-admin/internal/editor"
	"github.com/tierraquerida/tq-admin/internal/logger"
	"github.com/tierraquerida/tq-admin/internal/repository"
	"github.com/tierraquerida/tq-admin/internal/sales"
	"github.com/tierraquerida/tq-admin/internal/sse"
	"github.com/tierraquerida/tq-admin/internal/storage"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "No .env file loaded")
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	if err := config.LoadConfig(configPath); err != nil {
		fmt.Fprintln(os.Stderr, "Error loading config:", err)
		os.Exit(1)
	}
	cfg := config.AppConfig

	l := logger.New(cfg.Logging.Level, cfg.Logging.Pretty)
	config.SetLogger(l.With().Str("component", "config").Logger())
	db.SetLogger(l.With().Str("component", "db").Logger())
	repository.SetLogger(l.With().Str("component", "repository").Logger())
	editor.SetLogger(l.With().Str("component", "editor").Logger())
	auth.SetLogger(l.With().Str("component", "auth").Logger())
	api.SetLogger(l.With().Str("component", "api").Logger())
	storage.SetLogger(l.With().Str("component", "storage").Logger())
	sales.SetLogger(l.With().Str("component", "sales").Logger())

	database := db.NewSQLite(os.Getenv("DB_PATH"))
	if err := database.InitDB(); err != nil {
		l.Fatal().Err(err).Msg("Database initialization failed")
	}
	defer database.Close()

	images := storage.NewImageStore(
		os.Getenv("S3_ACCESS_KEY_ID"),
		os.Getenv("S3_SECRET_ACCESS_KEY"),
		os.Getenv("S3_ENDPOINT"),
		os.Getenv("S3_PUBLIC_BASE"),
		cfg.Storage.Bucket,
		cfg.Storage.BaseFolder,
	)

	menuRepo := repository.NewMenuRepository(database)
	storeRepo := repository.NewStoreRepository(database)
	heroRepo := repository.NewHeroRepository(database)
	aboutRepo := repository.NewAboutRepository(database)
	instagramRepo := repository.NewInstagramRepository(database)
	kitchenRepo := repository.NewKitchenRepository(database)
	salesRepo := repository.NewSalesRepository(database)
	shiftRepo := repository.NewShiftRepository(database)
	adminRepo := repository.NewAdminRepository(database)

	authProvider := auth.NewSessionAuthProvider(adminRepo, cfg.Auth)
	clients := sse.NewSSEClients()
	poller := sales.NewPoller(salesRepo, clients)

	adminMux := http.NewServeMux()
	api.NewMenuHandler(menuRepo).Register(adminMux)
	api.NewStoreHandler(storeRepo).Register(adminMux)
	api.NewLandingHandler(heroRepo, aboutRepo, instagramRepo).Register(adminMux)
	api.NewStaffHandler(kitchenRepo).Register(adminMux)
	api.NewSalesHandler(salesRepo, clients, time.Local).Register(adminMux)
	api.NewShiftHandler(shiftRepo).Register(adminMux)
	api.NewUploadHandler(images, cfg.Storage.MaxUploadBytes).Register(adminMux)

	api.NewMenuEditor(menuRepo, images).Register(adminMux)
	api.NewStoreEditor(storeRepo).Register(adminMux)
	api.NewHeroEditor(heroRepo).Register(adminMux)
	api.NewInstagramEditor(instagramRepo).Register(adminMux)

	requireAdmin := authProvider.WithAdminAuthorization()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", authProvider.HandleLogin)
	mux.HandleFunc("POST /api/auth/logout", authProvider.HandleLogout)
	mux.Handle("GET /api/auth/me", requireAdmin(http.HandlerFunc(authProvider.HandleMe)))
	mux.Handle("/api/admin/", requireAdmin(adminMux))

	scheduler := cron.New()
	scheduler.AddFunc("@every 1h", func() {
		authProvider.PurgeExpiredSessions(context.Background())
	})
	scheduler.AddFunc(fmt.Sprintf("@every %ds", cfg.Sales.PollSeconds), func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		poller.Poll(ctx)
	})
	scheduler.Start()
	defer scheduler.Stop()

	addr := cfg.Server.Host + ":" + cfg.Server.Port
	server := &http.Server{
		Addr:    addr,
		Handler: api.WithRequestLog(api.WithGzip(mux)),
		// WriteTimeout stays 0: the sales stream holds its response open.
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	l.Info().Str("addr", addr).Msg("Admin panel listening")
	if err := server.ListenAndServe(); err != nil {
		l.Fatal().Err(err).Msg("Server stopped")
	}
}
