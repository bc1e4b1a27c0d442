package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/darekanikki/diary-backend/internal/clock"
	"github.com/darekanikki/diary-backend/internal/db"
	"github.com/darekanikki/diary-backend/internal/observability"
	"github.com/darekanikki/diary-backend/internal/pkg/logger"
	"github.com/darekanikki/diary-backend/internal/web"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Repos    Repos
	Services Services
	Clients  Clients

	database    *db.DatabaseService
	otelCleanup func(context.Context) error
}

func New(ctx context.Context) (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	metrics := observability.Init(log)
	otelCleanup := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: "diary-backend",
		Environment: cfg.Environment,
		Version:     cfg.Version,
	})

	site, err := web.LoadSite()
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("load site config: %w", err)
	}
	templates, err := web.Templates(site)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	database, err := db.New(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := database.AutoMigrateAll(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	theDB := database.DB()

	clientset, err := wireClients(log, cfg)
	if err != nil {
		log.Sync()
		return nil, err
	}

	calendar := clock.NewCalendar(clock.System())

	reposet := wireRepos(theDB, log)
	serviceset := wireServices(theDB, log, cfg, calendar, site, reposet)
	handlerset := wireHandlers(log, cfg, calendar, theDB, clientset, serviceset)
	mw := wireMiddleware(log, serviceset)
	router := wireRouter(log, cfg, templates, handlerset, mw, metrics)

	if !serviceset.Auth.Enabled() {
		log.Warn("ADMIN_TOKEN not set, admin endpoints reject all requests")
	}

	return &App{
		Log:         log,
		DB:          theDB,
		Router:      router,
		Cfg:         cfg,
		Repos:       reposet,
		Services:    serviceset,
		Clients:     clientset,
		database:    database,
		otelCleanup: otelCleanup,
	}, nil
}

// Run serves HTTP until ctx is cancelled, then drains in-flight
// requests before returning.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	srv := &http.Server{
		Addr:              ":" + a.Cfg.Port,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.Log.Info("HTTP server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.Log.Info("Shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.otelCleanup != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = a.otelCleanup(ctx)
		cancel()
	}
	a.Clients.Close()
	if a.database != nil {
		_ = a.database.Close()
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
