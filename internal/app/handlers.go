package app

import (
	"gorm.io/gorm"

	"github.com/darekanikki/diary-backend/internal/clock"
	"github.com/darekanikki/diary-backend/internal/handlers"
	"github.com/darekanikki/diary-backend/internal/pkg/logger"
)

type Handlers struct {
	Pages    *handlers.PageHandler
	Today    *handlers.TodayHandler
	Entries  *handlers.EntriesHandler
	Versions *handlers.VersionsHandler
	Health   *handlers.HealthHandler
}

func wireHandlers(log *logger.Logger, cfg Config, calendar *clock.Calendar, db *gorm.DB, clients Clients, serviceset Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Pages: handlers.NewPageHandler(
			log,
			calendar,
			serviceset.Entry,
			serviceset.Version,
			serviceset.Feed,
			serviceset.Auth,
			cfg.TurnstileSiteKey,
			cfg.BaseURL,
		),
		Today:    handlers.NewTodayHandler(log, calendar, serviceset.Entry, clients.Turnstile, clients.RateLimiter),
		Entries:  handlers.NewEntriesHandler(log, calendar, serviceset.Entry),
		Versions: handlers.NewVersionsHandler(log, serviceset.Version),
		Health:   handlers.NewHealthHandler(log, db, clients.Redis),
	}
}
