package app

import (
	"gorm.io/gorm"

	"github.com/darekanikki/diary-backend/internal/clock"
	"github.com/darekanikki/diary-backend/internal/pkg/logger"
	"github.com/darekanikki/diary-backend/internal/services"
	"github.com/darekanikki/diary-backend/internal/web"
)

type Services struct {
	Entry   services.EntryService
	Version services.VersionService
	Feed    services.FeedService
	Auth    services.AuthService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, calendar *clock.Calendar, site *web.Site, reposet Repos) Services {
	log.Info("Wiring services...")
	channel := services.FeedChannel{
		Title:       site.Title,
		Description: site.Tagline,
		Language:    site.Language,
	}
	return Services{
		Entry:   services.NewEntryService(db, log, calendar, reposet.Entry, reposet.Version),
		Version: services.NewVersionService(db, log, reposet.Entry, reposet.Version),
		Feed:    services.NewFeedService(log, calendar, reposet.Entry, channel),
		Auth:    services.NewAuthService(log, cfg.AdminToken, cfg.AdminTokenHash, cfg.SessionSecret, cfg.SessionTTL),
	}
}
