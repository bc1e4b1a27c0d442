package app

import (
	"html/template"

	"github.com/gin-gonic/gin"

	"github.com/darekanikki/diary-backend/internal/observability"
	"github.com/darekanikki/diary-backend/internal/pkg/logger"
	"github.com/darekanikki/diary-backend/internal/server"
)

func wireRouter(log *logger.Logger, cfg Config, templates *template.Template, handlerset Handlers, mw Middleware, metrics *observability.Metrics) *gin.Engine {
	log.Info("Wiring router...")
	return server.NewRouter(server.RouterConfig{
		Log:       log,
		Templates: templates,

		PageHandler:     handlerset.Pages,
		TodayHandler:    handlerset.Today,
		EntriesHandler:  handlerset.Entries,
		VersionsHandler: handlerset.Versions,
		HealthHandler:   handlerset.Health,

		AuthMiddleware: mw.Auth,

		Metrics:        metrics,
		AllowedOrigins: cfg.AllowedOrigins,
	})
}
