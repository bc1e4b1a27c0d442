package server

import (
	"html/template"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/darekanikki/diary-backend/internal/handlers"
	"github.com/darekanikki/diary-backend/internal/middleware"
	"github.com/darekanikki/diary-backend/internal/observability"
	"github.com/darekanikki/diary-backend/internal/pkg/logger"
)

type RouterConfig struct {
	Log       *logger.Logger
	Templates *template.Template

	PageHandler     *handlers.PageHandler
	TodayHandler    *handlers.TodayHandler
	EntriesHandler  *handlers.EntriesHandler
	VersionsHandler *handlers.VersionsHandler
	HealthHandler   *handlers.HealthHandler

	AuthMiddleware *middleware.AuthMiddleware

	Metrics        *observability.Metrics
	AllowedOrigins []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	// Span first so trace context can pick up its trace ID.
	r.Use(otelgin.Middleware("diary-backend"))
	r.Use(middleware.AttachTraceContext())
	r.Use(middleware.RequestLogger(cfg.Log))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.Metrics(cfg.Metrics))

	if cfg.Templates != nil {
		r.SetHTMLTemplate(cfg.Templates)
	}

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthz", cfg.HealthHandler.Live)
		r.GET("/readyz", cfg.HealthHandler.Ready)
	}

	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapF(cfg.Metrics.WriteHTTP))
	}

	// Pages (public)
	if cfg.PageHandler != nil {
		r.GET("/", cfg.PageHandler.Home)
		r.GET("/a", cfg.PageHandler.About)
		r.GET("/feed", cfg.PageHandler.Feed)
		r.GET("/entries", cfg.PageHandler.Archive)
		r.GET("/entries/:date", cfg.PageHandler.EntryByDate)
		r.GET("/admin/login", cfg.PageHandler.AdminLoginPage)
		r.POST("/admin/login", cfg.PageHandler.AdminLoginSubmit)
		r.GET("/admin/logout", cfg.PageHandler.AdminLogout)
		r.NoRoute(cfg.PageHandler.NotFound)
	}

	// Pages (admin)
	if cfg.PageHandler != nil && cfg.AuthMiddleware != nil {
		adminPages := r.Group("/admin", cfg.AuthMiddleware.RequirePage())
		adminPages.GET("/versions", cfg.PageHandler.AdminVersionsIndex)
		adminPages.GET("/entries/:date/versions", cfg.PageHandler.AdminVersionsList)
		adminPages.GET("/entries/:date/versions/:version", cfg.PageHandler.AdminVersionDetail)
	}

	api := r.Group("/api")
	{
		if cfg.TodayHandler != nil {
			api.GET("/today", cfg.TodayHandler.GetToday)
			api.POST("/today", cfg.TodayHandler.PostToday)
		}
		if cfg.EntriesHandler != nil {
			api.GET("/entries", cfg.EntriesHandler.ListEntries)
			api.GET("/entries/:date", cfg.EntriesHandler.GetEntryByDate)
		}
	}

	if cfg.VersionsHandler != nil && cfg.AuthMiddleware != nil {
		adminAPI := api.Group("/admin", cfg.AuthMiddleware.RequireAPI())
		adminAPI.GET("/entries/:date/versions", cfg.VersionsHandler.ListVersions)
		adminAPI.GET("/entries/:date/versions/:version", cfg.VersionsHandler.GetVersion)
	}

	return r
}
