package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/darekanikki/diary-backend/internal/pkg/logger"
)

const readyCheckTimeout = 5 * time.Second

type HealthHandler struct {
	log *logger.Logger
	db  *gorm.DB
	rdb *goredis.Client
}

// NewHealthHandler wires the liveness and readiness probes. rdb may be
// nil when rate limiting is disabled; readiness then checks storage only.
func NewHealthHandler(baseLog *logger.Logger, db *gorm.DB, rdb *goredis.Client) *HealthHandler {
	return &HealthHandler{
		log: baseLog.With("handler", "HealthHandler"),
		db:  db,
		rdb: rdb,
	}
}

// GET /healthz
func (h *HealthHandler) Live(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// GET /readyz
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readyCheckTimeout)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sqlDB, err := h.db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(gctx)
	})
	if h.rdb != nil {
		g.Go(func() error {
			return h.rdb.Ping(gctx).Err()
		})
	}
	if err := g.Wait(); err != nil {
		h.log.Warn("readiness check failed", "error", err)
		c.String(http.StatusServiceUnavailable, "unavailable")
		return
	}
	c.String(http.StatusOK, "ok")
}
