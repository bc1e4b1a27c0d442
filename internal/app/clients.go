package app

import (
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/darekanikki/diary-backend/internal/clients/ratelimit"
	"github.com/darekanikki/diary-backend/internal/clients/redis"
	"github.com/darekanikki/diary-backend/internal/clients/turnstile"
	"github.com/darekanikki/diary-backend/internal/pkg/logger"
)

type Clients struct {
	Redis       *goredis.Client
	Turnstile   turnstile.Verifier
	RateLimiter ratelimit.Limiter
}

func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	// Redis; rate limiting rides on it.
	var rdb *goredis.Client
	if cfg.RedisAddr != "" {
		r, err := redis.NewClient(log)
		if err != nil {
			return Clients{}, fmt.Errorf("init redis: %w", err)
		}
		rdb = r
	} else {
		log.Warn("REDIS_ADDR not set, rate limiting disabled")
	}

	var limiter ratelimit.Limiter
	if rdb != nil {
		limiter = ratelimit.New(log, rdb, cfg.RateLimitMax, cfg.RateLimitWindow)
	}

	// Turnstile
	var verifier turnstile.Verifier
	if cfg.TurnstileSecretKey != "" {
		v, err := turnstile.NewFromEnv(log)
		if err != nil {
			return Clients{}, fmt.Errorf("init turnstile verifier: %w", err)
		}
		verifier = v
	} else {
		log.Warn("TURNSTILE_SECRET_KEY not set, CAPTCHA verification disabled")
	}

	return Clients{
		Redis:       rdb,
		Turnstile:   verifier,
		RateLimiter: limiter,
	}, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
}
