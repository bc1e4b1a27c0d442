package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/darekanikki/diary-backend/internal/pkg/logger"
)

const keyPrefix = "rate:"

// Defaults: 60 requests per client address per hour.
const (
	DefaultMaxRequests   = 60
	DefaultWindowSeconds = 3600
)

type Limiter interface {
	// Allow reports whether the address is still under its request
	// budget. Backend faults fail open so writes are never blocked by
	// a limiter outage.
	Allow(ctx context.Context, ip string) bool
	// Increment charges one request against the address. The first
	// charge starts the window; later ones ride the existing expiry.
	Increment(ctx context.Context, ip string) error
}

type limiter struct {
	log    *logger.Logger
	rdb    *goredis.Client
	max    int
	window time.Duration
}

func New(baseLog *logger.Logger, rdb *goredis.Client, maxRequests, windowSeconds int) Limiter {
	if maxRequests <= 0 {
		maxRequests = DefaultMaxRequests
	}
	if windowSeconds <= 0 {
		windowSeconds = DefaultWindowSeconds
	}
	return &limiter{
		log:    baseLog.With("service", "RateLimiter"),
		rdb:    rdb,
		max:    maxRequests,
		window: time.Duration(windowSeconds) * time.Second,
	}
}

func (l *limiter) Allow(ctx context.Context, ip string) bool {
	count, err := l.rdb.Get(ctx, rateKey(ip)).Int()
	if errors.Is(err, goredis.Nil) {
		return true
	}
	if err != nil {
		l.log.Warn("rate limit read failed, allowing request", "error", err, "ip", ip)
		return true
	}
	return !isRateLimited(count, l.max)
}

func (l *limiter) Increment(ctx context.Context, ip string) error {
	key := rateKey(ip)
	count, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("rate limit incr: %w", err)
	}
	if count == 1 {
		if err := l.rdb.Expire(ctx, key, l.window).Err(); err != nil {
			return fmt.Errorf("rate limit expire: %w", err)
		}
	}
	return nil
}

func rateKey(ip string) string {
	return keyPrefix + ip
}

func isRateLimited(count, max int) bool {
	return count >= max
}
