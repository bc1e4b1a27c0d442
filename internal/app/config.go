package app

import (
	"strings"
	"time"

	"github.com/darekanikki/diary-backend/internal/pkg/logger"
	"github.com/darekanikki/diary-backend/internal/utils"
)

// Config carries process-level settings. Optional features follow from
// presence: empty ADMIN_TOKEN disables the admin surface, empty
// REDIS_ADDR disables rate limiting, empty TURNSTILE_SECRET_KEY
// disables CAPTCHA checks.
type Config struct {
	Port           string
	BaseURL        string
	AllowedOrigins []string

	AdminToken     string
	AdminTokenHash string
	SessionSecret  string
	SessionTTL     time.Duration

	TurnstileSecretKey string
	TurnstileSiteKey   string

	RedisAddr       string
	RateLimitMax    int
	RateLimitWindow int

	Environment string
	Version     string
}

func LoadConfig(log *logger.Logger) Config {
	sessionTTLSeconds := utils.GetEnvAsInt("ADMIN_SESSION_TTL", 86400, log)
	return Config{
		Port:           utils.GetEnv("PORT", "8080", log),
		BaseURL:        strings.TrimRight(utils.GetEnv("BASE_URL", "", log), "/"),
		AllowedOrigins: splitOrigins(utils.GetEnv("CORS_ALLOWED_ORIGINS", "", log)),

		AdminToken:     utils.GetEnv("ADMIN_TOKEN", "", log),
		AdminTokenHash: utils.GetEnv("ADMIN_TOKEN_HASH", "", log),
		SessionSecret:  utils.GetEnv("ADMIN_SESSION_SECRET", "", log),
		SessionTTL:     time.Duration(sessionTTLSeconds) * time.Second,

		TurnstileSecretKey: utils.GetEnv("TURNSTILE_SECRET_KEY", "", log),
		TurnstileSiteKey:   utils.GetEnv("TURNSTILE_SITE_KEY", "", log),

		RedisAddr:       utils.GetEnv("REDIS_ADDR", "", log),
		RateLimitMax:    utils.GetEnvAsInt("RATE_LIMIT_MAX", 60, log),
		RateLimitWindow: utils.GetEnvAsInt("RATE_LIMIT_WINDOW", 3600, log),

		Environment: utils.GetEnv("APP_ENV", "development", log),
		Version:     utils.GetEnv("SERVICE_VERSION", "", log),
	}
}

func splitOrigins(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			origins = append(origins, part)
		}
	}
	return origins
}
