package turnstile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/darekanikki/diary-backend/internal/pkg/ctxutil"
	"github.com/darekanikki/diary-backend/internal/pkg/httpx"
	"github.com/darekanikki/diary-backend/internal/pkg/logger"
)

const defaultVerifyURL = "https://challenges.cloudflare.com/turnstile/v0/siteverify"

type Verifier interface {
	// Verify checks a widget token against the siteverify endpoint.
	// The boolean is the verdict; an error means the check could not
	// be performed at all.
	Verify(ctx context.Context, token, remoteIP string) (bool, error)
}

type Config struct {
	SecretKey  string
	VerifyURL  string
	Timeout    time.Duration
	MaxRetries int
}

func ConfigFromEnv() Config {
	return Config{
		SecretKey: strings.TrimSpace(os.Getenv("TURNSTILE_SECRET_KEY")),
		VerifyURL: strings.TrimSpace(os.Getenv("TURNSTILE_VERIFY_URL")),
	}
}

func NewFromEnv(log *logger.Logger) (Verifier, error) {
	return New(log, ConfigFromEnv())
}

func New(log *logger.Logger, cfg Config) (Verifier, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("missing TURNSTILE_SECRET_KEY")
	}
	if cfg.VerifyURL == "" {
		cfg.VerifyURL = defaultVerifyURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 1
	}

	return &client{
		log:        log.With("client", "TurnstileClient"),
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

type client struct {
	log        *logger.Logger
	cfg        Config
	httpClient *http.Client
}

type verifyRequest struct {
	Secret   string `json:"secret"`
	Response string `json:"response"`
	RemoteIP string `json:"remoteip,omitempty"`
}

type verifyResponse struct {
	Success bool `json:"success"`
}

func (c *client) Verify(ctx context.Context, token, remoteIP string) (bool, error) {
	if c == nil || c.httpClient == nil {
		return false, fmt.Errorf("turnstile client unavailable")
	}

	backoff := 500 * time.Millisecond
	for attempt := 0; ; attempt++ {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}

		ok, err := c.verifyOnce(ctx, token, remoteIP)
		if err == nil {
			return ok, nil
		}
		if attempt >= c.cfg.MaxRetries || !httpx.IsRetryableError(err) {
			return false, err
		}

		sleepFor := httpx.JitterSleep(backoff)
		c.log.Warn("turnstile verify retrying",
			"attempt", attempt+1,
			"max_retries", c.cfg.MaxRetries,
			"sleep", sleepFor.String(),
			"error", err.Error(),
		)
		time.Sleep(sleepFor)
		backoff *= 2
	}
}

func (c *client) verifyOnce(ctx context.Context, token, remoteIP string) (bool, error) {
	payload, err := json.Marshal(verifyRequest{
		Secret:   c.cfg.SecretKey,
		Response: token,
		RemoteIP: remoteIP,
	})
	if err != nil {
		return false, err
	}

	req, err := http.NewRequestWithContext(ctxutil.Default(ctx), http.MethodPost, c.cfg.VerifyURL, bytes.NewReader(payload))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, err
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return false, readErr
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return false, &HTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var out verifyResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return false, fmt.Errorf("turnstile decode error: %w", err)
	}
	return out.Success, nil
}

type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e == nil {
		return "turnstile: <nil error>"
	}
	msg := strings.TrimSpace(e.Body)
	if msg == "" {
		msg = "<empty body>"
	}
	if len(msg) > 2000 {
		msg = msg[:2000] + "..."
	}
	return fmt.Sprintf("turnstile http %d: %s", e.StatusCode, msg)
}

func (e *HTTPError) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}
