package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/darekanikki/diary-backend/internal/clients/ratelimit"
	"github.com/darekanikki/diary-backend/internal/clients/turnstile"
	"github.com/darekanikki/diary-backend/internal/clock"
	"github.com/darekanikki/diary-backend/internal/observability"
	"github.com/darekanikki/diary-backend/internal/pkg/logger"
	"github.com/darekanikki/diary-backend/internal/platform/apierr"
	"github.com/darekanikki/diary-backend/internal/services"
)

type DiaryEntryResponse struct {
	Date    string `json:"date"`
	Content string `json:"content"`
	CanEdit bool   `json:"can_edit"`
}

// TodayEmptyResponse keeps content explicitly null when nothing has
// been written yet.
type TodayEmptyResponse struct {
	Date    string  `json:"date"`
	Content *string `json:"content"`
	CanEdit bool    `json:"can_edit"`
}

type postTodayRequest struct {
	Content        string `json:"content"`
	TurnstileToken string `json:"turnstile_token"`
}

type TodayHandler struct {
	log      *logger.Logger
	calendar *clock.Calendar
	entries  services.EntryService
	verifier turnstile.Verifier
	limiter  ratelimit.Limiter
}

// NewTodayHandler wires the write path. verifier and limiter are
// optional; nil disables CAPTCHA verification and rate limiting.
func NewTodayHandler(
	baseLog *logger.Logger,
	calendar *clock.Calendar,
	entries services.EntryService,
	verifier turnstile.Verifier,
	limiter ratelimit.Limiter,
) *TodayHandler {
	return &TodayHandler{
		log:      baseLog.With("handler", "TodayHandler"),
		calendar: calendar,
		entries:  entries,
		verifier: verifier,
		limiter:  limiter,
	}
}

// GET /api/today
func (h *TodayHandler) GetToday(c *gin.Context) {
	entry, err := h.entries.GetToday(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if entry == nil {
		RespondOK(c, TodayEmptyResponse{
			Date:    h.calendar.CurrentDateKey(),
			Content: nil,
			CanEdit: true,
		})
		return
	}
	RespondOK(c, DiaryEntryResponse{Date: entry.Date, Content: entry.Content, CanEdit: true})
}

// POST /api/today
func (h *TodayHandler) PostToday(c *gin.Context) {
	ctx := c.Request.Context()
	ip := clientIP(c)

	if h.limiter != nil && !h.limiter.Allow(ctx, ip) {
		observability.Current().RateLimited()
		respondAPIError(c, apierr.RateLimited())
		return
	}

	var req postTodayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondAPIError(c, apierr.BadRequest("Invalid JSON"))
		return
	}

	if h.verifier != nil {
		if strings.TrimSpace(req.TurnstileToken) == "" {
			respondAPIError(c, apierr.BadRequest("Turnstile token required"))
			return
		}
		ok, err := h.verifier.Verify(ctx, req.TurnstileToken, ip)
		if err != nil {
			h.log.Error("turnstile verification error", "error", err)
			RespondError(c, http.StatusInternalServerError, apierr.CodeInternalError, errors.New("Internal server error"))
			return
		}
		if !ok {
			observability.Current().CaptchaRejected()
			respondAPIError(c, apierr.BadRequest("Turnstile verification failed"))
			return
		}
	}

	entry, err := h.entries.SaveToday(ctx, req.Content)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	// Charged only after a successful save; a failed increment is not
	// worth failing the write over.
	if h.limiter != nil {
		if err := h.limiter.Increment(ctx, ip); err != nil {
			h.log.Error("rate limit increment failed", "error", err, "ip", ip)
		}
	}

	c.JSON(http.StatusCreated, DiaryEntryResponse{Date: entry.Date, Content: entry.Content, CanEdit: true})
}

// clientIP prefers the proxy-provided address and falls back to the
// transport peer.
func clientIP(c *gin.Context) string {
	if ip := strings.TrimSpace(c.GetHeader("CF-Connecting-IP")); ip != "" {
		return ip
	}
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "unknown"
}
