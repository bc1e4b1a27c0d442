package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/darekanikki/diary-backend/internal/clock"
	"github.com/darekanikki/diary-backend/internal/pkg/logger"
	"github.com/darekanikki/diary-backend/internal/platform/apierr"
	"github.com/darekanikki/diary-backend/internal/services"
)

// listEntriesLimit caps the public archive listing.
const listEntriesLimit = 100

type DiaryEntrySummary struct {
	Date    string `json:"date"`
	Preview string `json:"preview"`
}

type DiaryListResponse struct {
	Entries []DiaryEntrySummary `json:"entries"`
}

type EntriesHandler struct {
	log      *logger.Logger
	calendar *clock.Calendar
	entries  services.EntryService
}

func NewEntriesHandler(baseLog *logger.Logger, calendar *clock.Calendar, entries services.EntryService) *EntriesHandler {
	return &EntriesHandler{
		log:      baseLog.With("handler", "EntriesHandler"),
		calendar: calendar,
		entries:  entries,
	}
}

// GET /api/entries
func (h *EntriesHandler) ListEntries(c *gin.Context) {
	past, err := h.entries.ListPast(c.Request.Context(), listEntriesLimit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	summaries := make([]DiaryEntrySummary, 0, len(past))
	for _, entry := range past {
		summaries = append(summaries, DiaryEntrySummary{Date: entry.Date, Preview: entry.Preview()})
	}
	RespondOK(c, DiaryListResponse{Entries: summaries})
}

// GET /api/entries/:date
func (h *EntriesHandler) GetEntryByDate(c *gin.Context) {
	date := c.Param("date")

	entry, err := h.entries.GetByDate(c.Request.Context(), date)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if entry == nil {
		respondAPIError(c, apierr.NotFound())
		return
	}
	RespondOK(c, DiaryEntryResponse{
		Date:    entry.Date,
		Content: entry.Content,
		CanEdit: h.calendar.IsCurrent(entry.Date),
	})
}
