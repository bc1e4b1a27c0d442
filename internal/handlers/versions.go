package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/darekanikki/diary-backend/internal/pkg/logger"
	"github.com/darekanikki/diary-backend/internal/platform/apierr"
	"github.com/darekanikki/diary-backend/internal/services"
	"github.com/darekanikki/diary-backend/internal/types"
)

type VersionSummary struct {
	VersionNumber int    `json:"version_number"`
	CreatedAt     string `json:"created_at"`
	Preview       string `json:"preview"`
}

type VersionListResponse struct {
	EntryDate      string           `json:"entry_date"`
	CurrentContent *string          `json:"current_content"`
	Versions       []VersionSummary `json:"versions"`
}

type VersionDetailResponse struct {
	EntryDate     string `json:"entry_date"`
	VersionNumber int    `json:"version_number"`
	Content       string `json:"content"`
	CreatedAt     string `json:"created_at"`
}

type VersionsHandler struct {
	log      *logger.Logger
	versions services.VersionService
}

func NewVersionsHandler(baseLog *logger.Logger, versions services.VersionService) *VersionsHandler {
	return &VersionsHandler{
		log:      baseLog.With("handler", "VersionsHandler"),
		versions: versions,
	}
}

// GET /api/admin/entries/:date/versions
func (h *VersionsHandler) ListVersions(c *gin.Context) {
	date := c.Param("date")

	current, history, err := h.versions.ListForDate(c.Request.Context(), date)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	var currentContent *string
	if current != nil {
		currentContent = &current.Content
	}
	RespondOK(c, VersionListResponse{
		EntryDate:      date,
		CurrentContent: currentContent,
		Versions:       versionSummaries(history),
	})
}

// GET /api/admin/entries/:date/versions/:version
func (h *VersionsHandler) GetVersion(c *gin.Context) {
	date := c.Param("date")

	number, err := strconv.Atoi(c.Param("version"))
	if err != nil {
		respondAPIError(c, apierr.BadRequest("Invalid version number"))
		return
	}

	version, err := h.versions.GetVersion(c.Request.Context(), date, number)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if version == nil {
		respondAPIError(c, apierr.NotFound())
		return
	}
	RespondOK(c, VersionDetailResponse{
		EntryDate:     version.EntryDate,
		VersionNumber: version.VersionNumber,
		Content:       version.Content,
		CreatedAt:     version.CreatedAt,
	})
}

func versionSummaries(versions []types.Version) []VersionSummary {
	out := make([]VersionSummary, 0, len(versions))
	for _, v := range versions {
		out = append(out, VersionSummary{
			VersionNumber: v.VersionNumber,
			CreatedAt:     v.CreatedAt,
			Preview:       v.Preview(),
		})
	}
	return out
}
