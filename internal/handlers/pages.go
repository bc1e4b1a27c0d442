package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/darekanikki/diary-backend/internal/clock"
	"github.com/darekanikki/diary-backend/internal/pkg/logger"
	"github.com/darekanikki/diary-backend/internal/services"
	"github.com/darekanikki/diary-backend/internal/web"
)

// PageHandler serves the HTML site: the diary form, the archive, the
// admin screens and the RSS feed. Pages degrade softly on storage
// errors where the original content still renders something useful.
type PageHandler struct {
	log              *logger.Logger
	calendar         *clock.Calendar
	entries          services.EntryService
	versions         services.VersionService
	feed             services.FeedService
	auth             services.AuthService
	turnstileSiteKey string
	baseURL          string
}

func NewPageHandler(
	baseLog *logger.Logger,
	calendar *clock.Calendar,
	entries services.EntryService,
	versions services.VersionService,
	feed services.FeedService,
	auth services.AuthService,
	turnstileSiteKey string,
	baseURL string,
) *PageHandler {
	return &PageHandler{
		log:              baseLog.With("handler", "PageHandler"),
		calendar:         calendar,
		entries:          entries,
		versions:         versions,
		feed:             feed,
		auth:             auth,
		turnstileSiteKey: turnstileSiteKey,
		baseURL:          baseURL,
	}
}

// GET /
func (h *PageHandler) Home(c *gin.Context) {
	entry, err := h.entries.GetToday(c.Request.Context())
	if err != nil {
		h.log.Error("load today's entry", "error", err)
		entry = nil
	}
	content := ""
	if entry != nil {
		content = entry.Content
	}
	c.HTML(http.StatusOK, "home", web.HomeData{
		Today:            h.calendar.CurrentDateKey(),
		Content:          content,
		TurnstileSiteKey: h.turnstileSiteKey,
	})
}

// GET /a
func (h *PageHandler) About(c *gin.Context) {
	c.HTML(http.StatusOK, "about", nil)
}

// GET /entries
func (h *PageHandler) Archive(c *gin.Context) {
	entries, err := h.entries.ListPast(c.Request.Context(), listEntriesLimit)
	if err != nil {
		h.log.Error("list past entries", "error", err)
		entries = nil
	}
	items := make([]web.ArchiveItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, web.ArchiveItem{Date: e.Date, Preview: e.Preview()})
	}
	c.HTML(http.StatusOK, "archive", web.ArchiveData{Entries: items})
}

// GET /entries/:date
func (h *PageHandler) EntryByDate(c *gin.Context) {
	date := c.Param("date")
	if !clock.IsValidDateKey(date) {
		h.renderNotFound(c, http.StatusNotFound)
		return
	}
	entry, err := h.entries.GetByDate(c.Request.Context(), date)
	if err != nil {
		h.log.Error("load entry page", "date", date, "error", err)
		h.renderNotFound(c, http.StatusInternalServerError)
		return
	}
	if entry == nil {
		h.renderNotFound(c, http.StatusNotFound)
		return
	}
	c.HTML(http.StatusOK, "entry", web.EntryData{
		Date:    entry.Date,
		Content: entry.Content,
		CanEdit: h.calendar.IsCurrent(entry.Date),
	})
}

// GET /feed
func (h *PageHandler) Feed(c *gin.Context) {
	rss := h.feed.RenderRSS(c.Request.Context(), h.feedBaseURL(c))
	c.Data(http.StatusOK, "application/rss+xml; charset=utf-8", []byte(rss))
}

// GET /admin/login
func (h *PageHandler) AdminLoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "admin_login", web.AdminLoginData{})
}

// POST /admin/login
func (h *PageHandler) AdminLoginSubmit(c *gin.Context) {
	if !h.auth.Enabled() {
		c.HTML(http.StatusInternalServerError, "admin_login", web.AdminLoginData{
			ErrorMessage: "認証が設定されていません",
		})
		return
	}
	if !h.auth.VerifyToken(c.PostForm("token")) {
		c.HTML(http.StatusUnauthorized, "admin_login", web.AdminLoginData{
			ErrorMessage: "トークンが正しくありません",
		})
		return
	}
	session, err := h.auth.IssueSession()
	if err != nil {
		h.log.Error("issue admin session", "error", err)
		c.HTML(http.StatusInternalServerError, "admin_login", web.AdminLoginData{
			ErrorMessage: "ログインに失敗しました",
		})
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(services.AdminSessionCookie, session, int(h.auth.SessionTTL().Seconds()), "/", "", isSecureRequest(c), true)
	c.Redirect(http.StatusFound, "/admin/versions")
}

// GET /admin/logout
func (h *PageHandler) AdminLogout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(services.AdminSessionCookie, "", -1, "/", "", isSecureRequest(c), true)
	c.Redirect(http.StatusFound, "/")
}

// GET /admin/versions
func (h *PageHandler) AdminVersionsIndex(c *gin.Context) {
	c.HTML(http.StatusOK, "admin_versions_index", web.AdminVersionsIndexData{
		Today: h.calendar.CurrentDateKey(),
		Token: c.Query("token"),
	})
}

// GET /admin/entries/:date/versions
func (h *PageHandler) AdminVersionsList(c *gin.Context) {
	date := c.Param("date")
	if !clock.IsValidDateKey(date) {
		h.renderNotFound(c, http.StatusNotFound)
		return
	}
	current, history, err := h.versions.ListForDate(c.Request.Context(), date)
	if err != nil {
		h.log.Error("list versions page", "date", date, "error", err)
		h.renderNotFound(c, http.StatusInternalServerError)
		return
	}
	items := make([]web.AdminVersionItem, 0, len(history))
	for _, v := range history {
		items = append(items, web.AdminVersionItem{
			Number:    v.VersionNumber,
			CreatedAt: v.CreatedAt,
			Preview:   v.Preview(),
		})
	}
	data := web.AdminVersionsListData{
		Date:     date,
		Versions: items,
		Token:    c.Query("token"),
	}
	if current != nil {
		data.HasCurrent = true
		data.CurrentContent = current.Content
	}
	c.HTML(http.StatusOK, "admin_versions_list", data)
}

// GET /admin/entries/:date/versions/:version
func (h *PageHandler) AdminVersionDetail(c *gin.Context) {
	date := c.Param("date")
	number, convErr := strconv.Atoi(c.Param("version"))
	if convErr != nil || !clock.IsValidDateKey(date) {
		h.renderNotFound(c, http.StatusNotFound)
		return
	}
	version, err := h.versions.GetVersion(c.Request.Context(), date, number)
	if err != nil {
		h.log.Error("load version page", "date", date, "version", number, "error", err)
		h.renderNotFound(c, http.StatusInternalServerError)
		return
	}
	if version == nil {
		h.renderNotFound(c, http.StatusNotFound)
		return
	}
	c.HTML(http.StatusOK, "admin_version_detail", web.AdminVersionDetailData{
		Date:      version.EntryDate,
		Number:    version.VersionNumber,
		CreatedAt: version.CreatedAt,
		Content:   version.Content,
		Token:     c.Query("token"),
	})
}

// NotFound renders the styled 404 page for unmatched routes.
func (h *PageHandler) NotFound(c *gin.Context) {
	h.renderNotFound(c, http.StatusNotFound)
}

func (h *PageHandler) renderNotFound(c *gin.Context, status int) {
	c.HTML(status, "not_found", nil)
}

func (h *PageHandler) feedBaseURL(c *gin.Context) string {
	if h.baseURL != "" {
		return h.baseURL
	}
	scheme := "http"
	if isSecureRequest(c) {
		scheme = "https"
	}
	host := c.Request.Host
	if host == "" {
		host = "localhost"
	}
	return scheme + "://" + host
}

func isSecureRequest(c *gin.Context) bool {
	return c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https"
}
