package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/darekanikki/diary-backend/internal/pkg/logger"
	"github.com/darekanikki/diary-backend/internal/services"
)

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return log
}

type fakeAuthService struct {
	enabled bool
	token   string
	session string
}

func (f *fakeAuthService) Enabled() bool { return f.enabled }

func (f *fakeAuthService) VerifyToken(token string) bool {
	return f.enabled && f.token != "" && token == f.token
}

func (f *fakeAuthService) IssueSession() (string, error) { return f.session, nil }

func (f *fakeAuthService) VerifySession(tokenString string) bool {
	return f.enabled && f.session != "" && tokenString == f.session
}

func (f *fakeAuthService) SessionTTL() time.Duration { return time.Hour }

func authRouter(t *testing.T, auth services.AuthService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	am := NewAuthMiddleware(newTestLogger(t), auth)
	r := gin.New()
	api := r.Group("/api/admin", am.RequireAPI())
	api.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	pages := r.Group("/admin", am.RequirePage())
	pages.GET("/versions", func(c *gin.Context) {
		c.String(http.StatusOK, "versions")
	})
	return r
}

func TestRequireAPIBearerToken(t *testing.T) {
	r := authRouter(t, &fakeAuthService{enabled: true, token: "secret-token"})

	req := httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer secret-token")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
}

func TestRequireAPIQueryToken(t *testing.T) {
	r := authRouter(t, &fakeAuthService{enabled: true, token: "secret-token"})

	req := httptest.NewRequest(http.MethodGet, "/api/admin/ping?token=secret-token", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
}

func TestRequireAPISessionCookie(t *testing.T) {
	r := authRouter(t, &fakeAuthService{enabled: true, token: "secret-token", session: "session-jwt"})

	req := httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil)
	req.AddCookie(&http.Cookie{Name: services.AdminSessionCookie, Value: "session-jwt"})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
}

func TestRequireAPIRejectsAnonymous(t *testing.T) {
	r := authRouter(t, &fakeAuthService{enabled: true, token: "secret-token"})

	req := httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	var body struct {
		Error struct {
			Message string `json:"message"`
			Code    string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Error.Message != "Unauthorized" || body.Error.Code != "UNAUTHORIZED" {
		t.Fatalf("unexpected envelope: %+v", body.Error)
	}
}

func TestRequireAPIRejectsWrongToken(t *testing.T) {
	r := authRouter(t, &fakeAuthService{enabled: true, token: "secret-token"})

	req := httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
}

func TestRequireAPIRejectsWhenAuthDisabled(t *testing.T) {
	r := authRouter(t, &fakeAuthService{enabled: false, token: "secret-token"})

	req := httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer secret-token")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
}

func TestRequirePageRedirectsAnonymous(t *testing.T) {
	r := authRouter(t, &fakeAuthService{enabled: true, token: "secret-token"})

	req := httptest.NewRequest(http.MethodGet, "/admin/versions", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Location"); got != "/admin/login" {
		t.Fatalf("unexpected redirect: got=%q", got)
	}
}

func TestRequirePageAllowsSessionCookie(t *testing.T) {
	r := authRouter(t, &fakeAuthService{enabled: true, token: "secret-token", session: "session-jwt"})

	req := httptest.NewRequest(http.MethodGet, "/admin/versions", nil)
	req.AddCookie(&http.Cookie{Name: services.AdminSessionCookie, Value: "session-jwt"})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
}

func TestRequirePageAllowsQueryToken(t *testing.T) {
	r := authRouter(t, &fakeAuthService{enabled: true, token: "secret-token"})

	req := httptest.NewRequest(http.MethodGet, "/admin/versions?token=secret-token", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
}

func TestTokenBeatsCookieWhenBothPresent(t *testing.T) {
	r := authRouter(t, &fakeAuthService{enabled: true, token: "secret-token", session: "session-jwt"})

	// A wrong explicit token is rejected even with a valid cookie.
	req := httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	req.AddCookie(&http.Cookie{Name: services.AdminSessionCookie, Value: "session-jwt"})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
}
