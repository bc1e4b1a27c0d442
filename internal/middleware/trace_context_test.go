package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/darekanikki/diary-backend/internal/platform/ctxutil"
)

func traceRouter(capture **ctxutil.TraceData) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AttachTraceContext())
	r.GET("/", func(c *gin.Context) {
		*capture = ctxutil.GetTraceData(c.Request.Context())
		c.Status(http.StatusOK)
	})
	return r
}

func TestAttachTraceContextGeneratesIDs(t *testing.T) {
	var td *ctxutil.TraceData
	r := traceRouter(&td)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if td == nil {
		t.Fatal("trace data missing from request context")
	}
	if td.TraceID == "" || td.RequestID == "" {
		t.Fatalf("ids not generated: %+v", td)
	}
	if got := rec.Header().Get("X-Trace-Id"); got != td.TraceID {
		t.Fatalf("trace id header mismatch: got=%q want=%q", got, td.TraceID)
	}
	if got := rec.Header().Get("X-Request-Id"); got != td.RequestID {
		t.Fatalf("request id header mismatch: got=%q want=%q", got, td.RequestID)
	}
}

func TestAttachTraceContextEchoesProvidedIDs(t *testing.T) {
	var td *ctxutil.TraceData
	r := traceRouter(&td)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Trace-Id", "trace-abc")
	req.Header.Set("X-Request-Id", "req-123")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if td.TraceID != "trace-abc" || td.RequestID != "req-123" {
		t.Fatalf("provided ids not preserved: %+v", td)
	}
	if got := rec.Header().Get("X-Trace-Id"); got != "trace-abc" {
		t.Fatalf("trace id header mismatch: got=%q", got)
	}
}

func TestAttachTraceContextResolvesClientIP(t *testing.T) {
	var td *ctxutil.TraceData
	r := traceRouter(&td)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("CF-Connecting-IP", "203.0.113.9")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if td.ClientIP != "203.0.113.9" {
		t.Fatalf("client ip mismatch: got=%q", td.ClientIP)
	}
}
