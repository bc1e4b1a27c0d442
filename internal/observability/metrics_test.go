package observability

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestCounterVecExposition(t *testing.T) {
	m := newMetrics()
	m.ObserveSave("saved")
	m.ObserveSave("saved")
	m.ObserveSave("rejected")

	var buf bytes.Buffer
	if err := m.WritePrometheus(&buf); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		`diary_saves_total{outcome="saved"} 2.000000`,
		`diary_saves_total{outcome="rejected"} 1.000000`,
		"# TYPE diary_saves_total counter",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("exposition missing %q:\n%s", want, out)
		}
	}
}

func TestHistogramExposition(t *testing.T) {
	m := newMetrics()
	m.ObserveAPI("GET", "/api/today", "200", 20*time.Millisecond)
	m.ObserveAPI("GET", "/api/today", "200", 300*time.Millisecond)

	var buf bytes.Buffer
	if err := m.WritePrometheus(&buf); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		`diary_api_requests_total{method="GET",route="/api/today",status="200"} 2.000000`,
		`diary_api_request_duration_seconds_count{method="GET",route="/api/today",status="200"} 2`,
		`le="0.05"`,
		`le="+Inf"`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("exposition missing %q:\n%s", want, out)
		}
	}
}

func TestGaugeInflight(t *testing.T) {
	m := newMetrics()
	m.ApiInflightInc()
	m.ApiInflightInc()
	m.ApiInflightDec()

	var buf bytes.Buffer
	if err := m.WritePrometheus(&buf); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
	if !strings.Contains(buf.String(), "diary_api_inflight_requests 1.000000") {
		t.Fatalf("unexpected gauge exposition:\n%s", buf.String())
	}
}

func TestLabelEscaping(t *testing.T) {
	m := newMetrics()
	m.ObserveAPI("GET", `/weird"path`, "200", 10*time.Millisecond)

	var buf bytes.Buffer
	if err := m.WritePrometheus(&buf); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
	if !strings.Contains(buf.String(), `route="/weird\"path"`) {
		t.Fatalf("quote not escaped in exposition:\n%s", buf.String())
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/", "200", time.Millisecond)
	m.ObserveSave("saved")
	m.VersionArchived()
	m.VersionConflict()
	m.FeedRendered()
	m.RateLimited()
	m.CaptchaRejected()
	m.ApiInflightInc()
	m.ApiInflightDec()
}
