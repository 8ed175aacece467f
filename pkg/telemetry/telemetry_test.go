package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"

	"github.com/getsentry/sentry-go"
	"go.opentelemetry.io/otel"

	"github.com/ghuser/gamercart/pkg/config"
)

func baseConfig() *config.Config {
	return &config.Config{
		ServiceName:    "test-service",
		ServiceVersion: "test",
		Environment:    "testing",
	}
}

func TestSetup_NoOtelEndpoint(t *testing.T) {
	shutdown, handler, err := Setup(context.Background(), baseConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if shutdown == nil {
		t.Fatal("expected non-nil shutdown")
	}
	if handler == nil {
		t.Fatal("expected non-nil metrics handler")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestSetup_MetricsHandlerServesPrometheusFormat(t *testing.T) {
	_, handler, err := Setup(context.Background(), baseConfig())
	if err != nil {
		t.Fatalf("setup: %v", err)
	}

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/metrics", http.NoBody))

	if rr.Code != 200 {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	ct := rr.Header().Get("Content-Type")
	if !strings.Contains(ct, "text/plain") {
		t.Errorf("expected text/plain content-type, got %q", ct)
	}
}

func TestStorefrontMetrics_ExportedOnMetricsEndpoint(t *testing.T) {
	shutdown, handler, err := Setup(context.Background(), baseConfig())
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	defer shutdown(context.Background()) //nolint:errcheck

	m, err := NewStorefrontMetrics()
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	m.HomepageFallback(context.Background())
	m.CartCountError(context.Background())

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))
	body := rr.Body.String()
	for _, name := range []string{"storefront_homepage_fallback", "storefront_cart_count_errors"} {
		if !strings.Contains(body, name) {
			t.Errorf("expected %s in /metrics output", name)
		}
	}
}

func TestStorefrontMetrics_NilIsNoop(t *testing.T) {
	var m *StorefrontMetrics
	m.HomepageFallback(context.Background())
	m.CartCountError(context.Background())
}

func TestSetup_InstallsTraceContextPropagator(t *testing.T) {
	shutdown, _, err := Setup(context.Background(), baseConfig())
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	defer shutdown(context.Background()) //nolint:errcheck

	fields := otel.GetTextMapPropagator().Fields()
	if !slices.Contains(fields, "traceparent") {
		t.Fatalf("expected traceparent in propagator fields, got %v", fields)
	}
}

func TestSampler(t *testing.T) {
	cfg := baseConfig()
	if got := sampler(cfg).Description(); got != "AlwaysOnSampler" {
		t.Errorf("non-production sampler: got %q", got)
	}
	cfg.Environment = config.EnvProduction
	if got := sampler(cfg).Description(); !strings.HasPrefix(got, "ParentBased") {
		t.Errorf("production sampler: got %q", got)
	}
}

func TestScrubEvent(t *testing.T) {
	event := &sentry.Event{Request: &sentry.Request{
		Cookies: "session=abc",
		Headers: map[string]string{"Cookie": "session=abc", "User-Agent": "firefox"},
		Data:    "email=ana%40example.com&password=hunter2&password_confirm=hunter2",
	}}

	got := scrubEvent(event).Request
	if got.Cookies != "" {
		t.Errorf("cookies not dropped: %q", got.Cookies)
	}
	if got.Headers["Cookie"] != filtered || got.Headers["User-Agent"] != "firefox" {
		t.Errorf("unexpected headers: %v", got.Headers)
	}
	if strings.Contains(got.Data, "hunter2") {
		t.Errorf("password leaked: %q", got.Data)
	}
	if !strings.Contains(got.Data, "email=ana%40example.com") {
		t.Errorf("non-sensitive field lost: %q", got.Data)
	}
}

func TestScrubEvent_NoRequest(t *testing.T) {
	event := &sentry.Event{Message: "boom"}
	if scrubEvent(event) != event {
		t.Fatal("event without request must pass through")
	}
	if scrubEvent(nil) != nil {
		t.Fatal("nil event must stay nil")
	}
}
