package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func newTestLogger(buf *bytes.Buffer) Logger {
	return &slogLogger{Logger: slog.New(&traceHandler{slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})})}
}

func lastEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var m map[string]any
	if err := json.Unmarshal([]byte(lines[len(lines)-1]), &m); err != nil {
		t.Fatalf("parse log line %q: %v", lines[len(lines)-1], err)
	}
	return m
}

func TestTraceFields(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)
	defer tp.Shutdown(context.Background()) //nolint:errcheck

	traced, span := otel.Tracer("checkout").Start(context.Background(), "POST /orders")
	defer span.End()

	tests := []struct {
		name      string
		ctx       context.Context
		log       func(Logger, context.Context)
		wantTrace bool
		wantAttrs map[string]any
	}{
		{
			name: "order placed inside a request span",
			ctx:  traced,
			log: func(l Logger, ctx context.Context) {
				l.InfoContext(ctx, "order placed", "order_id", 42, "reference", "PED-1A2B3C")
			},
			wantTrace: true,
			wantAttrs: map[string]any{"order_id": float64(42), "reference": "PED-1A2B3C"},
		},
		{
			name: "failed cart count keeps the error as an attribute",
			ctx:  traced,
			log: func(l Logger, ctx context.Context) {
				l.WarnContext(ctx, "cart count unavailable, showing 0", "user_id", 7, "error", errors.New("connection refused"))
			},
			wantTrace: true,
			wantAttrs: map[string]any{"user_id": float64(7), "error": "connection refused", "level": "WARN"},
		},
		{
			name: "worker log without a span",
			ctx:  context.Background(),
			log: func(l Logger, ctx context.Context) {
				l.InfoContext(ctx, "product cache invalidated", "product_id", "12")
			},
			wantAttrs: map[string]any{"product_id": "12"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.log(newTestLogger(&buf), tt.ctx)

			entry := lastEntry(t, &buf)
			_, hasTrace := entry["trace_id"]
			_, hasSpan := entry["span_id"]
			if hasTrace != tt.wantTrace || hasSpan != tt.wantTrace {
				t.Fatalf("trace fields present = %v/%v, want %v", hasTrace, hasSpan, tt.wantTrace)
			}
			for k, want := range tt.wantAttrs {
				if entry[k] != want {
					t.Errorf("%s = %v, want %v", k, entry[k], want)
				}
			}
		})
	}
}

func TestMiddleware_RequestLogCarriesRequestIDAndRoute(t *testing.T) {
	var buf bytes.Buffer

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(Middleware(newTestLogger(&buf)))
	r.Get("/products/{id}", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<h1>Teclado</h1>"))
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/products/12", http.NoBody))

	entry := lastEntry(t, &buf)
	if _, ok := entry["request_id"]; !ok {
		t.Error("expected request_id in request log")
	}
	if entry["method"] != "GET" || entry["path"] != "/products/12" || entry["status"] != float64(200) {
		t.Errorf("unexpected request log: %v", entry)
	}
	if entry["bytes"] != float64(len("<h1>Teclado</h1>")) {
		t.Errorf("expected body size, got %v", entry["bytes"])
	}
}

func TestMiddleware_LevelFollowsStatus(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		status int
		level  string
	}{
		{"homepage", http.MethodGet, "/", http.StatusOK, "INFO"},
		{"add to cart redirect", http.MethodPost, "/cart/add", http.StatusSeeOther, "INFO"},
		{"bad login", http.MethodPost, "/login", http.StatusUnauthorized, "WARN"},
		{"empty cart checkout", http.MethodPost, "/orders", http.StatusUnprocessableEntity, "WARN"},
		{"database down", http.MethodGet, "/cart", http.StatusInternalServerError, "ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			h := Middleware(newTestLogger(&buf))(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			}))
			h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(tt.method, tt.path, http.NoBody))

			entry := lastEntry(t, &buf)
			if entry["level"] != tt.level {
				t.Errorf("expected level %s, got %v", tt.level, entry["level"])
			}
			if entry["status"] != float64(tt.status) {
				t.Errorf("expected status %d, got %v", tt.status, entry["status"])
			}
		})
	}
}

func TestMiddleware_SkipsHealthAndMetrics(t *testing.T) {
	var buf bytes.Buffer
	h := Middleware(newTestLogger(&buf))(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	for _, path := range []string{"/health", "/metrics"} {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, http.NoBody))
		if rr.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rr.Code)
		}
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no request logs for /health and /metrics, got %q", buf.String())
	}
}
