package main

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/shopapi/shopapi/internal/cache"
	"github.com/shopapi/shopapi/internal/config"
	"github.com/shopapi/shopapi/internal/metrics"
	"github.com/shopapi/shopapi/internal/testutil"
)

func TestRedactURL(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"empty", "", ""},
		{"with password", "postgres://shop:secret@db:5432/shop", "postgres://shop@db:5432/shop"},
		{"redis password only", "redis://:secret@cache:6379/0", "redis://redacted@cache:6379/0"},
		{"no credentials", "redis://cache:6379/0", "redis://cache:6379/0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := redactURL(tt.raw); got != tt.want {
				t.Errorf("redactURL(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestSanitizeError(t *testing.T) {
	dsn := "postgres://shop:secret@db:5432/shop"
	err := errors.New("dial " + dsn + " failed: password=secret")

	got := sanitizeError(err, dsn)
	if strings.Contains(got, "secret") {
		t.Errorf("sanitized error still contains the password: %s", got)
	}
	if sanitizeError(nil) != "" {
		t.Error("nil error should sanitize to empty string")
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLogLevel(in); got != want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewLimiter(t *testing.T) {
	cfg := &config.Config{RateLimitEnabled: false, RateLimitRPS: 1, RateLimitBurst: 1}
	if newLimiter(cfg, nil) != nil {
		t.Error("expected no limiter when rate limiting is disabled")
	}

	cfg.RateLimitEnabled = true
	if _, ok := newLimiter(cfg, nil).(*cache.LocalIPLimiter); !ok {
		t.Error("expected local limiter without Redis")
	}
}

func newTestRouter(t *testing.T, cfg *config.Config) (http.Handler, *testutil.MemoryStore) {
	t.Helper()
	store := testutil.NewMemoryStore()
	registry := prometheus.NewRegistry()
	deps := routerDeps{
		store:    store,
		db:       store,
		recorder: metrics.NewPrometheus(registry),
		gatherer: registry,
		limiter:  newLimiter(cfg, nil),
		cfg:      cfg,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	return newRouter(deps), store
}

func testConfig() *config.Config {
	return &config.Config{
		AppEnv:             "test",
		RateLimitRPS:       1,
		RateLimitBurst:     2,
		MaxRequestBodySize: 1 << 20,
		CORSAllowedOrigins: []string{"https://shop.example.com"},
	}
}

func TestRouter_ProbesAndMetrics(t *testing.T) {
	router, _ := newTestRouter(t, testConfig())

	for _, path := range []string{"/healthz", "/readyz", "/"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s: expected 200, got %d", path, rec.Code)
		}
		if rec.Header().Get("X-Request-ID") == "" {
			t.Errorf("GET %s: expected X-Request-ID header", path)
		}
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /metrics: expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "shopapi_http_requests_total") {
		t.Error("expected HTTP request counter in /metrics output")
	}
}

func TestRouter_EntityRoutesMounted(t *testing.T) {
	router, store := newTestRouter(t, testConfig())

	body := `{"name":"Ada","email":"ada@example.com"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /users: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if store.UserCount() != 1 {
		t.Errorf("expected 1 stored user, got %d", store.UserCount())
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("GET /nope: expected 404, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/users", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("PATCH /users: expected 405, got %d", rec.Code)
	}
}

func TestRouter_RateLimitSparesProbes(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitEnabled = true
	router, _ := newTestRouter(t, cfg)

	var last int
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/users", nil)
		req.RemoteAddr = "203.0.113.9:4000"
		router.ServeHTTP(rec, req)
		last = rec.Code
	}
	if last != http.StatusTooManyRequests {
		t.Errorf("expected third request to be limited, got %d", last)
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.RemoteAddr = "203.0.113.9:4000"
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("expected /healthz to bypass the limiter, got %d", rec.Code)
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	router, _ := newTestRouter(t, testConfig())

	req := httptest.NewRequest(http.MethodOptions, "/users", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204 preflight, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://shop.example.com" {
		t.Errorf("unexpected allow origin %q", got)
	}
}
