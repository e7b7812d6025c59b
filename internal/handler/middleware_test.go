package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/netcode-labs/auth-service/internal/config"
	"github.com/rs/zerolog"
)

func TestExtractCredential(t *testing.T) {
	tests := []struct {
		name   string
		header string
		query  string
		want   string
		wantOK bool
	}{
		{name: "bearer header", header: "Bearer abc123", want: "abc123", wantOK: true},
		{name: "lowercase scheme", header: "bearer abc123", want: "abc123", wantOK: true},
		{name: "wrong scheme", header: "Basic abc123"},
		{name: "scheme only", header: "Bearer"},
		{name: "empty credential", header: "Bearer   "},
		{name: "query fallback", query: "abc123", want: "abc123", wantOK: true},
		{name: "header wins over query", header: "Basic abc123", query: "xyz"},
		{name: "nothing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := "/"
			if tt.query != "" {
				target += "?token=" + tt.query
			}
			req := httptest.NewRequest(http.MethodGet, target, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = req

			got, ok := extractCredential(c)
			if ok != tt.wantOK || got != tt.want {
				t.Fatalf("extractCredential() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func newMiddlewareRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(mw)
	router.GET("/", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func TestCorrelationIDGenerated(t *testing.T) {
	router := newMiddlewareRouter(CorrelationID(zerolog.Nop()))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if id := rec.Header().Get(CorrelationIDHeader); id == "" {
		t.Fatal("expected a generated correlation id")
	}
}

func TestCorrelationIDPassthrough(t *testing.T) {
	router := newMiddlewareRouter(CorrelationID(zerolog.Nop()))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(CorrelationIDHeader, "req-42")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if id := rec.Header().Get(CorrelationIDHeader); id != "req-42" {
		t.Fatalf("expected passthrough of req-42, got %q", id)
	}
}

func TestRateLimitEnforced(t *testing.T) {
	router := newMiddlewareRouter(RateLimit(config.RateLimitConfig{
		Enabled:  true,
		Requests: 3,
		Window:   time.Minute,
	}))

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, rec.Code)
		}
		if limit := rec.Header().Get("X-RateLimit-Limit"); limit != "3" {
			t.Fatalf("request %d: unexpected limit header %q", i+1, limit)
		}
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 once over the limit, got %d", rec.Code)
	}
	if remaining := rec.Header().Get("X-RateLimit-Remaining"); remaining != "0" {
		t.Fatalf("expected zero remaining, got %q", remaining)
	}
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	router := newMiddlewareRouter(CORSMiddleware([]string{"https://app.example.com"}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Fatalf("unexpected allow-origin header: %q", got)
	}
}

func TestCORSIgnoresUnknownOrigin(t *testing.T) {
	router := newMiddlewareRouter(CORSMiddleware([]string{"https://app.example.com"}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("unexpected allow-origin header: %q", got)
	}
}
