package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/relder2/audiosnag/internal/config"
)

func freshLimiter(t *testing.T) *clientLimiter {
	t.Helper()
	old := limiter
	limiter = &clientLimiter{clients: make(map[string][]time.Time)}
	t.Cleanup(func() { limiter = old })
	return limiter
}

func TestTakeSlidingWindow(t *testing.T) {
	l := freshLimiter(t)
	ip := "203.0.113.7"

	for i := 0; i < config.RateLimitMax; i++ {
		allowed, remaining, _ := l.take(ip, config.RateLimitMax)
		if !allowed {
			t.Fatalf("request %d should be allowed", i+1)
		}
		if want := config.RateLimitMax - i - 1; remaining != want {
			t.Fatalf("request %d: remaining = %d, want %d", i+1, remaining, want)
		}
	}

	allowed, _, resetIn := l.take(ip, config.RateLimitMax)
	if allowed {
		t.Error("request over the limit should be rejected")
	}
	if resetIn <= 0 {
		t.Errorf("resetIn = %d, want positive", resetIn)
	}
}

func TestLimitFor(t *testing.T) {
	tests := []struct {
		path string
		want int
	}{
		{"/download", config.RateLimitHeavyMax},
		{"/info", config.RateLimitHeavyMax},
		{"/stream", config.RateLimitHeavyMax},
		{"/cookies/extract", config.RateLimitHeavyMax},
		{"/debug/dQw4w9WgXcQ", config.RateLimitHeavyMax},
		{"/stats", config.RateLimitMax},
		{"/history", config.RateLimitMax},
		{"/cookies/upload", config.RateLimitMax},
	}
	for _, tt := range tests {
		if got := limitFor(tt.path); got != tt.want {
			t.Errorf("limitFor(%q) = %d, want %d", tt.path, got, tt.want)
		}
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	freshLimiter(t)

	handler := RateLimit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(204)
	}))

	do := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("GET", path, nil)
		req.RemoteAddr = "203.0.113.8:12345"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w
	}

	var last *httptest.ResponseRecorder
	for i := 0; i < config.RateLimitMax+1; i++ {
		last = do("/stats")
	}
	if last.Code != 429 {
		t.Errorf("status = %d, want 429 after exceeding limit", last.Code)
	}
	if last.Header().Get("X-RateLimit-Remaining") != "0" {
		t.Errorf("X-RateLimit-Remaining = %q, want 0", last.Header().Get("X-RateLimit-Remaining"))
	}

	// Status endpoints stay reachable for the same client.
	if w := do("/health"); w.Code != 204 {
		t.Errorf("exempt path status = %d, want 204", w.Code)
	}
	if w := do("/cookies/status"); w.Code != 204 {
		t.Errorf("exempt path status = %d, want 204", w.Code)
	}
}

func TestRateLimitHeavyTier(t *testing.T) {
	freshLimiter(t)

	handler := RateLimit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(204)
	}))

	var last *httptest.ResponseRecorder
	for i := 0; i < config.RateLimitHeavyMax+1; i++ {
		req := httptest.NewRequest("POST", "/download", nil)
		req.RemoteAddr = "203.0.113.9:12345"
		last = httptest.NewRecorder()
		handler.ServeHTTP(last, req)
	}

	if last.Code != 429 {
		t.Errorf("status = %d, want 429 after exceeding heavy limit", last.Code)
	}
	if got := last.Header().Get("X-RateLimit-Limit"); got != fmt.Sprintf("%d", config.RateLimitHeavyMax) {
		t.Errorf("X-RateLimit-Limit = %q, want %d", got, config.RateLimitHeavyMax)
	}
}

func TestTakeCapRefusesNewClients(t *testing.T) {
	l := freshLimiter(t)

	now := time.Now()
	for i := 0; i < config.RateLimitMaxClients; i++ {
		l.clients[fmt.Sprintf("198.51.100.%d", i)] = []time.Time{now}
	}

	if allowed, _, _ := l.take("203.0.113.10", config.RateLimitMax); allowed {
		t.Error("new client should be refused while the table is full")
	}
	if len(l.clients) != config.RateLimitMaxClients {
		t.Errorf("table grew to %d entries, cap is %d", len(l.clients), config.RateLimitMaxClients)
	}

	if allowed, _, _ := l.take("198.51.100.0", config.RateLimitMax); !allowed {
		t.Error("known client should keep its slot while the table is full")
	}
}

func TestSweepDropsExpiredClients(t *testing.T) {
	l := freshLimiter(t)

	stale := time.Now().Add(-2 * config.RateLimitWindow)
	l.clients["203.0.113.11"] = []time.Time{stale}
	l.clients["203.0.113.12"] = []time.Time{stale, time.Now()}

	l.sweep()

	if _, ok := l.clients["203.0.113.11"]; ok {
		t.Error("fully expired client should be removed")
	}
	if got := len(l.clients["203.0.113.12"]); got != 1 {
		t.Errorf("active client kept %d timestamps, want 1", got)
	}
}
