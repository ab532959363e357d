package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/relder2/audiosnag/internal/config"
	"github.com/relder2/audiosnag/internal/util"
)

// exemptPaths are cheap status reads that monitoring polls on a short
// interval; they never count against a client's budget.
var exemptPaths = map[string]bool{
	"/health":         true,
	"/cookies/status": true,
}

// heavyPaths fork yt-dlp (and usually ffmpeg) per request, so they get a
// much smaller budget than the plain JSON endpoints.
var heavyPaths = map[string]bool{
	"/info":            true,
	"/download":        true,
	"/stream":          true,
	"/cookies/extract": true,
}

type clientLimiter struct {
	mu      sync.Mutex
	clients map[string][]time.Time
}

var limiter = &clientLimiter{clients: make(map[string][]time.Time)}

func RateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if exemptPaths[r.URL.Path] {
			next.ServeHTTP(w, r)
			return
		}

		limit := limitFor(r.URL.Path)
		allowed, remaining, resetIn := limiter.take(util.GetClientIP(r), limit)

		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))

		if !allowed {
			w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", resetIn))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(429)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"error":   "Too many requests. Please slow down.",
				"resetIn": resetIn,
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

func limitFor(path string) int {
	if heavyPaths[path] || strings.HasPrefix(path, "/debug/") {
		return config.RateLimitHeavyMax
	}
	return config.RateLimitMax
}

// take records a request for ip against a sliding window and reports
// whether it fits under limit.
func (l *clientLimiter) take(ip string, limit int) (allowed bool, remaining, resetIn int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	windowStart := now.Add(-config.RateLimitWindow)

	seen, known := l.clients[ip]
	filtered := seen[:0]
	for _, t := range seen {
		if t.After(windowStart) {
			filtered = append(filtered, t)
		}
	}

	if len(filtered) >= limit {
		l.clients[ip] = filtered
		resetSec := int(filtered[0].Add(config.RateLimitWindow).Sub(now).Seconds()) + 1
		return false, 0, resetSec
	}

	// A full table only refuses clients it has never seen; known clients
	// keep their slot, so the map cannot grow past the cap.
	if !known && len(l.clients) >= config.RateLimitMaxClients {
		return false, 0, int(config.RateLimitWindow.Seconds())
	}

	l.clients[ip] = append(filtered, now)
	return true, limit - len(filtered) - 1, 0
}

func StartRateLimitCleanup() {
	go func() {
		ticker := time.NewTicker(config.RateLimitSweepInterval)
		for range ticker.C {
			limiter.sweep()
		}
	}()
}

// sweep drops windows that have fully expired so idle clients do not pin
// map entries forever.
func (l *clientLimiter) sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()

	windowStart := time.Now().Add(-config.RateLimitWindow)
	for ip, seen := range l.clients {
		filtered := seen[:0]
		for _, t := range seen {
			if t.After(windowStart) {
				filtered = append(filtered, t)
			}
		}
		if len(filtered) == 0 {
			delete(l.clients, ip)
		} else {
			l.clients[ip] = filtered
		}
	}
}
