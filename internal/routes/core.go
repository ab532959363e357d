package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/relder2/audiosnag/internal/config"
	"github.com/relder2/audiosnag/internal/stats"
	"github.com/relder2/audiosnag/internal/store"
)

// AllowedMethods is the method surface the routers below register; the
// CORS preflight response is scoped to it.
var AllowedMethods = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodDelete,
	http.MethodOptions,
}

func CoreRoutes(r chi.Router) {
	r.Get("/", handleIndex)
	r.Get("/health", handleHealth)
	r.Get("/stats", handleStats)
	r.Get("/history", handleHistory)
}

func handleIndex(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, 200, map[string]interface{}{
		"message": "YouTube Audio Extraction API",
		"endpoints": map[string]string{
			"/info":                 "Get video information",
			"/download":             "Download audio file",
			"/stream":               "Get direct stream URL",
			"/debug/{videoId}":      "Debug video formats and info",
			"/cookies/status":       "Check cookie availability",
			"/cookies/extract":      "Extract cookies from browser",
			"/cookies/upload":       "Upload cookie file",
			"/cookies/troubleshoot": "Troubleshoot cookie issues",
			"/cookies":              "Delete stored cookies (DELETE)",
			"/health":               "Service health",
			"/stats":                "Request counters",
			"/history":              "Recent download records",
		},
	})
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	storage := "disabled"
	if store.Available() {
		storage = "redis"
	}
	respondJSON(w, 200, map[string]interface{}{
		"status":           "healthy",
		"version":          config.Version,
		"active_downloads": stats.ActiveDownloads(),
		"history_store":    storage,
	})
}

func handleStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, 200, stats.Snapshot())
}

func handleHistory(w http.ResponseWriter, r *http.Request) {
	records := store.Recent(config.HistorySize)
	if records == nil {
		records = []*store.Record{}
	}
	respondJSON(w, 200, map[string]interface{}{
		"records":         records,
		"count":           len(records),
		"store_available": store.Available(),
	})
}
