package routes

import (
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/relder2/audiosnag/internal/config"
	"github.com/relder2/audiosnag/internal/cookies"
)

func CookieRoutes(r chi.Router) {
	r.Get("/cookies/status", handleCookieStatus)
	r.Post("/cookies/extract", handleCookieExtract)
	r.Post("/cookies/upload", handleCookieUpload)
	r.Get("/cookies/troubleshoot", handleCookieTroubleshoot)
	r.Delete("/cookies", handleCookieDelete)
}

func handleCookieStatus(w http.ResponseWriter, r *http.Request) {
	var lastUpdated *string
	if t, ok := cookies.LastUpdated(); ok {
		s := t.Format(time.RFC3339)
		lastUpdated = &s
	}
	respondJSON(w, 200, map[string]interface{}{
		"browser_cookies_available": cookies.BrowserCookiesAvailable(),
		"manual_cookies_available":  cookies.HasManualFile(),
		"last_updated":              lastUpdated,
	})
}

func handleCookieExtract(w http.ResponseWriter, r *http.Request) {
	browser, err := cookies.ExtractToFile(r.Context())
	if err != nil {
		log.Printf("[Cookies] Extraction failed: %v", err)
		respondJSON(w, 502, map[string]string{
			"error": "Failed to extract cookies from any browser. Try uploading a cookie file manually via /cookies/upload.",
		})
		return
	}
	respondJSON(w, 200, map[string]string{
		"message": "Cookies extracted successfully",
		"browser": browser,
		"path":    cookies.File(),
	})
}

func handleCookieUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(config.MaxCookieFileSize); err != nil {
		respondJSON(w, 400, map[string]string{"error": "invalid multipart form"})
		return
	}
	file, header, err := r.FormFile("cookie_file")
	if err != nil {
		respondJSON(w, 400, map[string]string{"error": "cookie_file field is required"})
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".txt") {
		respondJSON(w, 400, map[string]string{"error": "cookie file must be a .txt file"})
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, config.MaxCookieFileSize+1))
	if err != nil {
		respondJSON(w, 500, map[string]string{"error": "failed to read cookie file"})
		return
	}

	if err := cookies.Save(data); err != nil {
		respondJSON(w, 400, map[string]string{"error": err.Error()})
		return
	}

	log.Printf("[Cookies] Uploaded cookie file (%d bytes)", len(data))
	respondJSON(w, 200, map[string]string{
		"message": "Cookie file uploaded successfully",
		"path":    cookies.File(),
	})
}

func handleCookieTroubleshoot(w http.ResponseWriter, r *http.Request) {
	statuses := cookies.ProbeBrowsers()

	var issues, solutions []string
	accessible := 0
	for _, s := range statuses {
		if s.Accessible {
			accessible++
			continue
		}
		if s.Browser == "chrome" {
			issues = append(issues, "Chrome cookie store not found or locked")
			solutions = append(solutions,
				"Close all Chrome windows and try again",
				"Use Firefox or Edge instead",
			)
		}
	}
	if accessible == 0 {
		issues = append(issues, "No browser cookie stores found on this machine")
		solutions = append(solutions, "Export cookies with a browser extension and upload them")
	}
	if solutions == nil {
		solutions = []string{}
	}
	if issues == nil {
		issues = []string{}
	}

	respondJSON(w, 200, map[string]interface{}{
		"browser_status":     statuses,
		"issues":             issues,
		"solutions":          solutions,
		"recommended_action": "Use /cookies/upload with a manually exported cookie file if automatic extraction fails",
	})
}

func handleCookieDelete(w http.ResponseWriter, r *http.Request) {
	removed, err := cookies.Delete()
	if err != nil {
		respondJSON(w, 500, map[string]string{"error": "failed to delete cookie file"})
		return
	}
	if !removed {
		respondJSON(w, 404, map[string]string{"error": "no cookie file found"})
		return
	}
	respondJSON(w, 200, map[string]string{"message": "Cookie file deleted"})
}
