package middleware

import (
	"bufio"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/cors"

	"github.com/relder2/audiosnag/internal/config"
)

// LoadCORS builds the CORS handler, scoped to the methods the routers
// actually register. An origins file pins the allowlist and enables
// credentials; without one every origin is allowed but credentials stay
// off.
func LoadCORS(methods []string) func(http.Handler) http.Handler {
	opts := cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: methods,
		AllowedHeaders: []string{"*"},
		MaxAge:         86400,
	}

	if origins := loadCORSOrigins(config.CORSOriginsFile); len(origins) > 0 {
		opts.AllowedOrigins = origins
		opts.AllowCredentials = true
		log.Printf("✓ Loaded %d CORS origins from %s", len(origins), config.CORSOriginsFile)
	} else {
		log.Printf("[CORS] No %s found, allowing all origins (credentials disabled)", config.CORSOriginsFile)
	}

	return cors.Handler(opts)
}

func loadCORSOrigins(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var origins []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" && !strings.HasPrefix(line, "#") {
			origins = append(origins, line)
		}
	}
	return origins
}
