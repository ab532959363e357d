package routes

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// audioRequest is the shared body for /info, /download and /stream.
// Cookies default to on, matching the service's primary use case.
type audioRequest struct {
	URL        string `json:"url"`
	Format     string `json:"format"`
	Quality    string `json:"quality"`
	UseCookies *bool  `json:"use_cookies"`
}

func (a *audioRequest) useCookies() bool {
	return a.UseCookies == nil || *a.UseCookies
}

func decodeAudioRequest(r *http.Request) (*audioRequest, error) {
	var req audioRequest
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<16))
	if err := dec.Decode(&req); err != nil {
		return nil, fmt.Errorf("invalid JSON body")
	}
	if req.Format == "" {
		req.Format = "mp3"
	}
	if req.Quality == "" {
		req.Quality = "192"
	}
	return &req, nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func toASCIIFilename(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= 0x20 && r <= 0x7E {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}
