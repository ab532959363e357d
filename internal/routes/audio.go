package routes

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/relder2/audiosnag/internal/config"
	"github.com/relder2/audiosnag/internal/cookies"
	"github.com/relder2/audiosnag/internal/extract"
	"github.com/relder2/audiosnag/internal/stats"
	"github.com/relder2/audiosnag/internal/store"
	"github.com/relder2/audiosnag/internal/util"
)

func AudioRoutes(r chi.Router) {
	r.Post("/info", handleInfo)
	r.Post("/download", handleDownload)
	r.Post("/stream", handleStream)
	r.Get("/debug/{videoId}", handleDebug)
}

const cookieGuidance = "YouTube requires authentication. Extract cookies via /cookies/extract or upload them via /cookies/upload"

// downloadAudio is swapped out in tests.
var downloadAudio = extract.DownloadAudio

func handleInfo(w http.ResponseWriter, r *http.Request) {
	req, err := decodeAudioRequest(r)
	if err != nil {
		respondJSON(w, 400, map[string]string{"error": err.Error()})
		return
	}
	if err := util.ValidateURL(req.URL); err != nil {
		respondJSON(w, 400, map[string]string{"error": err.Error()})
		return
	}

	cookieArgs := cookies.Args(r.Context(), req.useCookies())
	info, err := extract.FetchInfo(r.Context(), req.URL, cookieArgs)
	if err != nil {
		respondExtractError(w, err)
		return
	}

	stats.InfoServed()
	respondJSON(w, 200, map[string]interface{}{
		"title":       orDefault(info.Title, "Unknown"),
		"duration":    int(info.Duration),
		"uploader":    orDefault(info.Uploader, "Unknown"),
		"view_count":  info.ViewCount,
		"upload_date": info.UploadDate,
	})
}

func handleDownload(w http.ResponseWriter, r *http.Request) {
	req, err := decodeAudioRequest(r)
	if err != nil {
		respondJSON(w, 400, map[string]string{"error": err.Error()})
		return
	}
	if err := util.ValidateURL(req.URL); err != nil {
		respondJSON(w, 400, map[string]string{"error": err.Error()})
		return
	}
	if !config.Contains(config.AllowedFormats, req.Format) {
		respondJSON(w, 400, map[string]string{"error": fmt.Sprintf("unsupported format %q", req.Format)})
		return
	}
	if !config.Contains(config.AllowedQualities, req.Quality) {
		respondJSON(w, 400, map[string]string{"error": fmt.Sprintf("unsupported quality %q", req.Quality)})
		return
	}

	downloadID := uuid.New().String()
	outDir := filepath.Join(config.TempDir, downloadID)
	if err := os.MkdirAll(outDir, 0755); err != nil {
		respondJSON(w, 500, map[string]string{"error": "failed to create temp directory"})
		return
	}

	cookieArgs := cookies.Args(r.Context(), req.useCookies())

	rec := &store.Record{
		ID:          downloadID,
		URL:         req.URL,
		Format:      req.Format,
		Quality:     req.Quality,
		UsedCookies: len(cookieArgs) > 0,
		CreatedAt:   time.Now(),
	}

	// The deferred decrement keeps active_downloads honest even when the
	// extraction or the response write panics.
	stats.DownloadStarted()
	completed := false
	defer func() { stats.DownloadFinished(completed) }()

	log.Printf("[%s] Download started: %s (%s/%s)", downloadID, req.URL, req.Format, req.Quality)

	result, err := downloadAudio(r.Context(), req.URL, extract.DownloadOpts{
		Format:     req.Format,
		Quality:    req.Quality,
		TempDir:    outDir,
		CookieArgs: cookieArgs,
		OnProgress: func(percent float64, speed, eta string) {
			log.Printf("[%s] Downloading... %.0f%% %s ETA %s", downloadID, percent, speed, eta)
		},
	})
	if err != nil {
		os.RemoveAll(outDir)
		rec.Status = "failed"
		rec.Error = util.ToUserError(err.Error())
		store.Save(rec)
		log.Printf("[%s] Download failed: %s", downloadID, err)
		respondExtractError(w, err)
		return
	}

	rec.Status = "completed"
	rec.Title = result.Title
	rec.SizeBytes = result.Size
	store.Save(rec)
	log.Printf("[%s] Download complete: %.2fMB", downloadID, float64(result.Size)/1024/1024)

	defer util.CleanupAfter(outDir, config.CleanupDelay)
	streamFile(w, downloadID, result)
	completed = true
}

func handleStream(w http.ResponseWriter, r *http.Request) {
	req, err := decodeAudioRequest(r)
	if err != nil {
		respondJSON(w, 400, map[string]string{"error": err.Error()})
		return
	}
	if err := util.ValidateURL(req.URL); err != nil {
		respondJSON(w, 400, map[string]string{"error": err.Error()})
		return
	}

	cookieArgs := cookies.Args(r.Context(), req.useCookies())
	info, err := extract.FetchInfo(r.Context(), req.URL, cookieArgs)
	if err != nil {
		respondExtractError(w, err)
		return
	}

	streamURL, format := extract.BestAudioURL(info)
	if streamURL == "" {
		respondJSON(w, 404, map[string]string{"error": "no suitable audio stream found"})
		return
	}

	stats.StreamServed()
	respondJSON(w, 200, map[string]interface{}{
		"stream_url": streamURL,
		"title":      info.Title,
		"ext":        format.Ext,
		"abr":        int(format.ABR),
	})
}

func handleDebug(w http.ResponseWriter, r *http.Request) {
	videoID := chi.URLParam(r, "videoId")
	videoURL := fmt.Sprintf("https://www.youtube.com/watch?v=%s", videoID)

	cookieArgs := cookies.Args(r.Context(), true)
	info, err := extract.FetchInfo(r.Context(), videoURL, cookieArgs)
	if err != nil {
		respondJSON(w, 200, map[string]interface{}{
			"error":      util.ToUserError(err.Error()),
			"suggestion": "Try a different video or check if the video is available in your region",
		})
		return
	}

	audioFormats := make([]extract.Format, 0)
	for _, f := range info.Formats {
		if f.AudioOnly() {
			audioFormats = append(audioFormats, f)
		}
	}

	recommended := "none_available"
	if len(info.Formats) > 0 {
		recommended = "bestaudio/best"
	}

	respondJSON(w, 200, map[string]interface{}{
		"basic_info": map[string]interface{}{
			"title":        info.Title,
			"duration":     info.Duration,
			"uploader":     info.Uploader,
			"age_limit":    info.AgeLimit,
			"availability": info.Availability,
		},
		"total_formats":      len(info.Formats),
		"audio_only_formats": len(audioFormats),
		"all_formats":        info.Formats,
		"audio_formats":      audioFormats,
		"recommended_format": recommended,
	})
}

// respondExtractError translates extraction failures. Bot detection maps
// to 401 pointing at the cookie endpoints; everything else is 400 with a
// user-safe message.
func respondExtractError(w http.ResponseWriter, err error) {
	if cookies.IsBotDetection(rawExtractOutput(err)) {
		respondJSON(w, 401, map[string]string{"error": cookieGuidance})
		return
	}
	respondJSON(w, 400, map[string]string{"error": util.ToUserError(err.Error())})
}

func rawExtractOutput(err error) string {
	if exErr, ok := err.(*extract.Error); ok {
		return exErr.Stderr
	}
	return err.Error()
}

func streamFile(w http.ResponseWriter, downloadID string, result *extract.DownloadResult) {
	f, err := os.Open(result.Path)
	if err != nil {
		log.Printf("[%s] Failed to open output: %v", downloadID, err)
		respondJSON(w, 500, map[string]string{"error": "download completed but file not found"})
		return
	}
	defer f.Close()

	safeTitle := util.SanitizeFilename(result.Title)
	fullFilename := safeTitle + "." + result.Ext
	asciiFilename := toASCIIFilename(safeTitle) + "." + result.Ext

	mimeType := config.AudioMIMEs[result.Ext]
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Content-Length", fmt.Sprintf("%d", result.Size))
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="%s"; filename*=UTF-8''%s`,
			asciiFilename, url.PathEscape(fullFilename)))

	if _, err := io.Copy(w, f); err != nil {
		log.Printf("[%s] Stream error: %v", downloadID, err)
	}
}
