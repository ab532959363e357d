package util

import (
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/relder2/audiosnag/internal/config"
)

var (
	unsafeFilenameRe = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	multiSpaceRe     = regexp.MustCompile(`\s+`)
)

// ClearTempDir wipes leftover download directories from previous runs
// and makes sure the working directories exist.
func ClearTempDir() {
	entries, err := os.ReadDir(config.TempDir)
	if err != nil {
		os.MkdirAll(config.TempDir, 0755)
	} else {
		for _, e := range entries {
			os.RemoveAll(filepath.Join(config.TempDir, e.Name()))
		}
	}
	os.MkdirAll(config.CookiesDir, 0755)
	log.Println("✓ Cleared temp directory")
}

// CleanupAfter deletes path once delay has passed. Removal is
// idempotent, so racing with the retention sweep is harmless.
func CleanupAfter(path string, delay time.Duration) {
	time.AfterFunc(delay, func() {
		if err := os.RemoveAll(path); err != nil {
			log.Printf("[Cleanup] Failed to remove %s: %v", filepath.Base(path), err)
			return
		}
		log.Printf("[Cleanup] Removed: %s", filepath.Base(path))
	})
}

// CleanupTempFiles removes download directories older than the
// retention window. Catches directories leaked by interrupted requests.
func CleanupTempFiles() {
	now := time.Now()
	entries, err := os.ReadDir(config.TempDir)
	if err != nil {
		return
	}
	for _, e := range entries {
		info, err := e.Info()
		if err != nil {
			continue
		}
		if now.Sub(info.ModTime()) > config.FileRetention {
			os.RemoveAll(filepath.Join(config.TempDir, e.Name()))
			log.Printf("[Cleanup] Expired temp: %s", e.Name())
		}
	}
}

func StartCleanupInterval() {
	ticker := time.NewTicker(5 * time.Minute)
	go func() {
		for range ticker.C {
			CleanupTempFiles()
		}
	}()
}

func SanitizeFilename(filename string) string {
	s := unsafeFilenameRe.ReplaceAllString(filename, "_")
	s = multiSpaceRe.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	if len(s) > 200 {
		s = s[:200]
	}
	if s == "" {
		s = "audio"
	}
	return s
}
