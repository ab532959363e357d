// Package cookies manages the Netscape cookie file handed to yt-dlp and
// the fallback chain for producing one: a manually uploaded file wins,
// then an export from an installed browser, then passing the browser
// straight to yt-dlp as a last resort.
package cookies

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/relder2/audiosnag/internal/config"
)

const fileName = "youtube_cookies.txt"

var botDetectionErrors = []string{
	"Sign in to confirm you",
	"Sign in to confirm your age",
	"confirm your age",
	"This video is unavailable",
	"Private video",
}

// File is the path of the managed cookie file.
func File() string {
	return filepath.Join(config.CookiesDir, fileName)
}

func HasManualFile() bool {
	_, err := os.Stat(File())
	return err == nil
}

// LastUpdated reports the managed file's modification time.
func LastUpdated() (time.Time, bool) {
	info, err := os.Stat(File())
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

// IsBotDetection reports whether extractor output indicates YouTube is
// demanding authentication for the request.
func IsBotDetection(output string) bool {
	for _, e := range botDetectionErrors {
		if strings.Contains(output, e) {
			return true
		}
	}
	return false
}

// Args builds the yt-dlp cookie arguments, walking the fallback chain.
// Returns nil when cookies are disabled or no source works; extraction
// then proceeds unauthenticated and may hit bot detection.
func Args(ctx context.Context, useCookies bool) []string {
	if !useCookies {
		return nil
	}

	if HasManualFile() {
		log.Println("[Cookies] Using manual cookie file")
		return []string{"--cookies", File()}
	}

	if browser, err := ExtractToFile(ctx); err == nil {
		log.Printf("[Cookies] Exported browser cookies from %s", browser)
		return []string{"--cookies", File()}
	}

	for _, b := range config.DirectBrowsers {
		if browserCookieDB(b) != "" {
			log.Printf("[Cookies] Using cookies directly from %s", b)
			return []string{"--cookies-from-browser", b}
		}
	}

	log.Println("[Cookies] No cookies available, some videos may fail")
	return nil
}

// ExtractToFile exports YouTube cookies from the first browser that
// works, writing the managed file. Returns the browser used.
func ExtractToFile(ctx context.Context) (string, error) {
	if err := os.MkdirAll(config.CookiesDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create cookies dir: %w", err)
	}

	var lastErr error
	for _, browser := range config.Browsers {
		if browserCookieDB(browser) == "" {
			lastErr = fmt.Errorf("%s cookie store not found", browser)
			continue
		}
		log.Printf("[Cookies] Trying to export cookies from %s...", browser)
		if err := exportBrowser(ctx, browser); err != nil {
			log.Printf("[Cookies] %s export failed: %v", browser, err)
			lastErr = err
			continue
		}
		return browser, nil
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no browser cookie stores found")
	}
	return "", lastErr
}

// exportBrowser runs yt-dlp purely for its cookie plumbing: it reads the
// browser store, visits youtube.com without downloading anything, and
// writes the jar on exit. Output lands in a scratch file first so a
// failed export never clobbers a good cookie file.
func exportBrowser(ctx context.Context, browser string) error {
	scratch := File() + ".export"
	defer os.Remove(scratch)

	ctx, cancel := context.WithTimeout(ctx, config.ExtractTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "yt-dlp",
		"--cookies-from-browser", browser,
		"--cookies", scratch,
		"--skip-download", "--simulate", "--quiet", "--no-warnings",
		"https://www.youtube.com/",
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return fmt.Errorf("yt-dlp export: %s", firstLine(msg))
	}

	data, err := os.ReadFile(scratch)
	if err != nil {
		return fmt.Errorf("export produced no cookie file")
	}
	if !ValidNetscape(data) {
		return fmt.Errorf("export produced no usable cookies")
	}
	if !strings.Contains(string(data), "youtube.com") {
		return fmt.Errorf("no YouTube cookies found in %s", browser)
	}
	return os.Rename(scratch, File())
}

// Save validates and atomically installs an uploaded cookie file.
func Save(data []byte) error {
	if len(data) > config.MaxCookieFileSize {
		return fmt.Errorf("cookie file too large (max %d bytes)", config.MaxCookieFileSize)
	}
	if !ValidNetscape(data) {
		return fmt.Errorf("not a Netscape cookie file")
	}
	if err := os.MkdirAll(config.CookiesDir, 0755); err != nil {
		return err
	}
	tmp := File() + ".upload"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return err
	}
	return os.Rename(tmp, File())
}

// Delete removes the managed cookie file. Reports false when there was
// nothing to delete.
func Delete() (bool, error) {
	err := os.Remove(File())
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ValidNetscape accepts the classic "# Netscape HTTP Cookie File" header
// or at least one 7-field tab-separated cookie line.
func ValidNetscape(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.HasPrefix(line, "# Netscape HTTP Cookie File") {
			return true
		}
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if len(strings.Split(line, "\t")) == 7 {
			return true
		}
	}
	return false
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}
