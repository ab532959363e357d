package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

var Version = "dev"

var (
	Port    string
	EnvMode string

	TempDir    string
	CookiesDir string

	CORSOriginsFile string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
)

const (
	// How long a finished download's temp directory lingers after the
	// response completes before it is deleted.
	CleanupDelay = 60 * time.Second

	// Safety net for directories leaked by interrupted requests.
	FileRetention = 20 * time.Minute

	MetadataTimeout = 45 * time.Second
	DownloadTimeout = 15 * time.Minute
	ExtractTimeout  = 90 * time.Second

	MaxURLLength      = 2048
	MaxCookieFileSize = 1 << 20

	// RateLimitMax budgets the plain JSON endpoints per IP per window;
	// RateLimitHeavyMax budgets the endpoints that fork yt-dlp.
	RateLimitWindow        = 60 * time.Second
	RateLimitMax           = 60
	RateLimitHeavyMax      = 12
	RateLimitSweepInterval = 60 * time.Second
	RateLimitMaxClients    = 100000

	RecordTTL   = 24 * time.Hour
	HistorySize = 50
)

var (
	AllowedFormats   = []string{"mp3", "wav", "aac", "ogg", "m4a", "opus", "flac"}
	AllowedQualities = []string{"best", "worst", "32", "64", "96", "128", "192", "256", "320"}
)

var AudioMIMEs = map[string]string{
	"mp3":  "audio/mpeg",
	"wav":  "audio/wav",
	"aac":  "audio/aac",
	"ogg":  "audio/ogg",
	"m4a":  "audio/mp4",
	"opus": "audio/opus",
	"flac": "audio/flac",
}

// Browsers is the cookie export order. DirectBrowsers is the order for
// passing --cookies-from-browser straight to yt-dlp; chrome is skipped
// there because its cookie store is locked while the browser runs.
var (
	Browsers       = []string{"firefox", "edge", "chrome", "safari"}
	DirectBrowsers = []string{"firefox", "edge", "safari"}
)

func Load() {
	Port = envOrDefault("PORT", "8000")
	EnvMode = envOrDefault("APP_ENV", "development")

	TempDir = envOrDefault("TEMP_DIR", "temp_downloads")
	CookiesDir = envOrDefault("COOKIES_DIR", "cookies")
	CORSOriginsFile = envOrDefault("CORS_ORIGINS_FILE", "cors-origins.txt")

	RedisAddr = os.Getenv("REDIS_ADDR")
	RedisPassword = os.Getenv("REDIS_PASSWORD")
	RedisDB, _ = strconv.Atoi(envOrDefault("REDIS_DB", "0"))
	if RedisAddr == "" {
		log.Println("[WARN] REDIS_ADDR not set, download history will be unavailable")
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func Contains(slice []string, val string) bool {
	for _, s := range slice {
		if s == val {
			return true
		}
	}
	return false
}
