package cookies

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/relder2/audiosnag/internal/config"
)

type BrowserStatus struct {
	Browser    string `json:"browser"`
	Accessible bool   `json:"accessible"`
	StorePath  string `json:"store_path,omitempty"`
	Error      string `json:"error,omitempty"`
}

// ProbeBrowsers checks each known browser for an on-disk cookie store.
// It only proves a store exists; decryption can still fail at export
// time (notably chrome while running).
func ProbeBrowsers() []BrowserStatus {
	statuses := make([]BrowserStatus, 0, len(config.Browsers))
	for _, b := range config.Browsers {
		path := browserCookieDB(b)
		s := BrowserStatus{Browser: b, Accessible: path != ""}
		if path != "" {
			s.StorePath = path
		} else {
			s.Error = "cookie store not found"
		}
		statuses = append(statuses, s)
	}
	return statuses
}

// BrowserCookiesAvailable reports whether any browser cookie store is
// present on this machine.
func BrowserCookiesAvailable() bool {
	for _, b := range config.Browsers {
		if browserCookieDB(b) != "" {
			return true
		}
	}
	return false
}

// browserCookieDB returns the path of the browser's cookie store, or ""
// when none is found.
func browserCookieDB(browser string) string {
	for _, candidate := range cookieStoreCandidates(browser) {
		matches, err := filepath.Glob(candidate)
		if err != nil {
			continue
		}
		for _, m := range matches {
			if info, err := os.Stat(m); err == nil && !info.IsDir() && info.Size() > 0 {
				return m
			}
		}
	}
	return ""
}

func cookieStoreCandidates(browser string) []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}

	switch runtime.GOOS {
	case "darwin":
		lib := filepath.Join(home, "Library", "Application Support")
		switch browser {
		case "firefox":
			return []string{filepath.Join(lib, "Firefox", "Profiles", "*", "cookies.sqlite")}
		case "chrome":
			return []string{filepath.Join(lib, "Google", "Chrome", "*", "Cookies")}
		case "edge":
			return []string{filepath.Join(lib, "Microsoft Edge", "*", "Cookies")}
		case "safari":
			return []string{filepath.Join(home, "Library", "Cookies", "Cookies.binarycookies"),
				filepath.Join(home, "Library", "Containers", "com.apple.Safari", "Data", "Library", "Cookies", "Cookies.binarycookies")}
		}
	case "windows":
		local := os.Getenv("LOCALAPPDATA")
		roaming := os.Getenv("APPDATA")
		switch browser {
		case "firefox":
			return []string{filepath.Join(roaming, "Mozilla", "Firefox", "Profiles", "*", "cookies.sqlite")}
		case "chrome":
			return []string{filepath.Join(local, "Google", "Chrome", "User Data", "*", "Network", "Cookies"),
				filepath.Join(local, "Google", "Chrome", "User Data", "*", "Cookies")}
		case "edge":
			return []string{filepath.Join(local, "Microsoft", "Edge", "User Data", "*", "Network", "Cookies"),
				filepath.Join(local, "Microsoft", "Edge", "User Data", "*", "Cookies")}
		}
	default:
		switch browser {
		case "firefox":
			return []string{filepath.Join(home, ".mozilla", "firefox", "*", "cookies.sqlite"),
				filepath.Join(home, "snap", "firefox", "common", ".mozilla", "firefox", "*", "cookies.sqlite")}
		case "chrome":
			return []string{filepath.Join(home, ".config", "google-chrome", "*", "Cookies")}
		case "edge":
			return []string{filepath.Join(home, ".config", "microsoft-edge", "*", "Cookies")}
		}
	}
	return nil
}
