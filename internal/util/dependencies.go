package util

import (
	"fmt"
	"os/exec"
)

// CheckDependencies reports which external tools are present. yt-dlp
// and ffmpeg are required for extraction and transcoding; ffprobe only
// backs the debug endpoint's recommendations.
func CheckDependencies() {
	deps := []struct {
		name     string
		required bool
	}{
		{"yt-dlp", true},
		{"ffmpeg", true},
		{"ffprobe", false},
	}

	for _, dep := range deps {
		path, err := exec.LookPath(dep.name)
		if err != nil {
			if dep.required {
				fmt.Printf("✗ %s not found (REQUIRED)\n", dep.name)
			} else {
				fmt.Printf("- %s not found (optional)\n", dep.name)
			}
			continue
		}
		fmt.Printf("✓ %s found: %s\n", dep.name, path)
	}
}
