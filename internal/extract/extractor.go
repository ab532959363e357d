// Package extract drives yt-dlp for metadata retrieval and audio
// downloads. The extraction and transcoding engines stay external;
// this package owns argument building, process supervision, and
// output parsing.
package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"regexp"
	"strings"

	"github.com/relder2/audiosnag/internal/config"
)

var ytdlpErrorRe = regexp.MustCompile(`(?i)ERROR[:\s]+(.+?)(?:\n|$)`)

// Error carries the raw yt-dlp stderr so callers can match on
// bot-detection phrases before translating the message for users.
type Error struct {
	Stderr string
}

func (e *Error) Error() string {
	if m := ytdlpErrorRe.FindStringSubmatch(e.Stderr); len(m) > 1 {
		return strings.TrimSpace(m[1])
	}
	if s := strings.TrimSpace(e.Stderr); s != "" {
		return firstLine(s)
	}
	return "extraction failed"
}

type Format struct {
	FormatID   string  `json:"format_id"`
	Ext        string  `json:"ext"`
	Resolution string  `json:"resolution,omitempty"`
	FPS        float64 `json:"fps,omitempty"`
	VCodec     string  `json:"vcodec"`
	ACodec     string  `json:"acodec"`
	Filesize   int64   `json:"filesize,omitempty"`
	TBR        float64 `json:"tbr,omitempty"`
	ABR        float64 `json:"abr,omitempty"`
	FormatNote string  `json:"format_note,omitempty"`
	Protocol   string  `json:"protocol,omitempty"`
	URL        string  `json:"url,omitempty"`
}

// AudioOnly reports whether the format carries audio and no video.
func (f Format) AudioOnly() bool {
	return (f.VCodec == "none" || f.VCodec == "") && f.ACodec != "none" && f.ACodec != ""
}

type VideoInfo struct {
	Title        string   `json:"title"`
	Duration     float64  `json:"duration"`
	Uploader     string   `json:"uploader"`
	ViewCount    *int64   `json:"view_count"`
	UploadDate   string   `json:"upload_date"`
	AgeLimit     int      `json:"age_limit"`
	Availability string   `json:"availability"`
	Formats      []Format `json:"formats"`
}

// FetchInfo retrieves video metadata without downloading anything.
func FetchInfo(ctx context.Context, url string, cookieArgs []string) (*VideoInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, config.MetadataTimeout)
	defer cancel()

	args := append([]string{}, cookieArgs...)
	args = append(args, "--no-playlist", "-J", "--no-warnings", "--skip-download", url)

	cmd := exec.CommandContext(ctx, "yt-dlp", args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, &Error{Stderr: stderr.String()}
	}

	var info VideoInfo
	if err := json.Unmarshal(stdout.Bytes(), &info); err != nil {
		return nil, fmt.Errorf("failed to parse yt-dlp metadata: %w", err)
	}
	return &info, nil
}

// QualityArg maps the API quality value onto yt-dlp's --audio-quality
// scale, where 0 is best and 9 is worst.
func QualityArg(quality string) string {
	switch quality {
	case "best":
		return "0"
	case "worst":
		return "9"
	default:
		return quality
	}
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}
