package extract

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/relder2/audiosnag/internal/config"
)

var (
	percentRe = regexp.MustCompile(`([\d.]+)%`)
	speedRe   = regexp.MustCompile(`at\s+([\d.]+\s*\w+/s)`)
	etaRe     = regexp.MustCompile(`ETA\s+(\S+)`)
)

type Progress struct {
	Percent float64
	Speed   string
	ETA     string
}

func ParseProgress(text string) Progress {
	var p Progress
	if m := percentRe.FindStringSubmatch(text); len(m) > 1 {
		p.Percent, _ = strconv.ParseFloat(m[1], 64)
	}
	if m := speedRe.FindStringSubmatch(text); len(m) > 1 {
		p.Speed = m[1]
	}
	if m := etaRe.FindStringSubmatch(text); len(m) > 1 {
		p.ETA = m[1]
	}
	return p
}

// audioFormatArg maps API format names onto yt-dlp's --audio-format
// vocabulary. Only ogg differs: yt-dlp calls the codec vorbis but still
// writes a .ogg file.
func audioFormatArg(format string) string {
	if format == "ogg" {
		return "vorbis"
	}
	return format
}

type DownloadOpts struct {
	Format     string
	Quality    string
	TempDir    string
	CookieArgs []string
	OnProgress func(percent float64, speed, eta string)
}

type DownloadResult struct {
	Path  string
	Title string
	Ext   string
	Size  int64
}

// DownloadAudio fetches the best audio stream and transcodes it to the
// requested format via yt-dlp's ffmpeg postprocessor. The output lands
// in opts.TempDir as "<title>.<format>"; the caller owns the directory.
func DownloadAudio(ctx context.Context, url string, opts DownloadOpts) (*DownloadResult, error) {
	if opts.Format == "" {
		opts.Format = "mp3"
	}
	if opts.Quality == "" {
		opts.Quality = "192"
	}

	ctx, cancel := context.WithTimeout(ctx, config.DownloadTimeout)
	defer cancel()

	args := append([]string{}, opts.CookieArgs...)
	args = append(args,
		"--no-playlist",
		"--newline",
		"-f", "bestaudio/best",
		"-x",
		"--audio-format", audioFormatArg(opts.Format),
		"--audio-quality", QualityArg(opts.Quality),
		"-o", filepath.Join(opts.TempDir, "%(title)s.%(ext)s"),
		url,
	)

	cmd := exec.CommandContext(ctx, "yt-dlp", args...)
	stdout, _ := cmd.StdoutPipe()
	stderr, _ := cmd.StderrPipe()

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start yt-dlp: %w", err)
	}

	var stderrOutput strings.Builder
	var lastProgress float64
	var mu sync.Mutex
	var wg sync.WaitGroup
	wg.Add(2)

	report := func(line string) {
		p := ParseProgress(line)
		mu.Lock()
		shouldReport := p.Percent > 0 && (p.Percent > lastProgress+2 || p.Percent >= 100)
		if shouldReport {
			lastProgress = p.Percent
		}
		mu.Unlock()
		if shouldReport && opts.OnProgress != nil {
			opts.OnProgress(p.Percent, p.Speed, p.ETA)
		}
	}

	go func() {
		defer wg.Done()
		scanner := bufio.NewScanner(stdout)
		for scanner.Scan() {
			line := scanner.Text()
			if strings.Contains(line, "[download]") && strings.Contains(line, "%") {
				report(line)
			}
		}
	}()

	go func() {
		defer wg.Done()
		scanner := bufio.NewScanner(stderr)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := scanner.Text()
			stderrOutput.WriteString(line + "\n")
			if strings.Contains(line, "[download]") && strings.Contains(line, "%") {
				report(line)
			}
		}
	}()

	wg.Wait()
	if err := cmd.Wait(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("download timed out")
		}
		return nil, &Error{Stderr: stderrOutput.String()}
	}

	return findOutput(opts.TempDir, opts.Format)
}

// findOutput locates the transcoded file. yt-dlp names it after the
// video title, so the directory listing is the source of truth.
func findOutput(dir, format string) (*DownloadResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read temp dir: %w", err)
	}

	for _, e := range entries {
		name := e.Name()
		if strings.HasSuffix(name, ".part") || strings.Contains(name, ".part-Frag") {
			continue
		}
		if !strings.EqualFold(strings.TrimPrefix(filepath.Ext(name), "."), format) {
			continue
		}
		fullPath := filepath.Join(dir, name)
		info, err := os.Stat(fullPath)
		if err != nil {
			continue
		}
		return &DownloadResult{
			Path:  fullPath,
			Title: strings.TrimSuffix(name, filepath.Ext(name)),
			Ext:   strings.TrimPrefix(filepath.Ext(name), "."),
			Size:  info.Size(),
		}, nil
	}

	return nil, fmt.Errorf("download completed but file not found")
}
