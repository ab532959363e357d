package extract

import (
	"sort"
	"strings"
)

// BestAudioURL picks the direct URL of the most usable audio format.
// Audio-only formats are preferred; muxed formats are a fallback when
// the extractor exposes nothing else. Returns "" when no format
// carries audio with a direct URL.
func BestAudioURL(info *VideoInfo) (string, *Format) {
	candidates := make([]Format, 0, len(info.Formats))
	for _, f := range info.Formats {
		if f.URL != "" && f.AudioOnly() {
			candidates = append(candidates, f)
		}
	}
	if len(candidates) == 0 {
		for _, f := range info.Formats {
			if f.URL != "" && f.ACodec != "none" && f.ACodec != "" {
				candidates = append(candidates, f)
			}
		}
	}
	if len(candidates) == 0 {
		return "", nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		si, sj := scoreFormat(candidates[i]), scoreFormat(candidates[j])
		if si == sj {
			return candidates[i].ABR > candidates[j].ABR
		}
		return si > sj
	})

	best := candidates[0]
	return best.URL, &best
}

// scoreFormat ranks a format by container, delivery protocol, and
// bitrate. HTTPS progressive beats HLS/DASH because the returned URL is
// handed straight to clients that expect a plain fetch.
func scoreFormat(f Format) int {
	score := 0
	switch strings.ToLower(f.Ext) {
	case "m4a":
		score += 100
	case "webm":
		score += 90
	case "ogg", "opus":
		score += 85
	case "mp4":
		score += 70
	default:
		score += 60
	}

	p := strings.ToLower(f.Protocol)
	switch {
	case strings.HasPrefix(p, "https"):
		score += 30
	case strings.HasPrefix(p, "http"):
		score += 25
	case strings.Contains(p, "m3u8"), strings.Contains(p, "hls"):
		score += 20
	case strings.Contains(p, "dash"):
		score += 15
	}

	if f.ABR > 0 {
		score += int(f.ABR)
	} else if f.TBR > 0 {
		score += int(f.TBR / 2)
	}
	return score
}
