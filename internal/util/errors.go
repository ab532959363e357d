package util

import "strings"

// ToUserError maps raw extractor output onto a message safe to show
// users. The raw text often contains tracebacks and format dumps.
func ToUserError(message string) string {
	msg := strings.ToLower(message)

	if strings.Contains(msg, "cancelled") || strings.Contains(msg, "canceled") || strings.Contains(msg, "context canceled") {
		return "Download cancelled"
	}
	if strings.Contains(msg, "video unavailable") || strings.Contains(msg, "private video") || strings.Contains(msg, "this content is private") {
		return "This video is unavailable or has been removed"
	}
	if strings.Contains(msg, "live stream") || strings.Contains(msg, "is live") {
		return "Live streams can't be extracted"
	}
	if strings.Contains(msg, "age-restricted") || strings.Contains(msg, "age restricted") || strings.Contains(msg, "confirm your age") {
		return "This video is age-restricted"
	}
	if strings.Contains(msg, "sign in to confirm") || strings.Contains(msg, "sign in to verify") {
		return "YouTube is blocking this request, add cookies and try again"
	}
	if strings.Contains(msg, "geo restricted") || strings.Contains(msg, "geo-restricted") || strings.Contains(msg, "available in your country") {
		return "This video isn't available in the server's region"
	}
	if strings.Contains(msg, "copyright") {
		return "This video was removed for copyright"
	}
	if strings.Contains(msg, "members only") || strings.Contains(msg, "members-only") {
		return "This is a members-only video"
	}
	if strings.Contains(msg, "premium") {
		return "This video requires YouTube Premium"
	}
	if strings.Contains(msg, "http error 403") || strings.Contains(msg, "403 forbidden") {
		return "Access denied, YouTube is blocking downloads"
	}
	if strings.Contains(msg, "http error 404") || strings.Contains(msg, "404 not found") {
		return "Video not found, it may have been deleted"
	}
	if strings.Contains(msg, "unsupported url") {
		return "This URL isn't supported"
	}
	if strings.Contains(msg, "no video formats") || strings.Contains(msg, "requested format not available") || strings.Contains(msg, "no usable audio") {
		return "No downloadable audio formats found"
	}
	if strings.Contains(msg, "timed out") || strings.Contains(msg, "timeout") {
		return "Connection timed out, try again"
	}
	if strings.Contains(msg, "connection reset") || strings.Contains(msg, "connection refused") {
		return "Connection dropped, try again"
	}
	if strings.Contains(msg, "name or service not known") || strings.Contains(msg, "dns") {
		return "Couldn't reach the source, try again"
	}
	if strings.Contains(msg, "file not found") {
		return "Download failed"
	}
	return "Extraction failed"
}
