package util

import "testing"

func TestToUserError(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "bot detection",
			in:   "ERROR: Sign in to confirm you're not a bot",
			want: "YouTube is blocking this request, add cookies and try again",
		},
		{
			name: "unavailable",
			in:   "ERROR: Video unavailable",
			want: "This video is unavailable or has been removed",
		},
		{
			name: "age restricted",
			in:   "this video is age-restricted",
			want: "This video is age-restricted",
		},
		{
			name: "geo block",
			in:   "The uploader has not made this video available in your country",
			want: "This video isn't available in the server's region",
		},
		{
			name: "403",
			in:   "HTTP Error 403: Forbidden",
			want: "Access denied, YouTube is blocking downloads",
		},
		{
			name: "404",
			in:   "HTTP Error 404: Not Found",
			want: "Video not found, it may have been deleted",
		},
		{
			name: "unsupported url",
			in:   "ERROR: Unsupported URL: https://example.com",
			want: "This URL isn't supported",
		},
		{
			name: "no formats",
			in:   "ERROR: requested format not available",
			want: "No downloadable audio formats found",
		},
		{
			name: "cancel",
			in:   "context canceled",
			want: "Download cancelled",
		},
		{
			name: "unknown garbage",
			in:   "Traceback (most recent call last): ...",
			want: "Extraction failed",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToUserError(tt.in); got != tt.want {
				t.Errorf("ToUserError(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
