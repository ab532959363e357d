package extract

import "testing"

func TestBestAudioURL(t *testing.T) {
	tests := []struct {
		name    string
		formats []Format
		wantURL string
	}{
		{
			name:    "no formats",
			formats: nil,
			wantURL: "",
		},
		{
			name: "video only formats",
			formats: []Format{
				{VCodec: "avc1", ACodec: "none", URL: "http://v/1"},
			},
			wantURL: "",
		},
		{
			name: "prefers audio only over muxed",
			formats: []Format{
				{VCodec: "avc1", ACodec: "mp4a", Ext: "mp4", Protocol: "https", ABR: 256, URL: "http://muxed"},
				{VCodec: "none", ACodec: "opus", Ext: "webm", Protocol: "https", ABR: 128, URL: "http://audio"},
			},
			wantURL: "http://audio",
		},
		{
			name: "prefers m4a https over hls",
			formats: []Format{
				{VCodec: "none", ACodec: "mp4a", Ext: "m4a", Protocol: "m3u8_native", ABR: 128, URL: "http://hls"},
				{VCodec: "none", ACodec: "mp4a", Ext: "m4a", Protocol: "https", ABR: 128, URL: "http://direct"},
			},
			wantURL: "http://direct",
		},
		{
			name: "higher bitrate wins within same container",
			formats: []Format{
				{VCodec: "none", ACodec: "mp4a", Ext: "m4a", Protocol: "https", ABR: 48, URL: "http://low"},
				{VCodec: "none", ACodec: "mp4a", Ext: "m4a", Protocol: "https", ABR: 128, URL: "http://high"},
			},
			wantURL: "http://high",
		},
		{
			name: "falls back to muxed when nothing is audio only",
			formats: []Format{
				{VCodec: "avc1", ACodec: "mp4a", Ext: "mp4", Protocol: "https", ABR: 128, URL: "http://muxed"},
			},
			wantURL: "http://muxed",
		},
		{
			name: "missing URLs are skipped",
			formats: []Format{
				{VCodec: "none", ACodec: "opus", Ext: "webm", Protocol: "https", ABR: 160, URL: ""},
				{VCodec: "none", ACodec: "mp4a", Ext: "m4a", Protocol: "https", ABR: 128, URL: "http://ok"},
			},
			wantURL: "http://ok",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := &VideoInfo{Formats: tt.formats}
			got, format := BestAudioURL(info)
			if got != tt.wantURL {
				t.Errorf("BestAudioURL() = %q, want %q", got, tt.wantURL)
			}
			if got != "" && format == nil {
				t.Error("BestAudioURL() returned URL with nil format")
			}
			if got == "" && format != nil {
				t.Error("BestAudioURL() returned format with empty URL")
			}
		})
	}
}
