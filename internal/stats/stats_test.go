package stats

import "testing"

func TestCounters(t *testing.T) {
	base := Snapshot()

	DownloadStarted()
	if got := ActiveDownloads(); got != base["active_downloads"].(int64)+1 {
		t.Errorf("active = %d after start", got)
	}

	DownloadFinished(true)
	DownloadStarted()
	DownloadFinished(false)
	InfoServed()
	StreamServed()

	snap := Snapshot()
	if snap["active_downloads"] != base["active_downloads"] {
		t.Errorf("active = %v, want back to %v", snap["active_downloads"], base["active_downloads"])
	}
	if snap["completed_downloads"].(int64) != base["completed_downloads"].(int64)+1 {
		t.Errorf("completed = %v", snap["completed_downloads"])
	}
	if snap["failed_downloads"].(int64) != base["failed_downloads"].(int64)+1 {
		t.Errorf("failed = %v", snap["failed_downloads"])
	}
	if snap["info_requests"].(int64) != base["info_requests"].(int64)+1 {
		t.Errorf("info = %v", snap["info_requests"])
	}
	if snap["stream_requests"].(int64) != base["stream_requests"].(int64)+1 {
		t.Errorf("stream = %v", snap["stream_requests"])
	}
	if snap["success_rate"] == "n/a" {
		t.Error("success_rate should be computed once downloads finished")
	}
}
