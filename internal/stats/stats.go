// Package stats keeps cheap atomic counters for the health and stats
// endpoints.
package stats

import (
	"fmt"
	"runtime"
	"sync/atomic"
	"time"
)

var (
	started = time.Now()

	activeDownloads    int64
	completedDownloads int64
	failedDownloads    int64
	infoRequests       int64
	streamRequests     int64
)

func DownloadStarted() {
	atomic.AddInt64(&activeDownloads, 1)
}

func DownloadFinished(ok bool) {
	atomic.AddInt64(&activeDownloads, -1)
	if ok {
		atomic.AddInt64(&completedDownloads, 1)
	} else {
		atomic.AddInt64(&failedDownloads, 1)
	}
}

func InfoServed()   { atomic.AddInt64(&infoRequests, 1) }
func StreamServed() { atomic.AddInt64(&streamRequests, 1) }

func ActiveDownloads() int64 {
	return atomic.LoadInt64(&activeDownloads)
}

func Snapshot() map[string]interface{} {
	completed := atomic.LoadInt64(&completedDownloads)
	failed := atomic.LoadInt64(&failedDownloads)

	return map[string]interface{}{
		"active_downloads":    atomic.LoadInt64(&activeDownloads),
		"completed_downloads": completed,
		"failed_downloads":    failed,
		"info_requests":       atomic.LoadInt64(&infoRequests),
		"stream_requests":     atomic.LoadInt64(&streamRequests),
		"success_rate":        successRate(completed, failed),
		"uptime_seconds":      time.Since(started).Seconds(),
		"memory_usage":        memoryUsage(),
	}
}

func successRate(completed, failed int64) string {
	total := completed + failed
	if total == 0 {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", float64(completed)/float64(total)*100)
}

func memoryUsage() string {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return fmt.Sprintf("%.1fMB", float64(m.Alloc)/1024/1024)
}
