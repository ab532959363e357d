// Package store persists download records in redis. Redis being down
// never fails a request: every call no-ops on a nil client, matching
// the rest of the service's best-effort posture.
package store

import (
	"context"
	"encoding/json"
	"log"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/relder2/audiosnag/internal/config"
)

const (
	recordKeyPrefix = "download:"
	recentKey       = "downloads:recent"
)

var (
	client *redis.Client
	ctx    = context.Background()
)

type Record struct {
	ID          string    `json:"id"`
	URL         string    `json:"url"`
	Format      string    `json:"format"`
	Quality     string    `json:"quality"`
	Title       string    `json:"title,omitempty"`
	Status      string    `json:"status"`
	Error       string    `json:"error,omitempty"`
	UsedCookies bool      `json:"used_cookies"`
	SizeBytes   int64     `json:"size_bytes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func Init() {
	if config.RedisAddr == "" {
		return
	}
	client = redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr,
		Password: config.RedisPassword,
		DB:       config.RedisDB,
	})
	if _, err := client.Ping(ctx).Result(); err != nil {
		log.Printf("[Store] Redis not available, download history disabled: %v", err)
		client = nil
		return
	}
	log.Println("[Store] Redis connected")
}

func Available() bool {
	return client != nil
}

// Save records a download outcome and rolls the recent-history list.
func Save(rec *Record) {
	if client == nil {
		return
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return
	}
	pipe := client.TxPipeline()
	pipe.Set(ctx, recordKeyPrefix+rec.ID, data, config.RecordTTL)
	pipe.LPush(ctx, recentKey, rec.ID)
	pipe.LTrim(ctx, recentKey, 0, config.HistorySize-1)
	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("[Store] Failed to save record %s: %v", rec.ID, err)
	}
}

// Recent returns the newest records, skipping IDs whose payload has
// already expired.
func Recent(limit int64) []*Record {
	if client == nil {
		return nil
	}
	ids, err := client.LRange(ctx, recentKey, 0, limit-1).Result()
	if err != nil {
		log.Printf("[Store] Failed to read history: %v", err)
		return nil
	}
	records := make([]*Record, 0, len(ids))
	for _, id := range ids {
		val, err := client.Get(ctx, recordKeyPrefix+id).Result()
		if err != nil {
			continue
		}
		var rec Record
		if err := json.Unmarshal([]byte(val), &rec); err != nil {
			continue
		}
		records = append(records, &rec)
	}
	return records
}
