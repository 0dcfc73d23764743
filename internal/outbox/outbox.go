// Package outbox records upstream capacity deletions that failed after the
// local link rows were already removed. Cascading delete has no compensating
// transaction, so a failed capacity-service call leaves orphaned references
// upstream; this Redis-backed record is the reconciliation trail an operator
// (or a future sweeper) works from.
//
// The record is strictly best-effort. A missing or unreachable Redis never
// changes the outcome of the deletion that produced the entry.
package outbox

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/onclass/bootcamp-api/internal/pkg/logger"
)

const pendingKey = "bootcamp:capacity-deletions:pending"

// Entry is one failed upstream deletion.
type Entry struct {
	BootcampID  int64     `json:"bootcamp_id"`
	CapacityIDs []int64   `json:"capacity_ids"`
	MessageID   string    `json:"message_id"`
	FailedAt    time.Time `json:"failed_at"`
}

// Store persists pending-deletion entries in Redis.
type Store struct {
	rdb *redis.Client
}

// NewStore creates a store over the given Redis client, which may be nil
// when Redis is not configured.
func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

// RecordFailedDeletion appends an entry for the given capacities.
// Failures are logged and swallowed.
func (s *Store) RecordFailedDeletion(ctx context.Context, bootcampID int64, capacityIDs []int64, messageID string) {
	if s == nil || s.rdb == nil {
		return
	}

	entry := Entry{
		BootcampID:  bootcampID,
		CapacityIDs: capacityIDs,
		MessageID:   messageID,
		FailedAt:    time.Now().UTC(),
	}
	data, err := json.Marshal(entry)
	if err != nil {
		logger.Error("outbox marshal failed", "message_id", messageID, "error", err)
		return
	}

	if err := s.rdb.RPush(ctx, pendingKey, data).Err(); err != nil {
		logger.Warn("outbox write failed",
			"message_id", messageID, "bootcamp_id", bootcampID, "error", err)
		return
	}
	logger.Info("pending capacity deletion recorded",
		"message_id", messageID, "bootcamp_id", bootcampID, "capacity_count", len(capacityIDs))
}

// Pending returns up to limit recorded entries, oldest first, without
// removing them.
func (s *Store) Pending(ctx context.Context, limit int64) ([]Entry, error) {
	if s == nil || s.rdb == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 100
	}

	raw, err := s.rdb.LRange(ctx, pendingKey, 0, limit-1).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(raw))
	for _, item := range raw {
		var e Entry
		if err := json.Unmarshal([]byte(item), &e); err != nil {
			logger.Warn("outbox entry unreadable", "error", err)
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}
