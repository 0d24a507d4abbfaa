package reflection

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DefaultThreadID is used when the caller does not name a thread.
const DefaultThreadID = "unknown-thread"

// Record is the persisted form of a Reflection.
type Record struct {
	Type      string `json:"type"`
	Content   string `json:"content"`
	ThreadID  string `json:"threadId"`
	Timestamp string `json:"timestamp"`
}

// Store persists reflection records to Redis.
type Store struct {
	rdb *redis.Client
}

func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

// Save writes one reflection under a composite key and returns the key.
// The uuid-derived suffix keeps two reflections written in the same instant
// from colliding.
func (s *Store) Save(ctx context.Context, threadID string, r Reflection) (string, error) {
	rec := Record{
		Type:      r.Type,
		Content:   r.Content,
		ThreadID:  threadID,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	}

	raw, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("failed to marshal reflection: %w", err)
	}

	key := recordKey(threadID, rec.Timestamp)
	if err := s.rdb.Set(ctx, key, raw, 0).Err(); err != nil {
		return "", fmt.Errorf("failed to store reflection: %w", err)
	}
	return key, nil
}

// ListByThread returns all stored reflections for one thread.
func (s *Store) ListByThread(ctx context.Context, threadID string) ([]Record, error) {
	pattern := fmt.Sprintf("reflection:%s:*", threadID)

	var keys []string
	iter := s.rdb.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan reflections: %w", err)
	}
	if len(keys) == 0 {
		return []Record{}, nil
	}

	vals, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reflections: %w", err)
	}

	records := make([]Record, 0, len(vals))
	for _, v := range vals {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var rec Record
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func recordKey(threadID, timestamp string) string {
	suffix := strings.Split(uuid.NewString(), "-")[0]
	return fmt.Sprintf("reflection:%s:%s:%s", threadID, timestamp, suffix)
}
