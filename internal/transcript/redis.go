package transcript

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisStore struct {
	client redis.UniversalClient
	prefix string
	size   int
	ttl    time.Duration
}

// NewRedisStore keeps each transcript as a capped list under "papelbot:chat:<sender>".
func NewRedisStore(client redis.UniversalClient, size int, ttl time.Duration) Store {
	if size <= 0 {
		size = 20
	}
	return &redisStore{client: client, prefix: "papelbot:chat:", size: size, ttl: ttl}
}

func (s *redisStore) key(sender string) string {
	return s.prefix + sender
}

func (s *redisStore) Append(ctx context.Context, sender string, entries ...Entry) error {
	if len(entries) == 0 {
		return nil
	}
	values := make([]interface{}, 0, len(entries))
	for _, e := range entries {
		data, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("failed to marshal transcript entry: %w", err)
		}
		values = append(values, data)
	}

	key := s.key(sender)
	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, key, values...)
	pipe.LTrim(ctx, key, int64(-s.size), -1)
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to append transcript: %w", err)
	}
	return nil
}

func (s *redisStore) Recent(ctx context.Context, sender string, n int) ([]Entry, error) {
	start := int64(0)
	if n > 0 {
		start = int64(-n)
	}
	raw, err := s.client.LRange(ctx, s.key(sender), start, -1).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read transcript: %w", err)
	}

	entries := make([]Entry, 0, len(raw))
	for _, item := range raw {
		var e Entry
		if err := json.Unmarshal([]byte(item), &e); err != nil {
			return nil, fmt.Errorf("failed to unmarshal transcript entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
