package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/playperu/flagquiz/internal/flagquiz"
)

const redisKeyPrefix = "flagquiz:game:"

// RedisStore keeps game snapshots as JSON strings that expire after ttl of
// inactivity.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func redisKey(id string) string { return redisKeyPrefix + id }

func (s *RedisStore) Load(ctx context.Context, id string) (flagquiz.Snapshot, error) {
	data, err := s.client.Get(ctx, redisKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return flagquiz.Snapshot{}, ErrNotFound
	}
	if err != nil {
		return flagquiz.Snapshot{}, fmt.Errorf("loading game %s: %w", id, err)
	}

	var snap flagquiz.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return flagquiz.Snapshot{}, fmt.Errorf("decoding game %s: %w", id, err)
	}
	return snap, nil
}

func (s *RedisStore) Save(ctx context.Context, id string, snap flagquiz.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding game %s: %w", id, err)
	}
	if err := s.client.Set(ctx, redisKey(id), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("saving game %s: %w", id, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	n, err := s.client.Del(ctx, redisKey(id)).Result()
	if err != nil {
		return fmt.Errorf("deleting game %s: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Prune is a no-op: keys expire on their own.
func (s *RedisStore) Prune(context.Context, time.Time) (int, error) {
	return 0, nil
}

func (s *RedisStore) Check(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
