package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"example.com/scoreboard/internal/scoreboard"
	"github.com/redis/go-redis/v9"
)

const DefaultBoardKey = "scoreboard:summary"

// RedisBoardStore mirrors the latest summary into a single Redis key so that
// dashboards can read it without talking to this process. The registry never
// reads it back.
type RedisBoardStore struct {
	rdb *redis.Client
	key string
	ttl time.Duration
}

func NewRedisBoardStore(rdb *redis.Client, key string, ttl time.Duration) *RedisBoardStore {
	if key == "" {
		key = DefaultBoardKey
	}
	return &RedisBoardStore{rdb: rdb, key: key, ttl: ttl}
}

func (s *RedisBoardStore) Save(ctx context.Context, snap scoreboard.BoardSnapshot) error {
	b, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, s.key, b, s.ttl).Err()
}

func (s *RedisBoardStore) Load(ctx context.Context) (scoreboard.BoardSnapshot, bool, error) {
	val, err := s.rdb.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return scoreboard.BoardSnapshot{}, false, nil
	}
	if err != nil {
		return scoreboard.BoardSnapshot{}, false, err
	}

	var snap scoreboard.BoardSnapshot
	if err := json.Unmarshal(val, &snap); err != nil {
		return scoreboard.BoardSnapshot{}, false, err
	}
	return snap, true, nil
}
