package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisclient "github.com/juvshop/juv-backend/pkg/redis"
)

// RedisStore persists conversation records as JSON values in Redis so the
// assistant survives restarts and multiple instances. A positive TTL acts
// as the idle-session timeout; zero keeps records until an explicit stop.
type RedisStore struct {
	client *redisclient.Client
	ttl    time.Duration
}

// NewRedisStore builds a Redis-backed store.
func NewRedisStore(client *redisclient.Client, ttl time.Duration) (*RedisStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	return &RedisStore{client: client, ttl: ttl}, nil
}

func (s *RedisStore) Load(ctx context.Context, telegramID int64) (*Record, error) {
	raw, err := s.client.Get(ctx, s.client.SessionKey(telegramID))
	if err != nil {
		if redisclient.IsNil(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	var record Record
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &record, nil
}

func (s *RedisStore) Save(ctx context.Context, telegramID int64, record *Record) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.client.Set(ctx, s.client.SessionKey(telegramID), string(raw), s.ttl); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, telegramID int64) error {
	if err := s.client.Del(ctx, s.client.SessionKey(telegramID)); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
