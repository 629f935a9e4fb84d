package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey is the set that holds notified ids when no key is configured.
const DefaultRedisKey = "condensed:notified_games"

// RedisStore keeps ids in a single Redis set.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client, key string) *RedisStore {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisStore{client: client, key: key}
}

// OpenRedis parses redisURL, connects and verifies the connection with PING.
func OpenRedis(ctx context.Context, redisURL, key string) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewRedisStore(client, key), nil
}

// Key returns the set key in use.
func (s *RedisStore) Key() string {
	return s.key
}

func (s *RedisStore) Has(ctx context.Context, gameID string) (bool, error) {
	found, err := s.client.SIsMember(ctx, s.key, gameID).Result()
	return found, mapRedisErr(err)
}

func (s *RedisStore) Add(ctx context.Context, gameID string) error {
	return mapRedisErr(s.client.SAdd(ctx, s.key, gameID).Err())
}

func (s *RedisStore) Reset(ctx context.Context) error {
	return mapRedisErr(s.client.Del(ctx, s.key).Err())
}

func (s *RedisStore) Close() error {
	if err := s.client.Close(); err != nil && !errors.Is(err, redis.ErrClosed) {
		return err
	}
	return nil
}

func mapRedisErr(err error) error {
	if errors.Is(err, redis.ErrClosed) {
		return ErrClosed
	}
	return err
}
