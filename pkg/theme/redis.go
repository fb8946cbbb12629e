package theme

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix namespaces theme keys in Redis.
const DefaultKeyPrefix = "navmenu:"

// RedisStore reads theme preferences persisted in Redis.
type RedisStore struct {
	client redis.Cmdable
	prefix string
}

// NewRedisStore connects to the Redis server at redisURL.
func NewRedisStore(redisURL, prefix string) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	slog.Info("redis connection established", "addr", opt.Addr)

	return NewRedisStoreWithClient(client, prefix), nil
}

// NewRedisStoreWithClient wraps an existing client.
func NewRedisStoreWithClient(client redis.Cmdable, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

// For returns a Reader scoped to one subject, such as a user or device id.
func (s *RedisStore) For(subject string) Reader {
	return &RedisStore{client: s.client, prefix: s.prefix + subject + ":"}
}

// Key returns the Redis key for a preference key.
func (s *RedisStore) Key(key string) string {
	return s.prefix + key
}

// Get implements Reader.
func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, s.Key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

// Close closes the underlying client when it supports closing.
func (s *RedisStore) Close() error {
	if c, ok := s.client.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
