package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/birdiedeals/birdie/internal/domain/model"
)

const (
	redisUserKeyPrefix = "birdie:user:"
	redisUserIndexKey  = "birdie:users"
)

// RedisConfig holds connection settings for RedisStore.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RedisStore keeps users as JSON documents in Redis. A set tracks ids so
// Count does not need to scan the keyspace.
type RedisStore struct {
	client *redis.Client
	now    func() time.Time
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Network:  "tcp",
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: ping %s: %w", ErrStore, cfg.Addr, err)
	}
	return NewRedisStoreWithClient(client), nil
}

// NewRedisStoreWithClient wraps an existing client.
func NewRedisStoreWithClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, now: time.Now}
}

// Get implements Store.
func (s *RedisStore) Get(ctx context.Context, id string) (model.User, error) {
	raw, err := s.client.Get(ctx, redisUserKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("%w: get %s: %w", ErrStore, id, err)
	}

	var u model.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return model.User{}, fmt.Errorf("%w: decode %s: %w", ErrStore, id, err)
	}
	return u, nil
}

// Put implements Store.
func (s *RedisStore) Put(ctx context.Context, u model.User) (model.User, error) {
	if err := validate(u); err != nil {
		return model.User{}, err
	}
	u.UpdatedAt = s.now().UTC()

	raw, err := json.Marshal(u)
	if err != nil {
		return model.User{}, fmt.Errorf("%w: encode %s: %w", ErrStore, u.ID, err)
	}

	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, redisUserKeyPrefix+u.ID, raw, 0)
		p.SAdd(ctx, redisUserIndexKey, u.ID)
		return nil
	})
	if err != nil {
		return model.User{}, fmt.Errorf("%w: put %s: %w", ErrStore, u.ID, err)
	}
	return u, nil
}

// Count implements Store.
func (s *RedisStore) Count(ctx context.Context) (int, error) {
	n, err := s.client.SCard(ctx, redisUserIndexKey).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: count: %w", ErrStore, err)
	}
	return int(n), nil
}

// Close closes the Redis client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
