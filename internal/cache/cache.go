// Package cache is a small read-through cache for the public read APIs.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Keys used by the public read APIs
const (
	KeyPulse      = "ai-pulse:pulse"
	KeyOnboarding = "ai-pulse:onboarding"
)

// ErrMiss is returned by Get when the key is absent
var ErrMiss = errors.New("cache miss")

// Cache stores raw bytes by key
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// Redis implements Cache on a Redis server
type Redis struct {
	client *redis.Client
}

// NewRedis connects to the Redis server at url and pings it
func NewRedis(ctx context.Context, url string) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &Redis{client: client}, nil
}

// NewRedisFromClient wraps an existing client
func NewRedisFromClient(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	return value, err
}

func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *Redis) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.client.Del(ctx, keys...).Err()
}

// Close closes the client
func (r *Redis) Close() error {
	return r.client.Close()
}

// Noop never stores anything
type Noop struct{}

func (Noop) Get(context.Context, string) ([]byte, error) { return nil, ErrMiss }
func (Noop) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (Noop) Delete(context.Context, ...string) error { return nil }

// New returns a Redis cache when url is set, otherwise Noop. A Redis that
// cannot be reached degrades to Noop.
func New(ctx context.Context, url string) Cache {
	if url == "" {
		return Noop{}
	}
	r, err := NewRedis(ctx, url)
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, caching disabled")
		return Noop{}
	}
	log.Info().Msg("Redis cache enabled")
	return r
}

// GetOrLoad returns the cached JSON value of key, or calls load and caches
// its result. Cache errors are logged and never fail the read.
func GetOrLoad[T any](ctx context.Context, c Cache, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	if raw, err := c.Get(ctx, key); err == nil {
		var cached T
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
		log.Warn().Str("key", key).Msg("Discarding undecodable cache entry")
	} else if !errors.Is(err, ErrMiss) {
		log.Warn().Err(err).Str("key", key).Msg("Cache read failed")
	}

	value, err := load(ctx)
	if err != nil {
		return value, err
	}

	if raw, err := json.Marshal(value); err == nil {
		if err := c.Set(ctx, key, raw, ttl); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Cache write failed")
		}
	}
	return value, nil
}
