// Package iocache implements the discovery cache with Redis. Without a
// configured Redis address a no-op cache is used and every read misses.
package iocache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/fayvad/fbs/pkg/cache"
	"github.com/fayvad/fbs/pkg/config"
	"github.com/gnames/gnfmt"
	"github.com/redis/go-redis/v9"
)

type redisCache struct {
	client *redis.Client
	ttl    time.Duration
	enc    gnfmt.Encoder
}

// New connects to Redis from the cache config. If RedisAddr is empty it
// returns a cache that stores nothing.
func New(ctx context.Context, cfg *config.Config) (cache.Cache, error) {
	cc := cfg.Cache
	if cc.RedisAddr == "" {
		slog.Debug("Discovery cache is disabled")
		return Noop{}, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:       cc.RedisAddr,
		Password:   cc.RedisPassword,
		DB:         cc.RedisDB,
		MaxRetries: 3,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, ConnectionError(cc.RedisAddr, err)
	}
	slog.Info("Connected to discovery cache", "addr", cc.RedisAddr, "db", cc.RedisDB)
	return &redisCache{
		client: client,
		ttl:    time.Duration(cc.TTLSec) * time.Second,
		enc:    gnfmt.GNjson{},
	}, nil
}

func (c *redisCache) Get(ctx context.Context, key string, v any) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, OperationError("get", key, err)
	}
	if err := c.enc.Decode(data, v); err != nil {
		// a value that cannot be decoded is treated as a miss
		slog.Warn("Cannot decode cached value", "key", key, "error", err)
		return false, nil
	}
	return true, nil
}

func (c *redisCache) Set(ctx context.Context, key string, v any) error {
	data, err := c.enc.Encode(v)
	if err != nil {
		return OperationError("encode", key, err)
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return OperationError("set", key, err)
	}
	return nil
}

func (c *redisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return OperationError("delete", keys[0], err)
	}
	return nil
}

func (c *redisCache) Close() error {
	return c.client.Close()
}

// Noop is a cache that stores nothing.
type Noop struct{}

func (Noop) Get(context.Context, string, any) (bool, error) { return false, nil }
func (Noop) Set(context.Context, string, any) error         { return nil }
func (Noop) Delete(context.Context, ...string) error        { return nil }
func (Noop) Close() error                                   { return nil }
