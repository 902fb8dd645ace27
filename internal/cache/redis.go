package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type RedisClient struct {
	client *redis.Client
	log    *zap.Logger
}

func NewRedisClient(addr, password string, db int, log *zap.Logger) (*RedisClient, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Info("redis connected", zap.String("addr", addr))

	return &RedisClient{
		client: rdb,
		log:    log,
	}, nil
}

func (r *RedisClient) Close() error {
	return r.client.Close()
}

// Allow uses SET NX so concurrent callers across instances agree on a
// single winner per window.
func (r *RedisClient) Allow(ctx context.Context, key string, window time.Duration) (bool, error) {
	return r.client.SetNX(ctx, "ratelimit:"+key, "1", window).Result()
}

func (r *RedisClient) Release(ctx context.Context, key string) error {
	return r.client.Del(ctx, "ratelimit:"+key).Err()
}

// NewLimiter connects to redis when addr is set and falls back to the
// in-memory limiter otherwise or on connection failure.
func NewLimiter(addr, password string, db int, log *zap.Logger) (Limiter, func() error) {
	if addr == "" {
		log.Info("redis not configured, using in-memory rate limiter")
		return NewMemoryLimiter(), func() error { return nil }
	}
	rc, err := NewRedisClient(addr, password, db, log)
	if err != nil {
		log.Warn("redis unavailable, using in-memory rate limiter", zap.Error(err))
		return NewMemoryLimiter(), func() error { return nil }
	}
	return rc, rc.Close
}
