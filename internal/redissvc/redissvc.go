package redissvc

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rogerio-castellano/bakery-api/internal/config"
)

type RedisService struct {
	rdb *redis.Client
}

func NewRedisService(rdb *redis.Client) *RedisService {
	return &RedisService{rdb: rdb}
}

// Connect dials redis and pings it. An empty address yields a nil service,
// which callers treat as "redis disabled".
func Connect(ctx context.Context, cfg config.RedisConfig) (*RedisService, error) {
	if cfg.Addr == "" {
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("could not connect to redis at %s: %w", cfg.Addr, err)
	}
	return NewRedisService(rdb), nil
}

// Rdb returns the client, or nil for a nil service.
func (a *RedisService) Rdb() *redis.Client {
	if a == nil {
		return nil
	}
	return a.rdb
}

func (a *RedisService) Close() error {
	if a == nil {
		return nil
	}
	return a.rdb.Close()
}
