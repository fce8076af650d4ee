package cache

import (
	"context"
	"fmt"

	"recipe-chat/internal/infrastructure/config"
	"recipe-chat/internal/pkg/common"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// redisStore is the shared cache backend for multi-instance deployments.
type redisStore struct {
	config *config.Config
	client *redis.Client
}

func newRedisStore(cfg *config.Config) (*redisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.Cache.RedisAddr,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &redisStore{
		config: cfg,
		client: client,
	}, nil
}

func (s *redisStore) get(ctx context.Context, key string) (string, bool) {
	value, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			common.LogWarn("Redis cache lookup failed", zap.Error(err))
		}
		return "", false
	}
	return value, true
}

func (s *redisStore) set(ctx context.Context, key string, value string) {
	if err := s.client.Set(ctx, key, value, s.config.Cache.TTL).Err(); err != nil {
		common.LogWarn("Redis cache write failed", zap.Error(err))
	}
}

func (s *redisStore) close() error {
	return s.client.Close()
}
