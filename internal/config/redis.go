package config

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// InitRedis connects to redis when REDIS_ADDR is configured. A nil client
// with a nil error means redis is disabled.
func InitRedis(ctx context.Context, cfg *Config, log *zap.Logger) (*redis.Client, error) {
	if cfg.RedisAddr == "" {
		log.Info("REDIS_ADDR not set, redis disabled")
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	s, err := client.Ping(ctx).Result()
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	log.Info("✅ Connected to Redis", zap.String("addr", cfg.RedisAddr), zap.String("ping", s))
	return client, nil
}
