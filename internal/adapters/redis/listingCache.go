package redis

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const indexKeyPrefix = "index:page:"

// ListingCacheRedis keeps rendered index pages as plain string keys that
// redis expires on its own.
type ListingCacheRedis struct {
	Client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewListingCacheRedis(client *redis.Client, ttl time.Duration, logger *zap.Logger) *ListingCacheRedis {
	return &ListingCacheRedis{Client: client, ttl: ttl, logger: logger}
}

func (r *ListingCacheRedis) Get(ctx context.Context, page string) ([]byte, bool, error) {
	payload, err := r.Client.Get(ctx, indexKeyPrefix+page).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return payload, true, nil
}

func (r *ListingCacheRedis) Put(ctx context.Context, page string, payload []byte) error {
	return r.Client.Set(ctx, indexKeyPrefix+page, payload, r.ttl).Err()
}

// Invalidate drops every cached index page.
func (r *ListingCacheRedis) Invalidate(ctx context.Context) error {
	var cursor uint64
	removed := 0
	for {
		keys, next, err := r.Client.Scan(ctx, cursor, indexKeyPrefix+"*", 100).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := r.Client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
			removed += len(keys)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	r.logger.Info("index cache invalidated", zap.Int("keys", removed))
	return nil
}
