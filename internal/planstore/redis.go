// internal/planstore/redis.go
package planstore

import (
	"context"
	"sort"
	"time"

	"workout-service/internal/common/database"
)

// RedisTier is the volatile secondary tier: more room than the primary,
// but entries expire. Capacity is a budget over the bytes currently held
// under the current-plan prefix.
type RedisTier struct {
	redis   *database.RedisClient
	ceiling int
	ttl     time.Duration
}

func NewRedisTier(redis *database.RedisClient, ceiling int, ttl time.Duration) *RedisTier {
	return &RedisTier{redis: redis, ceiling: ceiling, ttl: ttl}
}

func (t *RedisTier) Name() string { return "redis" }

func (t *RedisTier) Ceiling() int { return t.ceiling }

func (t *RedisTier) Put(ctx context.Context, key, payload string) error {
	used, err := t.usedBytes(ctx, key)
	if err != nil {
		return err
	}
	if used+len(payload) > t.ceiling {
		return ErrCapacity
	}
	return t.redis.Set(ctx, key, payload, t.ttl)
}

func (t *RedisTier) usedBytes(ctx context.Context, excludeKey string) (int, error) {
	keys, err := t.redis.Keys(ctx, keyPrefix+"*")
	if err != nil {
		return 0, err
	}
	used := 0
	for _, k := range keys {
		if k == excludeKey {
			continue
		}
		n, err := t.redis.GetClient().StrLen(ctx, k).Result()
		if err != nil {
			continue
		}
		used += int(n)
	}
	return used, nil
}

func (t *RedisTier) Get(ctx context.Context, key string) (string, error) {
	return t.redis.Get(ctx, key)
}

func (t *RedisTier) Keys(ctx context.Context, prefix string) ([]string, error) {
	keys, err := t.redis.Keys(ctx, prefix+"*")
	if err != nil {
		return nil, err
	}
	sort.Strings(keys)
	return keys, nil
}

func (t *RedisTier) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return t.redis.Del(ctx, keys...)
}
