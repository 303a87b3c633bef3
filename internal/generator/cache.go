// internal/generator/cache.go
package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"workout-service/internal/common/database"
	"workout-service/internal/common/logger"
	"workout-service/internal/common/metrics"
	"workout-service/internal/workout"
)

const cacheKeyPrefix = "workout:response:"

// ResponseCache short-circuits repeat generation requests within a
// freshness window. Keys normalize list ordering so equivalent requests
// hit the same entry.
type ResponseCache struct {
	redis  *database.RedisClient
	ttl    time.Duration
	logger logger.Logger
}

func NewResponseCache(redis *database.RedisClient, ttl time.Duration, log logger.Logger) *ResponseCache {
	return &ResponseCache{
		redis:  redis,
		ttl:    ttl,
		logger: log,
	}
}

// Key derives the cache key for a request. Muscles, equipment, goals and
// limitations are sorted copies, so ordering in the request is irrelevant.
func (c *ResponseCache) Key(req *workout.Request) string {
	return cacheKeyPrefix + strings.Join([]string{
		sortedJoin(req.TargetMuscles),
		string(req.FitnessLevel),
		fmt.Sprintf("%d", req.Duration),
		sortedJoin(req.Equipment),
		sortedJoin(req.Goals),
		sortedJoin(req.Limitations),
	}, "|")
}

func sortedJoin(items []string) string {
	sorted := append([]string(nil), items...)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}

// Get returns the cached plan for key, if fresh.
func (c *ResponseCache) Get(ctx context.Context, key string) (*workout.Plan, bool) {
	raw, err := c.redis.Get(ctx, key)
	if err != nil {
		metrics.CacheRequests.WithLabelValues("miss").Inc()
		return nil, false
	}

	var plan workout.Plan
	if err := json.Unmarshal([]byte(raw), &plan); err != nil {
		c.logger.Warn("dropping undecodable cache entry", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		_ = c.redis.Del(ctx, key)
		metrics.CacheRequests.WithLabelValues("miss").Inc()
		return nil, false
	}

	metrics.CacheRequests.WithLabelValues("hit").Inc()
	return &plan, true
}

// Put stores a plan under key for the freshness window. Failures are
// logged and ignored; caching is an optimization, not a requirement.
func (c *ResponseCache) Put(ctx context.Context, key string, plan *workout.Plan) {
	raw, err := json.Marshal(plan)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, key, string(raw), c.ttl); err != nil {
		c.logger.Warn("response cache write failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}
