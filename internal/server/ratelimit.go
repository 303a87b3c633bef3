// internal/server/ratelimit.go
package server

import (
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"workout-service/internal/common/config"
	"workout-service/internal/common/database"
	"workout-service/internal/common/logger"
	"workout-service/internal/common/metrics"
)

const rateLimitKeyPrefix = "ratelimit:"

// RateLimit enforces a fixed request window per client address using a
// Redis counter. The first request of a window sets the TTL; rejections
// carry Retry-After and X-RateLimit headers.
func RateLimit(redis *database.RedisClient, cfg config.RateLimitConfig, log logger.Logger) func(http.Handler) http.Handler {
	window := time.Duration(cfg.WindowMinutes) * time.Minute
	limit := int64(cfg.RequestsPerWindow)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := rateLimitKeyPrefix + clientAddress(r)
			ctx := r.Context()

			count, err := redis.Incr(ctx, key)
			if err != nil {
				// Redis being down must not take the service with it.
				log.Warn("rate limit check failed, allowing request", map[string]interface{}{
					"error": err.Error(),
				})
				next.ServeHTTP(w, r)
				return
			}
			if count == 1 {
				_ = redis.Expire(ctx, key, window)
			}

			remaining := limit - count
			if remaining < 0 {
				remaining = 0
			}
			w.Header().Set("X-RateLimit-Limit", strconv.FormatInt(limit, 10))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

			if count > limit {
				retryAfter := window
				if ttl, err := redis.TTL(ctx, key); err == nil && ttl > 0 {
					retryAfter = ttl
				}
				w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
				metrics.RateLimitRejections.Inc()

				writeError(w, http.StatusTooManyRequests, "RATE_LIMITED",
					"Request limit reached", fmt.Sprintf("retry after %s", retryAfter.Round(time.Second)))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientAddress identifies the caller, preferring the forwarded-for chain
// set by the fronting proxy.
func clientAddress(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.Index(fwd, ","); i >= 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
