package middleware

import (
	"net/http"
	"strconv"

	logpkg "github.com/benvon/morning-affirmations/internal/logger"
	"github.com/benvon/morning-affirmations/internal/request"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	redisstore "github.com/ulule/limiter/v3/drivers/store/redis"
	"go.uber.org/zap"
)

const (
	// DefaultRate is used when no rate is configured (requests per minute per client IP)
	DefaultRate        = "120-M"
	rateLimitKeyPrefix = "ratelimit"
)

// RateLimit returns middleware that limits requests per client IP using ulule/limiter with a Redis store.
// The rate uses the limiter's formatted syntax, e.g. "120-M".
func RateLimit(redisClient *redis.Client, rate string, logger *zap.Logger) (func(http.Handler) http.Handler, error) {
	store, err := redisstore.NewStoreWithOptions(redisClient, limiter.StoreOptions{Prefix: rateLimitKeyPrefix})
	if err != nil {
		return nil, err
	}
	return newRateLimit(store, rate, logger)
}

// newRateLimit mirrors the limiter's stdlib driver but fails open when the store errors,
// so an unreachable Redis does not take the API down.
func newRateLimit(store limiter.Store, rate string, logger *zap.Logger) (func(http.Handler) http.Handler, error) {
	if rate == "" {
		rate = DefaultRate
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	parsed, err := limiter.NewRateFromFormatted(rate)
	if err != nil {
		return nil, err
	}
	instance := limiter.New(store, parsed)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lctx, err := instance.Get(r.Context(), request.ClientIP(r))
			if err != nil {
				logger.Warn("rate_limit_store_error",
					zap.String("path", logpkg.SanitizePath(r.URL.Path)),
					zap.String("error", logpkg.SanitizeError(err)),
				)
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.FormatInt(lctx.Limit, 10))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(lctx.Remaining, 10))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(lctx.Reset, 10))

			if lctx.Reached {
				respondErrorJSON(w, r, http.StatusTooManyRequests, "Too Many Requests", "Rate limit exceeded, try again later", logger)
				return
			}

			next.ServeHTTP(w, r)
		})
	}, nil
}
