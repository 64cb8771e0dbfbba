package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/deppfellow/locate-templates/internal/config"
	"github.com/deppfellow/locate-templates/internal/errs"
	"github.com/deppfellow/locate-templates/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	// memoryStoreExpiry is how long an idle client's bucket is kept.
	memoryStoreExpiry = 3 * time.Minute

	// redisStoreTimeout bounds a single Allow round trip.
	redisStoreTimeout = 200 * time.Millisecond

	redisKeyPrefix = "locate-templates:ratelimit:"
)

// RateLimitMiddleware enforces rate_limit.* per client IP and reports
// rejected requests to New Relic.
type RateLimitMiddleware struct {
	server *server.Server
}

func NewRateLimitMiddleware(s *server.Server) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		server: s,
	}
}

// Limit returns the limiter middleware, or a pass-through when rate limiting is disabled.
func (r *RateLimitMiddleware) Limit() echo.MiddlewareFunc {
	cfg := r.server.Config.RateLimit
	if !cfg.Enabled {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: r.store(cfg),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return errs.NewBadRequestError("Unable to identify client", false, nil, nil)
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			r.RecordRateLimitHit(c.Path())
			return errs.NewTooManyRequestsError("Too many requests, slow down")
		},
	})
}

func (r *RateLimitMiddleware) store(cfg config.RateLimitConfig) middleware.RateLimiterStore {
	if cfg.Backend == config.RateLimitBackendRedis && r.server.Redis != nil {
		return NewRedisRateLimiterStore(r.server.Redis, r.server.Logger, cfg.Burst, time.Duration(cfg.Window)*time.Second)
	}

	return middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(cfg.RequestsPerSecond),
		Burst:     cfg.Burst,
		ExpiresIn: memoryStoreExpiry,
	})
}

// RecordRateLimitHit records a RateLimitHit custom event when New Relic is enabled.
func (r *RateLimitMiddleware) RecordRateLimitHit(endpoint string) {
	if r.server.LoggerService != nil && r.server.LoggerService.GetApplication() != nil {
		r.server.LoggerService.GetApplication().RecordCustomEvent("RateLimitHit", map[string]interface{}{
			"endpoint": endpoint,
		})
	}
}

// RedisRateLimiterStore is a fixed-window counter shared by every replica:
// at most limit requests per identifier per window.
//
// Redis failures are logged and the request is allowed.
type RedisRateLimiterStore struct {
	client *redis.Client
	logger *zerolog.Logger
	limit  int
	window time.Duration
}

func NewRedisRateLimiterStore(client *redis.Client, logger *zerolog.Logger, limit int, window time.Duration) *RedisRateLimiterStore {
	return &RedisRateLimiterStore{
		client: client,
		logger: logger,
		limit:  limit,
		window: window,
	}
}

// Allow implements middleware.RateLimiterStore.
func (s *RedisRateLimiterStore) Allow(identifier string) (bool, error) {
	count, err := s.increment(identifier, time.Now())
	if err != nil {
		s.logger.Error().Err(err).Str("identifier", identifier).Msg("rate limiter store unavailable, allowing request")
		return true, nil
	}

	return count <= int64(s.limit), nil
}

func (s *RedisRateLimiterStore) increment(identifier string, now time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisStoreTimeout)
	defer cancel()

	key := s.key(identifier, now)

	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, s.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}

	return incr.Val(), nil
}

func (s *RedisRateLimiterStore) key(identifier string, now time.Time) string {
	bucket := now.UnixNano() / int64(s.window)
	return fmt.Sprintf("%s%s:%d", redisKeyPrefix, identifier, bucket)
}
