package repository

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/alexanderramin/studytime/internal/domain"
	"github.com/redis/go-redis/v9"
)

// DefaultLimitCacheTTL bounds how long a cached limit may be served after a
// change made by another process.
const DefaultLimitCacheTTL = 10 * time.Minute

// LimitCache is the subset of the go-redis client used for limit caching.
type LimitCache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

var _ LimitCache = (*redis.Client)(nil)

// CachedDailyLimitRepo serves UserDailyLimit from Redis and falls back to the
// wrapped repo on a miss. Cache errors degrade to a store read and are
// logged at warn level.
type CachedDailyLimitRepo struct {
	next   DailyLimitRepo
	cache  LimitCache
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedDailyLimitRepo wraps next with a Redis read-through cache. A nil
// logger discards cache errors.
func NewCachedDailyLimitRepo(next DailyLimitRepo, cache LimitCache, ttl time.Duration, logger *slog.Logger) *CachedDailyLimitRepo {
	if ttl <= 0 {
		ttl = DefaultLimitCacheTTL
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &CachedDailyLimitRepo{next: next, cache: cache, ttl: ttl, logger: logger}
}

func (r *CachedDailyLimitRepo) warn(ctx context.Context, op, key string, err error) {
	r.logger.WarnContext(ctx, "limit_cache_error", "op", op, "key", key, "error", err.Error())
}

func limitCacheKey(userID string) string {
	return "studytime:daily_limit:" + userID
}

func (r *CachedDailyLimitRepo) UserDailyLimit(ctx context.Context, userID string) (float64, error) {
	key := limitCacheKey(userID)
	if cached, err := r.cache.Get(ctx, key).Result(); err == nil {
		v, perr := strconv.ParseFloat(cached, 64)
		if perr == nil {
			return v, nil
		}
		r.warn(ctx, "parse", key, perr)
	} else if !errors.Is(err, redis.Nil) {
		r.warn(ctx, "get", key, err)
		return r.next.UserDailyLimit(ctx, userID)
	}

	limit, err := r.next.UserDailyLimit(ctx, userID)
	if err != nil {
		return 0, err
	}
	if err := r.cache.Set(ctx, key, strconv.FormatFloat(limit, 'f', -1, 64), r.ttl).Err(); err != nil {
		r.warn(ctx, "set", key, err)
	}
	return limit, nil
}

func (r *CachedDailyLimitRepo) Get(ctx context.Context, userID string) (*domain.UserDailyLimit, error) {
	return r.next.Get(ctx, userID)
}

// Set persists the override and drops the cached value.
func (r *CachedDailyLimitRepo) Set(ctx context.Context, l *domain.UserDailyLimit) error {
	if err := r.next.Set(ctx, l); err != nil {
		return err
	}
	// A failed delete leaves the old limit cached until the TTL expires.
	key := limitCacheKey(l.UserID)
	if err := r.cache.Del(ctx, key).Err(); err != nil {
		r.warn(ctx, "del", key, err)
	}
	return nil
}
