package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sijun-kevin-hu/scam-detector/internal/config"
	"github.com/sijun-kevin-hu/scam-detector/internal/domain/models"
	"github.com/sijun-kevin-hu/scam-detector/pkg/logger"
)

// RedisCache wraps the Redis client with the typed operations the
// service needs: rate-limit windows and aggregate verdict counters.
// No message content is ever written here.
type RedisCache struct {
	client    *redis.Client
	keyPrefix string
	logger    *logger.Logger
}

// NewRedis creates a new Redis client
func NewRedis(ctx context.Context, cfg config.RedisConfig, log *logger.Logger) (*RedisCache, error) {
	log = log.WithComponent("redis")
	log.Info().Str("host", cfg.Host).Int("port", cfg.Port).Msg("connecting to Redis")

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	log.Info().Msg("connected to Redis successfully")

	return &RedisCache{
		client:    client,
		keyPrefix: cfg.KeyPrefix,
		logger:    log,
	}, nil
}

// NewRedisWithClient wraps an existing client; used by tests
func NewRedisWithClient(client *redis.Client, keyPrefix string, log *logger.Logger) *RedisCache {
	return &RedisCache{
		client:    client,
		keyPrefix: keyPrefix,
		logger:    log.WithComponent("redis"),
	}
}

// Client returns the underlying Redis client
func (c *RedisCache) Client() *redis.Client {
	return c.client
}

// Close closes the Redis connection
func (c *RedisCache) Close() error {
	c.logger.Info().Msg("closing Redis connection")
	return c.client.Close()
}

// key prepends the namespace prefix to a key
func (c *RedisCache) key(k string) string {
	return c.keyPrefix + k
}

// Cache key constants
const (
	KeyRateLimitPrefix = "rate_limit:"

	KeyStatsTotal          = "stats:analyzed_total"
	KeyStatsByLevelPrefix  = "stats:level:"
	KeyStatsBySourcePrefix = "stats:source:"
	KeyStatsRemoteFailures = "stats:remote_failures"
)

// CheckRateLimit checks and increments the fixed-window rate limit
// counter. Returns (allowed, remaining, resetTime, error).
func (c *RedisCache) CheckRateLimit(ctx context.Context, key string, limit int64, window time.Duration) (bool, int64, time.Time, error) {
	now := time.Now()
	windowKey := fmt.Sprintf("%s%s:%d", KeyRateLimitPrefix, key, now.Unix()/int64(window.Seconds()))

	pipe := c.client.Pipeline()
	incr := pipe.Incr(ctx, c.key(windowKey))
	pipe.Expire(ctx, c.key(windowKey), window)
	_, err := pipe.Exec(ctx)
	if err != nil {
		return false, 0, time.Time{}, err
	}

	count := incr.Val()
	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}

	resetTime := now.Add(window)

	return count <= limit, remaining, resetTime, nil
}

// RecordVerdict increments the aggregate counters for one analysis.
// Failures are logged and swallowed: stats must never affect a verdict.
func (c *RedisCache) RecordVerdict(ctx context.Context, level models.RiskLevel, source models.VerdictSource) {
	pipe := c.client.Pipeline()
	pipe.Incr(ctx, c.key(KeyStatsTotal))
	pipe.Incr(ctx, c.key(KeyStatsByLevelPrefix+string(level)))
	pipe.Incr(ctx, c.key(KeyStatsBySourcePrefix+string(source)))
	if _, err := pipe.Exec(ctx); err != nil {
		c.logger.Warn().Err(err).Msg("failed to record verdict stats")
	}
}

// RecordRemoteFailure increments the remote-failure counter
func (c *RedisCache) RecordRemoteFailure(ctx context.Context) {
	if err := c.client.Incr(ctx, c.key(KeyStatsRemoteFailures)).Err(); err != nil {
		c.logger.Warn().Err(err).Msg("failed to record remote failure")
	}
}

// AnalysisStats are the aggregate operator counters
type AnalysisStats struct {
	TotalAnalyzed  int64            `json:"total_analyzed"`
	ByLevel        map[string]int64 `json:"by_level"`
	BySource       map[string]int64 `json:"by_source"`
	RemoteFailures int64            `json:"remote_failures"`
}

// GetStats reads the aggregate counters
func (c *RedisCache) GetStats(ctx context.Context) (*AnalysisStats, error) {
	stats := &AnalysisStats{
		ByLevel:  make(map[string]int64),
		BySource: make(map[string]int64),
	}

	var err error
	stats.TotalAnalyzed, err = c.getCounter(ctx, KeyStatsTotal)
	if err != nil {
		return nil, err
	}
	stats.RemoteFailures, err = c.getCounter(ctx, KeyStatsRemoteFailures)
	if err != nil {
		return nil, err
	}

	for _, level := range []models.RiskLevel{models.RiskLevelLow, models.RiskLevelMedium, models.RiskLevelHigh} {
		n, err := c.getCounter(ctx, KeyStatsByLevelPrefix+string(level))
		if err != nil {
			return nil, err
		}
		stats.ByLevel[string(level)] = n
	}

	for _, source := range []models.VerdictSource{models.VerdictSourceHeuristic, models.VerdictSourceRemote} {
		n, err := c.getCounter(ctx, KeyStatsBySourcePrefix+string(source))
		if err != nil {
			return nil, err
		}
		stats.BySource[string(source)] = n
	}

	return stats, nil
}

func (c *RedisCache) getCounter(ctx context.Context, key string) (int64, error) {
	val, err := c.client.Get(ctx, c.key(key)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return val, err
}
