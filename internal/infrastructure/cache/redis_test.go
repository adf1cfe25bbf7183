package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sijun-kevin-hu/scam-detector/internal/domain/models"
	"github.com/sijun-kevin-hu/scam-detector/pkg/logger"
)

func newTestCache(t *testing.T) *RedisCache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisWithClient(client, "test:", logger.New(logger.Config{Level: "fatal", Format: "json"}))
}

func TestCheckRateLimit(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, remaining, _, err := c.CheckRateLimit(ctx, "ip:1.2.3.4", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed, "request %d should be allowed", i+1)
		assert.Equal(t, int64(3-i-1), remaining)
	}

	allowed, remaining, resetTime, err := c.CheckRateLimit(ctx, "ip:1.2.3.4", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, int64(0), remaining)
	assert.True(t, resetTime.After(time.Now()))
}

func TestCheckRateLimitPerClient(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	_, _, _, err := c.CheckRateLimit(ctx, "ip:1.2.3.4", 1, time.Minute)
	require.NoError(t, err)

	// A different client has its own window
	allowed, _, _, err := c.CheckRateLimit(ctx, "ip:5.6.7.8", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRecordVerdictAndGetStats(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	c.RecordVerdict(ctx, models.RiskLevelHigh, models.VerdictSourceHeuristic)
	c.RecordVerdict(ctx, models.RiskLevelHigh, models.VerdictSourceRemote)
	c.RecordVerdict(ctx, models.RiskLevelLow, models.VerdictSourceHeuristic)
	c.RecordRemoteFailure(ctx)

	stats, err := c.GetStats(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(3), stats.TotalAnalyzed)
	assert.Equal(t, int64(2), stats.ByLevel["high"])
	assert.Equal(t, int64(1), stats.ByLevel["low"])
	assert.Equal(t, int64(0), stats.ByLevel["medium"])
	assert.Equal(t, int64(2), stats.BySource["heuristic"])
	assert.Equal(t, int64(1), stats.BySource["remote"])
	assert.Equal(t, int64(1), stats.RemoteFailures)
}

func TestGetStatsEmpty(t *testing.T) {
	c := newTestCache(t)

	stats, err := c.GetStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(0), stats.TotalAnalyzed)
	assert.Equal(t, int64(0), stats.RemoteFailures)
}
