package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const analyticsCacheTTL = 60 * time.Second

// AnalyticsCache is a read-through cache for per-business ticket analytics.
// Cache trouble is never fatal: misses and redis errors both fall through to
// the database, and writes are best-effort.
type AnalyticsCache struct {
	client *redis.Client
	logger *zap.Logger
}

// NewAnalyticsCache builds a cache; a nil client disables caching entirely.
func NewAnalyticsCache(client *redis.Client, logger *zap.Logger) *AnalyticsCache {
	return &AnalyticsCache{client: client, logger: logger}
}

// Get returns a cached analytics snapshot when present and fresh.
func (c *AnalyticsCache) Get(ctx context.Context, businessID string) (*TicketAnalytics, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, analyticsKey(businessID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Debug("analytics cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var result TicketAnalytics
	if err := json.Unmarshal(raw, &result); err != nil {
		c.logger.Debug("analytics cache entry corrupt", zap.Error(err))
		return nil, false
	}
	return &result, true
}

// Put stores an analytics snapshot with a short TTL.
func (c *AnalyticsCache) Put(ctx context.Context, businessID string, analytics *TicketAnalytics) {
	if c == nil || c.client == nil {
		return
	}
	raw, err := json.Marshal(analytics)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, analyticsKey(businessID), raw, analyticsCacheTTL).Err(); err != nil {
		c.logger.Debug("analytics cache write failed", zap.Error(err))
	}
}

// Invalidate drops the cached snapshot after a ticket mutation.
func (c *AnalyticsCache) Invalidate(ctx context.Context, businessID string) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, analyticsKey(businessID)).Err(); err != nil {
		c.logger.Debug("analytics cache invalidation failed", zap.Error(err))
	}
}

func analyticsKey(businessID string) string {
	return "tickets:analytics:" + businessID
}
