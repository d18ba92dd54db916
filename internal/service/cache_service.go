package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"vidtube/internal/domain"
	"vidtube/pkg/redis"
)

// CacheService provides read-through caching for channel subscription
// counters. A cache failure never fails the request; the loader result is
// served and the miss logged.
type CacheService struct {
	redisClient *redis.Client
	logger      *zap.Logger
}

// NewCacheService creates a new cache service
func NewCacheService(redisClient *redis.Client, logger *zap.Logger) *CacheService {
	return &CacheService{
		redisClient: redisClient,
		logger:      logger,
	}
}

// GetChannelStatsWithCache returns the channel's counters, serving from cache
// when fresh and falling back to the loader on a miss
func (c *CacheService) GetChannelStatsWithCache(ctx context.Context, channelID string, loader func(context.Context) (*domain.ChannelStats, error)) (*domain.ChannelStats, error) {
	key := c.redisClient.KeyBuilder.KeyChannelStats(channelID)

	cached, err := c.redisClient.Get(ctx, key)
	if err == nil && cached != "" {
		var stats domain.ChannelStats
		if err := json.Unmarshal([]byte(cached), &stats); err == nil {
			return &stats, nil
		}
		c.logger.Warn("Discarding unparseable cached channel stats",
			zap.String("channel_id", channelID))
	} else if err != nil && !redis.IsNil(err) {
		c.logger.Warn("Channel stats cache read failed",
			zap.String("channel_id", channelID),
			zap.Error(err))
	}

	stats, err := loader(ctx)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(stats); err == nil {
		if err := c.redisClient.Set(ctx, key, payload, redis.TTLChannelStats); err != nil {
			c.logger.Warn("Channel stats cache write failed",
				zap.String("channel_id", channelID),
				zap.Error(err))
		}
	}

	return stats, nil
}

// InvalidateChannelStats drops the cached counters for a channel; called when
// a subscription toggle changes them
func (c *CacheService) InvalidateChannelStats(ctx context.Context, channelID string) error {
	key := c.redisClient.KeyBuilder.KeyChannelStats(channelID)
	return c.redisClient.Delete(ctx, key)
}
