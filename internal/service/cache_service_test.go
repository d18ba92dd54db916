package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"vidtube/internal/domain"
	"vidtube/pkg/redis"
)

func setupCacheService(t *testing.T) (*miniredis.Miniredis, *redis.Client, *CacheService) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client, err := redis.NewClient("redis://"+mr.Addr(), "test", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return mr, client, NewCacheService(client, zap.NewNop())
}

func TestCacheServiceReadThrough(t *testing.T) {
	_, client, cache := setupCacheService(t)

	loads := 0
	loader := func(context.Context) (*domain.ChannelStats, error) {
		loads++
		return &domain.ChannelStats{SubscriberCount: 7, ChannelsSubscribedTo: 2}, nil
	}

	stats, err := cache.GetChannelStatsWithCache(context.Background(), "chan-1", loader)
	require.NoError(t, err)
	assert.Equal(t, int64(7), stats.SubscriberCount)
	assert.Equal(t, 1, loads)

	// second read is served from cache, the loader stays cold
	stats, err = cache.GetChannelStatsWithCache(context.Background(), "chan-1", loader)
	require.NoError(t, err)
	assert.Equal(t, int64(7), stats.SubscriberCount)
	assert.Equal(t, 1, loads)

	// the cached payload is the JSON roll-up
	cached, err := client.Get(context.Background(), client.KeyBuilder.KeyChannelStats("chan-1"))
	require.NoError(t, err)
	var decoded domain.ChannelStats
	require.NoError(t, json.Unmarshal([]byte(cached), &decoded))
	assert.Equal(t, int64(7), decoded.SubscriberCount)
}

func TestCacheServiceInvalidate(t *testing.T) {
	_, _, cache := setupCacheService(t)

	loads := 0
	loader := func(context.Context) (*domain.ChannelStats, error) {
		loads++
		return &domain.ChannelStats{SubscriberCount: int64(loads)}, nil
	}

	_, err := cache.GetChannelStatsWithCache(context.Background(), "chan-2", loader)
	require.NoError(t, err)

	require.NoError(t, cache.InvalidateChannelStats(context.Background(), "chan-2"))

	stats, err := cache.GetChannelStatsWithCache(context.Background(), "chan-2", loader)
	require.NoError(t, err)
	assert.Equal(t, 2, loads)
	assert.Equal(t, int64(2), stats.SubscriberCount)
}

func TestCacheServiceDiscardsCorruptEntry(t *testing.T) {
	mr, client, cache := setupCacheService(t)

	key := client.KeyBuilder.KeyChannelStats("chan-3")
	require.NoError(t, mr.Set(key, "{not json"))

	loader := func(context.Context) (*domain.ChannelStats, error) {
		return &domain.ChannelStats{SubscriberCount: 3}, nil
	}

	stats, err := cache.GetChannelStatsWithCache(context.Background(), "chan-3", loader)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.SubscriberCount)
}
