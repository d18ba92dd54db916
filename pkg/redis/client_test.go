package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *Client) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client, err := NewClient("redis://"+mr.Addr(), "test", nil)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return mr, client
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name        string
		url         string
		expectError bool
	}{
		{name: "Invalid URL scheme", url: "invalid://url", expectError: true},
		{name: "Empty URL", url: "", expectError: true},
		{name: "Unreachable server", url: "redis://127.0.0.1:1", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.url, "test", nil)
			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, client)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, client)
			}
		})
	}
}

func TestClientSetGet(t *testing.T) {
	_, client := setupTestRedis(t)
	ctx := context.Background()

	err := client.Set(ctx, "key1", "value1", time.Minute)
	require.NoError(t, err)

	val, err := client.Get(ctx, "key1")
	require.NoError(t, err)
	assert.Equal(t, "value1", val)
}

func TestClientGetMissingKey(t *testing.T) {
	_, client := setupTestRedis(t)

	_, err := client.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, IsNil(err))
}

func TestClientDelete(t *testing.T) {
	_, client := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "key1", "value1", time.Minute))
	require.NoError(t, client.Delete(ctx, "key1"))

	n, err := client.Exists(ctx, "key1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestClientTTLExpiry(t *testing.T) {
	mr, client := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "ephemeral", "v", time.Second))

	mr.FastForward(2 * time.Second)

	_, err := client.Get(ctx, "ephemeral")
	assert.True(t, IsNil(err))
}

func TestClientHealth(t *testing.T) {
	mr, client := setupTestRedis(t)

	assert.NoError(t, client.Health(context.Background()))

	mr.Close()
	assert.Error(t, client.Health(context.Background()))
}
