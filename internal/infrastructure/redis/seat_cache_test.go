package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeatCache_GetAvailableCount(t *testing.T) {
	client := setupTestRedis(t)
	cache := NewSeatCache(client)
	ctx := context.Background()
	tenantID := "test-tenant-1"
	eventID := "test-event-123"

	t.Run("キャッシュミス時はErrCacheMissを返す", func(t *testing.T) {
		_, err := cache.GetAvailableCount(ctx, tenantID, eventID)
		assert.ErrorIs(t, err, ErrCacheMiss)
	})

	t.Run("キャッシュにセットした値を取得できる", func(t *testing.T) {
		err := cache.SetAvailableCount(ctx, tenantID, eventID, 100, 30*time.Second)
		require.NoError(t, err)

		count, err := cache.GetAvailableCount(ctx, tenantID, eventID)
		require.NoError(t, err)
		assert.Equal(t, 100, count)
	})

	t.Run("テナントごとにキャッシュが分離される", func(t *testing.T) {
		err := cache.SetAvailableCount(ctx, tenantID, eventID, 100, 30*time.Second)
		require.NoError(t, err)

		_, err = cache.GetAvailableCount(ctx, "test-tenant-2", eventID)
		assert.ErrorIs(t, err, ErrCacheMiss)
	})

	t.Run("キャッシュを無効化できる", func(t *testing.T) {
		err := cache.SetAvailableCount(ctx, tenantID, eventID, 50, 30*time.Second)
		require.NoError(t, err)

		err = cache.Invalidate(ctx, tenantID, eventID)
		require.NoError(t, err)

		_, err = cache.GetAvailableCount(ctx, tenantID, eventID)
		assert.ErrorIs(t, err, ErrCacheMiss)
	})
}

func TestSeatCache_TTL(t *testing.T) {
	client := setupTestRedis(t)
	cache := NewSeatCache(client)
	ctx := context.Background()
	tenantID := "test-tenant-1"
	eventID := "test-event-ttl"

	t.Run("TTL経過後はキャッシュミスになる", func(t *testing.T) {
		err := cache.SetAvailableCount(ctx, tenantID, eventID, 100, 100*time.Millisecond)
		require.NoError(t, err)

		// TTL経過前
		count, err := cache.GetAvailableCount(ctx, tenantID, eventID)
		require.NoError(t, err)
		assert.Equal(t, 100, count)

		// TTL経過後
		time.Sleep(150 * time.Millisecond)
		_, err = cache.GetAvailableCount(ctx, tenantID, eventID)
		assert.ErrorIs(t, err, ErrCacheMiss)
	})
}
