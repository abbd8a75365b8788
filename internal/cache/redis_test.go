package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/4PPL8/wahabstore/internal/domain"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis creates a miniredis server and returns a RedisCache instance
func setupTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis, func()) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	cache := NewRedisCache(client)

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return cache, mr, cleanup
}

func TestGet_Success(t *testing.T) {
	cache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	sessionID := "sess123"

	cart := &domain.Cart{
		SessionID: sessionID,
		Items: []domain.LineItem{
			{ProductID: "p-001", Quantity: 2},
			{ProductID: "p-002", Quantity: 3},
		},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	cartJSON, _ := json.Marshal(cart)
	mr.Set(cacheKey(sessionID), string(cartJSON))

	result, err := cache.Get(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, sessionID, result.SessionID)
	assert.Len(t, result.Items, 2)
	assert.Equal(t, "p-001", result.Items[0].ProductID)
}

func TestGet_CacheMiss(t *testing.T) {
	cache, _, cleanup := setupTestRedis(t)
	defer cleanup()

	result, err := cache.Get(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.Nil(t, result)
}

// A corrupt record is discarded and reported as a miss, never as a failure.
func TestGet_CorruptRecordDiscarded(t *testing.T) {
	cache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	sessionID := "sess123"
	key := cacheKey(sessionID)

	require.NoError(t, mr.Set(key, `{"session_id": "sess123", "items": [{"pro`))

	_, err := cache.Get(ctx, sessionID)
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.False(t, mr.Exists(key), "corrupt record should have been deleted")
}

func TestSet_RoundTripPreservesOrder(t *testing.T) {
	cache, _, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	sessionID := "sess456"

	cart := &domain.Cart{
		SessionID: sessionID,
		Items: []domain.LineItem{
			{ProductID: "p-010", Name: "Chips", Price: 100, Quantity: 5},
			{ProductID: "p-002", Name: "Biryani Masala", Price: 150, Quantity: 1},
			{ProductID: "p-007", Name: "Chilli Powder", Price: 320, Quantity: 2},
		},
	}

	require.NoError(t, cache.Set(ctx, sessionID, cart))

	stored, err := cache.Get(ctx, sessionID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 3)
	for i, want := range cart.Items {
		assert.Equal(t, want.ProductID, stored.Items[i].ProductID)
		assert.Equal(t, want.Quantity, stored.Items[i].Quantity)
	}
	assert.Equal(t, cart.TotalPrice(), stored.TotalPrice())
}

func TestSet_WithTTL(t *testing.T) {
	cache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	cart := &domain.Cart{
		SessionID: "sess789",
		Items:     []domain.LineItem{},
	}

	err := cache.Set(context.Background(), "sess789", cart)
	require.NoError(t, err)

	ttl := mr.TTL(cacheKey("sess789"))
	assert.True(t, ttl >= 15*time.Minute, "TTL should be at least base TTL")
	assert.True(t, ttl <= 20*time.Minute, "TTL should be base + max jitter")
}

func TestDelete_Success(t *testing.T) {
	cache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	sessionID := "sess999"
	cart := &domain.Cart{SessionID: sessionID}
	cartJSON, _ := json.Marshal(cart)
	mr.Set(cacheKey(sessionID), string(cartJSON))
	assert.True(t, mr.Exists(cacheKey(sessionID)))

	err := cache.Delete(context.Background(), sessionID)
	require.NoError(t, err)

	assert.False(t, mr.Exists(cacheKey(sessionID)))
}

func TestDelete_NonExistentKey(t *testing.T) {
	cache, _, cleanup := setupTestRedis(t)
	defer cleanup()

	err := cache.Delete(context.Background(), "nonexistent")
	assert.NoError(t, err)
}

func TestCacheKey_Format(t *testing.T) {
	assert.Equal(t, "cart:sess123", cacheKey("sess123"))
}
