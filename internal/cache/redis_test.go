package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyhub-app/gamification-service/internal/config"
	"github.com/studyhub-app/gamification-service/internal/models"
)

func setupTestCache(t *testing.T) *Cache {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	t.Cleanup(func() { mr.Close() })

	cfg := config.RedisConnection{
		AddressRedis: mr.Addr(),
		Password:     "",
		DB:           0,
		User:         "",
	}

	cache, err := InitServer(context.Background(), cfg)
	require.NoError(t, err)
	return cache
}

func TestSetAndGet(t *testing.T) {
	cache := setupTestCache(t)

	expected := models.UserGameState{
		UserUID:    "user-1",
		Points:     250,
		Level:      3,
		Streak:     4,
		WeeklyGoal: 100,
	}
	err := cache.Set("gamestate:user-1", expected, time.Minute)
	require.NoError(t, err)

	var actual models.UserGameState
	found, err := cache.Get("gamestate:user-1", &actual)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, expected, actual)
}

func TestGetNotFound(t *testing.T) {
	cache := setupTestCache(t)

	var out models.UserGameState
	found, err := cache.Get("no_such_key", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestGetCorruptedValue(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(func() { mr.Close() })

	cfg := config.RedisConnection{AddressRedis: mr.Addr()}
	cache, err := InitServer(context.Background(), cfg)
	require.NoError(t, err)

	require.NoError(t, mr.Set("gamestate:user-1", "{not json"))

	var out models.UserGameState
	_, err = cache.Get("gamestate:user-1", &out)
	assert.Error(t, err)
}

func TestInvalidate(t *testing.T) {
	cache := setupTestCache(t)

	require.NoError(t, cache.Set("trial:user-1", models.FreeTrial{UserUID: "user-1"}, time.Minute))
	require.NoError(t, cache.Invalidate("trial:user-1"))

	var out models.FreeTrial
	found, err := cache.Get("trial:user-1", &out)
	require.NoError(t, err)
	assert.False(t, found)
}
