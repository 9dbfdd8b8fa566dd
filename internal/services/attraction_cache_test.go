package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"tourism-api/internal/cache"
	"tourism-api/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newCacheService(t *testing.T) (*AttractionService, *miniredis.Miniredis, *observer.ObservedLogs) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	core, logs := observer.New(zapcore.WarnLevel)
	svc := NewAttractionService(nil, cache.NewRedis(client), time.Hour, zap.New(core))
	return svc, mr, logs
}

func TestFeaturedFromCacheHit(t *testing.T) {
	svc, mr, logs := newCacheService(t)

	stored := []models.Attraction{{Name: "Serengeti", Slug: "serengeti"}}
	b, err := json.Marshal(stored)
	require.NoError(t, err)
	require.NoError(t, mr.Set(featuredCacheKey, string(b)))

	got, ok := svc.featuredFromCache(context.Background())
	require.True(t, ok)
	require.Len(t, got, 1)
	require.Equal(t, "serengeti", got[0].Slug)
	require.Zero(t, logs.Len())
}

func TestFeaturedFromCacheMiss(t *testing.T) {
	svc, _, logs := newCacheService(t)

	_, ok := svc.featuredFromCache(context.Background())
	require.False(t, ok)
	require.Zero(t, logs.Len())
}

func TestFeaturedFromCacheMalformedEntry(t *testing.T) {
	svc, mr, logs := newCacheService(t)

	require.NoError(t, mr.Set(featuredCacheKey, "{not json"))

	_, ok := svc.featuredFromCache(context.Background())
	require.False(t, ok)

	warned := logs.FilterMessage("discarding malformed featured cache entry").All()
	require.Len(t, warned, 1)
	fields := warned[0].ContextMap()
	require.Contains(t, fields, "error")
	require.NotEmpty(t, fields["error"])
}
