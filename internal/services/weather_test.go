package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tourism-api/internal/cache"
	"tourism-api/internal/models"
	"tourism-api/internal/services"
	"tourism-api/internal/weather"
)

// countingProvider records how many upstream calls were made.
type countingProvider struct {
	currentCalls  int
	forecastCalls int
	lastDays      int
	err           error
}

func (p *countingProvider) Current(_ context.Context, lat, lon float64) (*weather.Current, error) {
	p.currentCalls++
	if p.err != nil {
		return nil, p.err
	}
	temp := 25.0
	code := 1
	return &weather.Current{Temperature: &temp, WeatherCode: &code, WeatherDescription: "Mainly clear"}, nil
}

func (p *countingProvider) Forecast(_ context.Context, lat, lon float64, days int) (*weather.Forecast, error) {
	p.forecastCalls++
	p.lastDays = days
	if p.err != nil {
		return nil, p.err
	}
	dates := make([]string, days)
	return &weather.Forecast{Dates: dates}, nil
}

type stubLookup struct {
	attraction *models.Attraction
	err        error
	calls      int
}

func (l *stubLookup) AttractionBySlug(_ context.Context, slug string) (*models.Attraction, error) {
	l.calls++
	return l.attraction, l.err
}

func newWeatherService(t *testing.T, provider services.WeatherProvider, lookup services.AttractionLookup, ttl time.Duration) (*services.WeatherService, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := cache.NewRedis(client)
	return services.NewWeatherService(nil, provider, store, lookup, ttl, zap.NewNop()), mr
}

func coords(lat, lon float64) services.WeatherQuery {
	return services.WeatherQuery{Lat: &lat, Lon: &lon}
}

func TestWeatherService_Current_CachesWithinWindow(t *testing.T) {
	provider := &countingProvider{}
	svc, _ := newWeatherService(t, provider, &stubLookup{}, 30*time.Minute)
	ctx := context.Background()

	first, err := svc.Current(ctx, coords(-2.3333, 34.8333))
	require.NoError(t, err)
	require.NotNil(t, first.Temperature)

	second, err := svc.Current(ctx, coords(-2.3333, 34.8333))
	require.NoError(t, err)
	assert.Equal(t, *first.Temperature, *second.Temperature)

	assert.Equal(t, 1, provider.currentCalls, "second request should be served from cache")
}

func TestWeatherService_Current_RefetchesAfterTTL(t *testing.T) {
	provider := &countingProvider{}
	svc, mr := newWeatherService(t, provider, &stubLookup{}, 30*time.Minute)
	ctx := context.Background()

	_, err := svc.Current(ctx, coords(-2.3333, 34.8333))
	require.NoError(t, err)

	mr.FastForward(31 * time.Minute)

	_, err = svc.Current(ctx, coords(-2.3333, 34.8333))
	require.NoError(t, err)

	assert.Equal(t, 2, provider.currentCalls)
}

func TestWeatherService_Current_DistinctCoordinatesMiss(t *testing.T) {
	provider := &countingProvider{}
	svc, _ := newWeatherService(t, provider, &stubLookup{}, 30*time.Minute)
	ctx := context.Background()

	_, err := svc.Current(ctx, coords(-2.3333, 34.8333))
	require.NoError(t, err)
	_, err = svc.Current(ctx, coords(-3.0674, 37.3556))
	require.NoError(t, err)

	assert.Equal(t, 2, provider.currentCalls)
}

func TestWeatherService_Current_UnknownSlugSkipsProvider(t *testing.T) {
	provider := &countingProvider{}
	lookup := &stubLookup{err: services.ErrNotFound}
	svc, _ := newWeatherService(t, provider, lookup, 30*time.Minute)

	_, err := svc.Current(context.Background(), services.WeatherQuery{AttractionSlug: "nowhere"})
	assert.ErrorIs(t, err, services.ErrNotFound)
	assert.Equal(t, 1, lookup.calls)
	assert.Equal(t, 0, provider.currentCalls, "unknown slug must not reach the provider")
}

func TestWeatherService_Current_SlugResolvesCoordinates(t *testing.T) {
	provider := &countingProvider{}
	lookup := &stubLookup{attraction: &models.Attraction{Latitude: -3.0674, Longitude: 37.3556}}
	svc, _ := newWeatherService(t, provider, lookup, 30*time.Minute)
	ctx := context.Background()

	_, err := svc.Current(ctx, services.WeatherQuery{AttractionSlug: "mount-kilimanjaro"})
	require.NoError(t, err)

	// Same coordinates via lat/lon hit the same cache entry.
	_, err = svc.Current(ctx, coords(-3.0674, 37.3556))
	require.NoError(t, err)
	assert.Equal(t, 1, provider.currentCalls)
}

func TestWeatherService_Current_NoLocation(t *testing.T) {
	provider := &countingProvider{}
	svc, _ := newWeatherService(t, provider, &stubLookup{}, 30*time.Minute)

	_, err := svc.Current(context.Background(), services.WeatherQuery{})
	assert.ErrorIs(t, err, services.ErrCoordinatesRequired)
	assert.Equal(t, 0, provider.currentCalls)
}

func TestWeatherService_Current_UpstreamFailure(t *testing.T) {
	provider := &countingProvider{err: errors.New("connection refused")}
	svc, _ := newWeatherService(t, provider, &stubLookup{}, 30*time.Minute)

	_, err := svc.Current(context.Background(), coords(0, 0))
	require.Error(t, err)

	var ue *services.UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.Contains(t, ue.Error(), "Weather API error")
}

func TestWeatherService_Forecast_ClampsDays(t *testing.T) {
	tests := []struct {
		name string
		days int
		want int
	}{
		{"below minimum", 0, 1},
		{"negative", -3, 1},
		{"above maximum", 17, 16},
		{"within range", 7, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &countingProvider{}
			svc, _ := newWeatherService(t, provider, &stubLookup{}, 30*time.Minute)

			forecast, err := svc.Forecast(context.Background(), coords(0, 0), tt.days)
			require.NoError(t, err)
			assert.Equal(t, tt.want, provider.lastDays)
			assert.Len(t, forecast.Dates, tt.want)
		})
	}
}

func TestWeatherService_Forecast_CachesPerDayCount(t *testing.T) {
	provider := &countingProvider{}
	svc, _ := newWeatherService(t, provider, &stubLookup{}, 30*time.Minute)
	ctx := context.Background()

	_, err := svc.Forecast(ctx, coords(0, 0), 7)
	require.NoError(t, err)
	_, err = svc.Forecast(ctx, coords(0, 0), 7)
	require.NoError(t, err)
	assert.Equal(t, 1, provider.forecastCalls)

	// Different day count is a different cache entry.
	_, err = svc.Forecast(ctx, coords(0, 0), 3)
	require.NoError(t, err)
	assert.Equal(t, 2, provider.forecastCalls)
}

func TestWeatherService_Forecast_UpstreamFailure(t *testing.T) {
	provider := &countingProvider{err: errors.New("timeout")}
	svc, _ := newWeatherService(t, provider, &stubLookup{}, 30*time.Minute)

	_, err := svc.Forecast(context.Background(), coords(0, 0), 7)

	var ue *services.UpstreamError
	require.ErrorAs(t, err, &ue)
}
