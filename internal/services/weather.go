package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"tourism-api/internal/cache"
	"tourism-api/internal/models"
	"tourism-api/internal/weather"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// ErrCoordinatesRequired is returned when neither a lat/lon pair nor an
// attraction slug identifies the location.
var ErrCoordinatesRequired = errors.New("Latitude and longitude or attraction slug required")

// WeatherProvider is the upstream weather API boundary; swapped for a
// counting double in tests.
type WeatherProvider interface {
	Current(ctx context.Context, lat, lon float64) (*weather.Current, error)
	Forecast(ctx context.Context, lat, lon float64, days int) (*weather.Forecast, error)
}

// AttractionLookup resolves an attraction slug to its record.
type AttractionLookup interface {
	AttractionBySlug(ctx context.Context, slug string) (*models.Attraction, error)
}

// WeatherQuery identifies a location either by explicit coordinates or by
// an attraction slug. The slug takes precedence when both are given.
type WeatherQuery struct {
	Lat            *float64
	Lon            *float64
	AttractionSlug string
}

type WeatherService struct {
	db       *bun.DB
	provider WeatherProvider
	cache    cache.Store
	lookup   AttractionLookup
	ttl      time.Duration
	logr     *zap.Logger
}

func NewWeatherService(db *bun.DB, provider WeatherProvider, store cache.Store, lookup AttractionLookup, ttl time.Duration, logr *zap.Logger) *WeatherService {
	return &WeatherService{db: db, provider: provider, cache: store, lookup: lookup, ttl: ttl, logr: logr}
}

// resolve yields coordinates for the query. Slug resolution happens
// before any network call so unknown slugs 404 without touching the
// provider.
func (s *WeatherService) resolve(ctx context.Context, q WeatherQuery) (float64, float64, error) {
	if q.AttractionSlug != "" {
		attraction, err := s.lookup.AttractionBySlug(ctx, q.AttractionSlug)
		if err != nil {
			return 0, 0, err
		}
		return attraction.Latitude, attraction.Longitude, nil
	}
	if q.Lat != nil && q.Lon != nil {
		return *q.Lat, *q.Lon, nil
	}
	return 0, 0, ErrCoordinatesRequired
}

func coordKey(prefix string, lat, lon float64) string {
	return prefix + ":" +
		strconv.FormatFloat(lat, 'f', -1, 64) + ":" +
		strconv.FormatFloat(lon, 'f', -1, 64)
}

// Current returns current conditions for the query's location, serving
// from the ephemeral cache within the configured window.
func (s *WeatherService) Current(ctx context.Context, q WeatherQuery) (*weather.Current, error) {
	lat, lon, err := s.resolve(ctx, q)
	if err != nil {
		return nil, err
	}

	key := coordKey("weather:current", lat, lon)
	if b, err := s.cache.Get(ctx, key); err == nil {
		var cached weather.Current
		if err := json.Unmarshal(b, &cached); err == nil {
			return &cached, nil
		}
	} else if err != cache.ErrMiss {
		s.logr.Warn("weather cache read failed", zap.Error(err))
	}

	current, err := s.provider.Current(ctx, lat, lon)
	if err != nil {
		return nil, &UpstreamError{Reason: err.Error()}
	}

	s.cacheSet(ctx, key, current)
	return current, nil
}

// Forecast returns a daily forecast. days is clamped to [1, 16]; 7 is
// the documented default applied by the handler.
func (s *WeatherService) Forecast(ctx context.Context, q WeatherQuery, days int) (*weather.Forecast, error) {
	lat, lon, err := s.resolve(ctx, q)
	if err != nil {
		return nil, err
	}

	if days < 1 {
		days = 1
	}
	if days > weather.MaxForecastDays {
		days = weather.MaxForecastDays
	}

	key := coordKey("weather:forecast", lat, lon) + ":" + strconv.Itoa(days)
	if b, err := s.cache.Get(ctx, key); err == nil {
		var cached weather.Forecast
		if err := json.Unmarshal(b, &cached); err == nil {
			return &cached, nil
		}
	} else if err != cache.ErrMiss {
		s.logr.Warn("weather cache read failed", zap.Error(err))
	}

	forecast, err := s.provider.Forecast(ctx, lat, lon, days)
	if err != nil {
		return nil, &UpstreamError{Reason: err.Error()}
	}

	s.cacheSet(ctx, key, forecast)
	return forecast, nil
}

func (s *WeatherService) cacheSet(ctx context.Context, key string, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, b, s.ttl); err != nil {
		s.logr.Warn("weather cache write failed", zap.Error(err))
	}
}

// Seasonal returns the curated seasonal patterns for an attraction,
// ordered by start month. No network call, no caching.
func (s *WeatherService) Seasonal(ctx context.Context, attractionSlug string) ([]models.SeasonalWeatherPattern, error) {
	attraction, err := s.lookup.AttractionBySlug(ctx, attractionSlug)
	if err != nil {
		return nil, err
	}

	patterns := make([]models.SeasonalWeatherPattern, 0)
	err = s.db.NewSelect().
		Model(&patterns).
		Where("swp.attraction_id = ?", attraction.ID).
		OrderExpr("swp.start_month ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return patterns, nil
}

// UpdateAttractionCache fetches current conditions for one attraction and
// overwrites its persisted WeatherCache row, creating it if absent. On
// any failure the existing row is left untouched.
func (s *WeatherService) UpdateAttractionCache(ctx context.Context, attraction *models.Attraction) error {
	current, err := s.Current(ctx, WeatherQuery{Lat: &attraction.Latitude, Lon: &attraction.Longitude})
	if err != nil {
		return fmt.Errorf("fetching weather for %s: %w", attraction.Slug, err)
	}

	var wc models.WeatherCache
	err = s.db.NewSelect().Model(&wc).Where("wc.attraction_id = ?", attraction.ID).Scan(ctx)
	if err != nil && err != sql.ErrNoRows {
		return err
	}
	created := err == sql.ErrNoRows

	wc.AttractionID = attraction.ID
	wc.Temperature = current.Temperature
	wc.ApparentTemperature = current.ApparentTemperature
	wc.Precipitation = current.Precipitation
	wc.Rain = current.Rain
	wc.WeatherCode = current.WeatherCode
	wc.CloudCover = current.CloudCover
	wc.WindSpeed = current.WindSpeed
	wc.Humidity = current.Humidity
	wc.LastUpdated = time.Now().UTC()

	if created {
		_, err = s.db.NewInsert().Model(&wc).Returning("*").Exec(ctx)
	} else {
		_, err = s.db.NewUpdate().Model(&wc).WherePK().Exec(ctx)
	}
	return err
}

// ListCached returns all persisted weather records with their attraction
// names.
func (s *WeatherService) ListCached(ctx context.Context) ([]models.WeatherCache, error) {
	records := make([]models.WeatherCache, 0)
	err := s.db.NewSelect().
		Model(&records).
		ColumnExpr("wc.*").
		ColumnExpr("atr.name AS attraction_name").
		Join("JOIN attractions AS atr ON atr.id = wc.attraction_id").
		OrderExpr("atr.name ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

// GetCached returns one persisted weather record by id.
func (s *WeatherService) GetCached(ctx context.Context, id uuid.UUID) (*models.WeatherCache, error) {
	var record models.WeatherCache
	err := s.db.NewSelect().
		Model(&record).
		ColumnExpr("wc.*").
		ColumnExpr("atr.name AS attraction_name").
		Join("JOIN attractions AS atr ON atr.id = wc.attraction_id").
		Where("wc.id = ?", id).
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}
