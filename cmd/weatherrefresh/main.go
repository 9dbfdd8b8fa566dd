package main

import (
	"context"
	"time"

	"tourism-api/internal/cache"
	"tourism-api/internal/config"
	"tourism-api/internal/database"
	"tourism-api/internal/logger"
	"tourism-api/internal/services"
	"tourism-api/internal/weather"

	"go.uber.org/zap"
)

// Refreshes the persisted weather snapshot for every active attraction.
// Meant to run from cron; failures on individual attractions are logged
// and skipped so one bad upstream call does not stall the rest.
func main() {
	cfg := config.Load()
	logr := logger.New(cfg)
	defer logr.Sync()

	db, err := database.New(cfg.DatabaseURL, cfg)
	if err != nil {
		logr.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	rdb, err := cache.Connect(context.Background(), cfg.RedisURL)
	if err != nil {
		logr.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	store := cache.NewRedis(rdb)
	provider := weather.NewClient(cfg.WeatherBaseURL, cfg.WeatherTimezone)
	attractionSvc := services.NewAttractionService(db, store, cfg.FeaturedCacheTTL, logr.Logger)
	weatherSvc := services.NewWeatherService(db, provider, store, attractionSvc, cfg.WeatherCacheTTL, logr.Logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	attractions, err := attractionSvc.List(ctx, "", "")
	if err != nil {
		logr.Fatal("failed to list attractions", zap.Error(err))
	}

	var updated, failed int
	for i := range attractions {
		a := &attractions[i]
		if err := weatherSvc.UpdateAttractionCache(ctx, a); err != nil {
			logr.Warn("weather refresh failed",
				zap.String("attraction", a.Slug),
				zap.Error(err))
			failed++
			continue
		}
		updated++
	}

	logr.Info("weather refresh finished",
		zap.Int("updated", updated),
		zap.Int("failed", failed))
}
