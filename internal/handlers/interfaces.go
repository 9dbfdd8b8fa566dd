package handlers

import (
	"context"

	"tourism-api/internal/auth"
	"tourism-api/internal/models"
	"tourism-api/internal/services"
	"tourism-api/internal/weather"

	"github.com/google/uuid"
)

// Handlers depend on small interfaces rather than the concrete services
// so tests can swap in mocks without a database.

type RegionService interface {
	List(ctx context.Context) ([]models.Region, error)
	GetBySlug(ctx context.Context, slug string) (*models.Region, error)
	Create(ctx context.Context, in services.RegionInput, createdBy *uuid.UUID) (*models.Region, error)
	Update(ctx context.Context, slug string, in services.RegionInput, partial bool) (*models.Region, error)
	Delete(ctx context.Context, slug string) error
}

type AttractionService interface {
	List(ctx context.Context, search, ordering string) ([]models.Attraction, error)
	GetBySlug(ctx context.Context, slug string) (*models.Attraction, error)
	Featured(ctx context.Context) ([]models.Attraction, error)
	ByCategory(ctx context.Context, category string) ([]models.Attraction, error)
	ByRegion(ctx context.Context, regionSlug string) ([]models.Attraction, error)
	Create(ctx context.Context, in services.AttractionInput, createdBy *uuid.UUID) (*models.Attraction, error)
	Update(ctx context.Context, slug string, in services.AttractionInput, partial bool) (*models.Attraction, error)
	Delete(ctx context.Context, slug string) error
	CreateTip(ctx context.Context, slug string, in services.TipInput, createdBy *uuid.UUID) (*models.AttractionTip, error)
}

type WeatherService interface {
	Current(ctx context.Context, q services.WeatherQuery) (*weather.Current, error)
	Forecast(ctx context.Context, q services.WeatherQuery, days int) (*weather.Forecast, error)
	Seasonal(ctx context.Context, attractionSlug string) ([]models.SeasonalWeatherPattern, error)
	ListCached(ctx context.Context) ([]models.WeatherCache, error)
	GetCached(ctx context.Context, id uuid.UUID) (*models.WeatherCache, error)
}

type AuthService interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.User, error)
	Login(ctx context.Context, username, password string) (*auth.TokenPair, *models.User, error)
	Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error)
	Profile(ctx context.Context, userID uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, in services.ProfileInput, partial bool) (*models.User, error)
}
