package routes

import (
	"net/http"

	"tourism-api/internal/auth"
	"tourism-api/internal/cache"
	"tourism-api/internal/config"
	"tourism-api/internal/handlers"
	"tourism-api/internal/logger"
	mdlwr "tourism-api/internal/middleware"
	"tourism-api/internal/services"
	"tourism-api/internal/weather"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
	"github.com/uptrace/bun"
)

// Deps carries the handler dependencies so tests can mount the router
// over mock services.
type Deps struct {
	Regions     handlers.RegionService
	Attractions handlers.AttractionService
	Weather     handlers.WeatherService
	Auth        handlers.AuthService
	AuthMW      func(http.Handler) http.Handler
	Logr        *logger.Logger
	Origins     []string
}

func New(deps Deps) http.Handler {
	r := chi.NewRouter()

	// Basic middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	// CORS middleware with config
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	regionHandler := handlers.NewRegionHandler(deps.Regions, deps.Logr.Logger)
	attractionHandler := handlers.NewAttractionHandler(deps.Attractions, deps.Logr.Logger)
	weatherHandler := handlers.NewWeatherHandler(deps.Weather, deps.Logr.Logger)
	authHandler := handlers.NewAuthHandler(deps.Auth, deps.Logr.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("ok"))
		if err != nil {
			return
		}
	})

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/regions", func(r chi.Router) {
			r.Get("/", regionHandler.List)
			r.Get("/{slug}", regionHandler.GetBySlug)

			r.Group(func(r chi.Router) {
				r.Use(deps.AuthMW)
				r.Post("/", regionHandler.Create)
				r.Put("/{slug}", regionHandler.Update)
				r.Patch("/{slug}", regionHandler.Update)
				r.Delete("/{slug}", regionHandler.Delete)
			})
		})

		r.Route("/attractions", func(r chi.Router) {
			// fixed paths before the slug wildcard
			r.Get("/", attractionHandler.List)
			r.Get("/featured", attractionHandler.Featured)
			r.Get("/by_category", attractionHandler.ByCategory)
			r.Get("/by_region", attractionHandler.ByRegion)
			r.Get("/{slug}", attractionHandler.GetBySlug)

			r.Group(func(r chi.Router) {
				r.Use(deps.AuthMW)
				r.Post("/", attractionHandler.Create)
				r.Put("/{slug}", attractionHandler.Update)
				r.Patch("/{slug}", attractionHandler.Update)
				r.Delete("/{slug}", attractionHandler.Delete)
				r.Post("/{slug}/tips", attractionHandler.CreateTip)
			})
		})

		r.Route("/weather", func(r chi.Router) {
			r.Get("/", weatherHandler.ListCached)
			r.Get("/current", weatherHandler.Current)
			r.Get("/forecast", weatherHandler.Forecast)
			r.Get("/seasonal", weatherHandler.Seasonal)
			r.Get("/{id}", weatherHandler.GetCached)
		})

		r.Route("/auth", func(r chi.Router) {
			// Public routes
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/token/refresh", authHandler.Refresh)

			// Protected routes
			r.Group(func(r chi.Router) {
				r.Use(deps.AuthMW)
				r.Get("/profile", authHandler.Profile)
				r.Put("/profile", authHandler.UpdateProfile)
				r.Patch("/profile", authHandler.UpdateProfile)
			})
		})
	})

	return r
}

// NewRouter wires the real services and middleware for the server binary.
func NewRouter(db *bun.DB, rdb *redis.Client, cfg *config.Config, logr *logger.Logger) http.Handler {
	store := cache.NewRedis(rdb)
	jwtMgr := auth.NewManager(cfg.JWTSecret, "tourism-api", cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	provider := weather.NewClient(cfg.WeatherBaseURL, cfg.WeatherTimezone)

	regionSvc := services.NewRegionService(db)
	attractionSvc := services.NewAttractionService(db, store, cfg.FeaturedCacheTTL, logr.Logger)
	weatherSvc := services.NewWeatherService(db, provider, store, attractionSvc, cfg.WeatherCacheTTL, logr.Logger)
	authSvc := services.NewAuthService(db, jwtMgr, cfg, logr.Logger)

	authMW := mdlwr.NewAuthMiddleware(jwtMgr, logr.Logger)

	return New(Deps{
		Regions:     regionSvc,
		Attractions: attractionSvc,
		Weather:     weatherSvc,
		Auth:        authSvc,
		AuthMW:      authMW.JWTAuth,
		Logr:        logr,
		Origins:     cfg.AllowedOrigins,
	})
}
