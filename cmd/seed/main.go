package main

import (
	"context"
	"time"

	"tourism-api/internal/config"
	"tourism-api/internal/database"
	"tourism-api/internal/logger"
	"tourism-api/internal/models"

	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

type regionFixture struct {
	models.Region
	attractions []attractionFixture
}

type attractionFixture struct {
	models.Attraction
	tips     []models.AttractionTip
	patterns []models.SeasonalWeatherPattern
}

func ptr[T any](v T) *T { return &v }

func fixtures() []regionFixture {
	return []regionFixture{
		{
			Region: models.Region{
				Name:        "Arusha",
				Slug:        "arusha",
				Description: "Gateway to the northern safari circuit.",
				Latitude:    -3.3869,
				Longitude:   36.6830,
			},
			attractions: []attractionFixture{
				{
					Attraction: models.Attraction{
						Name:                 "Serengeti National Park",
						Slug:                 "serengeti-national-park",
						Category:             models.CategoryNationalPark,
						Description:          "Vast plains hosting the annual great migration of wildebeest and zebra.",
						ShortDescription:     "Home of the great migration.",
						Latitude:             -2.3333,
						Longitude:            34.8333,
						AltitudeM:            ptr(1530.0),
						DifficultyLevel:      models.DifficultyEasy,
						AccessInfo:           "Fly to Seronera airstrip or drive from Arusha via Ngorongoro.",
						NearestAirport:       ptr("Seronera Airstrip"),
						AirportDistanceKM:    ptr(15.0),
						BestTimeToVisit:      "June to October",
						SeasonalAvailability: "Year round",
						EstimatedDuration:    "3-5 days",
						EntranceFee:          70,
						RequiresGuide:        true,
						IsFeatured:           true,
						IsActive:             true,
					},
					tips: []models.AttractionTip{
						{Title: "Book early for migration season", Description: "Lodges inside the park fill up months ahead of the July river crossings."},
					},
					patterns: []models.SeasonalWeatherPattern{
						{SeasonType: models.SeasonDry, StartMonth: 6, EndMonth: 10, AvgTemperature: 25, AvgRainfall: 10, Description: "Clear skies, best game viewing."},
						{SeasonType: models.SeasonShortRain, StartMonth: 11, EndMonth: 12, AvgTemperature: 27, AvgRainfall: 90, Description: "Short afternoon showers."},
						{SeasonType: models.SeasonLongRain, StartMonth: 3, EndMonth: 5, AvgTemperature: 26, AvgRainfall: 150, Description: "Heavy rains, some tracks impassable."},
					},
				},
				{
					Attraction: models.Attraction{
						Name:                 "Ngorongoro Crater",
						Slug:                 "ngorongoro-crater",
						Category:             models.CategoryWildlife,
						Description:          "The world's largest intact volcanic caldera, dense with resident wildlife.",
						ShortDescription:     "Wildlife-packed volcanic caldera.",
						Latitude:             -3.1619,
						Longitude:            35.5878,
						AltitudeM:            ptr(2286.0),
						DifficultyLevel:      models.DifficultyEasy,
						AccessInfo:           "Three hour drive from Arusha on paved road.",
						BestTimeToVisit:      "June to September",
						SeasonalAvailability: "Year round",
						EstimatedDuration:    "1-2 days",
						EntranceFee:          70,
						RequiresGuide:        true,
						IsFeatured:           true,
						IsActive:             true,
					},
				},
			},
		},
		{
			Region: models.Region{
				Name:        "Kilimanjaro",
				Slug:        "kilimanjaro",
				Description: "Region around Africa's highest mountain.",
				Latitude:    -3.0674,
				Longitude:   37.3556,
			},
			attractions: []attractionFixture{
				{
					Attraction: models.Attraction{
						Name:                 "Mount Kilimanjaro",
						Slug:                 "mount-kilimanjaro",
						Category:             models.CategoryMountain,
						Description:          "Africa's highest peak at 5895m, climbable without technical gear via several routes.",
						ShortDescription:     "The roof of Africa.",
						Latitude:             -3.0674,
						Longitude:            37.3556,
						AltitudeM:            ptr(5895.0),
						DifficultyLevel:      models.DifficultyDifficult,
						AccessInfo:           "Trailheads at Machame, Marangu and Lemosho gates.",
						NearestAirport:       ptr("Kilimanjaro International Airport"),
						AirportDistanceKM:    ptr(45.0),
						BestTimeToVisit:      "January to March, June to October",
						SeasonalAvailability: "Closed during long rains",
						EstimatedDuration:    "5-9 days",
						EntranceFee:          70,
						RequiresGuide:        true,
						RequiresPermit:       true,
						IsFeatured:           true,
						IsActive:             true,
					},
					tips: []models.AttractionTip{
						{Title: "Acclimatize slowly", Description: "Pick a route of at least seven days to improve summit chances."},
					},
				},
				{
					Attraction: models.Attraction{
						Name:                 "Materuni Waterfalls",
						Slug:                 "materuni-waterfalls",
						Category:             models.CategoryWaterfall,
						Description:          "A 70m waterfall above Moshi, usually combined with a coffee farm visit.",
						ShortDescription:     "Waterfall and coffee tour near Moshi.",
						Latitude:             -3.2436,
						Longitude:            37.3901,
						DifficultyLevel:      models.DifficultyModerate,
						AccessInfo:           "Forty minute drive from Moshi, then a short hike.",
						BestTimeToVisit:      "Year round",
						SeasonalAvailability: "Year round",
						EstimatedDuration:    "Half day",
						EntranceFee:          10,
						IsActive:             true,
					},
				},
			},
		},
		{
			Region: models.Region{
				Name:        "Zanzibar",
				Slug:        "zanzibar",
				Description: "Spice islands off the Swahili coast.",
				Latitude:    -6.1659,
				Longitude:   39.2026,
			},
			attractions: []attractionFixture{
				{
					Attraction: models.Attraction{
						Name:                 "Stone Town",
						Slug:                 "stone-town",
						Category:             models.CategoryHistorical,
						Description:          "UNESCO-listed old quarter of Zanzibar City with Swahili, Arab and Indian architecture.",
						ShortDescription:     "Historic heart of Zanzibar.",
						Latitude:             -6.1622,
						Longitude:            39.1921,
						DifficultyLevel:      models.DifficultyEasy,
						AccessInfo:           "Ferry from Dar es Salaam or flight to Zanzibar airport.",
						NearestAirport:       ptr("Abeid Amani Karume International Airport"),
						AirportDistanceKM:    ptr(7.0),
						BestTimeToVisit:      "June to October",
						SeasonalAvailability: "Year round",
						EstimatedDuration:    "1-2 days",
						EntranceFee:          0,
						IsActive:             true,
					},
				},
				{
					Attraction: models.Attraction{
						Name:                 "Nungwi Beach",
						Slug:                 "nungwi-beach",
						Category:             models.CategoryBeach,
						Description:          "White sand beach on the northern tip of Unguja island with minimal tidal swing.",
						ShortDescription:     "Zanzibar's best swimming beach.",
						Latitude:             -5.7269,
						Longitude:            39.2962,
						DifficultyLevel:      models.DifficultyEasy,
						AccessInfo:           "One hour drive north from Stone Town.",
						BestTimeToVisit:      "June to October",
						SeasonalAvailability: "Year round",
						EstimatedDuration:    "1-3 days",
						EntranceFee:          0,
						IsFeatured:           true,
						IsActive:             true,
					},
				},
			},
		},
	}
}

func main() {
	cfg := config.Load()
	logr := logger.New(cfg)
	defer logr.Sync()

	db, err := database.New(cfg.DatabaseURL, cfg)
	if err != nil {
		logr.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	creator, err := seedCreator(ctx, db)
	if err != nil {
		logr.Fatal("seeding requires an existing user account; register one first", zap.Error(err))
	}

	for _, rf := range fixtures() {
		rf.Region.CreatedBy = &creator.ID
		region, err := upsertRegion(ctx, db, rf.Region)
		if err != nil {
			logr.Fatal("failed to seed region", zap.String("slug", rf.Slug), zap.Error(err))
		}

		for _, af := range rf.attractions {
			af.Attraction.RegionID = region.ID
			af.Attraction.CreatedBy = &creator.ID
			attraction, err := upsertAttraction(ctx, db, af.Attraction)
			if err != nil {
				logr.Fatal("failed to seed attraction", zap.String("slug", af.Slug), zap.Error(err))
			}

			for _, tip := range af.tips {
				tip.AttractionID = attraction.ID
				tip.CreatedBy = &creator.ID
				if err := insertTip(ctx, db, tip); err != nil {
					logr.Fatal("failed to seed tip", zap.String("attraction", af.Slug), zap.Error(err))
				}
			}

			for _, p := range af.patterns {
				if !models.ValidSeason(p.SeasonType) {
					logr.Fatal("invalid season type in fixture",
						zap.String("attraction", af.Slug), zap.String("season", p.SeasonType))
				}
				p.AttractionID = attraction.ID
				if err := insertPattern(ctx, db, p); err != nil {
					logr.Fatal("failed to seed seasonal pattern", zap.String("attraction", af.Slug), zap.Error(err))
				}
			}

			logr.Info("seeded attraction", zap.String("slug", attraction.Slug))
		}
	}

	logr.Info("seeding complete")
}

// seedCreator returns the oldest registered user, whose id is stamped
// as creator on every seeded row.
func seedCreator(ctx context.Context, db *bun.DB) (*models.User, error) {
	user := new(models.User)
	err := db.NewSelect().
		Model(user).
		OrderExpr("usr.created_at ASC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Upserts key on slug so the seeder is safe to rerun.
func upsertRegion(ctx context.Context, db *bun.DB, region models.Region) (*models.Region, error) {
	_, err := db.NewInsert().
		Model(&region).
		On("CONFLICT (slug) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return nil, err
	}

	out := new(models.Region)
	err = db.NewSelect().Model(out).Where("rgn.slug = ?", region.Slug).Scan(ctx)
	return out, err
}

func upsertAttraction(ctx context.Context, db *bun.DB, attraction models.Attraction) (*models.Attraction, error) {
	_, err := db.NewInsert().
		Model(&attraction).
		On("CONFLICT (slug) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return nil, err
	}

	out := new(models.Attraction)
	err = db.NewSelect().Model(out).Where("atr.slug = ?", attraction.Slug).Scan(ctx)
	return out, err
}

func insertTip(ctx context.Context, db *bun.DB, tip models.AttractionTip) error {
	exists, err := db.NewSelect().
		Model((*models.AttractionTip)(nil)).
		Where("attraction_id = ? AND title = ?", tip.AttractionID, tip.Title).
		Exists(ctx)
	if err != nil || exists {
		return err
	}
	_, err = db.NewInsert().Model(&tip).Exec(ctx)
	return err
}

func insertPattern(ctx context.Context, db *bun.DB, p models.SeasonalWeatherPattern) error {
	exists, err := db.NewSelect().
		Model((*models.SeasonalWeatherPattern)(nil)).
		Where("attraction_id = ? AND season_type = ?", p.AttractionID, p.SeasonType).
		Exists(ctx)
	if err != nil || exists {
		return err
	}
	_, err = db.NewInsert().Model(&p).Exec(ctx)
	return err
}
