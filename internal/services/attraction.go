package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"tourism-api/internal/cache"
	"tourism-api/internal/models"
	"tourism-api/internal/utils"
	"tourism-api/internal/validate"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

const featuredCacheKey = "attractions:featured"

const featuredLimit = 6

// attractionOrderColumns maps the JSON field names accepted by the
// `ordering` query parameter to SQL columns. Unknown fields fail loudly
// with a validation error instead of being silently ignored.
var attractionOrderColumns = map[string]string{
	"name":                "atr.name",
	"slug":                "atr.slug",
	"category":            "atr.category",
	"entrance_fee":        "atr.entrance_fee",
	"difficulty_level":    "atr.difficulty_level",
	"latitude":            "atr.latitude",
	"longitude":           "atr.longitude",
	"altitude_m":          "atr.altitude_m",
	"airport_distance_km": "atr.airport_distance_km",
	"is_featured":         "atr.is_featured",
	"created_at":          "atr.created_at",
	"updated_at":          "atr.updated_at",
	"region":              "region.name",
}

type AttractionService struct {
	db          *bun.DB
	cache       cache.Store
	featuredTTL time.Duration
	logr        *zap.Logger
}

func NewAttractionService(db *bun.DB, store cache.Store, featuredTTL time.Duration, logr *zap.Logger) *AttractionService {
	return &AttractionService{db: db, cache: store, featuredTTL: featuredTTL, logr: logr}
}

// AttractionInput carries writable attraction fields; Region is the
// owning region's slug.
type AttractionInput struct {
	Name                 *string  `json:"name"`
	Slug                 *string  `json:"slug"`
	Region               *string  `json:"region"`
	Category             *string  `json:"category"`
	Description          *string  `json:"description"`
	ShortDescription     *string  `json:"short_description"`
	Latitude             *float64 `json:"latitude"`
	Longitude            *float64 `json:"longitude"`
	AltitudeM            *float64 `json:"altitude_m"`
	DifficultyLevel      *string  `json:"difficulty_level"`
	AccessInfo           *string  `json:"access_info"`
	NearestAirport       *string  `json:"nearest_airport"`
	AirportDistanceKM    *float64 `json:"airport_distance_km"`
	BestTimeToVisit      *string  `json:"best_time_to_visit"`
	SeasonalAvailability *string  `json:"seasonal_availability"`
	EstimatedDuration    *string  `json:"estimated_duration"`
	EntranceFee          *float64 `json:"entrance_fee"`
	RequiresGuide        *bool    `json:"requires_guide"`
	RequiresPermit       *bool    `json:"requires_permit"`
	IsFeatured           *bool    `json:"is_featured"`
	IsActive             *bool    `json:"is_active"`
	FeaturedImage        *string  `json:"featured_image"`
}

func (in *AttractionInput) validateInput(partial bool) *ValidationError {
	ve := NewValidationError()

	if !partial {
		required := []struct {
			name    string
			present bool
		}{
			{"name", in.Name != nil},
			{"slug", in.Slug != nil},
			{"region", in.Region != nil},
			{"category", in.Category != nil},
			{"description", in.Description != nil},
			{"short_description", in.ShortDescription != nil},
			{"latitude", in.Latitude != nil},
			{"longitude", in.Longitude != nil},
			{"difficulty_level", in.DifficultyLevel != nil},
			{"access_info", in.AccessInfo != nil},
			{"best_time_to_visit", in.BestTimeToVisit != nil},
			{"seasonal_availability", in.SeasonalAvailability != nil},
			{"estimated_duration", in.EstimatedDuration != nil},
		}
		for _, f := range required {
			if !f.present {
				ve.Add(f.name, "This field is required.")
			}
		}
	}

	if in.Name != nil {
		ve.Add("name", validate.Check(*in.Name, "required,max=200")...)
	}
	if in.Slug != nil {
		ve.Add("slug", validate.Check(*in.Slug, "required,slug,max=200")...)
	}
	if in.Category != nil && !models.ValidCategory(*in.Category) {
		ve.Add("category", "\""+*in.Category+"\" is not a valid choice.")
	}
	if in.DifficultyLevel != nil && !models.ValidDifficulty(*in.DifficultyLevel) {
		ve.Add("difficulty_level", "\""+*in.DifficultyLevel+"\" is not a valid choice.")
	}
	if in.Description != nil {
		ve.Add("description", validate.Check(*in.Description, "required")...)
	}
	if in.ShortDescription != nil {
		ve.Add("short_description", validate.Check(*in.ShortDescription, "required,max=300")...)
	}
	if in.Latitude != nil {
		ve.Add("latitude", validate.Check(*in.Latitude, "gte=-90,lte=90")...)
	}
	if in.Longitude != nil {
		ve.Add("longitude", validate.Check(*in.Longitude, "gte=-180,lte=180")...)
	}
	if in.EntranceFee != nil {
		ve.Add("entrance_fee", validate.Check(*in.EntranceFee, "gte=0")...)
	}
	if in.AirportDistanceKM != nil {
		ve.Add("airport_distance_km", validate.Check(*in.AirportDistanceKM, "gte=0")...)
	}

	return ve
}

// listQuery builds the active-only listing with the optional search
// union over name, description, short description and region name.
func (s *AttractionService) listQuery(attractions *[]models.Attraction, search string) *bun.SelectQuery {
	q := s.db.NewSelect().
		Model(attractions).
		Relation("Region").
		Where("atr.is_active = TRUE")

	if search != "" {
		pattern := "%" + strings.TrimSpace(search) + "%"
		q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				WhereOr("atr.name ILIKE ?", pattern).
				WhereOr("atr.description ILIKE ?", pattern).
				WhereOr("atr.short_description ILIKE ?", pattern).
				WhereOr("region.name ILIKE ?", pattern)
		})
	}
	return q
}

// List returns active attractions, optionally filtered by a free-text
// search and ordered by a caller-chosen field.
func (s *AttractionService) List(ctx context.Context, search, ordering string) ([]models.Attraction, error) {
	attractions := make([]models.Attraction, 0)
	q := s.listQuery(&attractions, search)

	if ordering != "" {
		expr, err := orderExpr(ordering)
		if err != nil {
			return nil, err
		}
		q = q.OrderExpr(expr)
	} else {
		q = q.OrderExpr("atr.name ASC")
	}

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	return attractions, nil
}

// orderExpr resolves an ordering parameter to a SQL order expression.
func orderExpr(ordering string) (string, error) {
	field, desc := utils.ParseOrdering(ordering)
	col, ok := attractionOrderColumns[field]
	if !ok {
		ve := NewValidationError()
		ve.Add("ordering", "\""+field+"\" is not a valid ordering field.")
		return "", ve
	}
	if desc {
		return col + " DESC", nil
	}
	return col + " ASC", nil
}

// detailQuery builds the single-attraction lookup with its relations.
// No active filter: inactive attractions are still served by slug.
func (s *AttractionService) detailQuery(attraction *models.Attraction, slug string) *bun.SelectQuery {
	return s.db.NewSelect().
		Model(attraction).
		Relation("Region").
		Relation("Images", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("created_at ASC")
		}).
		Relation("Tips", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("created_at DESC")
		}).
		Where("atr.slug = ?", slug)
}

// GetBySlug returns one attraction with its region, images and tips.
// Inactive attractions are still served here; only listings filter them.
func (s *AttractionService) GetBySlug(ctx context.Context, slug string) (*models.Attraction, error) {
	var attraction models.Attraction
	err := s.detailQuery(&attraction, slug).Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &attraction, nil
}

// AttractionBySlug is the bare lookup used by the weather adapter: no
// relations, no active filter.
func (s *AttractionService) AttractionBySlug(ctx context.Context, slug string) (*models.Attraction, error) {
	var attraction models.Attraction
	err := s.db.NewSelect().Model(&attraction).Where("atr.slug = ?", slug).Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &attraction, nil
}

// featuredFromCache tries the cached featured listing. Cache failures
// degrade to a miss so callers fall through to the database.
func (s *AttractionService) featuredFromCache(ctx context.Context) ([]models.Attraction, bool) {
	b, err := s.cache.Get(ctx, featuredCacheKey)
	if err != nil {
		if err != cache.ErrMiss {
			s.logr.Warn("featured cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var cached []models.Attraction
	if err := json.Unmarshal(b, &cached); err != nil {
		s.logr.Warn("discarding malformed featured cache entry", zap.Error(err))
		return nil, false
	}
	return cached, true
}

// featuredQuery builds the featured listing: active, featured, capped.
func (s *AttractionService) featuredQuery(attractions *[]models.Attraction) *bun.SelectQuery {
	return s.db.NewSelect().
		Model(attractions).
		Relation("Region").
		Where("atr.is_active = TRUE").
		Where("atr.is_featured = TRUE").
		OrderExpr("atr.name ASC").
		Limit(featuredLimit)
}

// Featured returns up to 6 featured active attractions, cached for the
// configured window. Stale reads are tolerated; cache failures fall
// through to the database.
func (s *AttractionService) Featured(ctx context.Context) ([]models.Attraction, error) {
	if cached, ok := s.featuredFromCache(ctx); ok {
		return cached, nil
	}

	attractions := make([]models.Attraction, 0, featuredLimit)
	if err := s.featuredQuery(&attractions).Scan(ctx); err != nil {
		return nil, err
	}

	if b, err := json.Marshal(attractions); err == nil {
		if err := s.cache.Set(ctx, featuredCacheKey, b, s.featuredTTL); err != nil {
			s.logr.Warn("featured cache write failed", zap.Error(err))
		}
	}
	return attractions, nil
}

// ByCategory returns active attractions in the given category. Category
// is an open filter: an unknown value yields an empty list, not a 404.
func (s *AttractionService) ByCategory(ctx context.Context, category string) ([]models.Attraction, error) {
	attractions := make([]models.Attraction, 0)
	if err := s.categoryQuery(&attractions, category).Scan(ctx); err != nil {
		return nil, err
	}
	return attractions, nil
}

func (s *AttractionService) categoryQuery(attractions *[]models.Attraction, category string) *bun.SelectQuery {
	return s.db.NewSelect().
		Model(attractions).
		Relation("Region").
		Where("atr.is_active = TRUE").
		Where("atr.category = ?", category).
		OrderExpr("atr.name ASC")
}

// ByRegion returns active attractions in the region with the given slug.
// Like ByCategory this is a filter: unknown slugs yield an empty list.
func (s *AttractionService) ByRegion(ctx context.Context, regionSlug string) ([]models.Attraction, error) {
	attractions := make([]models.Attraction, 0)
	if err := s.regionFilterQuery(&attractions, regionSlug).Scan(ctx); err != nil {
		return nil, err
	}
	return attractions, nil
}

func (s *AttractionService) regionFilterQuery(attractions *[]models.Attraction, regionSlug string) *bun.SelectQuery {
	return s.db.NewSelect().
		Model(attractions).
		Relation("Region").
		Where("atr.is_active = TRUE").
		Where("region.slug = ?", regionSlug).
		OrderExpr("atr.name ASC")
}

func (s *AttractionService) Create(ctx context.Context, in AttractionInput, createdBy *uuid.UUID) (*models.Attraction, error) {
	ve := in.validateInput(false)

	var region *models.Region
	if in.Region != nil && ve.Empty() {
		var err error
		region, err = s.resolveRegion(ctx, *in.Region, ve)
		if err != nil {
			return nil, err
		}
	}
	if ve.Empty() && in.Slug != nil {
		taken, err := s.slugTaken(ctx, *in.Slug, nil)
		if err != nil {
			return nil, err
		}
		if taken {
			ve.Add("slug", "Attraction with this slug already exists.")
		}
	}
	if err := ve.Err(); err != nil {
		return nil, err
	}

	attraction := &models.Attraction{
		Name:                 *in.Name,
		Slug:                 *in.Slug,
		RegionID:             region.ID,
		Category:             *in.Category,
		Description:          *in.Description,
		ShortDescription:     *in.ShortDescription,
		Latitude:             *in.Latitude,
		Longitude:            *in.Longitude,
		AltitudeM:            in.AltitudeM,
		DifficultyLevel:      *in.DifficultyLevel,
		AccessInfo:           *in.AccessInfo,
		NearestAirport:       in.NearestAirport,
		AirportDistanceKM:    in.AirportDistanceKM,
		BestTimeToVisit:      *in.BestTimeToVisit,
		SeasonalAvailability: *in.SeasonalAvailability,
		EstimatedDuration:    *in.EstimatedDuration,
		FeaturedImage:        in.FeaturedImage,
		CreatedBy:            createdBy,
		IsActive:             true,
	}
	if in.EntranceFee != nil {
		attraction.EntranceFee = *in.EntranceFee
	}
	if in.RequiresGuide != nil {
		attraction.RequiresGuide = *in.RequiresGuide
	}
	if in.RequiresPermit != nil {
		attraction.RequiresPermit = *in.RequiresPermit
	}
	if in.IsFeatured != nil {
		attraction.IsFeatured = *in.IsFeatured
	}
	if in.IsActive != nil {
		attraction.IsActive = *in.IsActive
	}

	if _, err := s.db.NewInsert().Model(attraction).Returning("*").Exec(ctx); err != nil {
		return nil, err
	}
	attraction.Region = region
	return attraction, nil
}

// Update applies a full (PUT) or partial (PATCH) update.
func (s *AttractionService) Update(ctx context.Context, slug string, in AttractionInput, partial bool) (*models.Attraction, error) {
	attraction, err := s.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	ve := in.validateInput(partial)

	var region *models.Region
	if in.Region != nil && ve.Empty() {
		region, err = s.resolveRegion(ctx, *in.Region, ve)
		if err != nil {
			return nil, err
		}
	}
	if in.Slug != nil && *in.Slug != attraction.Slug && ve.Empty() {
		taken, err := s.slugTaken(ctx, *in.Slug, &attraction.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			ve.Add("slug", "Attraction with this slug already exists.")
		}
	}
	if err := ve.Err(); err != nil {
		return nil, err
	}

	if in.Name != nil {
		attraction.Name = *in.Name
	}
	if in.Slug != nil {
		attraction.Slug = *in.Slug
	}
	if region != nil {
		attraction.RegionID = region.ID
		attraction.Region = region
	}
	if in.Category != nil {
		attraction.Category = *in.Category
	}
	if in.Description != nil {
		attraction.Description = *in.Description
	}
	if in.ShortDescription != nil {
		attraction.ShortDescription = *in.ShortDescription
	}
	if in.Latitude != nil {
		attraction.Latitude = *in.Latitude
	}
	if in.Longitude != nil {
		attraction.Longitude = *in.Longitude
	}
	if in.AltitudeM != nil {
		attraction.AltitudeM = in.AltitudeM
	}
	if in.DifficultyLevel != nil {
		attraction.DifficultyLevel = *in.DifficultyLevel
	}
	if in.AccessInfo != nil {
		attraction.AccessInfo = *in.AccessInfo
	}
	if in.NearestAirport != nil {
		attraction.NearestAirport = in.NearestAirport
	}
	if in.AirportDistanceKM != nil {
		attraction.AirportDistanceKM = in.AirportDistanceKM
	}
	if in.BestTimeToVisit != nil {
		attraction.BestTimeToVisit = *in.BestTimeToVisit
	}
	if in.SeasonalAvailability != nil {
		attraction.SeasonalAvailability = *in.SeasonalAvailability
	}
	if in.EstimatedDuration != nil {
		attraction.EstimatedDuration = *in.EstimatedDuration
	}
	if in.EntranceFee != nil {
		attraction.EntranceFee = *in.EntranceFee
	}
	if in.RequiresGuide != nil {
		attraction.RequiresGuide = *in.RequiresGuide
	}
	if in.RequiresPermit != nil {
		attraction.RequiresPermit = *in.RequiresPermit
	}
	if in.IsFeatured != nil {
		attraction.IsFeatured = *in.IsFeatured
	}
	if in.IsActive != nil {
		attraction.IsActive = *in.IsActive
	}
	if in.FeaturedImage != nil {
		attraction.FeaturedImage = in.FeaturedImage
	}
	attraction.UpdatedAt = time.Now().UTC()

	if _, err := s.db.NewUpdate().Model(attraction).WherePK().Exec(ctx); err != nil {
		return nil, err
	}
	return attraction, nil
}

// Delete removes an attraction and its child rows. Deletion is immediate
// and irrecoverable; is_active is a visibility flag, not a soft delete.
func (s *AttractionService) Delete(ctx context.Context, slug string) error {
	var attraction models.Attraction
	err := s.db.NewSelect().Model(&attraction).Where("atr.slug = ?", slug).Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		return err
	}

	if err := deleteAttractionChildren(ctx, s.db, []uuid.UUID{attraction.ID}); err != nil {
		return err
	}
	_, err = s.db.NewDelete().Model(&attraction).WherePK().Exec(ctx)
	return err
}

// TipInput carries writable tip fields.
type TipInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// CreateTip adds a visitor tip to the attraction with the given slug.
func (s *AttractionService) CreateTip(ctx context.Context, slug string, in TipInput, createdBy *uuid.UUID) (*models.AttractionTip, error) {
	ve := NewValidationError()
	ve.Add("title", validate.Check(in.Title, "required,max=200")...)
	ve.Add("description", validate.Check(in.Description, "required")...)
	if err := ve.Err(); err != nil {
		return nil, err
	}

	attraction, err := s.AttractionBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	tip := &models.AttractionTip{
		AttractionID: attraction.ID,
		Title:        in.Title,
		Description:  in.Description,
		CreatedBy:    createdBy,
	}
	if _, err := s.db.NewInsert().Model(tip).Returning("*").Exec(ctx); err != nil {
		return nil, err
	}
	return tip, nil
}

func (s *AttractionService) resolveRegion(ctx context.Context, regionSlug string, ve *ValidationError) (*models.Region, error) {
	var region models.Region
	err := s.db.NewSelect().Model(&region).Where("rgn.slug = ?", regionSlug).Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			ve.Add("region", "Region with slug \""+regionSlug+"\" does not exist.")
			return nil, nil
		}
		return nil, err
	}
	return &region, nil
}

func (s *AttractionService) slugTaken(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error) {
	q := s.db.NewSelect().Model((*models.Attraction)(nil)).Where("slug = ?", slug)
	if excludeID != nil {
		q = q.Where("id != ?", *excludeID)
	}
	return q.Exists(ctx)
}
