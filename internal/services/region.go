package services

import (
	"context"
	"database/sql"

	"tourism-api/internal/models"
	"tourism-api/internal/validate"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const activeAttractionCountExpr = "(SELECT count(*) FROM attractions a WHERE a.region_id = rgn.id AND a.is_active) AS attraction_count"

type RegionService struct {
	db *bun.DB
}

func NewRegionService(db *bun.DB) *RegionService {
	return &RegionService{db: db}
}

// RegionInput carries writable region fields. Pointers distinguish
// "absent" from "blank" so the same type serves POST, PUT and PATCH.
type RegionInput struct {
	Name        *string  `json:"name"`
	Slug        *string  `json:"slug"`
	Description *string  `json:"description"`
	Image       *string  `json:"image"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
}

func (in *RegionInput) validateInput(partial bool) *ValidationError {
	ve := NewValidationError()

	if !partial {
		if in.Name == nil {
			ve.Add("name", "This field is required.")
		}
		if in.Slug == nil {
			ve.Add("slug", "This field is required.")
		}
		if in.Description == nil {
			ve.Add("description", "This field is required.")
		}
		if in.Latitude == nil {
			ve.Add("latitude", "This field is required.")
		}
		if in.Longitude == nil {
			ve.Add("longitude", "This field is required.")
		}
	}

	if in.Name != nil {
		ve.Add("name", validate.Check(*in.Name, "required,max=200")...)
	}
	if in.Slug != nil {
		ve.Add("slug", validate.Check(*in.Slug, "required,slug,max=200")...)
	}
	if in.Description != nil {
		ve.Add("description", validate.Check(*in.Description, "required")...)
	}
	if in.Latitude != nil {
		ve.Add("latitude", validate.Check(*in.Latitude, "gte=-90,lte=90")...)
	}
	if in.Longitude != nil {
		ve.Add("longitude", validate.Check(*in.Longitude, "gte=-180,lte=180")...)
	}

	return ve
}

// listQuery builds the region listing with active attraction counts.
func (s *RegionService) listQuery(regions *[]models.Region) *bun.SelectQuery {
	return s.db.NewSelect().
		Model(regions).
		ColumnExpr("rgn.*").
		ColumnExpr(activeAttractionCountExpr).
		OrderExpr("rgn.name ASC")
}

// List returns all regions with their active attraction counts.
func (s *RegionService) List(ctx context.Context) ([]models.Region, error) {
	regions := make([]models.Region, 0)
	if err := s.listQuery(&regions).Scan(ctx); err != nil {
		return nil, err
	}
	return regions, nil
}

// GetBySlug returns one region with its active attraction summaries.
func (s *RegionService) GetBySlug(ctx context.Context, slug string) (*models.Region, error) {
	var region models.Region
	err := s.db.NewSelect().
		Model(&region).
		ColumnExpr("rgn.*").
		ColumnExpr(activeAttractionCountExpr).
		Relation("Attractions", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("is_active = TRUE").Order("name ASC")
		}).
		Where("rgn.slug = ?", slug).
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &region, nil
}

func (s *RegionService) Create(ctx context.Context, in RegionInput, createdBy *uuid.UUID) (*models.Region, error) {
	ve := in.validateInput(false)
	if ve.Empty() {
		taken, err := s.slugTaken(ctx, *in.Slug, nil)
		if err != nil {
			return nil, err
		}
		if taken {
			ve.Add("slug", "Region with this slug already exists.")
		}
	}
	if err := ve.Err(); err != nil {
		return nil, err
	}

	region := &models.Region{
		Name:        *in.Name,
		Slug:        *in.Slug,
		Description: *in.Description,
		Image:       in.Image,
		Latitude:    *in.Latitude,
		Longitude:   *in.Longitude,
		CreatedBy:   createdBy,
	}

	if _, err := s.db.NewInsert().Model(region).Returning("*").Exec(ctx); err != nil {
		return nil, err
	}
	return region, nil
}

// Update applies a full (PUT) or partial (PATCH) update to a region.
// The slug is immutable once attractions reference the region.
func (s *RegionService) Update(ctx context.Context, slug string, in RegionInput, partial bool) (*models.Region, error) {
	region, err := s.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	ve := in.validateInput(partial)
	if in.Slug != nil && *in.Slug != region.Slug {
		referenced, err := s.db.NewSelect().
			Model((*models.Attraction)(nil)).
			Where("region_id = ?", region.ID).
			Exists(ctx)
		if err != nil {
			return nil, err
		}
		if referenced {
			ve.Add("slug", "Slug cannot be changed while attractions reference this region.")
		} else if ve.Empty() {
			taken, err := s.slugTaken(ctx, *in.Slug, &region.ID)
			if err != nil {
				return nil, err
			}
			if taken {
				ve.Add("slug", "Region with this slug already exists.")
			}
		}
	}
	if err := ve.Err(); err != nil {
		return nil, err
	}

	if in.Name != nil {
		region.Name = *in.Name
	}
	if in.Slug != nil {
		region.Slug = *in.Slug
	}
	if in.Description != nil {
		region.Description = *in.Description
	}
	if in.Image != nil {
		region.Image = in.Image
	}
	if in.Latitude != nil {
		region.Latitude = *in.Latitude
	}
	if in.Longitude != nil {
		region.Longitude = *in.Longitude
	}

	if _, err := s.db.NewUpdate().Model(region).WherePK().Exec(ctx); err != nil {
		return nil, err
	}
	return region, nil
}

// Delete removes a region and cascades to its attractions and their
// children (tips, images, weather rows, seasonal patterns).
func (s *RegionService) Delete(ctx context.Context, slug string) error {
	var region models.Region
	err := s.db.NewSelect().Model(&region).Where("rgn.slug = ?", slug).Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		return err
	}

	var attractionIDs []uuid.UUID
	err = s.db.NewSelect().
		Model((*models.Attraction)(nil)).
		Column("id").
		Where("region_id = ?", region.ID).
		Scan(ctx, &attractionIDs)
	if err != nil {
		return err
	}

	if len(attractionIDs) > 0 {
		if err := deleteAttractionChildren(ctx, s.db, attractionIDs); err != nil {
			return err
		}
		if _, err := regionAttractionsDelete(s.db, region.ID).Exec(ctx); err != nil {
			return err
		}
	}

	_, err = s.db.NewDelete().Model(&region).WherePK().Exec(ctx)
	return err
}

func (s *RegionService) slugTaken(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error) {
	q := s.db.NewSelect().Model((*models.Region)(nil)).Where("slug = ?", slug)
	if excludeID != nil {
		q = q.Where("id != ?", *excludeID)
	}
	return q.Exists(ctx)
}

// regionAttractionsDelete builds the delete for a region's attractions.
func regionAttractionsDelete(db *bun.DB, regionID uuid.UUID) *bun.DeleteQuery {
	return db.NewDelete().
		Model((*models.Attraction)(nil)).
		Where("region_id = ?", regionID)
}

// attractionChildDeletes builds one delete per child table of the given
// attractions: tips, images, weather rows and seasonal patterns.
func attractionChildDeletes(db *bun.DB, attractionIDs []uuid.UUID) []*bun.DeleteQuery {
	childModels := []any{
		(*models.AttractionTip)(nil),
		(*models.AttractionImage)(nil),
		(*models.WeatherCache)(nil),
		(*models.SeasonalWeatherPattern)(nil),
	}
	queries := make([]*bun.DeleteQuery, 0, len(childModels))
	for _, m := range childModels {
		queries = append(queries, db.NewDelete().
			Model(m).
			Where("attraction_id IN (?)", bun.In(attractionIDs)))
	}
	return queries
}

// deleteAttractionChildren removes all child rows for the given attractions.
func deleteAttractionChildren(ctx context.Context, db *bun.DB, attractionIDs []uuid.UUID) error {
	if len(attractionIDs) == 0 {
		return nil
	}
	for _, q := range attractionChildDeletes(db, attractionIDs) {
		if _, err := q.Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}
