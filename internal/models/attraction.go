package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Attraction categories. "wildlife" and "national_park" are distinct values:
// a park is a managed area, wildlife covers reserves and migration corridors.
const (
	CategoryMountain     = "mountain"
	CategoryBeach        = "beach"
	CategoryWildlife     = "wildlife"
	CategoryCultural     = "cultural"
	CategoryHistorical   = "historical"
	CategoryAdventure    = "adventure"
	CategoryNationalPark = "national_park"
	CategoryIsland       = "island"
	CategoryWaterfall    = "waterfall"
	CategoryLake         = "lake"
	CategoryOther        = "other"
)

var Categories = []string{
	CategoryMountain, CategoryBeach, CategoryWildlife, CategoryCultural,
	CategoryHistorical, CategoryAdventure, CategoryNationalPark,
	CategoryIsland, CategoryWaterfall, CategoryLake, CategoryOther,
}

const (
	DifficultyEasy        = "easy"
	DifficultyModerate    = "moderate"
	DifficultyChallenging = "challenging"
	DifficultyDifficult   = "difficult"
)

var Difficulties = []string{
	DifficultyEasy, DifficultyModerate, DifficultyChallenging, DifficultyDifficult,
}

func ValidCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

func ValidDifficulty(d string) bool {
	for _, v := range Difficulties {
		if v == d {
			return true
		}
	}
	return false
}

type Attraction struct {
	bun.BaseModel `bun:"table:attractions,alias:atr"`

	ID                   uuid.UUID  `bun:",pk,type:uuid,default:uuid_generate_v4()" json:"id"`
	Name                 string     `json:"name"`
	Slug                 string     `json:"slug"`
	RegionID             uuid.UUID  `bun:"region_id,type:uuid" json:"-"`
	Category             string     `json:"category"`
	Description          string     `json:"description"`
	ShortDescription     string     `json:"short_description"`
	Latitude             float64    `json:"latitude"`
	Longitude            float64    `json:"longitude"`
	AltitudeM            *float64   `json:"altitude_m"`
	DifficultyLevel      string     `json:"difficulty_level"`
	AccessInfo           string     `json:"access_info"`
	NearestAirport       *string    `json:"nearest_airport"`
	AirportDistanceKM    *float64   `json:"airport_distance_km"`
	BestTimeToVisit      string     `json:"best_time_to_visit"`
	SeasonalAvailability string     `json:"seasonal_availability"`
	EstimatedDuration    string     `json:"estimated_duration"`
	EntranceFee          float64    `json:"entrance_fee"`
	RequiresGuide        bool       `json:"requires_guide"`
	RequiresPermit       bool       `json:"requires_permit"`
	IsFeatured           bool       `json:"is_featured"`
	IsActive             bool       `json:"is_active"`
	FeaturedImage        *string    `json:"featured_image"`
	CreatedBy            *uuid.UUID `bun:"created_by,type:uuid" json:"created_by,omitempty"`
	CreatedAt            time.Time  `bun:",nullzero,default:now()" json:"created_at"`
	UpdatedAt            time.Time  `bun:",nullzero,default:now()" json:"updated_at"`

	Region *Region            `bun:"rel:belongs-to,join:region_id=id" json:"region,omitempty"`
	Images []*AttractionImage `bun:"rel:has-many,join:id=attraction_id" json:"images,omitempty"`
	Tips   []*AttractionTip   `bun:"rel:has-many,join:id=attraction_id" json:"tips,omitempty"`
}

// MarshalJSON narrows the nested region to its summary shape so
// attraction payloads carry id, name and slug instead of the full row.
func (a Attraction) MarshalJSON() ([]byte, error) {
	type Alias Attraction
	return json.Marshal(struct {
		Alias
		Region *RegionSummary `json:"region,omitempty"`
	}{Alias: Alias(a), Region: a.Region.Summary()})
}

type AttractionTip struct {
	bun.BaseModel `bun:"table:attraction_tips,alias:tip"`

	ID           uuid.UUID  `bun:",pk,type:uuid,default:uuid_generate_v4()" json:"id"`
	AttractionID uuid.UUID  `bun:"attraction_id,type:uuid" json:"-"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	CreatedBy    *uuid.UUID `bun:"created_by,type:uuid" json:"created_by,omitempty"`
	CreatedAt    time.Time  `bun:",nullzero,default:now()" json:"created_at"`
}

type AttractionImage struct {
	bun.BaseModel `bun:"table:attraction_images,alias:img"`

	ID           uuid.UUID  `bun:",pk,type:uuid,default:uuid_generate_v4()" json:"id"`
	AttractionID uuid.UUID  `bun:"attraction_id,type:uuid" json:"-"`
	Image        string     `json:"image"`
	Caption      string     `json:"caption"`
	UploadedBy   *uuid.UUID `bun:"uploaded_by,type:uuid" json:"uploaded_by,omitempty"`
	CreatedAt    time.Time  `bun:",nullzero,default:now()" json:"created_at"`
}
