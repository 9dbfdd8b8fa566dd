package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Region struct {
	bun.BaseModel `bun:"table:regions,alias:rgn"`

	ID          uuid.UUID  `bun:",pk,type:uuid,default:uuid_generate_v4()" json:"id"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Description string     `json:"description"`
	Image       *string    `json:"image"`
	Latitude    float64    `json:"latitude"`
	Longitude   float64    `json:"longitude"`
	CreatedAt   time.Time  `bun:",nullzero,default:now()" json:"created_at"`
	CreatedBy   *uuid.UUID `bun:"created_by,type:uuid" json:"created_by,omitempty"`

	// Computed at read time, not stored.
	AttractionCount int `bun:"attraction_count,scanonly" json:"attraction_count"`

	Attractions []*Attraction `bun:"rel:has-many,join:id=region_id" json:"attractions,omitempty"`
}

// RegionSummary is the nested shape embedded in attraction payloads.
type RegionSummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

func (r *Region) Summary() *RegionSummary {
	if r == nil {
		return nil
	}
	return &RegionSummary{ID: r.ID, Name: r.Name, Slug: r.Slug}
}
