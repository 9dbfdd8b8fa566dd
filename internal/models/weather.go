package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// WeatherCache is the persisted "last known" weather record, one per
// attraction. It is overwritten by the refresh job and never expires on
// its own; the ephemeral Redis cache is a separate mechanism.
type WeatherCache struct {
	bun.BaseModel `bun:"table:weather_caches,alias:wc"`

	ID           uuid.UUID `bun:",pk,type:uuid,default:uuid_generate_v4()" json:"id"`
	AttractionID uuid.UUID `bun:"attraction_id,type:uuid" json:"-"`

	Temperature         *float64 `json:"temperature"`
	ApparentTemperature *float64 `json:"apparent_temperature"`
	Precipitation       *float64 `json:"precipitation"`
	Rain                *float64 `json:"rain"`
	WeatherCode         *int     `json:"weather_code"`
	CloudCover          *int     `json:"cloud_cover"`
	WindSpeed           *float64 `json:"wind_speed"`
	Humidity            *int     `json:"humidity"`

	// Monthly aggregates keyed by month number ("1".."12").
	MonthlyTemperature   map[string]float64 `bun:"monthly_temperature,type:jsonb" json:"monthly_temperature,omitempty"`
	MonthlyPrecipitation map[string]float64 `bun:"monthly_precipitation,type:jsonb" json:"monthly_precipitation,omitempty"`

	LastUpdated time.Time `bun:",nullzero,default:now()" json:"last_updated"`

	Attraction *Attraction `bun:"rel:belongs-to,join:attraction_id=id" json:"-"`

	// Convenience field for list payloads.
	AttractionName string `bun:"attraction_name,scanonly" json:"attraction_name,omitempty"`
}

const (
	SeasonDry       = "dry"
	SeasonShortRain = "short_rain"
	SeasonLongRain  = "long_rain"
)

var seasonDisplay = map[string]string{
	SeasonDry:       "Dry Season",
	SeasonShortRain: "Short Rain Season",
	SeasonLongRain:  "Long Rain Season",
}

func ValidSeason(s string) bool {
	_, ok := seasonDisplay[s]
	return ok
}

// SeasonalWeatherPattern rows are manually curated, not fetched from the
// weather provider.
type SeasonalWeatherPattern struct {
	bun.BaseModel `bun:"table:seasonal_weather_patterns,alias:swp"`

	ID             uuid.UUID `bun:",pk,type:uuid,default:uuid_generate_v4()" json:"id"`
	AttractionID   uuid.UUID `bun:"attraction_id,type:uuid" json:"-"`
	SeasonType     string    `json:"season_type"`
	StartMonth     int       `json:"start_month"`
	EndMonth       int       `json:"end_month"`
	AvgTemperature float64   `json:"avg_temperature"`
	AvgRainfall    float64   `json:"avg_rainfall"`
	Description    string    `json:"description"`
}

// SeasonDisplay returns the human label for the season type.
func (p *SeasonalWeatherPattern) SeasonDisplay() string {
	if d, ok := seasonDisplay[p.SeasonType]; ok {
		return d
	}
	return p.SeasonType
}

// MarshalJSON adds the derived season_display label.
func (p SeasonalWeatherPattern) MarshalJSON() ([]byte, error) {
	type Alias SeasonalWeatherPattern
	return json.Marshal(struct {
		Alias
		SeasonDisplay string `json:"season_display"`
	}{Alias: (Alias)(p), SeasonDisplay: p.SeasonDisplay()})
}
