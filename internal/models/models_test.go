package models_test

import (
	"encoding/json"
	"testing"

	"tourism-api/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttractionMarshalNestsRegionSummary(t *testing.T) {
	region := &models.Region{
		ID:          uuid.New(),
		Name:        "Arusha",
		Slug:        "arusha",
		Description: "Northern safari circuit hub.",
		Latitude:    -3.3869,
		Longitude:   36.683,
	}
	attraction := models.Attraction{
		ID:     uuid.New(),
		Name:   "Serengeti National Park",
		Slug:   "serengeti",
		Region: region,
	}

	b, err := json.Marshal(attraction)
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(b, &payload))

	nested, ok := payload["region"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, region.ID.String(), nested["id"])
	assert.Equal(t, "Arusha", nested["name"])
	assert.Equal(t, "arusha", nested["slug"])
	assert.NotContains(t, nested, "description")
	assert.NotContains(t, nested, "latitude")
}

func TestAttractionMarshalOmitsMissingRegion(t *testing.T) {
	attraction := models.Attraction{ID: uuid.New(), Name: "Serengeti", Slug: "serengeti"}

	b, err := json.Marshal(attraction)
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(b, &payload))
	assert.NotContains(t, payload, "region")
}

func TestValidSeason(t *testing.T) {
	assert.True(t, models.ValidSeason(models.SeasonDry))
	assert.True(t, models.ValidSeason(models.SeasonShortRain))
	assert.True(t, models.ValidSeason(models.SeasonLongRain))
	assert.False(t, models.ValidSeason("monsoon"))
	assert.False(t, models.ValidSeason(""))
}
