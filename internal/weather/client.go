package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const httpTimeout = 10 * time.Second

// MaxForecastDays is the provider's stated forecast limit.
const MaxForecastDays = 16

// Client fetches current conditions and daily forecasts from an
// Open-Meteo-compatible endpoint.
type Client struct {
	baseURL  string
	timezone string
	client   *http.Client
}

// NewClient constructs a Client with a 10-second request timeout.
// Timestamps in responses are local to the given timezone.
func NewClient(baseURL, timezone string) *Client {
	return &Client{
		baseURL:  baseURL,
		timezone: timezone,
		client:   &http.Client{Timeout: httpTimeout},
	}
}

// doGet performs a GET request and decodes the JSON response into dst.
func (c *Client) doGet(ctx context.Context, rawURL string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("creating request for %s: %w", rawURL, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("GET %s returned status %d", rawURL, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decoding response from %s: %w", rawURL, err)
	}

	return nil
}

type currentResponse struct {
	Current struct {
		Time                string   `json:"time"`
		Temperature         *float64 `json:"temperature_2m"`
		Humidity            *int     `json:"relative_humidity_2m"`
		ApparentTemperature *float64 `json:"apparent_temperature"`
		Precipitation       *float64 `json:"precipitation"`
		Rain                *float64 `json:"rain"`
		WeatherCode         *int     `json:"weather_code"`
		CloudCover          *int     `json:"cloud_cover"`
		WindSpeed           *float64 `json:"wind_speed_10m"`
	} `json:"current"`
}

// Current retrieves current conditions for the given coordinates and
// normalizes the provider field names.
func (c *Client) Current(ctx context.Context, lat, lon float64) (*Current, error) {
	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("current", "temperature_2m,relative_humidity_2m,apparent_temperature,precipitation,rain,weather_code,cloud_cover,wind_speed_10m")
	params.Set("timezone", c.timezone)

	var raw currentResponse
	if err := c.doGet(ctx, c.baseURL+"?"+params.Encode(), &raw); err != nil {
		return nil, err
	}

	cur := raw.Current
	description := "Unknown"
	if cur.WeatherCode != nil {
		description = CodeDescription(*cur.WeatherCode)
	}

	return &Current{
		Temperature:         cur.Temperature,
		ApparentTemperature: cur.ApparentTemperature,
		Humidity:            cur.Humidity,
		Precipitation:       cur.Precipitation,
		Rain:                cur.Rain,
		WeatherCode:         cur.WeatherCode,
		WeatherDescription:  description,
		CloudCover:          cur.CloudCover,
		WindSpeed:           cur.WindSpeed,
		Timestamp:           cur.Time,
	}, nil
}

type forecastResponse struct {
	Daily struct {
		Time           []string  `json:"time"`
		TemperatureMax []float64 `json:"temperature_2m_max"`
		TemperatureMin []float64 `json:"temperature_2m_min"`
		Precipitation  []float64 `json:"precipitation_sum"`
		Rain           []float64 `json:"rain_sum"`
		WeatherCode    []int     `json:"weather_code"`
	} `json:"daily"`
}

// Forecast retrieves a daily forecast for the given coordinates.
func (c *Client) Forecast(ctx context.Context, lat, lon float64, days int) (*Forecast, error) {
	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("daily", "temperature_2m_max,temperature_2m_min,precipitation_sum,rain_sum,weather_code")
	params.Set("timezone", c.timezone)
	params.Set("forecast_days", strconv.Itoa(days))

	var raw forecastResponse
	if err := c.doGet(ctx, c.baseURL+"?"+params.Encode(), &raw); err != nil {
		return nil, err
	}

	return &Forecast{
		Dates:          raw.Daily.Time,
		TemperatureMax: raw.Daily.TemperatureMax,
		TemperatureMin: raw.Daily.TemperatureMin,
		Precipitation:  raw.Daily.Precipitation,
		Rain:           raw.Daily.Rain,
		WeatherCodes:   raw.Daily.WeatherCode,
	}, nil
}
