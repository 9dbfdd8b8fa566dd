package weather

// Current holds normalized current conditions for one location.
// Numeric fields are pointers because the provider may omit any of them.
type Current struct {
	Temperature         *float64 `json:"temperature"`
	ApparentTemperature *float64 `json:"apparent_temperature"`
	Humidity            *int     `json:"humidity"`
	Precipitation       *float64 `json:"precipitation"`
	Rain                *float64 `json:"rain"`
	WeatherCode         *int     `json:"weather_code"`
	WeatherDescription  string   `json:"weather_description"`
	CloudCover          *int     `json:"cloud_cover"`
	WindSpeed           *float64 `json:"wind_speed"`
	Timestamp           string   `json:"timestamp"`
}

// Forecast holds index-aligned daily arrays: Dates[i] corresponds to
// TemperatureMax[i] and so on.
type Forecast struct {
	Dates          []string  `json:"dates"`
	TemperatureMax []float64 `json:"temperature_max"`
	TemperatureMin []float64 `json:"temperature_min"`
	Precipitation  []float64 `json:"precipitation"`
	Rain           []float64 `json:"rain"`
	WeatherCodes   []int     `json:"weather_codes"`
}
