package handlers

import (
	"net/http"
	"strconv"

	"tourism-api/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultForecastDays = 7

type WeatherHandler struct {
	service WeatherService
	logr    *zap.Logger
}

func NewWeatherHandler(svc WeatherService, logr *zap.Logger) *WeatherHandler {
	return &WeatherHandler{service: svc, logr: logr}
}

// weatherQuery builds the lookup from query params. Returns false after
// writing a 400 when a coordinate is present but not numeric.
func (h *WeatherHandler) weatherQuery(w http.ResponseWriter, r *http.Request) (services.WeatherQuery, bool) {
	q := r.URL.Query()
	query := services.WeatherQuery{AttractionSlug: q.Get("attraction")}

	if raw := q.Get("lat"); raw != "" {
		lat, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			badRequest(w, "invalid lat")
			return query, false
		}
		query.Lat = &lat
	}
	if raw := q.Get("lon"); raw != "" {
		lon, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			badRequest(w, "invalid lon")
			return query, false
		}
		query.Lon = &lon
	}
	return query, true
}

func (h *WeatherHandler) Current(w http.ResponseWriter, r *http.Request) {
	query, ok := h.weatherQuery(w, r)
	if !ok {
		return
	}

	current, err := h.service.Current(r.Context(), query)
	if err != nil {
		h.logr.Warn("current weather lookup failed", zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, current)
}

func (h *WeatherHandler) Forecast(w http.ResponseWriter, r *http.Request) {
	query, ok := h.weatherQuery(w, r)
	if !ok {
		return
	}

	days := defaultForecastDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			badRequest(w, "invalid days")
			return
		}
		days = n
	}

	forecast, err := h.service.Forecast(r.Context(), query, days)
	if err != nil {
		h.logr.Warn("forecast lookup failed", zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, forecast)
}

func (h *WeatherHandler) Seasonal(w http.ResponseWriter, r *http.Request) {
	slug := r.URL.Query().Get("attraction")
	if slug == "" {
		badRequest(w, "attraction parameter is required")
		return
	}

	patterns, err := h.service.Seasonal(r.Context(), slug)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, patterns)
}

func (h *WeatherHandler) ListCached(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.ListCached(r.Context())
	if err != nil {
		h.logr.Error("failed to list weather cache", zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *WeatherHandler) GetCached(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Not found"})
		return
	}

	row, err := h.service.GetCached(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, row)
}
