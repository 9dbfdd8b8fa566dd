package handlers

import (
	"net/http"

	"tourism-api/internal/middleware"
	"tourism-api/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type RegionHandler struct {
	service RegionService
	logr    *zap.Logger
}

func NewRegionHandler(svc RegionService, logr *zap.Logger) *RegionHandler {
	return &RegionHandler{service: svc, logr: logr}
}

func (h *RegionHandler) List(w http.ResponseWriter, r *http.Request) {
	regions, err := h.service.List(r.Context())
	if err != nil {
		h.logr.Error("failed to list regions", zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, regions)
}

func (h *RegionHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	region, err := h.service.GetBySlug(r.Context(), slug)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, region)
}

func (h *RegionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.RegionInput
	if !decodeBody(w, r, &in) {
		return
	}

	region, err := h.service.Create(r.Context(), in, callerID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, region)
}

func (h *RegionHandler) Update(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	var in services.RegionInput
	if !decodeBody(w, r, &in) {
		return
	}

	partial := r.Method == http.MethodPatch
	region, err := h.service.Update(r.Context(), slug, in, partial)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, region)
}

func (h *RegionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if err := h.service.Delete(r.Context(), slug); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// callerID pulls the authenticated user id out of the request context.
// Nil on public routes.
func callerID(r *http.Request) *uuid.UUID {
	id, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		return nil
	}
	return &id
}
