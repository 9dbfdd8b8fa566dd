package handlers

import (
	"net/http"

	"tourism-api/internal/services"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type AttractionHandler struct {
	service AttractionService
	logr    *zap.Logger
}

func NewAttractionHandler(svc AttractionService, logr *zap.Logger) *AttractionHandler {
	return &AttractionHandler{service: svc, logr: logr}
}

func (h *AttractionHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	attractions, err := h.service.List(r.Context(), q.Get("search"), q.Get("ordering"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, attractions)
}

func (h *AttractionHandler) Featured(w http.ResponseWriter, r *http.Request) {
	attractions, err := h.service.Featured(r.Context())
	if err != nil {
		h.logr.Error("failed to fetch featured attractions", zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, attractions)
}

func (h *AttractionHandler) ByCategory(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category == "" {
		badRequest(w, "category parameter is required")
		return
	}

	attractions, err := h.service.ByCategory(r.Context(), category)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, attractions)
}

func (h *AttractionHandler) ByRegion(w http.ResponseWriter, r *http.Request) {
	regionSlug := r.URL.Query().Get("region")
	if regionSlug == "" {
		badRequest(w, "region parameter is required")
		return
	}

	attractions, err := h.service.ByRegion(r.Context(), regionSlug)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, attractions)
}

func (h *AttractionHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	attraction, err := h.service.GetBySlug(r.Context(), slug)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, attraction)
}

func (h *AttractionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.AttractionInput
	if !decodeBody(w, r, &in) {
		return
	}

	attraction, err := h.service.Create(r.Context(), in, callerID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, attraction)
}

func (h *AttractionHandler) Update(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	var in services.AttractionInput
	if !decodeBody(w, r, &in) {
		return
	}

	partial := r.Method == http.MethodPatch
	attraction, err := h.service.Update(r.Context(), slug, in, partial)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, attraction)
}

func (h *AttractionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if err := h.service.Delete(r.Context(), slug); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *AttractionHandler) CreateTip(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	var in services.TipInput
	if !decodeBody(w, r, &in) {
		return
	}

	tip, err := h.service.CreateTip(r.Context(), slug, in, callerID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tip)
}
