package handlers

import (
	"net/http"

	"tourism-api/internal/middleware"
	"tourism-api/internal/services"

	"go.uber.org/zap"
)

type AuthHandler struct {
	service AuthService
	logr    *zap.Logger
}

func NewAuthHandler(svc AuthService, logr *zap.Logger) *AuthHandler {
	return &AuthHandler{service: svc, logr: logr}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var in services.RegisterInput
	if !decodeBody(w, r, &in) {
		return
	}

	user, err := h.service.Register(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	pair, user, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.logr.Warn("login failed", zap.String("username", req.Username))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"access":  pair.AccessToken,
		"refresh": pair.RefreshToken,
		"user":    user,
	})
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if !decodeBody(w, r, &req) {
		return
	}

	pair, err := h.service.Refresh(r.Context(), req.Refresh)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"access":  pair.AccessToken,
		"refresh": pair.RefreshToken,
	})
}

func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}

	user, err := h.service.Profile(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}

	var in services.ProfileInput
	if !decodeBody(w, r, &in) {
		return
	}

	partial := r.Method == http.MethodPatch
	user, err := h.service.UpdateProfile(r.Context(), userID, in, partial)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
