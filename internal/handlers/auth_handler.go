package handlers

import (
	"net/http"

	"github.com/rs/zerolog"

	"agritrade/internal/middleware"
	"agritrade/internal/models"
	"agritrade/internal/services"
)

type AuthHandler struct {
	authService        *services.AuthService
	allowAdminRegister bool
	logger             zerolog.Logger
}

func NewAuthHandler(authService *services.AuthService, allowAdminRegister bool, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		authService:        authService,
		allowAdminRegister: allowAdminRegister,
		logger:             logger,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.authService.Register(r.Context(), &req)
	if err != nil {
		h.logger.Warn().Err(err).Str("username", req.Username).Msg("Registration failed")
		writeError(w, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, resp)
}

func (h *AuthHandler) RegisterAdmin(w http.ResponseWriter, r *http.Request) {
	if !h.allowAdminRegister {
		respondWithError(w, http.StatusForbidden, "forbidden", "Admin self-registration is disabled")
		return
	}

	var req models.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.authService.RegisterAdmin(r.Context(), &req)
	if err != nil {
		h.logger.Warn().Err(err).Str("username", req.Username).Msg("Admin registration failed")
		writeError(w, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, resp)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, resp)
}

func (h *AuthHandler) Roles(w http.ResponseWriter, r *http.Request) {
	subject, ok := middleware.GetSubject(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized", "User not authenticated")
		return
	}

	resp, err := h.authService.Roles(r.Context(), subject)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, resp)
}
