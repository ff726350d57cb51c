package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"agritrade/internal/services"
)

const maxBodyBytes = 1 << 20

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Envelope is the success body used by the crop and admin endpoints.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Count   *int   `json:"count,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func withCount(n int) *int { return &n }

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, code int, errorCode, message string) {
	respondWithJSON(w, code, ErrorResponse{
		Success: false,
		Error:   errorCode,
		Message: message,
	})
}

// statusFor maps a service error to its HTTP status and error code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest, "validation_failed"
	case errors.Is(err, services.ErrUsernameTaken):
		return http.StatusBadRequest, "username_taken"
	case errors.Is(err, services.ErrEmailTaken):
		return http.StatusBadRequest, "email_taken"
	case errors.Is(err, services.ErrDuplicateIdentity):
		return http.StatusBadRequest, "duplicate_identity"
	case errors.Is(err, services.ErrAlreadyRegistered):
		return http.StatusBadRequest, "already_registered"
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid_credentials"
	case errors.Is(err, services.ErrWrongRole):
		return http.StatusUnauthorized, "wrong_role"
	case errors.Is(err, services.ErrUnauthorized),
		errors.Is(err, services.ErrTokenExpired),
		errors.Is(err, services.ErrTokenMalformed),
		errors.Is(err, services.ErrTokenSignature):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound, "not_found"
	}
	return http.StatusInternalServerError, "internal_error"
}

func writeError(w http.ResponseWriter, logger zerolog.Logger, err error) {
	code, errorCode := statusFor(err)
	if code == http.StatusInternalServerError {
		logger.Error().Err(err).Msg("Request failed")
	}
	respondWithError(w, code, errorCode, err.Error())
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		respondWithError(w, http.StatusBadRequest, "invalid_id", "Invalid "+name)
		return 0, false
	}
	return id, true
}
