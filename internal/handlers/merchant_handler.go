package handlers

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"agritrade/internal/models"
	"agritrade/internal/services"
)

type MerchantHandler struct {
	merchantService *services.MerchantService
	logger          zerolog.Logger
}

func NewMerchantHandler(merchantService *services.MerchantService, logger zerolog.Logger) *MerchantHandler {
	return &MerchantHandler{
		merchantService: merchantService,
		logger:          logger,
	}
}

func (h *MerchantHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.MerchantRegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	merchant, err := h.merchantService.Register(r.Context(), &req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, merchant)
}

func (h *MerchantHandler) List(w http.ResponseWriter, r *http.Request) {
	merchants, err := h.merchantService.List(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, merchants)
}

func (h *MerchantHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	merchant, err := h.merchantService.Get(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, merchant)
}

func (h *MerchantHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req models.MerchantUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	merchant, err := h.merchantService.Update(r.Context(), id, &req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, merchant)
}

func (h *MerchantHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.merchantService.Delete(r.Context(), id); err != nil {
		writeError(w, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, Envelope{
		Success: true,
		Message: fmt.Sprintf("Merchant with ID %d deleted successfully", id),
	})
}
