package handlers

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"agritrade/internal/models"
	"agritrade/internal/services"
)

type FarmerHandler struct {
	farmerService *services.FarmerService
	logger        zerolog.Logger
}

func NewFarmerHandler(farmerService *services.FarmerService, logger zerolog.Logger) *FarmerHandler {
	return &FarmerHandler{
		farmerService: farmerService,
		logger:        logger,
	}
}

func (h *FarmerHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.FarmerRegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	farmer, err := h.farmerService.Register(r.Context(), &req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, farmer)
}

func (h *FarmerHandler) List(w http.ResponseWriter, r *http.Request) {
	farmers, err := h.farmerService.List(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, farmers)
}

func (h *FarmerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	farmer, err := h.farmerService.Get(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, farmer)
}

func (h *FarmerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req models.FarmerUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	farmer, err := h.farmerService.Update(r.Context(), id, &req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, farmer)
}

func (h *FarmerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.farmerService.Delete(r.Context(), id); err != nil {
		writeError(w, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, Envelope{
		Success: true,
		Message: fmt.Sprintf("Farmer with ID %d deleted successfully", id),
	})
}
