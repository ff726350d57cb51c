package handlers

import (
	"net/http"

	"github.com/rs/zerolog"

	"agritrade/internal/models"
	"agritrade/internal/services"
)

type CropHandler struct {
	cropService *services.CropService
	logger      zerolog.Logger
}

func NewCropHandler(cropService *services.CropService, logger zerolog.Logger) *CropHandler {
	return &CropHandler{
		cropService: cropService,
		logger:      logger,
	}
}

func (h *CropHandler) Add(w http.ResponseWriter, r *http.Request) {
	farmerID, ok := pathID(w, r, "farmerId")
	if !ok {
		return
	}

	var req models.CropCreateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	crop, err := h.cropService.Add(r.Context(), farmerID, &req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, Envelope{Success: true, Message: "Crop added successfully", Data: crop})
}

func (h *CropHandler) ListByFarmer(w http.ResponseWriter, r *http.Request) {
	farmerID, ok := pathID(w, r, "farmerId")
	if !ok {
		return
	}

	crops, err := h.cropService.ListByFarmer(r.Context(), farmerID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, Envelope{Success: true, Count: withCount(len(crops)), Data: crops})
}

func (h *CropHandler) Search(w http.ResponseWriter, r *http.Request) {
	values, present := r.URL.Query()["cropName"]
	if !present {
		respondWithError(w, http.StatusBadRequest, "missing_parameter", "cropName parameter is required")
		return
	}

	crops, err := h.cropService.Search(r.Context(), values[0])
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, Envelope{Success: true, Count: withCount(len(crops)), Data: crops})
}

func (h *CropHandler) List(w http.ResponseWriter, r *http.Request) {
	crops, err := h.cropService.List(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, Envelope{Success: true, Count: withCount(len(crops)), Data: crops})
}

func (h *CropHandler) Update(w http.ResponseWriter, r *http.Request) {
	cropID, ok := pathID(w, r, "cropId")
	if !ok {
		return
	}

	var req models.CropUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	crop, err := h.cropService.Update(r.Context(), cropID, &req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, Envelope{Success: true, Message: "Crop updated successfully", Data: crop})
}

func (h *CropHandler) Delete(w http.ResponseWriter, r *http.Request) {
	cropID, ok := pathID(w, r, "cropId")
	if !ok {
		return
	}

	if err := h.cropService.Delete(r.Context(), cropID); err != nil {
		writeError(w, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, Envelope{Success: true, Message: "Crop deleted successfully"})
}
