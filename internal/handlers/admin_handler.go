package handlers

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"agritrade/internal/services"
)

// AdminHandler serves /api/admin. The router puts it behind the ROLE_ADMIN gate.
type AdminHandler struct {
	adminService *services.AdminService
	logger       zerolog.Logger
}

func NewAdminHandler(adminService *services.AdminService, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		logger:       logger,
	}
}

func (h *AdminHandler) ListFarmers(w http.ResponseWriter, r *http.Request) {
	farmers, err := h.adminService.ListFarmers(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, Envelope{
		Success: true,
		Message: "Successfully retrieved all farmers",
		Count:   withCount(len(farmers)),
		Data:    farmers,
	})
}

func (h *AdminHandler) ListMerchants(w http.ResponseWriter, r *http.Request) {
	merchants, err := h.adminService.ListMerchants(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, Envelope{
		Success: true,
		Message: "Successfully retrieved all merchants",
		Count:   withCount(len(merchants)),
		Data:    merchants,
	})
}

func (h *AdminHandler) GetFarmer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	farmer, err := h.adminService.GetFarmer(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, Envelope{Success: true, Message: "Farmer retrieved successfully", Data: farmer})
}

func (h *AdminHandler) GetMerchant(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	merchant, err := h.adminService.GetMerchant(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, Envelope{Success: true, Message: "Merchant retrieved successfully", Data: merchant})
}

func (h *AdminHandler) DeleteFarmer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.adminService.DeleteFarmer(r.Context(), id); err != nil {
		writeError(w, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, Envelope{
		Success: true,
		Message: fmt.Sprintf("Farmer with ID %d has been successfully deleted", id),
	})
}

func (h *AdminHandler) DeleteMerchant(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.adminService.DeleteMerchant(r.Context(), id); err != nil {
		writeError(w, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, Envelope{
		Success: true,
		Message: fmt.Sprintf("Merchant with ID %d has been successfully deleted", id),
	})
}

func (h *AdminHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.adminService.Statistics(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, Envelope{Success: true, Message: "Statistics retrieved successfully", Data: stats})
}
