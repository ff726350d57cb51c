package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog"

	"agritrade/internal/models"
	"agritrade/internal/store"
)

type CropService struct {
	crops   CropRepository
	farmers FarmerRepository
	logger  zerolog.Logger
}

func NewCropService(crops CropRepository, farmers FarmerRepository, logger zerolog.Logger) *CropService {
	return &CropService{
		crops:   crops,
		farmers: farmers,
		logger:  logger,
	}
}

func validateCrop(c *models.Crop) error {
	if c.CropName == "" {
		return newError(ErrValidation, "Crop name is required")
	}
	if math.IsNaN(c.Price) || math.IsInf(c.Price, 0) || c.Price < 0 {
		return newError(ErrValidation, "Price must be a non-negative number")
	}
	if c.Quantity < 0 {
		return newError(ErrValidation, "Quantity must be a non-negative integer")
	}
	return nil
}

// Add creates a crop owned by farmerID.
func (s *CropService) Add(ctx context.Context, farmerID int64, req *models.CropCreateRequest) (*models.Crop, error) {
	if _, err := s.farmers.Get(ctx, farmerID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, newError(ErrNotFound, "Farmer not found with id: %d", farmerID)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	crop := &models.Crop{
		CropName:    strings.TrimSpace(req.CropName),
		Price:       req.Price,
		Quantity:    req.Quantity,
		Description: strings.TrimSpace(req.Description),
		FarmerID:    farmerID,
	}
	if err := validateCrop(crop); err != nil {
		return nil, err
	}

	if err := s.crops.Create(ctx, crop); err != nil {
		s.logger.Error().Err(err).Int64("farmer_id", farmerID).Msg("Error creating crop")
		return nil, fmt.Errorf("failed to create crop: %w", err)
	}

	s.logger.Info().Int64("crop_id", crop.ID).Int64("farmer_id", farmerID).Str("crop_name", crop.CropName).Msg("Crop added")
	return s.Get(ctx, crop.ID)
}

func (s *CropService) Get(ctx context.Context, id int64) (*models.Crop, error) {
	crop, err := s.crops.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, newError(ErrNotFound, "Crop not found with id: %d", id)
	}
	if err != nil {
		return nil, err
	}
	return crop, nil
}

func (s *CropService) List(ctx context.Context) ([]*models.Crop, error) {
	return s.crops.List(ctx)
}

// ListByFarmer returns an empty list for a farmer with no crops, including
// one that no longer exists.
func (s *CropService) ListByFarmer(ctx context.Context, farmerID int64) ([]*models.Crop, error) {
	return s.crops.ListByFarmer(ctx, farmerID)
}

// Search matches crop names containing term, case-insensitively.
func (s *CropService) Search(ctx context.Context, term string) ([]*models.Crop, error) {
	return s.crops.SearchByName(ctx, strings.TrimSpace(term))
}

// Update changes cropName, price, quantity and description when present.
// The owning farmer never changes.
func (s *CropService) Update(ctx context.Context, id int64, req *models.CropUpdateRequest) (*models.Crop, error) {
	crop, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.CropName != nil {
		crop.CropName = strings.TrimSpace(*req.CropName)
	}
	if req.Price != nil {
		crop.Price = *req.Price
	}
	if req.Quantity != nil {
		crop.Quantity = *req.Quantity
	}
	if req.Description != nil {
		crop.Description = strings.TrimSpace(*req.Description)
	}
	if err := validateCrop(crop); err != nil {
		return nil, err
	}

	if err := s.crops.Update(ctx, crop); err != nil {
		s.logger.Error().Err(err).Int64("crop_id", id).Msg("Error updating crop")
		return nil, fmt.Errorf("failed to update crop: %w", err)
	}

	s.logger.Info().Int64("crop_id", id).Msg("Crop updated")
	return s.Get(ctx, id)
}

func (s *CropService) Delete(ctx context.Context, id int64) error {
	err := s.crops.Delete(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return newError(ErrNotFound, "Crop not found with id: %d", id)
	}
	if err != nil {
		s.logger.Error().Err(err).Int64("crop_id", id).Msg("Error deleting crop")
		return fmt.Errorf("failed to delete crop: %w", err)
	}
	s.logger.Info().Int64("crop_id", id).Msg("Crop deleted")
	return nil
}
