package services

import (
	"context"

	"github.com/rs/zerolog"

	"agritrade/internal/models"
)

// AdminService is the admin view over farmers and merchants. Access control
// happens in the role gate before any method runs.
type AdminService struct {
	farmers   *FarmerService
	merchants *MerchantService
	logger    zerolog.Logger
}

func NewAdminService(farmers *FarmerService, merchants *MerchantService, logger zerolog.Logger) *AdminService {
	return &AdminService{
		farmers:   farmers,
		merchants: merchants,
		logger:    logger,
	}
}

func (s *AdminService) ListFarmers(ctx context.Context) ([]*models.Farmer, error) {
	return s.farmers.List(ctx)
}

func (s *AdminService) ListMerchants(ctx context.Context) ([]*models.Merchant, error) {
	return s.merchants.List(ctx)
}

func (s *AdminService) GetFarmer(ctx context.Context, id int64) (*models.Farmer, error) {
	return s.farmers.Get(ctx, id)
}

func (s *AdminService) GetMerchant(ctx context.Context, id int64) (*models.Merchant, error) {
	return s.merchants.Get(ctx, id)
}

func (s *AdminService) DeleteFarmer(ctx context.Context, id int64) error {
	if err := s.farmers.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("farmer_id", id).Msg("Admin deleted farmer")
	return nil
}

func (s *AdminService) DeleteMerchant(ctx context.Context, id int64) error {
	if err := s.merchants.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("merchant_id", id).Msg("Admin deleted merchant")
	return nil
}

func (s *AdminService) Statistics(ctx context.Context) (*models.Statistics, error) {
	farmers, err := s.farmers.Count(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error counting farmers")
		return nil, err
	}
	merchants, err := s.merchants.Count(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error counting merchants")
		return nil, err
	}
	return &models.Statistics{
		TotalFarmers:   farmers,
		TotalMerchants: merchants,
		TotalUsers:     farmers + merchants,
	}, nil
}
