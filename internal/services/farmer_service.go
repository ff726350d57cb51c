package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"agritrade/internal/models"
	"agritrade/internal/store"
)

type FarmerService struct {
	farmers  FarmerRepository
	resolver *IdentityResolver
	hasher   PasswordHasher
	logger   zerolog.Logger
}

func NewFarmerService(farmers FarmerRepository, resolver *IdentityResolver, hasher PasswordHasher, logger zerolog.Logger) *FarmerService {
	return &FarmerService{
		farmers:  farmers,
		resolver: resolver,
		hasher:   hasher,
		logger:   logger,
	}
}

func (s *FarmerService) Register(ctx context.Context, req *models.FarmerRegisterRequest) (*models.Farmer, error) {
	fields := accountFields{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
	}
	fields.normalize()
	if err := fields.validate(); err != nil {
		return nil, err
	}

	if err := s.resolver.EnsureAvailable(ctx, fields.Email, models.KindFarmer); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(fields.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error hashing password")
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	farmer := &models.Farmer{
		Name:         fields.Name,
		Email:        fields.Email,
		PasswordHash: hash,
		PhoneNumber:  fields.PhoneNumber,
		Address:      fields.Address,
	}
	if err := s.farmers.Create(ctx, farmer); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, s.resolver.conflictFor(ctx, fields.Email, models.KindFarmer)
		}
		s.logger.Error().Err(err).Str("email", fields.Email).Msg("Error creating farmer")
		return nil, fmt.Errorf("failed to create farmer: %w", err)
	}

	s.logger.Info().Int64("farmer_id", farmer.ID).Str("email", farmer.Email).Msg("Farmer registered")
	return s.Get(ctx, farmer.ID)
}

func (s *FarmerService) List(ctx context.Context) ([]*models.Farmer, error) {
	farmers, err := s.farmers.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error listing farmers")
		return nil, err
	}
	return farmers, nil
}

func (s *FarmerService) Get(ctx context.Context, id int64) (*models.Farmer, error) {
	farmer, err := s.farmers.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, newError(ErrNotFound, "Farmer not found with id: %d", id)
	}
	if err != nil {
		s.logger.Error().Err(err).Int64("farmer_id", id).Msg("Error fetching farmer")
		return nil, err
	}
	return farmer, nil
}

// Update changes only the fields present in req.
func (s *FarmerService) Update(ctx context.Context, id int64, req *models.FarmerUpdateRequest) (*models.Farmer, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	next, err := accountPatch{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
	}.apply(accountFields{
		Name:        current.Name,
		Email:       current.Email,
		PhoneNumber: current.PhoneNumber,
		Address:     current.Address,
	})
	if err != nil {
		return nil, err
	}

	if next.Email != current.Email {
		if err := s.resolver.EnsureAvailable(ctx, next.Email, models.KindFarmer); err != nil {
			return nil, err
		}
	}

	updated := *current
	updated.Name = next.Name
	updated.Email = next.Email
	updated.PhoneNumber = next.PhoneNumber
	updated.Address = next.Address
	if next.Password != "" {
		hash, err := s.hasher.Hash(next.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		updated.PasswordHash = hash
	}

	if err := s.farmers.Update(ctx, &updated); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, s.resolver.conflictFor(ctx, next.Email, models.KindFarmer)
		}
		s.logger.Error().Err(err).Int64("farmer_id", id).Msg("Error updating farmer")
		return nil, fmt.Errorf("failed to update farmer: %w", err)
	}

	s.logger.Info().Int64("farmer_id", id).Msg("Farmer updated")
	return s.Get(ctx, id)
}

// Delete removes the farmer and every crop it owns.
func (s *FarmerService) Delete(ctx context.Context, id int64) error {
	err := s.farmers.Delete(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return newError(ErrNotFound, "Farmer not found with id: %d", id)
	}
	if err != nil {
		s.logger.Error().Err(err).Int64("farmer_id", id).Msg("Error deleting farmer")
		return fmt.Errorf("failed to delete farmer: %w", err)
	}
	s.logger.Info().Int64("farmer_id", id).Msg("Farmer deleted")
	return nil
}

func (s *FarmerService) Count(ctx context.Context) (int64, error) {
	return s.farmers.Count(ctx)
}
