package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"agritrade/internal/models"
	"agritrade/internal/store"
)

type MerchantService struct {
	merchants MerchantRepository
	resolver  *IdentityResolver
	hasher    PasswordHasher
	logger    zerolog.Logger
}

func NewMerchantService(merchants MerchantRepository, resolver *IdentityResolver, hasher PasswordHasher, logger zerolog.Logger) *MerchantService {
	return &MerchantService{
		merchants: merchants,
		resolver:  resolver,
		hasher:    hasher,
		logger:    logger,
	}
}

func (s *MerchantService) Register(ctx context.Context, req *models.MerchantRegisterRequest) (*models.Merchant, error) {
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

	if err := s.resolver.EnsureAvailable(ctx, fields.Email, models.KindMerchant); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(fields.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error hashing password")
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	merchant := &models.Merchant{
		Name:         fields.Name,
		Email:        fields.Email,
		PasswordHash: hash,
		PhoneNumber:  fields.PhoneNumber,
		Address:      fields.Address,
	}
	if err := s.merchants.Create(ctx, merchant); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, s.resolver.conflictFor(ctx, fields.Email, models.KindMerchant)
		}
		s.logger.Error().Err(err).Str("email", fields.Email).Msg("Error creating merchant")
		return nil, fmt.Errorf("failed to create merchant: %w", err)
	}

	s.logger.Info().Int64("merchant_id", merchant.ID).Str("email", merchant.Email).Msg("Merchant registered")
	return s.Get(ctx, merchant.ID)
}

func (s *MerchantService) List(ctx context.Context) ([]*models.Merchant, error) {
	merchants, err := s.merchants.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error listing merchants")
		return nil, err
	}
	return merchants, nil
}

func (s *MerchantService) Get(ctx context.Context, id int64) (*models.Merchant, error) {
	merchant, err := s.merchants.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, newError(ErrNotFound, "Merchant not found with id: %d", id)
	}
	if err != nil {
		s.logger.Error().Err(err).Int64("merchant_id", id).Msg("Error fetching merchant")
		return nil, err
	}
	return merchant, nil
}

// Update changes only the fields present in req.
func (s *MerchantService) Update(ctx context.Context, id int64, req *models.MerchantUpdateRequest) (*models.Merchant, error) {
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
		if err := s.resolver.EnsureAvailable(ctx, next.Email, models.KindMerchant); err != nil {
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

	if err := s.merchants.Update(ctx, &updated); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, s.resolver.conflictFor(ctx, next.Email, models.KindMerchant)
		}
		s.logger.Error().Err(err).Int64("merchant_id", id).Msg("Error updating merchant")
		return nil, fmt.Errorf("failed to update merchant: %w", err)
	}

	s.logger.Info().Int64("merchant_id", id).Msg("Merchant updated")
	return s.Get(ctx, id)
}

// Delete removes the merchant.
func (s *MerchantService) Delete(ctx context.Context, id int64) error {
	err := s.merchants.Delete(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return newError(ErrNotFound, "Merchant not found with id: %d", id)
	}
	if err != nil {
		s.logger.Error().Err(err).Int64("merchant_id", id).Msg("Error deleting merchant")
		return fmt.Errorf("failed to delete merchant: %w", err)
	}
	s.logger.Info().Int64("merchant_id", id).Msg("Merchant deleted")
	return nil
}

func (s *MerchantService) Count(ctx context.Context) (int64, error) {
	return s.merchants.Count(ctx)
}
