package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"agritrade/internal/models"
	"agritrade/internal/services"
	"agritrade/internal/store/memory"
)

type env struct {
	tokens    *services.TokenService
	resolver  *services.IdentityResolver
	auth      *services.AuthService
	farmers   *services.FarmerService
	merchants *services.MerchantService
	crops     *services.CropService
	admin     *services.AdminService
}

func newEnv(t *testing.T, revealRoleMismatch bool) *env {
	t.Helper()
	logger := zerolog.Nop()
	repos := memory.New().Repositories()
	hasher := services.NewBcryptHasher(4)
	tokens := services.NewTokenService("test-secret", time.Hour, logger)
	resolver := services.NewIdentityResolver(repos.Identities, revealRoleMismatch, logger)

	farmers := services.NewFarmerService(repos.Farmers, resolver, hasher, logger)
	merchants := services.NewMerchantService(repos.Merchants, resolver, hasher, logger)
	return &env{
		tokens:    tokens,
		resolver:  resolver,
		auth:      services.NewAuthService(repos, resolver, tokens, hasher, logger),
		farmers:   farmers,
		merchants: merchants,
		crops:     services.NewCropService(repos.Crops, repos.Farmers, logger),
		admin:     services.NewAdminService(farmers, merchants, logger),
	}
}

func (e *env) registerFarmer(t *testing.T, email, password string) *models.Farmer {
	t.Helper()
	f, err := e.farmers.Register(context.Background(), &models.FarmerRegisterRequest{
		Name:        "Farmer " + email,
		Email:       email,
		Password:    password,
		PhoneNumber: "555-0100",
		Address:     "Green Valley",
	})
	require.NoError(t, err)
	return f
}

func (e *env) registerMerchant(t *testing.T, email, password string) *models.Merchant {
	t.Helper()
	m, err := e.merchants.Register(context.Background(), &models.MerchantRegisterRequest{
		Name:        "Merchant " + email,
		Email:       email,
		Password:    password,
		PhoneNumber: "555-0200",
	})
	require.NoError(t, err)
	return m
}

func ptr[T any](v T) *T { return &v }
