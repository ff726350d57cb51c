package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agritrade/internal/models"
	"agritrade/internal/services"
)

func TestRegisterFarmer(t *testing.T) {
	e := newEnv(t, false)

	f := e.registerFarmer(t, "  Green@Farm.com ", "secret")
	assert.NotZero(t, f.ID)
	assert.Equal(t, "green@farm.com", f.Email)
	assert.NotEqual(t, "secret", f.PasswordHash)
	assert.Empty(t, f.Crops)
}

func TestRegisterFarmerValidation(t *testing.T) {
	e := newEnv(t, false)
	ctx := context.Background()

	cases := []models.FarmerRegisterRequest{
		{Email: "a@x.com", Password: "pw", PhoneNumber: "1"},
		{Name: "A", Email: "bad", Password: "pw", PhoneNumber: "1"},
		{Name: "A", Email: "a@x.com", PhoneNumber: "1"},
		{Name: "A", Email: "a@x.com", Password: "pw"},
	}
	for _, req := range cases {
		_, err := e.farmers.Register(ctx, &req)
		assert.ErrorIs(t, err, services.ErrValidation, "%+v", req)
	}
}

func TestEmailIsUniqueAcrossRoles(t *testing.T) {
	e := newEnv(t, false)
	ctx := context.Background()
	e.registerFarmer(t, "a@x.com", "pw")
	e.registerMerchant(t, "m@x.com", "pw")

	_, err := e.merchants.Register(ctx, &models.MerchantRegisterRequest{
		Name: "M", Email: "A@x.com", Password: "pw", PhoneNumber: "1",
	})
	require.ErrorIs(t, err, services.ErrDuplicateIdentity)
	assert.EqualError(t, err, "This email is already registered as a Farmer. Please use a different email or login as Farmer.")

	_, err = e.farmers.Register(ctx, &models.FarmerRegisterRequest{
		Name: "F", Email: "m@x.com", Password: "pw", PhoneNumber: "1",
	})
	require.ErrorIs(t, err, services.ErrDuplicateIdentity)
	assert.Contains(t, err.Error(), "registered as a Merchant")

	_, err = e.farmers.Register(ctx, &models.FarmerRegisterRequest{
		Name: "F", Email: "a@x.com", Password: "pw", PhoneNumber: "1",
	})
	require.ErrorIs(t, err, services.ErrAlreadyRegistered)
	assert.EqualError(t, err, "Farmer already exists with this email")
}

func TestGetFarmerNotFound(t *testing.T) {
	e := newEnv(t, false)

	_, err := e.farmers.Get(context.Background(), 42)
	require.ErrorIs(t, err, services.ErrNotFound)
	assert.EqualError(t, err, "Farmer not found with id: 42")
}

func TestUpdateFarmerIsPartial(t *testing.T) {
	e := newEnv(t, false)
	ctx := context.Background()
	f := e.registerFarmer(t, "a@x.com", "pw")

	updated, err := e.farmers.Update(ctx, f.ID, &models.FarmerUpdateRequest{PhoneNumber: ptr("555-9999")})
	require.NoError(t, err)
	assert.Equal(t, "555-9999", updated.PhoneNumber)
	assert.Equal(t, f.Name, updated.Name)
	assert.Equal(t, f.Email, updated.Email)
	assert.Equal(t, f.Address, updated.Address)
	assert.Equal(t, f.PasswordHash, updated.PasswordHash)

	_, err = e.farmers.Update(ctx, f.ID, &models.FarmerUpdateRequest{Name: ptr("  ")})
	assert.ErrorIs(t, err, services.ErrValidation)

	_, err = e.farmers.Update(ctx, f.ID, &models.FarmerUpdateRequest{Password: ptr("")})
	assert.ErrorIs(t, err, services.ErrValidation)

	_, err = e.farmers.Update(ctx, 999, &models.FarmerUpdateRequest{Name: ptr("x")})
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestUpdateFarmerEmailMovesIdentity(t *testing.T) {
	e := newEnv(t, false)
	ctx := context.Background()
	f := e.registerFarmer(t, "old@x.com", "pw")
	e.registerMerchant(t, "m@x.com", "pw")

	_, err := e.farmers.Update(ctx, f.ID, &models.FarmerUpdateRequest{Email: ptr("m@x.com")})
	require.ErrorIs(t, err, services.ErrDuplicateIdentity)

	updated, err := e.farmers.Update(ctx, f.ID, &models.FarmerUpdateRequest{Email: ptr("New@x.com")})
	require.NoError(t, err)
	assert.Equal(t, "new@x.com", updated.Email)

	id, err := e.resolver.Resolve(ctx, "new@x.com")
	require.NoError(t, err)
	assert.Equal(t, models.KindFarmer, id.Kind)
	assert.Equal(t, f.ID, id.AccountID)

	// the old address is free again
	e.registerMerchant(t, "old@x.com", "pw")
}

func TestUpdateFarmerPassword(t *testing.T) {
	e := newEnv(t, false)
	ctx := context.Background()
	f := e.registerFarmer(t, "a@x.com", "old")

	_, err := e.farmers.Update(ctx, f.ID, &models.FarmerUpdateRequest{Password: ptr("new")})
	require.NoError(t, err)

	_, err = e.auth.Login(ctx, &models.LoginRequest{Username: "a@x.com", Password: "old"})
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	_, err = e.auth.Login(ctx, &models.LoginRequest{Username: "a@x.com", Password: "new"})
	assert.NoError(t, err)
}

func TestDeleteFarmerTwice(t *testing.T) {
	e := newEnv(t, false)
	ctx := context.Background()
	f := e.registerFarmer(t, "a@x.com", "pw")

	require.NoError(t, e.farmers.Delete(ctx, f.ID))
	err := e.farmers.Delete(ctx, f.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)

	_, err = e.resolver.Resolve(ctx, "a@x.com")
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestDeleteFarmerCascadesCrops(t *testing.T) {
	e := newEnv(t, false)
	ctx := context.Background()
	f := e.registerFarmer(t, "a@x.com", "pw")
	other := e.registerFarmer(t, "b@x.com", "pw")

	for _, name := range []string{"Wheat", "Rice", "Corn"} {
		_, err := e.crops.Add(ctx, f.ID, &models.CropCreateRequest{CropName: name, Price: 1, Quantity: 1})
		require.NoError(t, err)
	}
	_, err := e.crops.Add(ctx, other.ID, &models.CropCreateRequest{CropName: "Barley", Price: 1, Quantity: 1})
	require.NoError(t, err)

	got, err := e.farmers.Get(ctx, f.ID)
	require.NoError(t, err)
	assert.Len(t, got.Crops, 3)

	require.NoError(t, e.farmers.Delete(ctx, f.ID))

	crops, err := e.crops.ListByFarmer(ctx, f.ID)
	require.NoError(t, err)
	assert.Empty(t, crops)

	all, err := e.crops.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Barley", all[0].CropName)
}

func TestMerchantLifecycle(t *testing.T) {
	e := newEnv(t, false)
	ctx := context.Background()
	m := e.registerMerchant(t, "m@x.com", "pw")

	list, err := e.merchants.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	updated, err := e.merchants.Update(ctx, m.ID, &models.MerchantUpdateRequest{Address: ptr("Market St")})
	require.NoError(t, err)
	assert.Equal(t, "Market St", updated.Address)
	assert.Equal(t, m.Name, updated.Name)

	require.NoError(t, e.merchants.Delete(ctx, m.ID))
	_, err = e.merchants.Get(ctx, m.ID)
	require.ErrorIs(t, err, services.ErrNotFound)
	assert.EqualError(t, err, "Merchant not found with id: 1")
}
