package services_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agritrade/internal/models"
	"agritrade/internal/services"
)

func TestAddCropAndUpdateQuantity(t *testing.T) {
	e := newEnv(t, false)
	ctx := context.Background()
	f := e.registerFarmer(t, "a@x.com", "pw")

	crop, err := e.crops.Add(ctx, f.ID, &models.CropCreateRequest{
		CropName: "Wheat", Price: 20.5, Quantity: 100, Description: "winter wheat",
	})
	require.NoError(t, err)
	assert.Equal(t, f.ID, crop.FarmerID)
	require.NotNil(t, crop.Farmer)
	assert.Equal(t, "a@x.com", crop.Farmer.Email)

	list, err := e.crops.ListByFarmer(ctx, f.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, crop.ID, list[0].ID)

	updated, err := e.crops.Update(ctx, crop.ID, &models.CropUpdateRequest{Quantity: ptr(50)})
	require.NoError(t, err)
	assert.Equal(t, 50, updated.Quantity)
	assert.Equal(t, "Wheat", updated.CropName)
	assert.Equal(t, 20.5, updated.Price)
	assert.Equal(t, "winter wheat", updated.Description)
	assert.Equal(t, f.ID, updated.FarmerID)
}

func TestAddCropForMissingFarmer(t *testing.T) {
	e := newEnv(t, false)

	_, err := e.crops.Add(context.Background(), 7, &models.CropCreateRequest{CropName: "Rice", Price: 1, Quantity: 1})
	require.ErrorIs(t, err, services.ErrNotFound)
	assert.EqualError(t, err, "Farmer not found with id: 7")
}

func TestCropValidation(t *testing.T) {
	e := newEnv(t, false)
	ctx := context.Background()
	f := e.registerFarmer(t, "a@x.com", "pw")

	cases := []models.CropCreateRequest{
		{CropName: " ", Price: 1, Quantity: 1},
		{CropName: "Rice", Price: -1, Quantity: 1},
		{CropName: "Rice", Price: math.NaN(), Quantity: 1},
		{CropName: "Rice", Price: 1, Quantity: -3},
	}
	for _, req := range cases {
		_, err := e.crops.Add(ctx, f.ID, &req)
		assert.ErrorIs(t, err, services.ErrValidation, "%+v", req)
	}

	crop, err := e.crops.Add(ctx, f.ID, &models.CropCreateRequest{CropName: "Rice", Price: 0, Quantity: 0})
	require.NoError(t, err)

	_, err = e.crops.Update(ctx, crop.ID, &models.CropUpdateRequest{Price: ptr(-0.5)})
	assert.ErrorIs(t, err, services.ErrValidation)
}

func TestSearchCropsIgnoresCase(t *testing.T) {
	e := newEnv(t, false)
	ctx := context.Background()
	f := e.registerFarmer(t, "a@x.com", "pw")

	for _, name := range []string{"Wheat", "Buckwheat", "Rice"} {
		_, err := e.crops.Add(ctx, f.ID, &models.CropCreateRequest{CropName: name, Price: 1, Quantity: 1})
		require.NoError(t, err)
	}

	found, err := e.crops.Search(ctx, " WHEAT ")
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "Wheat", found[0].CropName)
	assert.Equal(t, "Buckwheat", found[1].CropName)

	none, err := e.crops.Search(ctx, "barley")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestDeleteCropTwice(t *testing.T) {
	e := newEnv(t, false)
	ctx := context.Background()
	f := e.registerFarmer(t, "a@x.com", "pw")
	crop, err := e.crops.Add(ctx, f.ID, &models.CropCreateRequest{CropName: "Rice", Price: 1, Quantity: 1})
	require.NoError(t, err)

	require.NoError(t, e.crops.Delete(ctx, crop.ID))
	err = e.crops.Delete(ctx, crop.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)

	_, err = e.crops.Update(ctx, crop.ID, &models.CropUpdateRequest{Quantity: ptr(1)})
	assert.ErrorIs(t, err, services.ErrNotFound)
}
