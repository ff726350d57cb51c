package services

import (
	"context"

	"agritrade/internal/models"
)

type IdentityRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.Identity, error)
}

type FarmerRepository interface {
	Create(ctx context.Context, f *models.Farmer) error
	List(ctx context.Context) ([]*models.Farmer, error)
	Get(ctx context.Context, id int64) (*models.Farmer, error)
	FindByEmail(ctx context.Context, email string) (*models.Farmer, error)
	Update(ctx context.Context, f *models.Farmer) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

type MerchantRepository interface {
	Create(ctx context.Context, m *models.Merchant) error
	List(ctx context.Context) ([]*models.Merchant, error)
	Get(ctx context.Context, id int64) (*models.Merchant, error)
	FindByEmail(ctx context.Context, email string) (*models.Merchant, error)
	Update(ctx context.Context, m *models.Merchant) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

type CropRepository interface {
	Create(ctx context.Context, c *models.Crop) error
	Get(ctx context.Context, id int64) (*models.Crop, error)
	List(ctx context.Context) ([]*models.Crop, error)
	ListByFarmer(ctx context.Context, farmerID int64) ([]*models.Crop, error)
	SearchByName(ctx context.Context, term string) ([]*models.Crop, error)
	Update(ctx context.Context, c *models.Crop) error
	Delete(ctx context.Context, id int64) error
}

type UserRepository interface {
	Create(ctx context.Context, u *models.User, role models.RoleName) error
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// Repositories groups the storage backends the services run on.
type Repositories struct {
	Identities IdentityRepository
	Farmers    FarmerRepository
	Merchants  MerchantRepository
	Crops      CropRepository
	Users      UserRepository
}
