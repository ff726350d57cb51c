package store

import (
	"context"
	"database/sql"

	"agritrade/internal/models"
)

type FarmerStore struct {
	accounts accountTable
	crops    *CropStore
}

func NewFarmerStore(db *sql.DB) *FarmerStore {
	return &FarmerStore{
		accounts: accountTable{db: db, table: "farmers", kind: models.KindFarmer},
		crops:    NewCropStore(db),
	}
}

func toFarmer(a *account) *models.Farmer {
	return &models.Farmer{
		ID:           a.ID,
		Name:         a.Name,
		Email:        a.Email,
		PasswordHash: a.PasswordHash,
		PhoneNumber:  a.PhoneNumber,
		Address:      a.Address,
		Crops:        []models.Crop{},
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func fromFarmer(f *models.Farmer) *account {
	return &account{
		ID:           f.ID,
		Name:         f.Name,
		Email:        f.Email,
		PasswordHash: f.PasswordHash,
		PhoneNumber:  f.PhoneNumber,
		Address:      f.Address,
	}
}

// Create inserts the farmer and its identity row. f.ID is set on success.
func (s *FarmerStore) Create(ctx context.Context, f *models.Farmer) error {
	a := fromFarmer(f)
	if err := s.accounts.create(ctx, a); err != nil {
		return err
	}
	f.ID = a.ID
	return nil
}

// List returns every farmer with its crops attached.
func (s *FarmerStore) List(ctx context.Context) ([]*models.Farmer, error) {
	rows, err := s.accounts.list(ctx)
	if err != nil {
		return nil, err
	}
	crops, err := s.crops.List(ctx)
	if err != nil {
		return nil, err
	}

	byFarmer := make(map[int64][]models.Crop)
	for _, c := range crops {
		c.Farmer = nil
		byFarmer[c.FarmerID] = append(byFarmer[c.FarmerID], *c)
	}

	farmers := make([]*models.Farmer, 0, len(rows))
	for _, a := range rows {
		f := toFarmer(a)
		if owned, ok := byFarmer[f.ID]; ok {
			f.Crops = owned
		}
		farmers = append(farmers, f)
	}
	return farmers, nil
}

func (s *FarmerStore) Get(ctx context.Context, id int64) (*models.Farmer, error) {
	a, err := s.accounts.getBy(ctx, "id", id)
	if err != nil {
		return nil, err
	}
	return s.withCrops(ctx, toFarmer(a))
}

func (s *FarmerStore) FindByEmail(ctx context.Context, email string) (*models.Farmer, error) {
	a, err := s.accounts.getBy(ctx, "email", email)
	if err != nil {
		return nil, err
	}
	return toFarmer(a), nil
}

func (s *FarmerStore) Update(ctx context.Context, f *models.Farmer) error {
	return s.accounts.update(ctx, fromFarmer(f))
}

// Delete removes the farmer. Its crops go with it through ON DELETE CASCADE.
func (s *FarmerStore) Delete(ctx context.Context, id int64) error {
	return s.accounts.delete(ctx, id)
}

func (s *FarmerStore) Count(ctx context.Context) (int64, error) {
	return s.accounts.count(ctx)
}

func (s *FarmerStore) withCrops(ctx context.Context, f *models.Farmer) (*models.Farmer, error) {
	crops, err := s.crops.ListByFarmer(ctx, f.ID)
	if err != nil {
		return nil, err
	}
	for _, c := range crops {
		c.Farmer = nil
		f.Crops = append(f.Crops, *c)
	}
	return f, nil
}
