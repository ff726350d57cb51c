package store

import (
	"context"
	"database/sql"

	"agritrade/internal/models"
)

type MerchantStore struct {
	accounts accountTable
}

func NewMerchantStore(db *sql.DB) *MerchantStore {
	return &MerchantStore{
		accounts: accountTable{db: db, table: "merchants", kind: models.KindMerchant},
	}
}

func toMerchant(a *account) *models.Merchant {
	return &models.Merchant{
		ID:           a.ID,
		Name:         a.Name,
		Email:        a.Email,
		PasswordHash: a.PasswordHash,
		PhoneNumber:  a.PhoneNumber,
		Address:      a.Address,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func fromMerchant(m *models.Merchant) *account {
	return &account{
		ID:           m.ID,
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		PhoneNumber:  m.PhoneNumber,
		Address:      m.Address,
	}
}

func (s *MerchantStore) Create(ctx context.Context, m *models.Merchant) error {
	a := fromMerchant(m)
	if err := s.accounts.create(ctx, a); err != nil {
		return err
	}
	m.ID = a.ID
	return nil
}

func (s *MerchantStore) List(ctx context.Context) ([]*models.Merchant, error) {
	rows, err := s.accounts.list(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*models.Merchant, 0, len(rows))
	for _, a := range rows {
		out = append(out, toMerchant(a))
	}
	return out, nil
}

func (s *MerchantStore) Get(ctx context.Context, id int64) (*models.Merchant, error) {
	a, err := s.accounts.getBy(ctx, "id", id)
	if err != nil {
		return nil, err
	}
	return toMerchant(a), nil
}

func (s *MerchantStore) FindByEmail(ctx context.Context, email string) (*models.Merchant, error) {
	a, err := s.accounts.getBy(ctx, "email", email)
	if err != nil {
		return nil, err
	}
	return toMerchant(a), nil
}

func (s *MerchantStore) Update(ctx context.Context, m *models.Merchant) error {
	return s.accounts.update(ctx, fromMerchant(m))
}

func (s *MerchantStore) Delete(ctx context.Context, id int64) error {
	return s.accounts.delete(ctx, id)
}

func (s *MerchantStore) Count(ctx context.Context) (int64, error) {
	return s.accounts.count(ctx)
}
