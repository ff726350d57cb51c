// Package memory is an in-process implementation of the repositories. It
// enforces the same unique keys and cascades as the MySQL schema and backs
// the memory storage driver and the tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"agritrade/internal/models"
	"agritrade/internal/services"
	"agritrade/internal/store"
)

type Store struct {
	mu sync.RWMutex

	farmers    map[int64]models.Farmer
	merchants  map[int64]models.Merchant
	crops      map[int64]models.Crop
	users      map[int64]models.User
	identities map[string]models.Identity

	nextFarmer, nextMerchant, nextCrop, nextUser int64

	now func() time.Time
}

func New() *Store {
	return &Store{
		farmers:    make(map[int64]models.Farmer),
		merchants:  make(map[int64]models.Merchant),
		crops:      make(map[int64]models.Crop),
		users:      make(map[int64]models.User),
		identities: make(map[string]models.Identity),
		now:        time.Now,
	}
}

func (s *Store) Repositories() services.Repositories {
	return services.Repositories{
		Identities: identityRepo{s},
		Farmers:    farmerRepo{s},
		Merchants:  merchantRepo{s},
		Crops:      cropRepo{s},
		Users:      userRepo{s},
	}
}

func duplicate(what string) error {
	return fmt.Errorf("%w: %s", store.ErrDuplicate, what)
}

type identityRepo struct{ s *Store }

func (r identityRepo) FindByEmail(_ context.Context, email string) (*models.Identity, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	id, ok := r.s.identities[email]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &id, nil
}

type farmerRepo struct{ s *Store }

func (r farmerRepo) Create(_ context.Context, f *models.Farmer) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.identities[f.Email]; taken {
		return duplicate("identities.email")
	}
	s.nextFarmer++
	now := s.now()
	row := *f
	row.ID = s.nextFarmer
	row.Crops = nil
	row.CreatedAt, row.UpdatedAt = now, now
	s.farmers[row.ID] = row
	s.identities[row.Email] = models.Identity{Email: row.Email, Kind: models.KindFarmer, AccountID: row.ID}
	f.ID = row.ID
	return nil
}

func (r farmerRepo) List(_ context.Context) ([]*models.Farmer, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Farmer, 0, len(s.farmers))
	for _, id := range sortedKeys(s.farmers) {
		out = append(out, s.farmerWithCrops(id))
	}
	return out, nil
}

func (r farmerRepo) Get(_ context.Context, id int64) (*models.Farmer, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.farmers[id]; !ok {
		return nil, store.ErrNotFound
	}
	return s.farmerWithCrops(id), nil
}

func (r farmerRepo) FindByEmail(_ context.Context, email string) (*models.Farmer, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, f := range s.farmers {
		if f.Email == email {
			out := f
			out.Crops = []models.Crop{}
			return &out, nil
		}
	}
	return nil, store.ErrNotFound
}

func (r farmerRepo) Update(_ context.Context, f *models.Farmer) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.farmers[f.ID]
	if !ok {
		return nil
	}
	if f.Email != cur.Email {
		if _, taken := s.identities[f.Email]; taken {
			return duplicate("identities.email")
		}
		delete(s.identities, cur.Email)
		s.identities[f.Email] = models.Identity{Email: f.Email, Kind: models.KindFarmer, AccountID: f.ID}
	}
	cur.Name, cur.Email, cur.PasswordHash = f.Name, f.Email, f.PasswordHash
	cur.PhoneNumber, cur.Address = f.PhoneNumber, f.Address
	cur.UpdatedAt = s.now()
	s.farmers[f.ID] = cur
	return nil
}

func (r farmerRepo) Delete(_ context.Context, id int64) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.farmers[id]
	if !ok {
		return store.ErrNotFound
	}
	delete(s.farmers, id)
	delete(s.identities, f.Email)
	for cid, c := range s.crops {
		if c.FarmerID == id {
			delete(s.crops, cid)
		}
	}
	return nil
}

func (r farmerRepo) Count(_ context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.farmers)), nil
}

// farmerWithCrops must be called with the lock held.
func (s *Store) farmerWithCrops(id int64) *models.Farmer {
	f := s.farmers[id]
	f.Crops = []models.Crop{}
	for _, cid := range sortedKeys(s.crops) {
		if c := s.crops[cid]; c.FarmerID == id {
			f.Crops = append(f.Crops, c)
		}
	}
	return &f
}

type merchantRepo struct{ s *Store }

func (r merchantRepo) Create(_ context.Context, m *models.Merchant) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.identities[m.Email]; taken {
		return duplicate("identities.email")
	}
	s.nextMerchant++
	now := s.now()
	row := *m
	row.ID = s.nextMerchant
	row.CreatedAt, row.UpdatedAt = now, now
	s.merchants[row.ID] = row
	s.identities[row.Email] = models.Identity{Email: row.Email, Kind: models.KindMerchant, AccountID: row.ID}
	m.ID = row.ID
	return nil
}

func (r merchantRepo) List(_ context.Context) ([]*models.Merchant, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Merchant, 0, len(s.merchants))
	for _, id := range sortedKeys(s.merchants) {
		m := s.merchants[id]
		out = append(out, &m)
	}
	return out, nil
}

func (r merchantRepo) Get(_ context.Context, id int64) (*models.Merchant, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	m, ok := r.s.merchants[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &m, nil
}

func (r merchantRepo) FindByEmail(_ context.Context, email string) (*models.Merchant, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, m := range r.s.merchants {
		if m.Email == email {
			out := m
			return &out, nil
		}
	}
	return nil, store.ErrNotFound
}

func (r merchantRepo) Update(_ context.Context, m *models.Merchant) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.merchants[m.ID]
	if !ok {
		return nil
	}
	if m.Email != cur.Email {
		if _, taken := s.identities[m.Email]; taken {
			return duplicate("identities.email")
		}
		delete(s.identities, cur.Email)
		s.identities[m.Email] = models.Identity{Email: m.Email, Kind: models.KindMerchant, AccountID: m.ID}
	}
	cur.Name, cur.Email, cur.PasswordHash = m.Name, m.Email, m.PasswordHash
	cur.PhoneNumber, cur.Address = m.PhoneNumber, m.Address
	cur.UpdatedAt = s.now()
	s.merchants[m.ID] = cur
	return nil
}

func (r merchantRepo) Delete(_ context.Context, id int64) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.merchants[id]
	if !ok {
		return store.ErrNotFound
	}
	delete(s.merchants, id)
	delete(s.identities, m.Email)
	return nil
}

func (r merchantRepo) Count(_ context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.merchants)), nil
}

type cropRepo struct{ s *Store }

func (r cropRepo) Create(_ context.Context, c *models.Crop) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.farmers[c.FarmerID]; !ok {
		return fmt.Errorf("foreign key violation: farmer %d does not exist", c.FarmerID)
	}
	s.nextCrop++
	now := s.now()
	row := *c
	row.ID = s.nextCrop
	row.Farmer = nil
	row.CreatedAt, row.UpdatedAt = now, now
	s.crops[row.ID] = row
	c.ID = row.ID
	return nil
}

func (r cropRepo) Get(_ context.Context, id int64) (*models.Crop, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.crops[id]; !ok {
		return nil, store.ErrNotFound
	}
	return s.cropWithFarmer(id), nil
}

func (r cropRepo) List(_ context.Context) ([]*models.Crop, error) {
	return r.filter(func(models.Crop) bool { return true }), nil
}

func (r cropRepo) ListByFarmer(_ context.Context, farmerID int64) ([]*models.Crop, error) {
	return r.filter(func(c models.Crop) bool { return c.FarmerID == farmerID }), nil
}

func (r cropRepo) SearchByName(_ context.Context, term string) ([]*models.Crop, error) {
	term = strings.ToLower(term)
	return r.filter(func(c models.Crop) bool {
		return strings.Contains(strings.ToLower(c.CropName), term)
	}), nil
}

func (r cropRepo) Update(_ context.Context, c *models.Crop) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.crops[c.ID]
	if !ok {
		return nil
	}
	cur.CropName, cur.Price, cur.Quantity, cur.Description = c.CropName, c.Price, c.Quantity, c.Description
	cur.UpdatedAt = s.now()
	s.crops[c.ID] = cur
	return nil
}

func (r cropRepo) Delete(_ context.Context, id int64) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.crops[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.crops, id)
	return nil
}

func (r cropRepo) filter(keep func(models.Crop) bool) []*models.Crop {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*models.Crop{}
	for _, id := range sortedKeys(s.crops) {
		if keep(s.crops[id]) {
			out = append(out, s.cropWithFarmer(id))
		}
	}
	return out
}

// cropWithFarmer must be called with the lock held.
func (s *Store) cropWithFarmer(id int64) *models.Crop {
	c := s.crops[id]
	f := s.farmers[c.FarmerID]
	c.Farmer = &models.FarmerSummary{
		ID:          f.ID,
		Name:        f.Name,
		Email:       f.Email,
		PhoneNumber: f.PhoneNumber,
		Address:     f.Address,
	}
	return &c
}

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, u *models.User, role models.RoleName) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Username == u.Username {
			return duplicate("users.username")
		}
		if existing.Email == u.Email {
			return duplicate("users.email")
		}
	}
	if _, taken := s.identities[u.Email]; taken {
		return duplicate("identities.email")
	}
	s.nextUser++
	row := *u
	row.ID = s.nextUser
	row.Roles = []string{string(role)}
	row.CreatedAt = s.now()
	s.users[row.ID] = row
	s.identities[row.Email] = models.Identity{Email: row.Email, Kind: models.KindUser, AccountID: row.ID}
	u.ID = row.ID
	u.Roles = row.Roles
	return nil
}

func (r userRepo) FindByUsername(_ context.Context, username string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.Username == username })
}

func (r userRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.Email == email })
}

func (r userRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := r.FindByUsername(ctx, username)
	return err == nil, nil
}

func (r userRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.FindByEmail(ctx, email)
	return err == nil, nil
}

func (r userRepo) find(match func(models.User) bool) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if match(u) {
			out := u
			out.Roles = append([]string(nil), u.Roles...)
			return &out, nil
		}
	}
	return nil, store.ErrNotFound
}

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
