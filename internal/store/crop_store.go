package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"agritrade/internal/models"
)

type CropStore struct {
	db *sql.DB
}

func NewCropStore(db *sql.DB) *CropStore {
	return &CropStore{db: db}
}

const cropSelect = `
	SELECT c.id, c.crop_name, c.price, c.quantity, c.description, c.farmer_id, c.created_at, c.updated_at,
	       f.name, f.email, f.phone_number, f.address
	FROM crops c
	JOIN farmers f ON f.id = c.farmer_id`

func scanCrop(row interface{ Scan(...any) error }) (*models.Crop, error) {
	var c models.Crop
	var description sql.NullString
	farmer := &models.FarmerSummary{}

	err := row.Scan(
		&c.ID, &c.CropName, &c.Price, &c.Quantity, &description, &c.FarmerID, &c.CreatedAt, &c.UpdatedAt,
		&farmer.Name, &farmer.Email, &farmer.PhoneNumber, &farmer.Address,
	)
	if err != nil {
		return nil, err
	}
	if description.Valid {
		c.Description = description.String
	}
	farmer.ID = c.FarmerID
	c.Farmer = farmer
	return &c, nil
}

func (s *CropStore) query(ctx context.Context, where string, args ...any) ([]*models.Crop, error) {
	rows, err := s.db.QueryContext(ctx, cropSelect+" "+where+" ORDER BY c.id", args...)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	defer rows.Close()

	crops := []*models.Crop{}
	for rows.Next() {
		c, err := scanCrop(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning crop: %w", err)
		}
		crops = append(crops, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return crops, nil
}

// Create inserts the crop under c.FarmerID and sets c.ID.
func (s *CropStore) Create(ctx context.Context, c *models.Crop) error {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO crops (crop_name, price, quantity, description, farmer_id) VALUES (?, ?, ?, ?, ?)",
		c.CropName, c.Price, c.Quantity, nullable(c.Description), c.FarmerID,
	)
	if err != nil {
		return wrapWrite(err, "create crop")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get crop ID: %w", err)
	}
	c.ID = id
	return nil
}

func (s *CropStore) Get(ctx context.Context, id int64) (*models.Crop, error) {
	c, err := scanCrop(s.db.QueryRowContext(ctx, cropSelect+" WHERE c.id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return c, nil
}

func (s *CropStore) List(ctx context.Context) ([]*models.Crop, error) {
	return s.query(ctx, "")
}

func (s *CropStore) ListByFarmer(ctx context.Context, farmerID int64) ([]*models.Crop, error) {
	return s.query(ctx, "WHERE c.farmer_id = ?", farmerID)
}

// SearchByName matches crop names containing term, ignoring case.
func (s *CropStore) SearchByName(ctx context.Context, term string) ([]*models.Crop, error) {
	pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
	return s.query(ctx, `WHERE LOWER(c.crop_name) LIKE ? ESCAPE '\\'`, pattern)
}

func (s *CropStore) Update(ctx context.Context, c *models.Crop) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE crops SET crop_name = ?, price = ?, quantity = ?, description = ? WHERE id = ?",
		c.CropName, c.Price, c.Quantity, nullable(c.Description), c.ID,
	)
	if err != nil {
		return wrapWrite(err, "update crop")
	}
	return nil
}

func (s *CropStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM crops WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete crop: %w", err)
	}
	return expectOneRow(res)
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
