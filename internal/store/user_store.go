package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"agritrade/internal/models"
)

type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

// Create inserts the account, its identities row and its role link in one
// transaction.
func (s *UserStore) Create(ctx context.Context, u *models.User, role models.RoleName) error {
	return withTx(ctx, s.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			"INSERT INTO users (username, email, password_hash) VALUES (?, ?, ?)",
			u.Username, u.Email, u.PasswordHash,
		)
		if err != nil {
			return wrapWrite(err, "create user")
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get user ID: %w", err)
		}
		if err := insertIdentity(ctx, tx, u.Email, models.KindUser, id); err != nil {
			return err
		}

		res, err = tx.ExecContext(ctx,
			"INSERT INTO user_roles (user_id, role_id) SELECT ?, id FROM roles WHERE name = ?",
			id, string(role),
		)
		if err != nil {
			return fmt.Errorf("failed to assign role: %w", err)
		}
		if err := expectOneRow(res); err != nil {
			return fmt.Errorf("role %s is not seeded: %w", role, err)
		}

		u.ID = id
		u.Roles = []string{string(role)}
		return nil
	})
}

func (s *UserStore) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.findBy(ctx, "username", username)
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findBy(ctx, "email", email)
}

func (s *UserStore) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return s.exists(ctx, "username", username)
}

func (s *UserStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return s.exists(ctx, "email", email)
}

func (s *UserStore) findBy(ctx context.Context, column, value string) (*models.User, error) {
	var u models.User
	err := s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT id, username, email, password_hash, created_at FROM users WHERE %s = ?", column),
		value,
	).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	roles, err := s.roles(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	u.Roles = roles
	return &u, nil
}

func (s *UserStore) roles(ctx context.Context, userID int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT r.name FROM roles r JOIN user_roles ur ON ur.role_id = r.id WHERE ur.user_id = ? ORDER BY r.name",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	defer rows.Close()

	roles := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("error scanning role: %w", err)
		}
		roles = append(roles, name)
	}
	return roles, rows.Err()
}

func (s *UserStore) exists(ctx context.Context, column, value string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT 1 FROM users WHERE %s = ? LIMIT 1", column), value,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("database error: %w", err)
	}
	return true, nil
}
