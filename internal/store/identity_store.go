package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"agritrade/internal/models"
)

type IdentityStore struct {
	db *sql.DB
}

func NewIdentityStore(db *sql.DB) *IdentityStore {
	return &IdentityStore{db: db}
}

func (s *IdentityStore) FindByEmail(ctx context.Context, email string) (*models.Identity, error) {
	var id models.Identity
	var kind string
	err := s.db.QueryRowContext(ctx,
		"SELECT email, kind, account_id FROM identities WHERE email = ?", email,
	).Scan(&id.Email, &kind, &id.AccountID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	id.Kind = models.IdentityKind(kind)
	return &id, nil
}

func insertIdentity(ctx context.Context, tx *sql.Tx, email string, kind models.IdentityKind, accountID int64) error {
	_, err := tx.ExecContext(ctx,
		"INSERT INTO identities (email, kind, account_id) VALUES (?, ?, ?)",
		email, string(kind), accountID,
	)
	if err != nil {
		return wrapWrite(err, "create identity")
	}
	return nil
}

func renameIdentity(ctx context.Context, tx *sql.Tx, email string, kind models.IdentityKind, accountID int64) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE identities SET email = ? WHERE kind = ? AND account_id = ?",
		email, string(kind), accountID,
	)
	if err != nil {
		return wrapWrite(err, "update identity")
	}
	return nil
}

func deleteIdentity(ctx context.Context, tx *sql.Tx, kind models.IdentityKind, accountID int64) error {
	_, err := tx.ExecContext(ctx,
		"DELETE FROM identities WHERE kind = ? AND account_id = ?",
		string(kind), accountID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete identity: %w", err)
	}
	return nil
}
