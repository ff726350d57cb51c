package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"agritrade/internal/models"
)

// account is the row shape shared by the farmers and merchants tables.
type account struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	PhoneNumber  string
	Address      string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

const accountColumns = "id, name, email, password_hash, phone_number, address, created_at, updated_at"

// accountTable runs the queries common to farmers and merchants. Every write
// keeps the identities row for the account in the same transaction.
type accountTable struct {
	db    *sql.DB
	table string
	kind  models.IdentityKind
}

func scanAccount(row interface{ Scan(...any) error }) (*account, error) {
	var a account
	err := row.Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.PhoneNumber, &a.Address, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (t accountTable) create(ctx context.Context, a *account) error {
	return withTx(ctx, t.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			fmt.Sprintf("INSERT INTO %s (name, email, password_hash, phone_number, address) VALUES (?, ?, ?, ?, ?)", t.table),
			a.Name, a.Email, a.PasswordHash, a.PhoneNumber, a.Address,
		)
		if err != nil {
			return wrapWrite(err, "create "+string(t.kind))
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get %s ID: %w", t.kind, err)
		}
		if err := insertIdentity(ctx, tx, a.Email, t.kind, id); err != nil {
			return err
		}
		a.ID = id
		return nil
	})
}

func (t accountTable) list(ctx context.Context) ([]*account, error) {
	rows, err := t.db.QueryContext(ctx, fmt.Sprintf("SELECT %s FROM %s ORDER BY id", accountColumns, t.table))
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	defer rows.Close()

	var out []*account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning %s: %w", t.kind, err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return out, nil
}

func (t accountTable) getBy(ctx context.Context, column string, value any) (*account, error) {
	row := t.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT %s FROM %s WHERE %s = ?", accountColumns, t.table, column), value)
	a, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return a, nil
}

func (t accountTable) update(ctx context.Context, a *account) error {
	return withTx(ctx, t.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			fmt.Sprintf("UPDATE %s SET name = ?, email = ?, password_hash = ?, phone_number = ?, address = ? WHERE id = ?", t.table),
			a.Name, a.Email, a.PasswordHash, a.PhoneNumber, a.Address, a.ID,
		)
		if err != nil {
			return wrapWrite(err, "update "+string(t.kind))
		}
		return renameIdentity(ctx, tx, a.Email, t.kind, a.ID)
	})
}

func (t accountTable) delete(ctx context.Context, id int64) error {
	return withTx(ctx, t.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = ?", t.table), id)
		if err != nil {
			return fmt.Errorf("failed to delete %s: %w", t.kind, err)
		}
		if err := expectOneRow(res); err != nil {
			return err
		}
		return deleteIdentity(ctx, tx, t.kind, id)
	})
}

func (t accountTable) count(ctx context.Context) (int64, error) {
	var n int64
	if err := t.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", t.table)).Scan(&n); err != nil {
		return 0, fmt.Errorf("database error: %w", err)
	}
	return n, nil
}
