package db

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"agritrade/internal/models"
)

func TestRunMigrationsExecutesEveryStatement(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	for range migrations {
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS").WillReturnResult(sqlmock.NewResult(0, 0))
	}

	require.NoError(t, RunMigrations(context.Background(), conn, zerolog.Nop()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMigrationsStopsOnError(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS farmers").WillReturnError(errors.New("boom"))

	err = RunMigrations(context.Background(), conn, zerolog.Nop())
	require.ErrorContains(t, err, "migration 0 failed")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSeedRolesInsertsFixedSet(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	for _, role := range models.AllRoles() {
		mock.ExpectExec(regexp.QuoteMeta("INSERT IGNORE INTO roles (name) VALUES (?)")).
			WithArgs(string(role)).
			WillReturnResult(sqlmock.NewResult(1, 1))
	}

	require.NoError(t, SeedRoles(context.Background(), conn, zerolog.Nop()))
	require.NoError(t, mock.ExpectationsWereMet())
}
