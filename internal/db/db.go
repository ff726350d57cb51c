package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog"

	"agritrade/internal/models"
)

func InitDB(dbURL string, logger zerolog.Logger) (*sql.DB, error) {
	db, err := sql.Open("mysql", dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("database not responding: %w", err)
	}

	logger.Info().Msg("Connected to database")
	return db, nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS farmers (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(150) NOT NULL,
		email VARCHAR(255) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		phone_number VARCHAR(50) NOT NULL,
		address VARCHAR(500) NOT NULL DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_farmers_email (email)
	);`,
	`CREATE TABLE IF NOT EXISTS merchants (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(150) NOT NULL,
		email VARCHAR(255) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		phone_number VARCHAR(50) NOT NULL,
		address VARCHAR(500) NOT NULL DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_merchants_email (email)
	);`,
	`CREATE TABLE IF NOT EXISTS identities (
		email VARCHAR(255) PRIMARY KEY,
		kind ENUM('farmer','merchant','user') NOT NULL,
		account_id BIGINT NOT NULL,
		UNIQUE KEY uq_identities_account (kind, account_id)
	);`,
	`CREATE TABLE IF NOT EXISTS crops (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		crop_name VARCHAR(150) NOT NULL,
		price DECIMAL(12,2) NOT NULL,
		quantity INT NOT NULL,
		description TEXT NULL,
		farmer_id BIGINT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		INDEX idx_crops_farmer (farmer_id),
		INDEX idx_crops_name (crop_name),
		CONSTRAINT chk_crops_price CHECK (price >= 0),
		CONSTRAINT chk_crops_quantity CHECK (quantity >= 0),
		FOREIGN KEY (farmer_id) REFERENCES farmers(id) ON DELETE CASCADE
	);`,
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		username VARCHAR(100) NOT NULL,
		email VARCHAR(255) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_users_username (username),
		UNIQUE KEY uq_users_email (email)
	);`,
	`CREATE TABLE IF NOT EXISTS roles (
		id INT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(50) NOT NULL,
		UNIQUE KEY uq_roles_name (name)
	);`,
	`CREATE TABLE IF NOT EXISTS user_roles (
		user_id BIGINT NOT NULL,
		role_id INT NOT NULL,
		PRIMARY KEY (user_id, role_id),
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE,
		FOREIGN KEY (role_id) REFERENCES roles(id)
	);`,
}

func RunMigrations(ctx context.Context, db *sql.DB, logger zerolog.Logger) error {
	for i, q := range migrations {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("migration %d failed: %w", i, err)
		}
	}
	logger.Info().Int("count", len(migrations)).Msg("Migrations complete")
	return nil
}

// SeedRoles inserts the fixed role set. Safe to run on every start.
func SeedRoles(ctx context.Context, db *sql.DB, logger zerolog.Logger) error {
	for _, role := range models.AllRoles() {
		if _, err := db.ExecContext(ctx, "INSERT IGNORE INTO roles (name) VALUES (?)", string(role)); err != nil {
			return fmt.Errorf("failed to seed role %s: %w", role, err)
		}
	}
	logger.Info().Msg("Roles seeded")
	return nil
}
