package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/finbook/finbook/internal/common"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
// If the database cannot be migrated to this version, it's a fatal error.
const ExpectedSchemaVersion = 2

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial catalog schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS holders (
					id TEXT PRIMARY KEY,
					name TEXT NOT NULL UNIQUE,
					created_at DATETIME NOT NULL
				)`,

				`CREATE TABLE IF NOT EXISTS countries (
					id TEXT PRIMARY KEY,
					name TEXT NOT NULL UNIQUE,
					created_at DATETIME NOT NULL
				)`,

				`CREATE TABLE IF NOT EXISTS banks (
					id TEXT PRIMARY KEY,
					country_id TEXT NOT NULL REFERENCES countries(id),
					name TEXT NOT NULL,
					created_at DATETIME NOT NULL
				)`,
				`CREATE INDEX idx_banks_country ON banks(country_id)`,

				`CREATE TABLE IF NOT EXISTS currencies (
					id TEXT PRIMARY KEY,
					char_code TEXT NOT NULL,
					num_code TEXT NOT NULL,
					name TEXT NOT NULL,
					is_deleted INTEGER NOT NULL DEFAULT 0,
					created_at DATETIME NOT NULL
				)`,
				`CREATE INDEX idx_currencies_char_code ON currencies(char_code)`,

				`CREATE TABLE IF NOT EXISTS account_types (
					id TEXT PRIMARY KEY,
					name TEXT NOT NULL,
					is_deleted INTEGER NOT NULL DEFAULT 0,
					created_at DATETIME NOT NULL
				)`,

				`CREATE TABLE IF NOT EXISTS categories (
					id TEXT PRIMARY KEY,
					holder_id TEXT NOT NULL REFERENCES holders(id),
					parent_id TEXT REFERENCES categories(id),
					name TEXT NOT NULL,
					is_income INTEGER NOT NULL DEFAULT 0,
					is_expense INTEGER NOT NULL DEFAULT 0,
					created_at DATETIME NOT NULL
				)`,
				`CREATE INDEX idx_categories_holder ON categories(holder_id)`,
				`CREATE INDEX idx_categories_parent ON categories(parent_id)`,

				`CREATE TABLE IF NOT EXISTS accounts (
					id TEXT PRIMARY KEY,
					holder_id TEXT NOT NULL REFERENCES holders(id),
					account_type_id TEXT NOT NULL REFERENCES account_types(id),
					currency_id TEXT NOT NULL REFERENCES currencies(id),
					bank_id TEXT NOT NULL REFERENCES banks(id),
					name TEXT NOT NULL,
					is_default INTEGER NOT NULL DEFAULT 0,
					is_archived INTEGER NOT NULL DEFAULT 0,
					is_deleted INTEGER NOT NULL DEFAULT 0,
					created_at DATETIME NOT NULL
				)`,
				`CREATE INDEX idx_accounts_holder ON accounts(holder_id)`,
				`CREATE INDEX idx_accounts_holder_default ON accounts(holder_id, is_default)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Exchange rates",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS exchange_rates (
					id TEXT PRIMARY KEY,
					currency_id TEXT NOT NULL REFERENCES currencies(id),
					date TEXT NOT NULL,
					nominal INTEGER NOT NULL DEFAULT 1,
					rate TEXT NOT NULL,
					created_at DATETIME NOT NULL,
					UNIQUE(currency_id, date)
				)`,
				`CREATE INDEX idx_exchange_rates_currency ON exchange_rates(currency_id)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
}

// Migrate brings the database schema up to the expected version.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var currentVersion int
	err := s.sqlDB.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.sqlDB.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	var finalVersion int
	err = s.sqlDB.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}

	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("%w: schema version mismatch: expected %d, got %d",
			common.ErrDatabaseCorrupted, ExpectedSchemaVersion, finalVersion)
	}

	return nil
}
