package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/finbook/finbook/internal/model"
)

// CreateAccountType persists a new account type.
func (q *queries) CreateAccountType(ctx context.Context, accountType *model.AccountType) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if accountType == nil {
		return fmt.Errorf("%w: accountType", ErrNilParameter)
	}
	if err := validateID(accountType.ID, "accountType.ID"); err != nil {
		return err
	}
	if err := validateString(accountType.Name, "accountType.Name"); err != nil {
		return err
	}

	_, err := q.db.ExecContext(ctx,
		`INSERT INTO account_types (id, name, is_deleted, created_at) VALUES (?, ?, ?, ?)`,
		accountType.ID.String(), accountType.Name, accountType.IsDeleted, accountType.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create account type: %w", err)
	}
	return nil
}

// GetAccountTypeByID returns an account type by id regardless of soft-delete
// state, or nil when not found.
func (q *queries) GetAccountTypeByID(ctx context.Context, id uuid.UUID) (*model.AccountType, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(id, "id"); err != nil {
		return nil, err
	}

	var accountType model.AccountType
	var rawID string
	err := q.db.QueryRowContext(ctx,
		`SELECT id, name, is_deleted, created_at FROM account_types WHERE id = ?`, id.String(),
	).Scan(&rawID, &accountType.Name, &accountType.IsDeleted, &accountType.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query account type: %w", err)
	}

	if accountType.ID, err = uuid.Parse(rawID); err != nil {
		return nil, fmt.Errorf("failed to parse account type id: %w", err)
	}
	return &accountType, nil
}

// ListAccountTypes returns account types ordered by name. Soft-deleted rows
// are excluded unless includeDeleted is set.
func (q *queries) ListAccountTypes(ctx context.Context, includeDeleted bool) ([]model.AccountType, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `SELECT id, name, is_deleted, created_at FROM account_types`
	if !includeDeleted {
		query += ` WHERE is_deleted = 0`
	}
	query += ` ORDER BY name`

	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query account types: %w", err)
	}
	defer rows.Close()

	var accountTypes []model.AccountType
	for rows.Next() {
		var accountType model.AccountType
		var rawID string
		if err := rows.Scan(&rawID, &accountType.Name, &accountType.IsDeleted, &accountType.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan account type: %w", err)
		}
		if accountType.ID, err = uuid.Parse(rawID); err != nil {
			return nil, fmt.Errorf("failed to parse account type id: %w", err)
		}
		accountTypes = append(accountTypes, accountType)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account types: %w", err)
	}
	return accountTypes, nil
}

// SetAccountTypeDeleted flips the soft-delete flag of an account type.
func (q *queries) SetAccountTypeDeleted(ctx context.Context, id uuid.UUID, deleted bool) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateID(id, "id"); err != nil {
		return err
	}

	result, err := q.db.ExecContext(ctx, `UPDATE account_types SET is_deleted = ? WHERE id = ?`, deleted, id.String())
	if err != nil {
		return fmt.Errorf("failed to update account type: %w", err)
	}
	return requireRowAffected(result, "account type")
}

// DeleteAccountType removes an account type row.
func (q *queries) DeleteAccountType(ctx context.Context, id uuid.UUID) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateID(id, "id"); err != nil {
		return err
	}

	result, err := q.db.ExecContext(ctx, `DELETE FROM account_types WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete account type: %w", err)
	}
	return requireRowAffected(result, "account type")
}

// AccountTypeNameExists reports whether another non-deleted account type
// carries the same name.
func (q *queries) AccountTypeNameExists(ctx context.Context, name string, excludeID uuid.UUID) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	if err := validateString(name, "name"); err != nil {
		return false, err
	}

	var exists bool
	err := q.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM account_types WHERE name = ? AND is_deleted = 0 AND id <> ?)`,
		name, excludeID.String(),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check account type name: %w", err)
	}
	return exists, nil
}
