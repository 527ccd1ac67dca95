package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/finbook/finbook/internal/model"
)

// CreateCurrency persists a new currency.
func (q *queries) CreateCurrency(ctx context.Context, currency *model.Currency) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if currency == nil {
		return fmt.Errorf("%w: currency", ErrNilParameter)
	}
	if err := validateID(currency.ID, "currency.ID"); err != nil {
		return err
	}
	if err := validateString(currency.CharCode, "currency.CharCode"); err != nil {
		return err
	}
	if err := validateString(currency.Name, "currency.Name"); err != nil {
		return err
	}

	query := `
		INSERT INTO currencies (id, char_code, num_code, name, is_deleted, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	_, err := q.db.ExecContext(ctx, query,
		currency.ID.String(), currency.CharCode, currency.NumCode,
		currency.Name, currency.IsDeleted, currency.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create currency: %w", err)
	}

	slog.Debug("created currency", "id", currency.ID, "char_code", currency.CharCode)
	return nil
}

// GetCurrencyByID returns a currency by id regardless of its soft-delete
// state, or nil when not found. Soft-deleted rows stay readable for
// historical display.
func (q *queries) GetCurrencyByID(ctx context.Context, id uuid.UUID) (*model.Currency, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(id, "id"); err != nil {
		return nil, err
	}

	query := `
		SELECT id, char_code, num_code, name, is_deleted, created_at
		FROM currencies WHERE id = ?`

	currency, err := scanCurrency(q.db.QueryRowContext(ctx, query, id.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query currency: %w", err)
	}
	return currency, nil
}

// GetCurrencyByCharCode returns a non-deleted currency by its char code, or
// nil when not found.
func (q *queries) GetCurrencyByCharCode(ctx context.Context, charCode string) (*model.Currency, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(charCode, "charCode"); err != nil {
		return nil, err
	}

	query := `
		SELECT id, char_code, num_code, name, is_deleted, created_at
		FROM currencies WHERE char_code = ? AND is_deleted = 0`

	currency, err := scanCurrency(q.db.QueryRowContext(ctx, query, charCode))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query currency: %w", err)
	}
	return currency, nil
}

// ListCurrencies returns currencies ordered by char code. Soft-deleted rows
// are excluded unless includeDeleted is set.
func (q *queries) ListCurrencies(ctx context.Context, includeDeleted bool) ([]model.Currency, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, char_code, num_code, name, is_deleted, created_at
		FROM currencies`
	if !includeDeleted {
		query += ` WHERE is_deleted = 0`
	}
	query += ` ORDER BY char_code`

	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query currencies: %w", err)
	}
	defer rows.Close()

	var currencies []model.Currency
	for rows.Next() {
		currency, err := scanCurrency(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan currency: %w", err)
		}
		currencies = append(currencies, *currency)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating currencies: %w", err)
	}
	return currencies, nil
}

// SetCurrencyDeleted flips the soft-delete flag of a currency.
func (q *queries) SetCurrencyDeleted(ctx context.Context, id uuid.UUID, deleted bool) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateID(id, "id"); err != nil {
		return err
	}

	result, err := q.db.ExecContext(ctx, `UPDATE currencies SET is_deleted = ? WHERE id = ?`, deleted, id.String())
	if err != nil {
		return fmt.Errorf("failed to update currency: %w", err)
	}
	return requireRowAffected(result, "currency")
}

// DeleteCurrency removes a currency row.
func (q *queries) DeleteCurrency(ctx context.Context, id uuid.UUID) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateID(id, "id"); err != nil {
		return err
	}

	result, err := q.db.ExecContext(ctx, `DELETE FROM currencies WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete currency: %w", err)
	}
	return requireRowAffected(result, "currency")
}

// CurrencyCodeExists reports whether another non-deleted currency carries the
// same char or numeric code.
func (q *queries) CurrencyCodeExists(ctx context.Context, charCode, numCode string, excludeID uuid.UUID) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	if err := validateString(charCode, "charCode"); err != nil {
		return false, err
	}

	query := `
		SELECT EXISTS(
			SELECT 1 FROM currencies
			WHERE (char_code = ? OR num_code = ?) AND is_deleted = 0 AND id <> ?
		)`

	var exists bool
	err := q.db.QueryRowContext(ctx, query, charCode, numCode, excludeID.String()).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check currency code: %w", err)
	}
	return exists, nil
}

// CurrencyNameExists reports whether another non-deleted currency carries the
// same name.
func (q *queries) CurrencyNameExists(ctx context.Context, name string, excludeID uuid.UUID) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	if err := validateString(name, "name"); err != nil {
		return false, err
	}

	var exists bool
	err := q.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM currencies WHERE name = ? AND is_deleted = 0 AND id <> ?)`,
		name, excludeID.String(),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check currency name: %w", err)
	}
	return exists, nil
}

func scanCurrency(row rowScanner) (*model.Currency, error) {
	var currency model.Currency
	var id string
	if err := row.Scan(&id, &currency.CharCode, &currency.NumCode, &currency.Name,
		&currency.IsDeleted, &currency.CreatedAt); err != nil {
		return nil, err
	}

	var err error
	if currency.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("failed to parse currency id: %w", err)
	}
	return &currency, nil
}
