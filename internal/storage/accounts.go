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

// CreateAccount persists a new account.
func (q *queries) CreateAccount(ctx context.Context, account *model.Account) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateAccount(account); err != nil {
		return err
	}

	query := `
		INSERT INTO accounts (id, holder_id, account_type_id, currency_id, bank_id, name,
			is_default, is_archived, is_deleted, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := q.db.ExecContext(ctx, query,
		account.ID.String(), account.HolderID.String(), account.AccountTypeID.String(),
		account.CurrencyID.String(), account.BankID.String(), account.Name,
		account.IsDefault, account.IsArchived, account.IsDeleted, account.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}

	slog.Debug("created account", "id", account.ID, "holder", account.HolderID)
	return nil
}

// GetAccountByID returns an account by its id, or nil when not found.
func (q *queries) GetAccountByID(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(id, "id"); err != nil {
		return nil, err
	}

	query := accountColumns + ` WHERE id = ?`

	account, err := scanAccount(q.db.QueryRowContext(ctx, query, id.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query account: %w", err)
	}
	return account, nil
}

// ListAccounts returns all accounts of a holder ordered by name.
func (q *queries) ListAccounts(ctx context.Context, holderID uuid.UUID) ([]model.Account, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(holderID, "holderID"); err != nil {
		return nil, err
	}

	query := accountColumns + ` WHERE holder_id = ? ORDER BY name`

	rows, err := q.db.QueryContext(ctx, query, holderID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	var accounts []model.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, *account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating accounts: %w", err)
	}
	return accounts, nil
}

// UpdateAccount rewrites the mutable columns of an account row.
func (q *queries) UpdateAccount(ctx context.Context, account *model.Account) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateAccount(account); err != nil {
		return err
	}

	query := `
		UPDATE accounts
		SET account_type_id = ?, currency_id = ?, bank_id = ?, name = ?,
			is_default = ?, is_archived = ?, is_deleted = ?
		WHERE id = ?`

	result, err := q.db.ExecContext(ctx, query,
		account.AccountTypeID.String(), account.CurrencyID.String(), account.BankID.String(),
		account.Name, account.IsDefault, account.IsArchived, account.IsDeleted,
		account.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	return requireRowAffected(result, "account")
}

// GetDefaultAccount returns the holder's current default account, or nil when
// none is set.
func (q *queries) GetDefaultAccount(ctx context.Context, holderID uuid.UUID) (*model.Account, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(holderID, "holderID"); err != nil {
		return nil, err
	}

	query := accountColumns + ` WHERE holder_id = ? AND is_default = 1`

	account, err := scanAccount(q.db.QueryRowContext(ctx, query, holderID.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query default account: %w", err)
	}
	return account, nil
}

// SetAccountDefault flips the default flag of a single account.
func (q *queries) SetAccountDefault(ctx context.Context, id uuid.UUID, isDefault bool) error {
	return q.setAccountFlag(ctx, id, "is_default", isDefault)
}

// SetAccountArchived flips the archived flag of a single account.
func (q *queries) SetAccountArchived(ctx context.Context, id uuid.UUID, archived bool) error {
	return q.setAccountFlag(ctx, id, "is_archived", archived)
}

// SetAccountDeleted flips the soft-delete flag of a single account.
func (q *queries) SetAccountDeleted(ctx context.Context, id uuid.UUID, deleted bool) error {
	return q.setAccountFlag(ctx, id, "is_deleted", deleted)
}

func (q *queries) setAccountFlag(ctx context.Context, id uuid.UUID, column string, value bool) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateID(id, "id"); err != nil {
		return err
	}

	// column is one of the fixed flag names above, never caller input.
	query := fmt.Sprintf(`UPDATE accounts SET %s = ? WHERE id = ?`, column)
	result, err := q.db.ExecContext(ctx, query, value, id.String())
	if err != nil {
		return fmt.Errorf("failed to update account %s: %w", column, err)
	}
	return requireRowAffected(result, "account")
}

// AccountsUseCurrency reports whether any account references the currency.
func (q *queries) AccountsUseCurrency(ctx context.Context, currencyID uuid.UUID) (bool, error) {
	return q.existsCheck(ctx, `SELECT EXISTS(SELECT 1 FROM accounts WHERE currency_id = ?)`, currencyID)
}

// AccountsUseAccountType reports whether any account references the account type.
func (q *queries) AccountsUseAccountType(ctx context.Context, accountTypeID uuid.UUID) (bool, error) {
	return q.existsCheck(ctx, `SELECT EXISTS(SELECT 1 FROM accounts WHERE account_type_id = ?)`, accountTypeID)
}

// AccountsUseBank reports whether any account references the bank.
func (q *queries) AccountsUseBank(ctx context.Context, bankID uuid.UUID) (bool, error) {
	return q.existsCheck(ctx, `SELECT EXISTS(SELECT 1 FROM accounts WHERE bank_id = ?)`, bankID)
}

// HolderHasAccounts reports whether any account is owned by the holder.
func (q *queries) HolderHasAccounts(ctx context.Context, holderID uuid.UUID) (bool, error) {
	return q.existsCheck(ctx, `SELECT EXISTS(SELECT 1 FROM accounts WHERE holder_id = ?)`, holderID)
}

func (q *queries) existsCheck(ctx context.Context, query string, id uuid.UUID) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	if err := validateID(id, "id"); err != nil {
		return false, err
	}

	var exists bool
	if err := q.db.QueryRowContext(ctx, query, id.String()).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to run existence check: %w", err)
	}
	return exists, nil
}

const accountColumns = `
	SELECT id, holder_id, account_type_id, currency_id, bank_id, name,
		is_default, is_archived, is_deleted, created_at
	FROM accounts`

func scanAccount(row rowScanner) (*model.Account, error) {
	var account model.Account
	var id, holderID, typeID, currencyID, bankID string
	if err := row.Scan(&id, &holderID, &typeID, &currencyID, &bankID, &account.Name,
		&account.IsDefault, &account.IsArchived, &account.IsDeleted, &account.CreatedAt); err != nil {
		return nil, err
	}

	var err error
	if account.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("failed to parse account id: %w", err)
	}
	if account.HolderID, err = uuid.Parse(holderID); err != nil {
		return nil, fmt.Errorf("failed to parse holder id: %w", err)
	}
	if account.AccountTypeID, err = uuid.Parse(typeID); err != nil {
		return nil, fmt.Errorf("failed to parse account type id: %w", err)
	}
	if account.CurrencyID, err = uuid.Parse(currencyID); err != nil {
		return nil, fmt.Errorf("failed to parse currency id: %w", err)
	}
	if account.BankID, err = uuid.Parse(bankID); err != nil {
		return nil, fmt.Errorf("failed to parse bank id: %w", err)
	}
	return &account, nil
}
