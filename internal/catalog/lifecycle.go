package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/finbook/finbook/internal/common"
	"github.com/finbook/finbook/internal/service"
)

// MarkCurrencyDeleted soft-deletes a currency. Already-deleted is a no-op.
// The row stays readable by id but is excluded from assignment listings and
// rejected as a new account reference.
func (s *Service) MarkCurrencyDeleted(ctx context.Context, id uuid.UUID) error {
	return s.withTx(ctx, func(tx service.Transaction) error {
		currency, err := tx.GetCurrencyByID(ctx, id)
		if err != nil {
			return err
		}
		if currency == nil {
			return common.NewNotFoundError("currency", id.String())
		}
		if currency.IsDeleted {
			return nil
		}
		return tx.SetCurrencyDeleted(ctx, id, true)
	})
}

// RestoreCurrency reverses a currency soft delete. Already-active is a no-op.
// Restoring fails if another live currency has meanwhile taken the same code
// or name, since code and name uniqueness only spans non-deleted rows.
func (s *Service) RestoreCurrency(ctx context.Context, id uuid.UUID) error {
	return s.withTx(ctx, func(tx service.Transaction) error {
		currency, err := tx.GetCurrencyByID(ctx, id)
		if err != nil {
			return err
		}
		if currency == nil {
			return common.NewNotFoundError("currency", id.String())
		}
		if !currency.IsDeleted {
			return nil
		}

		taken, err := tx.CurrencyCodeExists(ctx, currency.CharCode, currency.NumCode, id)
		if err != nil {
			return err
		}
		if !taken {
			taken, err = tx.CurrencyNameExists(ctx, currency.Name, id)
			if err != nil {
				return err
			}
		}
		if taken {
			return common.NewConflictError("cannot restore currency %q: code or name is taken by a live currency", currency.CharCode)
		}

		return tx.SetCurrencyDeleted(ctx, id, false)
	})
}

// MarkAccountTypeDeleted soft-deletes an account type. Already-deleted is a
// no-op.
func (s *Service) MarkAccountTypeDeleted(ctx context.Context, id uuid.UUID) error {
	return s.withTx(ctx, func(tx service.Transaction) error {
		accountType, err := tx.GetAccountTypeByID(ctx, id)
		if err != nil {
			return err
		}
		if accountType == nil {
			return common.NewNotFoundError("account type", id.String())
		}
		if accountType.IsDeleted {
			return nil
		}
		return tx.SetAccountTypeDeleted(ctx, id, true)
	})
}

// RestoreAccountType reverses an account type soft delete. Already-active is
// a no-op; a live name collision blocks the restore.
func (s *Service) RestoreAccountType(ctx context.Context, id uuid.UUID) error {
	return s.withTx(ctx, func(tx service.Transaction) error {
		accountType, err := tx.GetAccountTypeByID(ctx, id)
		if err != nil {
			return err
		}
		if accountType == nil {
			return common.NewNotFoundError("account type", id.String())
		}
		if !accountType.IsDeleted {
			return nil
		}

		taken, err := tx.AccountTypeNameExists(ctx, accountType.Name, id)
		if err != nil {
			return err
		}
		if taken {
			return common.NewConflictError("cannot restore account type %q: name is taken by a live type", accountType.Name)
		}

		return tx.SetAccountTypeDeleted(ctx, id, false)
	})
}
