package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/finbook/finbook/internal/common"
	"github.com/finbook/finbook/internal/model"
	"github.com/finbook/finbook/internal/service"
)

// CreateAccountParams carries the fields for a new account.
type CreateAccountParams struct {
	Name          string
	HolderID      uuid.UUID
	AccountTypeID uuid.UUID
	CurrencyID    uuid.UUID
	BankID        uuid.UUID
	IsDefault     bool
}

// CreateAccount creates an account. When IsDefault is set, the holder's
// previous default is retired in the same transaction that inserts the row,
// so the single-default invariant is never observably violated.
func (s *Service) CreateAccount(ctx context.Context, params CreateAccountParams) (*model.Account, error) {
	if params.Name == "" {
		return nil, common.NewValidationError("account name is required")
	}

	account := &model.Account{
		ID:            uuid.New(),
		HolderID:      params.HolderID,
		AccountTypeID: params.AccountTypeID,
		CurrencyID:    params.CurrencyID,
		BankID:        params.BankID,
		Name:          params.Name,
		IsDefault:     params.IsDefault,
		CreatedAt:     time.Now().UTC(),
	}

	err := s.withTx(ctx, func(tx service.Transaction) error {
		holder, err := tx.GetHolderByID(ctx, params.HolderID)
		if err != nil {
			return err
		}
		if holder == nil {
			return common.NewNotFoundError("holder", params.HolderID.String())
		}

		if err := checkAccountReferences(ctx, tx, params.AccountTypeID, params.CurrencyID, params.BankID, nil); err != nil {
			return err
		}

		if params.IsDefault {
			if err := retireCurrentDefault(ctx, tx, params.HolderID, uuid.Nil); err != nil {
				return err
			}
		}

		return tx.CreateAccount(ctx, account)
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

// UpdateAccountParams carries the mutable fields of an account.
type UpdateAccountParams struct {
	Name          string
	AccountTypeID uuid.UUID
	CurrencyID    uuid.UUID
	BankID        uuid.UUID
	IsDefault     bool
}

// UpdateAccount rewrites an account in place. Promoting to default swaps the
// holder's previous default atomically; clearing the default flag is rejected
// because a demotion needs a replacement (see UnsetDefaultAccount).
func (s *Service) UpdateAccount(ctx context.Context, accountID uuid.UUID, params UpdateAccountParams) error {
	if params.Name == "" {
		return common.NewValidationError("account name is required")
	}

	return s.withTx(ctx, func(tx service.Transaction) error {
		account, err := tx.GetAccountByID(ctx, accountID)
		if err != nil {
			return err
		}
		if account == nil {
			return common.NewNotFoundError("account", accountID.String())
		}
		if account.IsDeleted {
			return common.NewConflictError("account %q is deleted", account.Name)
		}

		if err := checkAccountReferences(ctx, tx, params.AccountTypeID, params.CurrencyID, params.BankID, account); err != nil {
			return err
		}

		switch {
		case params.IsDefault && !account.IsDefault:
			if !account.IsActive() {
				return common.NewConflictError("account %q is archived and cannot be default", account.Name)
			}
			if err := retireCurrentDefault(ctx, tx, account.HolderID, accountID); err != nil {
				return err
			}
		case !params.IsDefault && account.IsDefault:
			return common.NewConflictError("cannot clear the default flag directly: promote a replacement instead")
		}

		account.AccountTypeID = params.AccountTypeID
		account.CurrencyID = params.CurrencyID
		account.BankID = params.BankID
		account.Name = params.Name
		account.IsDefault = params.IsDefault
		return tx.UpdateAccount(ctx, account)
	})
}

// SetDefaultAccount makes the account its holder's default, retiring the
// previous default in the same transaction. Already-default is a no-op.
func (s *Service) SetDefaultAccount(ctx context.Context, accountID uuid.UUID) error {
	return s.withTx(ctx, func(tx service.Transaction) error {
		account, err := tx.GetAccountByID(ctx, accountID)
		if err != nil {
			return err
		}
		if account == nil {
			return common.NewNotFoundError("account", accountID.String())
		}
		if account.IsDefault {
			return nil
		}
		if !account.IsActive() {
			return common.NewConflictError("account %q is archived or deleted and cannot be default", account.Name)
		}

		if err := retireCurrentDefault(ctx, tx, account.HolderID, accountID); err != nil {
			return err
		}
		return tx.SetAccountDefault(ctx, accountID, true)
	})
}

// UnsetDefaultAccount demotes the holder's default account, promoting the
// given replacement in the same transaction. The replacement must belong to
// the same holder and be active. Already-non-default is a no-op.
func (s *Service) UnsetDefaultAccount(ctx context.Context, accountID, replacementID uuid.UUID) error {
	return s.withTx(ctx, func(tx service.Transaction) error {
		account, err := tx.GetAccountByID(ctx, accountID)
		if err != nil {
			return err
		}
		if account == nil {
			return common.NewNotFoundError("account", accountID.String())
		}
		if !account.IsDefault {
			return nil
		}

		if replacementID == accountID {
			return common.NewConflictError("replacement must be a different account")
		}

		replacement, err := tx.GetAccountByID(ctx, replacementID)
		if err != nil {
			return err
		}
		if replacement == nil {
			return common.NewNotFoundError("account", replacementID.String())
		}
		if replacement.HolderID != account.HolderID {
			return common.NewConflictError("replacement account belongs to a different holder")
		}
		if !replacement.IsActive() {
			return common.NewConflictError("replacement account %q is archived or deleted", replacement.Name)
		}

		if err := tx.SetAccountDefault(ctx, accountID, false); err != nil {
			return err
		}
		return tx.SetAccountDefault(ctx, replacementID, true)
	})
}

// ArchiveAccount archives an account. Archiving the current default is
// rejected: the caller must promote a replacement first.
func (s *Service) ArchiveAccount(ctx context.Context, accountID uuid.UUID) error {
	return s.setAccountState(ctx, accountID, func(tx service.Transaction, account *model.Account) error {
		if account.IsArchived {
			return nil
		}
		if account.IsDefault {
			return common.NewConflictError("account %q is the default account and cannot be archived", account.Name)
		}
		return tx.SetAccountArchived(ctx, accountID, true)
	})
}

// UnarchiveAccount clears the archived flag. Already-active is a no-op.
func (s *Service) UnarchiveAccount(ctx context.Context, accountID uuid.UUID) error {
	return s.setAccountState(ctx, accountID, func(tx service.Transaction, account *model.Account) error {
		if !account.IsArchived {
			return nil
		}
		return tx.SetAccountArchived(ctx, accountID, false)
	})
}

// SoftDeleteAccount marks an account deleted, excluding it from default
// candidacy. Deleting the current default is rejected.
func (s *Service) SoftDeleteAccount(ctx context.Context, accountID uuid.UUID) error {
	return s.setAccountState(ctx, accountID, func(tx service.Transaction, account *model.Account) error {
		if account.IsDeleted {
			return nil
		}
		if account.IsDefault {
			return common.NewConflictError("account %q is the default account and cannot be deleted", account.Name)
		}
		return tx.SetAccountDeleted(ctx, accountID, true)
	})
}

// RestoreAccount clears the soft-delete flag. Already-active is a no-op.
func (s *Service) RestoreAccount(ctx context.Context, accountID uuid.UUID) error {
	return s.setAccountState(ctx, accountID, func(tx service.Transaction, account *model.Account) error {
		if !account.IsDeleted {
			return nil
		}
		return tx.SetAccountDeleted(ctx, accountID, false)
	})
}

func (s *Service) setAccountState(ctx context.Context, accountID uuid.UUID, apply func(tx service.Transaction, account *model.Account) error) error {
	return s.withTx(ctx, func(tx service.Transaction) error {
		account, err := tx.GetAccountByID(ctx, accountID)
		if err != nil {
			return err
		}
		if account == nil {
			return common.NewNotFoundError("account", accountID.String())
		}
		return apply(tx, account)
	})
}

// retireCurrentDefault demotes the holder's current default account, if any.
// The lookup runs inside the caller's transaction, not against a prior read,
// so two concurrent swaps for the same holder serialize instead of
// interleaving into a double default.
func retireCurrentDefault(ctx context.Context, tx service.Transaction, holderID, keepID uuid.UUID) error {
	current, err := tx.GetDefaultAccount(ctx, holderID)
	if err != nil {
		return err
	}
	if current == nil || current.ID == keepID {
		return nil
	}
	return tx.SetAccountDefault(ctx, current.ID, false)
}

// checkAccountReferences verifies the reference entities an account points at
// exist and are not soft deleted. A soft-deleted currency or account type may
// stay attached to an existing account (current non-nil, reference unchanged)
// but never becomes a new foreign key.
func checkAccountReferences(ctx context.Context, tx service.Transaction, accountTypeID, currencyID, bankID uuid.UUID, current *model.Account) error {
	accountType, err := tx.GetAccountTypeByID(ctx, accountTypeID)
	if err != nil {
		return err
	}
	if accountType == nil {
		return common.NewNotFoundError("account type", accountTypeID.String())
	}
	if accountType.IsDeleted && (current == nil || current.AccountTypeID != accountTypeID) {
		return common.NewConflictError("account type %q is deleted", accountType.Name)
	}

	currency, err := tx.GetCurrencyByID(ctx, currencyID)
	if err != nil {
		return err
	}
	if currency == nil {
		return common.NewNotFoundError("currency", currencyID.String())
	}
	if currency.IsDeleted && (current == nil || current.CurrencyID != currencyID) {
		return common.NewConflictError("currency %q is deleted", currency.CharCode)
	}

	bank, err := tx.GetBankByID(ctx, bankID)
	if err != nil {
		return err
	}
	if bank == nil {
		return common.NewNotFoundError("bank", bankID.String())
	}
	return nil
}
