package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/finbook/finbook/internal/common"
	"github.com/finbook/finbook/internal/service"
)

// EntityKind identifies a reference entity guarded against in-use deletion.
type EntityKind string

// Guarded entity kinds. Categories are deliberately absent: their hard delete
// is governed by the transactions subsystem, not this guard.
const (
	KindCurrency    EntityKind = "currency"
	KindAccountType EntityKind = "account_type"
	KindBank        EntityKind = "bank"
	KindCountry     EntityKind = "country"
	KindHolder      EntityKind = "holder"
)

// usageStore is the slice of the storage contract the guard reads from. Both
// the pooled store and an open transaction satisfy it.
type usageStore interface {
	AccountsUseCurrency(ctx context.Context, currencyID uuid.UUID) (bool, error)
	RatesUseCurrency(ctx context.Context, currencyID uuid.UUID) (bool, error)
	AccountsUseAccountType(ctx context.Context, accountTypeID uuid.UUID) (bool, error)
	AccountsUseBank(ctx context.Context, bankID uuid.UUID) (bool, error)
	BanksUseCountry(ctx context.Context, countryID uuid.UUID) (bool, error)
	HolderHasAccounts(ctx context.Context, holderID uuid.UUID) (bool, error)
	HolderHasCategories(ctx context.Context, holderID uuid.UUID) (bool, error)
}

// usageCheck is one "no live row points at this id" predicate.
type usageCheck struct {
	run      func(ctx context.Context, store usageStore, id uuid.UUID) (bool, error)
	referrer string
}

// usageChecks is the per-kind conjunction of blocking-reference checks. The
// set of kinds is closed, so a table beats dynamic dispatch.
var usageChecks = map[EntityKind][]usageCheck{
	KindCurrency: {
		{referrer: "accounts", run: func(ctx context.Context, store usageStore, id uuid.UUID) (bool, error) {
			return store.AccountsUseCurrency(ctx, id)
		}},
		{referrer: "exchange rates", run: func(ctx context.Context, store usageStore, id uuid.UUID) (bool, error) {
			return store.RatesUseCurrency(ctx, id)
		}},
	},
	KindAccountType: {
		{referrer: "accounts", run: func(ctx context.Context, store usageStore, id uuid.UUID) (bool, error) {
			return store.AccountsUseAccountType(ctx, id)
		}},
	},
	KindBank: {
		{referrer: "accounts", run: func(ctx context.Context, store usageStore, id uuid.UUID) (bool, error) {
			return store.AccountsUseBank(ctx, id)
		}},
	},
	KindCountry: {
		{referrer: "banks", run: func(ctx context.Context, store usageStore, id uuid.UUID) (bool, error) {
			return store.BanksUseCountry(ctx, id)
		}},
	},
	KindHolder: {
		{referrer: "categories", run: func(ctx context.Context, store usageStore, id uuid.UUID) (bool, error) {
			return store.HolderHasCategories(ctx, id)
		}},
		{referrer: "accounts", run: func(ctx context.Context, store usageStore, id uuid.UUID) (bool, error) {
			return store.HolderHasAccounts(ctx, id)
		}},
	},
}

// CanDelete reports whether no live row references the entity. Absence of
// data means deletable; only store faults surface as errors.
func (s *Service) CanDelete(ctx context.Context, kind EntityKind, id uuid.UUID) (bool, error) {
	used, _, err := findUsage(ctx, s.store, kind, id)
	return !used, err
}

// findUsage runs the kind's checks, short-circuiting on the first hit.
func findUsage(ctx context.Context, store usageStore, kind EntityKind, id uuid.UUID) (bool, string, error) {
	checks, ok := usageChecks[kind]
	if !ok {
		return false, "", common.NewValidationError("unknown entity kind %q", kind)
	}

	for _, check := range checks {
		used, err := check.run(ctx, store, id)
		if err != nil {
			return false, "", err
		}
		if used {
			return true, check.referrer, nil
		}
	}
	return false, "", nil
}

// DeleteCurrency hard-deletes a currency once the guard confirms nothing
// references it. Soft-deleted rows can be hard-deleted the same way.
func (s *Service) DeleteCurrency(ctx context.Context, id uuid.UUID) error {
	return s.withTx(ctx, func(tx service.Transaction) error {
		currency, err := tx.GetCurrencyByID(ctx, id)
		if err != nil {
			return err
		}
		if currency == nil {
			return common.NewNotFoundError("currency", id.String())
		}
		if err := requireUnused(ctx, tx, KindCurrency, id, currency.CharCode); err != nil {
			return err
		}
		return tx.DeleteCurrency(ctx, id)
	})
}

// DeleteAccountType hard-deletes an account type once unreferenced.
func (s *Service) DeleteAccountType(ctx context.Context, id uuid.UUID) error {
	return s.withTx(ctx, func(tx service.Transaction) error {
		accountType, err := tx.GetAccountTypeByID(ctx, id)
		if err != nil {
			return err
		}
		if accountType == nil {
			return common.NewNotFoundError("account type", id.String())
		}
		if err := requireUnused(ctx, tx, KindAccountType, id, accountType.Name); err != nil {
			return err
		}
		return tx.DeleteAccountType(ctx, id)
	})
}

// DeleteBank hard-deletes a bank once unreferenced.
func (s *Service) DeleteBank(ctx context.Context, id uuid.UUID) error {
	return s.withTx(ctx, func(tx service.Transaction) error {
		bank, err := tx.GetBankByID(ctx, id)
		if err != nil {
			return err
		}
		if bank == nil {
			return common.NewNotFoundError("bank", id.String())
		}
		if err := requireUnused(ctx, tx, KindBank, id, bank.Name); err != nil {
			return err
		}
		return tx.DeleteBank(ctx, id)
	})
}

// DeleteCountry hard-deletes a country once no bank references it.
func (s *Service) DeleteCountry(ctx context.Context, id uuid.UUID) error {
	return s.withTx(ctx, func(tx service.Transaction) error {
		country, err := tx.GetCountryByID(ctx, id)
		if err != nil {
			return err
		}
		if country == nil {
			return common.NewNotFoundError("country", id.String())
		}
		if err := requireUnused(ctx, tx, KindCountry, id, country.Name); err != nil {
			return err
		}
		return tx.DeleteCountry(ctx, id)
	})
}

// DeleteHolder hard-deletes a registry holder once it owns no categories or
// accounts.
func (s *Service) DeleteHolder(ctx context.Context, id uuid.UUID) error {
	return s.withTx(ctx, func(tx service.Transaction) error {
		holder, err := tx.GetHolderByID(ctx, id)
		if err != nil {
			return err
		}
		if holder == nil {
			return common.NewNotFoundError("holder", id.String())
		}
		if err := requireUnused(ctx, tx, KindHolder, id, holder.Name); err != nil {
			return err
		}
		return tx.DeleteHolder(ctx, id)
	})
}

// requireUnused runs the guard inside the caller's transaction and converts a
// hit into the domain-level "in use" conflict. Forced cascades are never
// attempted.
func requireUnused(ctx context.Context, store usageStore, kind EntityKind, id uuid.UUID, name string) error {
	used, referrer, err := findUsage(ctx, store, kind, id)
	if err != nil {
		return err
	}
	if used {
		return common.NewConflictError("%s %q is in use by %s", kind, name, referrer)
	}
	return nil
}
