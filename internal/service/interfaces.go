// Package service defines the interfaces between the catalog engine and its
// persistence layer.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/finbook/finbook/internal/model"
)

// CategoryStore defines persistence operations for the category forest.
type CategoryStore interface {
	CreateCategory(ctx context.Context, category *model.Category) error
	GetCategoryByID(ctx context.Context, id uuid.UUID) (*model.Category, error)
	ListCategories(ctx context.Context, holderID uuid.UUID) ([]model.Category, error)
	UpdateCategory(ctx context.Context, category *model.Category) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	// GetCategoryAncestors returns the ancestor chain starting at id (id first,
	// root last), produced by a single recursive query. The walk is bounded, so
	// a pre-existing cycle yields a truncated chain longer than any valid tree.
	GetCategoryAncestors(ctx context.Context, id uuid.UUID) ([]model.Category, error)

	// CategoryNameExists reports whether another category with the same name
	// shares the (holder, parent) scope. A nil parent is its own scope.
	CategoryNameExists(ctx context.Context, holderID uuid.UUID, parentID *uuid.UUID, name string, excludeID uuid.UUID) (bool, error)
}

// AccountStore defines persistence operations for accounts, including the
// default-flag primitives the invariant manager composes inside a transaction.
type AccountStore interface {
	CreateAccount(ctx context.Context, account *model.Account) error
	GetAccountByID(ctx context.Context, id uuid.UUID) (*model.Account, error)
	ListAccounts(ctx context.Context, holderID uuid.UUID) ([]model.Account, error)
	UpdateAccount(ctx context.Context, account *model.Account) error

	// GetDefaultAccount returns the holder's current default account, or nil
	// when none is set.
	GetDefaultAccount(ctx context.Context, holderID uuid.UUID) (*model.Account, error)
	SetAccountDefault(ctx context.Context, id uuid.UUID, isDefault bool) error
	SetAccountArchived(ctx context.Context, id uuid.UUID, archived bool) error
	SetAccountDeleted(ctx context.Context, id uuid.UUID, deleted bool) error
}

// ReferenceStore defines persistence operations for the reference entities
// (currencies, account types, banks, countries, holders, exchange rates) and
// the existence checks the usage guard is built from.
type ReferenceStore interface {
	// Currency operations
	CreateCurrency(ctx context.Context, currency *model.Currency) error
	GetCurrencyByID(ctx context.Context, id uuid.UUID) (*model.Currency, error)
	GetCurrencyByCharCode(ctx context.Context, charCode string) (*model.Currency, error)
	ListCurrencies(ctx context.Context, includeDeleted bool) ([]model.Currency, error)
	SetCurrencyDeleted(ctx context.Context, id uuid.UUID, deleted bool) error
	DeleteCurrency(ctx context.Context, id uuid.UUID) error
	CurrencyCodeExists(ctx context.Context, charCode, numCode string, excludeID uuid.UUID) (bool, error)
	CurrencyNameExists(ctx context.Context, name string, excludeID uuid.UUID) (bool, error)

	// Account type operations
	CreateAccountType(ctx context.Context, accountType *model.AccountType) error
	GetAccountTypeByID(ctx context.Context, id uuid.UUID) (*model.AccountType, error)
	ListAccountTypes(ctx context.Context, includeDeleted bool) ([]model.AccountType, error)
	SetAccountTypeDeleted(ctx context.Context, id uuid.UUID, deleted bool) error
	DeleteAccountType(ctx context.Context, id uuid.UUID) error
	AccountTypeNameExists(ctx context.Context, name string, excludeID uuid.UUID) (bool, error)

	// Bank and country operations
	CreateBank(ctx context.Context, bank *model.Bank) error
	GetBankByID(ctx context.Context, id uuid.UUID) (*model.Bank, error)
	ListBanks(ctx context.Context) ([]model.Bank, error)
	DeleteBank(ctx context.Context, id uuid.UUID) error
	BankNameExists(ctx context.Context, countryID uuid.UUID, name string, excludeID uuid.UUID) (bool, error)
	CreateCountry(ctx context.Context, country *model.Country) error
	GetCountryByID(ctx context.Context, id uuid.UUID) (*model.Country, error)
	ListCountries(ctx context.Context) ([]model.Country, error)
	DeleteCountry(ctx context.Context, id uuid.UUID) error
	CountryNameExists(ctx context.Context, name string, excludeID uuid.UUID) (bool, error)

	// Holder operations
	CreateHolder(ctx context.Context, holder *model.Holder) error
	GetHolderByID(ctx context.Context, id uuid.UUID) (*model.Holder, error)
	GetHolderByName(ctx context.Context, name string) (*model.Holder, error)
	ListHolders(ctx context.Context) ([]model.Holder, error)
	DeleteHolder(ctx context.Context, id uuid.UUID) error
	HolderNameExists(ctx context.Context, name string, excludeID uuid.UUID) (bool, error)

	// Exchange rate operations
	SaveExchangeRate(ctx context.Context, rate *model.ExchangeRate) error
	ListExchangeRates(ctx context.Context, currencyID uuid.UUID) ([]model.ExchangeRate, error)

	// Usage existence checks, each a single EXISTS query
	AccountsUseCurrency(ctx context.Context, currencyID uuid.UUID) (bool, error)
	RatesUseCurrency(ctx context.Context, currencyID uuid.UUID) (bool, error)
	AccountsUseAccountType(ctx context.Context, accountTypeID uuid.UUID) (bool, error)
	AccountsUseBank(ctx context.Context, bankID uuid.UUID) (bool, error)
	BanksUseCountry(ctx context.Context, countryID uuid.UUID) (bool, error)
	HolderHasAccounts(ctx context.Context, holderID uuid.UUID) (bool, error)
	HolderHasCategories(ctx context.Context, holderID uuid.UUID) (bool, error)
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	CategoryStore
	AccountStore
	ReferenceStore

	// Database management
	Migrate(ctx context.Context) error
	BeginTx(ctx context.Context) (Transaction, error)
	Close() error
}

// Transaction represents a database transaction. All reads performed through
// it observe the transaction's own view of the store.
type Transaction interface {
	Commit() error
	Rollback() error
	CategoryStore
	AccountStore
	ReferenceStore
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
