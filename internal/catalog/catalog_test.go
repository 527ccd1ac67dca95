package catalog

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/finbook/finbook/internal/model"
	"github.com/finbook/finbook/internal/storage"
)

// newTestService creates a catalog service over a migrated temp database.
func newTestService(t *testing.T) *Service {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := storage.NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))
	t.Cleanup(func() { _ = store.Close() })

	return New(store)
}

// fixtures holds the reference entities most account tests need.
type fixtures struct {
	holder      *model.Holder
	currency    *model.Currency
	accountType *model.AccountType
	country     *model.Country
	bank        *model.Bank
}

func seedFixtures(t *testing.T, s *Service) fixtures {
	t.Helper()
	ctx := context.Background()

	holder, err := s.CreateHolder(ctx, "alice")
	require.NoError(t, err)
	currency, err := s.CreateCurrency(ctx, "USD", "840", "US Dollar")
	require.NoError(t, err)
	accountType, err := s.CreateAccountType(ctx, "checking")
	require.NoError(t, err)
	country, err := s.CreateCountry(ctx, "United States")
	require.NoError(t, err)
	bank, err := s.CreateBank(ctx, country.ID, "First National")
	require.NoError(t, err)

	return fixtures{
		holder:      holder,
		currency:    currency,
		accountType: accountType,
		country:     country,
		bank:        bank,
	}
}

func (f fixtures) accountParams(name string, isDefault bool) CreateAccountParams {
	return CreateAccountParams{
		Name:          name,
		HolderID:      f.holder.ID,
		AccountTypeID: f.accountType.ID,
		CurrencyID:    f.currency.ID,
		BankID:        f.bank.ID,
		IsDefault:     isDefault,
	}
}

func createTestAccount(t *testing.T, s *Service, f fixtures, name string, isDefault bool) *model.Account {
	t.Helper()
	account, err := s.CreateAccount(context.Background(), f.accountParams(name, isDefault))
	require.NoError(t, err)
	return account
}

// countDefaults returns how many of the holder's accounts carry the default flag.
func countDefaults(t *testing.T, s *Service, f fixtures) int {
	t.Helper()
	accounts, err := s.Store().ListAccounts(context.Background(), f.holder.ID)
	require.NoError(t, err)

	count := 0
	for _, account := range accounts {
		if account.IsDefault {
			count++
		}
	}
	return count
}
