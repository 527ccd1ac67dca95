package storage

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/finbook/finbook/internal/model"
)

type accountRefs struct {
	holder      *model.Holder
	currency    *model.Currency
	accountType *model.AccountType
	bank        *model.Bank
}

func createAccountRefs(t *testing.T, store *SQLiteStorage) accountRefs {
	t.Helper()
	return accountRefs{
		holder:      createTestHolder(t, store, "alice"),
		currency:    createTestCurrency(t, store, "USD", "840"),
		accountType: createTestAccountType(t, store, "checking"),
		bank:        createTestBank(t, store, "First National"),
	}
}

func (r accountRefs) newAccount(name string, isDefault bool) *model.Account {
	return &model.Account{
		ID:            uuid.New(),
		Name:          name,
		HolderID:      r.holder.ID,
		AccountTypeID: r.accountType.ID,
		CurrencyID:    r.currency.ID,
		BankID:        r.bank.ID,
		IsDefault:     isDefault,
		CreatedAt:     time.Now(),
	}
}

func TestCreateAndGetAccount(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	refs := createAccountRefs(t, store)
	account := refs.newAccount("main", true)
	if err := store.CreateAccount(ctx, account); err != nil {
		t.Fatalf("Failed to create account: %v", err)
	}

	got, err := store.GetAccountByID(ctx, account.ID)
	if err != nil {
		t.Fatalf("Failed to get account: %v", err)
	}
	if got == nil {
		t.Fatal("Expected account, got nil")
	}
	if got.Name != "main" || !got.IsDefault || got.HolderID != refs.holder.ID {
		t.Errorf("Unexpected account: %+v", got)
	}
}

func TestGetDefaultAccount(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	refs := createAccountRefs(t, store)

	got, err := store.GetDefaultAccount(ctx, refs.holder.ID)
	if err != nil {
		t.Fatalf("GetDefaultAccount failed: %v", err)
	}
	if got != nil {
		t.Errorf("Expected no default for fresh holder, got %+v", got)
	}

	plain := refs.newAccount("plain", false)
	main := refs.newAccount("main", true)
	for _, a := range []*model.Account{plain, main} {
		if err := store.CreateAccount(ctx, a); err != nil {
			t.Fatalf("Failed to create %q: %v", a.Name, err)
		}
	}

	got, err = store.GetDefaultAccount(ctx, refs.holder.ID)
	if err != nil {
		t.Fatalf("GetDefaultAccount failed: %v", err)
	}
	if got == nil || got.ID != main.ID {
		t.Errorf("Expected %q as default, got %+v", main.Name, got)
	}
}

func TestSetAccountFlags(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	refs := createAccountRefs(t, store)
	account := refs.newAccount("main", false)
	if err := store.CreateAccount(ctx, account); err != nil {
		t.Fatalf("Failed to create account: %v", err)
	}

	tests := []struct {
		set      func() error
		check    func(a *model.Account) bool
		name     string
		expected string
	}{
		{
			name:     "default on",
			set:      func() error { return store.SetAccountDefault(ctx, account.ID, true) },
			check:    func(a *model.Account) bool { return a.IsDefault },
			expected: "IsDefault",
		},
		{
			name:     "archived on",
			set:      func() error { return store.SetAccountArchived(ctx, account.ID, true) },
			check:    func(a *model.Account) bool { return a.IsArchived },
			expected: "IsArchived",
		},
		{
			name:     "deleted on",
			set:      func() error { return store.SetAccountDeleted(ctx, account.ID, true) },
			check:    func(a *model.Account) bool { return a.IsDeleted },
			expected: "IsDeleted",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.set(); err != nil {
				t.Fatalf("Failed to set flag: %v", err)
			}
			got, err := store.GetAccountByID(ctx, account.ID)
			if err != nil {
				t.Fatalf("Failed to get account: %v", err)
			}
			if !tt.check(got) {
				t.Errorf("Expected %s to be set", tt.expected)
			}
		})
	}
}

func TestSetAccountFlag_Missing(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	if err := store.SetAccountDefault(context.Background(), uuid.New(), true); err == nil {
		t.Error("Expected error for missing account")
	}
}

func TestAccountUsageChecks(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	refs := createAccountRefs(t, store)

	used, err := store.AccountsUseCurrency(ctx, refs.currency.ID)
	if err != nil {
		t.Fatalf("AccountsUseCurrency failed: %v", err)
	}
	if used {
		t.Error("Expected unused currency")
	}

	if err := store.CreateAccount(ctx, refs.newAccount("main", false)); err != nil {
		t.Fatalf("Failed to create account: %v", err)
	}

	checks := []struct {
		run  func() (bool, error)
		name string
	}{
		{name: "currency", run: func() (bool, error) { return store.AccountsUseCurrency(ctx, refs.currency.ID) }},
		{name: "account type", run: func() (bool, error) { return store.AccountsUseAccountType(ctx, refs.accountType.ID) }},
		{name: "bank", run: func() (bool, error) { return store.AccountsUseBank(ctx, refs.bank.ID) }},
		{name: "holder", run: func() (bool, error) { return store.HolderHasAccounts(ctx, refs.holder.ID) }},
	}
	for _, c := range checks {
		used, err := c.run()
		if err != nil {
			t.Fatalf("Usage check %s failed: %v", c.name, err)
		}
		if !used {
			t.Errorf("Expected %s to be in use", c.name)
		}
	}
}

func TestListAccounts_OnlyHolder(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	refs := createAccountRefs(t, store)
	other := createTestHolder(t, store, "bob")

	mine := refs.newAccount("mine", false)
	theirs := refs.newAccount("theirs", false)
	theirs.HolderID = other.ID
	for _, a := range []*model.Account{mine, theirs} {
		if err := store.CreateAccount(ctx, a); err != nil {
			t.Fatalf("Failed to create %q: %v", a.Name, err)
		}
	}

	accounts, err := store.ListAccounts(ctx, refs.holder.ID)
	if err != nil {
		t.Fatalf("ListAccounts failed: %v", err)
	}
	if len(accounts) != 1 || accounts[0].ID != mine.ID {
		t.Errorf("Expected only %q, got %d accounts", mine.Name, len(accounts))
	}
}
