package catalog

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finbook/finbook/internal/common"
)

func TestSetDefaultAccount_SwapsAtomically(t *testing.T) {
	s := newTestService(t)
	f := seedFixtures(t, s)
	ctx := context.Background()

	a1 := createTestAccount(t, s, f, "main", true)
	a2 := createTestAccount(t, s, f, "savings", false)

	require.NoError(t, s.SetDefaultAccount(ctx, a2.ID))

	got1, err := s.Store().GetAccountByID(ctx, a1.ID)
	require.NoError(t, err)
	got2, err := s.Store().GetAccountByID(ctx, a2.ID)
	require.NoError(t, err)

	assert.False(t, got1.IsDefault)
	assert.True(t, got2.IsDefault)
	assert.Equal(t, 1, countDefaults(t, s, f))
}

func TestSetDefaultAccount_Idempotent(t *testing.T) {
	s := newTestService(t)
	f := seedFixtures(t, s)
	ctx := context.Background()

	a1 := createTestAccount(t, s, f, "main", true)

	require.NoError(t, s.SetDefaultAccount(ctx, a1.ID))
	assert.Equal(t, 1, countDefaults(t, s, f))
}

func TestSetDefaultAccount_RejectsArchived(t *testing.T) {
	s := newTestService(t)
	f := seedFixtures(t, s)
	ctx := context.Background()

	a1 := createTestAccount(t, s, f, "main", false)
	require.NoError(t, s.ArchiveAccount(ctx, a1.ID))

	err := s.SetDefaultAccount(ctx, a1.ID)
	require.Error(t, err)
	assert.True(t, common.IsConflict(err))
}

func TestCreateAccount_WithDefaultRetiresPrevious(t *testing.T) {
	s := newTestService(t)
	f := seedFixtures(t, s)
	ctx := context.Background()

	a1 := createTestAccount(t, s, f, "first", true)
	_ = createTestAccount(t, s, f, "second", true)

	got1, err := s.Store().GetAccountByID(ctx, a1.ID)
	require.NoError(t, err)
	assert.False(t, got1.IsDefault)
	assert.Equal(t, 1, countDefaults(t, s, f))
}

func TestUnsetDefaultAccount_PromotesReplacement(t *testing.T) {
	s := newTestService(t)
	f := seedFixtures(t, s)
	ctx := context.Background()

	a1 := createTestAccount(t, s, f, "main", true)
	a3 := createTestAccount(t, s, f, "spare", false)

	require.NoError(t, s.UnsetDefaultAccount(ctx, a1.ID, a3.ID))

	got1, err := s.Store().GetAccountByID(ctx, a1.ID)
	require.NoError(t, err)
	got3, err := s.Store().GetAccountByID(ctx, a3.ID)
	require.NoError(t, err)

	assert.False(t, got1.IsDefault)
	assert.True(t, got3.IsDefault)
}

func TestUnsetDefaultAccount_CrossHolderReplacement(t *testing.T) {
	s := newTestService(t)
	f := seedFixtures(t, s)
	ctx := context.Background()

	a1 := createTestAccount(t, s, f, "main", true)

	other, err := s.CreateHolder(ctx, "bob")
	require.NoError(t, err)
	params := f.accountParams("bob account", false)
	params.HolderID = other.ID
	a3, err := s.CreateAccount(ctx, params)
	require.NoError(t, err)

	err = s.UnsetDefaultAccount(ctx, a1.ID, a3.ID)
	require.Error(t, err)
	assert.True(t, common.IsConflict(err))

	// Nothing changed for either holder.
	got1, err := s.Store().GetAccountByID(ctx, a1.ID)
	require.NoError(t, err)
	assert.True(t, got1.IsDefault)
	got3, err := s.Store().GetAccountByID(ctx, a3.ID)
	require.NoError(t, err)
	assert.False(t, got3.IsDefault)
}

func TestUnsetDefaultAccount_IneligibleReplacement(t *testing.T) {
	s := newTestService(t)
	f := seedFixtures(t, s)
	ctx := context.Background()

	a1 := createTestAccount(t, s, f, "main", true)
	a2 := createTestAccount(t, s, f, "old", false)
	require.NoError(t, s.SoftDeleteAccount(ctx, a2.ID))

	err := s.UnsetDefaultAccount(ctx, a1.ID, a2.ID)
	require.Error(t, err)
	assert.True(t, common.IsConflict(err))

	got1, err := s.Store().GetAccountByID(ctx, a1.ID)
	require.NoError(t, err)
	assert.True(t, got1.IsDefault)
}

func TestArchiveAccount_RejectsDefault(t *testing.T) {
	s := newTestService(t)
	f := seedFixtures(t, s)
	ctx := context.Background()

	a1 := createTestAccount(t, s, f, "main", true)

	err := s.ArchiveAccount(ctx, a1.ID)
	require.Error(t, err)
	assert.True(t, common.IsConflict(err))

	got, err := s.Store().GetAccountByID(ctx, a1.ID)
	require.NoError(t, err)
	assert.False(t, got.IsArchived)
	assert.True(t, got.IsDefault)
}

func TestSoftDeleteAccount_RejectsDefault(t *testing.T) {
	s := newTestService(t)
	f := seedFixtures(t, s)
	ctx := context.Background()

	a1 := createTestAccount(t, s, f, "main", true)

	err := s.SoftDeleteAccount(ctx, a1.ID)
	require.Error(t, err)
	assert.True(t, common.IsConflict(err))
}

func TestUpdateAccount_CannotClearDefaultDirectly(t *testing.T) {
	s := newTestService(t)
	f := seedFixtures(t, s)
	ctx := context.Background()

	a1 := createTestAccount(t, s, f, "main", true)

	err := s.UpdateAccount(ctx, a1.ID, UpdateAccountParams{
		Name:          "main",
		AccountTypeID: f.accountType.ID,
		CurrencyID:    f.currency.ID,
		BankID:        f.bank.ID,
		IsDefault:     false,
	})
	require.Error(t, err)
	assert.True(t, common.IsConflict(err))
}

func TestCreateAccount_RejectsSoftDeletedCurrency(t *testing.T) {
	s := newTestService(t)
	f := seedFixtures(t, s)
	ctx := context.Background()

	require.NoError(t, s.MarkCurrencyDeleted(ctx, f.currency.ID))

	_, err := s.CreateAccount(ctx, f.accountParams("new", false))
	require.Error(t, err)
	assert.True(t, common.IsConflict(err))
}

func TestUpdateAccount_KeepsExistingSoftDeletedCurrency(t *testing.T) {
	s := newTestService(t)
	f := seedFixtures(t, s)
	ctx := context.Background()

	a1 := createTestAccount(t, s, f, "main", false)
	require.NoError(t, s.MarkCurrencyDeleted(ctx, f.currency.ID))

	// Renaming without touching the currency reference stays legal.
	err := s.UpdateAccount(ctx, a1.ID, UpdateAccountParams{
		Name:          "renamed",
		AccountTypeID: f.accountType.ID,
		CurrencyID:    f.currency.ID,
		BankID:        f.bank.ID,
	})
	require.NoError(t, err)
}

// TestSetDefaultAccount_Concurrent issues competing promotions for the same
// holder and verifies exactly one account ends up default.
func TestSetDefaultAccount_Concurrent(t *testing.T) {
	s := newTestService(t)
	f := seedFixtures(t, s)
	ctx := context.Background()

	const n = 8
	accountIDs := make([]uuid.UUID, n)
	for i := 0; i < n; i++ {
		account := createTestAccount(t, s, f, fmt.Sprintf("acct-%d", i), false)
		accountIDs[i] = account.ID
	}

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			errs[idx] = s.SetDefaultAccount(ctx, accountIDs[idx])
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "promotion %d", i)
	}
	assert.Equal(t, 1, countDefaults(t, s, f))
}
