package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finbook/finbook/internal/common"
)

func TestMarkCurrencyDeleted_Idempotent(t *testing.T) {
	s := newTestService(t)
	f := seedFixtures(t, s)
	ctx := context.Background()

	require.NoError(t, s.MarkCurrencyDeleted(ctx, f.currency.ID))
	require.NoError(t, s.MarkCurrencyDeleted(ctx, f.currency.ID))

	got, err := s.Store().GetCurrencyByID(ctx, f.currency.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.IsDeleted)

	require.NoError(t, s.RestoreCurrency(ctx, f.currency.ID))
	require.NoError(t, s.RestoreCurrency(ctx, f.currency.ID))

	got, err = s.Store().GetCurrencyByID(ctx, f.currency.ID)
	require.NoError(t, err)
	assert.False(t, got.IsDeleted)
}

func TestRestoreCurrency_BlockedByLiveCodeCollision(t *testing.T) {
	s := newTestService(t)
	f := seedFixtures(t, s)
	ctx := context.Background()

	require.NoError(t, s.MarkCurrencyDeleted(ctx, f.currency.ID))

	// With USD soft-deleted its code is free to reuse.
	_, err := s.CreateCurrency(ctx, "USD", "840", "US Dollar (new)")
	require.NoError(t, err)

	err = s.RestoreCurrency(ctx, f.currency.ID)
	require.Error(t, err)
	assert.True(t, common.IsConflict(err))

	got, err := s.Store().GetCurrencyByID(ctx, f.currency.ID)
	require.NoError(t, err)
	assert.True(t, got.IsDeleted)
}

func TestMarkAccountTypeDeleted_Idempotent(t *testing.T) {
	s := newTestService(t)
	f := seedFixtures(t, s)
	ctx := context.Background()

	require.NoError(t, s.MarkAccountTypeDeleted(ctx, f.accountType.ID))
	require.NoError(t, s.MarkAccountTypeDeleted(ctx, f.accountType.ID))

	got, err := s.Store().GetAccountTypeByID(ctx, f.accountType.ID)
	require.NoError(t, err)
	assert.True(t, got.IsDeleted)
}

func TestRestoreAccountType_BlockedByLiveNameCollision(t *testing.T) {
	s := newTestService(t)
	f := seedFixtures(t, s)
	ctx := context.Background()

	require.NoError(t, s.MarkAccountTypeDeleted(ctx, f.accountType.ID))
	_, err := s.CreateAccountType(ctx, "checking")
	require.NoError(t, err)

	err = s.RestoreAccountType(ctx, f.accountType.ID)
	require.Error(t, err)
	assert.True(t, common.IsConflict(err))
}

func TestCreateAccount_RejectsSoftDeletedAccountType(t *testing.T) {
	s := newTestService(t)
	f := seedFixtures(t, s)
	ctx := context.Background()

	require.NoError(t, s.MarkAccountTypeDeleted(ctx, f.accountType.ID))

	_, err := s.CreateAccount(ctx, f.accountParams("main", false))
	require.Error(t, err)
	assert.True(t, common.IsConflict(err))
}

func TestSoftDeleteAccount_Idempotent(t *testing.T) {
	s := newTestService(t)
	f := seedFixtures(t, s)
	ctx := context.Background()

	account := createTestAccount(t, s, f, "main", false)

	require.NoError(t, s.SoftDeleteAccount(ctx, account.ID))
	require.NoError(t, s.SoftDeleteAccount(ctx, account.ID))

	got, err := s.Store().GetAccountByID(ctx, account.ID)
	require.NoError(t, err)
	assert.True(t, got.IsDeleted)

	require.NoError(t, s.RestoreAccount(ctx, account.ID))
	require.NoError(t, s.RestoreAccount(ctx, account.ID))

	got, err = s.Store().GetAccountByID(ctx, account.ID)
	require.NoError(t, err)
	assert.False(t, got.IsDeleted)
}

func TestArchiveAccount_Idempotent(t *testing.T) {
	s := newTestService(t)
	f := seedFixtures(t, s)
	ctx := context.Background()

	account := createTestAccount(t, s, f, "main", false)

	require.NoError(t, s.ArchiveAccount(ctx, account.ID))
	require.NoError(t, s.ArchiveAccount(ctx, account.ID))

	got, err := s.Store().GetAccountByID(ctx, account.ID)
	require.NoError(t, err)
	assert.True(t, got.IsArchived)

	require.NoError(t, s.UnarchiveAccount(ctx, account.ID))
	got, err = s.Store().GetAccountByID(ctx, account.ID)
	require.NoError(t, err)
	assert.False(t, got.IsArchived)
}

func TestSetExchangeRate_RejectsSoftDeletedCurrency(t *testing.T) {
	s := newTestService(t)
	f := seedFixtures(t, s)
	ctx := context.Background()

	require.NoError(t, s.MarkCurrencyDeleted(ctx, f.currency.ID))

	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	_, err := s.SetExchangeRate(ctx, f.currency.ID, date, 1, decimal.NewFromInt(90))
	require.Error(t, err)
	assert.True(t, common.IsConflict(err))
}
