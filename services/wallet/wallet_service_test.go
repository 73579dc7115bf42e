package wallet

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/VellaPay/VellaPay-Backend/services/ledger"
	"github.com/VellaPay/VellaPay-Backend/services/monitoring/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedAccount(t *testing.T, store ledger.Store, accountID int64, amount int64) {
	t.Helper()
	_, err := store.Append(context.Background(), ledger.Entry{
		AccountID:      accountID,
		Amount:         amount,
		Kind:           ledger.KindFunding,
		IdempotencyKey: "seed",
	})
	require.NoError(t, err)
}

func TestBalanceIsDerived(t *testing.T) {
	store := ledger.NewInMemoryStore()
	svc := NewWalletService(store, logging.NewTestLogger())
	ctx := context.Background()

	seedAccount(t, store, 1, 250_000)

	balance, err := svc.Balance(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(250_000), balance)
}

func TestReserveSubtractsFromAvailable(t *testing.T) {
	store := ledger.NewInMemoryStore()
	svc := NewWalletService(store, logging.NewTestLogger())
	ctx := context.Background()

	seedAccount(t, store, 1, 100_000)

	require.NoError(t, svc.Reserve(ctx, 1, "req-a", 60_000))

	ok, err := svc.CanDebit(ctx, 1, 60_000)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.CanDebit(ctx, 1, 40_000)
	require.NoError(t, err)
	assert.True(t, ok)

	svc.Release(1, "req-a")

	ok, err = svc.CanDebit(ctx, 1, 100_000)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestReserveFailsWhenShort(t *testing.T) {
	store := ledger.NewInMemoryStore()
	svc := NewWalletService(store, logging.NewTestLogger())
	ctx := context.Background()

	seedAccount(t, store, 1, 50_000)

	err := svc.Reserve(ctx, 1, "req-a", 70_000)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
}

func TestConcurrentReservesNeverDoubleSpend(t *testing.T) {
	store := ledger.NewInMemoryStore()
	svc := NewWalletService(store, logging.NewTestLogger())
	ctx := context.Background()

	// balance 1000, two concurrent holds of 700: exactly one must win
	seedAccount(t, store, 1, 1_000)

	results := make(chan error, 2)
	var wg sync.WaitGroup
	for _, key := range []string{"req-a", "req-b"} {
		wg.Add(1)
		go func(key string) {
			defer wg.Done()
			results <- svc.Reserve(ctx, 1, key, 700)
		}(key)
	}
	wg.Wait()
	close(results)

	var succeeded, insufficient int
	for err := range results {
		if err == nil {
			succeeded++
		} else if assert.ErrorIs(t, err, ErrInsufficientFunds) {
			insufficient++
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, insufficient)
}

func TestExpiredReservationIsReclaimed(t *testing.T) {
	store := ledger.NewInMemoryStore()
	svc := NewWalletServiceWithTTL(store, logging.NewTestLogger(), 10*time.Millisecond)
	ctx := context.Background()

	seedAccount(t, store, 1, 100_000)

	require.NoError(t, svc.Reserve(ctx, 1, "stale", 100_000))

	err := svc.Reserve(ctx, 1, "fresh", 100_000)
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	time.Sleep(20 * time.Millisecond)

	assert.NoError(t, svc.Reserve(ctx, 1, "fresh", 100_000))
}

func TestTransactionsNewestFirst(t *testing.T) {
	store := ledger.NewInMemoryStore()
	svc := NewWalletService(store, logging.NewTestLogger())
	ctx := context.Background()

	seedAccount(t, store, 1, 500_000)
	_, err := store.Append(ctx, ledger.Entry{
		AccountID:      1,
		Amount:         -200_000,
		Kind:           ledger.KindSpend,
		IdempotencyKey: "spend-1",
	})
	require.NoError(t, err)

	entries, err := svc.Transactions(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, ledger.KindSpend, entries[0].Kind)
	assert.Equal(t, ledger.KindFunding, entries[1].Kind)
}
