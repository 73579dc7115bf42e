package ledger

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendAndBalance(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	entry, err := s.Append(ctx, Entry{
		AccountID:      1,
		Amount:         500_000,
		Kind:           KindFunding,
		IdempotencyKey: "fund-1",
	})
	require.NoError(t, err)
	assert.Equal(t, StatusCommitted, entry.Status)
	assert.True(t, entry.SettledAt.Valid)

	balance, err := s.CommittedBalance(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(500_000), balance)
}

func TestAppendRejectsReplay(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	_, err := s.Append(ctx, Entry{
		AccountID:      1,
		Amount:         100_000,
		Kind:           KindFunding,
		IdempotencyKey: "fund-dup",
	})
	require.NoError(t, err)

	_, err = s.Append(ctx, Entry{
		AccountID:      1,
		Amount:         100_000,
		Kind:           KindFunding,
		IdempotencyKey: "fund-dup",
	})
	assert.ErrorIs(t, err, ErrConflict)

	entries, err := s.EntriesFor(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestAppendRejectsNegativeBalance(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	_, err := s.Append(ctx, Entry{
		AccountID:      7,
		Amount:         200_000,
		Kind:           KindFunding,
		IdempotencyKey: "fund-7",
	})
	require.NoError(t, err)

	_, err = s.Append(ctx, Entry{
		AccountID:      7,
		Amount:         -300_000,
		Kind:           KindSpend,
		IdempotencyKey: "spend-7",
	})
	assert.ErrorIs(t, err, ErrNegativeBalance)

	balance, err := s.CommittedBalance(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(200_000), balance)
}

func TestAppendValidation(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	_, err := s.Append(ctx, Entry{AccountID: 1, Amount: 100, Kind: KindFunding})
	assert.ErrorIs(t, err, ErrNoIdempotencyKey)

	_, err = s.Append(ctx, Entry{AccountID: 1, Amount: 100, Kind: "bonus", IdempotencyKey: "k"})
	assert.ErrorIs(t, err, ErrUnknownKind)

	_, err = s.Append(ctx, Entry{AccountID: 1, Kind: KindFunding, IdempotencyKey: "k"})
	assert.ErrorIs(t, err, ErrZeroAmount)
}

func TestConcurrentAppendsStayConsistent(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	_, err := s.Append(ctx, Entry{
		AccountID:      3,
		Amount:         1_000_000,
		Kind:           KindFunding,
		IdempotencyKey: "seed",
	})
	require.NoError(t, err)

	const workers = 20
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.Append(ctx, Entry{
				AccountID:      3,
				Amount:         -10_000,
				Kind:           KindSpend,
				IdempotencyKey: fmt.Sprintf("spend-%d", i),
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	balance, err := s.CommittedBalance(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(800_000), balance)

	entries, err := s.EntriesFor(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, entries, workers+1)

	// derived balance never dips negative at any prefix of the history
	var running int64
	for _, e := range entries {
		running += e.Amount
		assert.GreaterOrEqual(t, running, int64(0))
	}
}
