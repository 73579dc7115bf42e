package ledger

import (
	"context"
	"database/sql"
	"sync"
	"time"
)

// InMemoryStore keeps the ledger in process memory. It backs local
// development and the test suites; production uses PostgresStore.
type InMemoryStore struct {
	mu       sync.Mutex
	nextID   int64
	entries  []Entry
	byKey    map[string]int64
	balances map[int64]int64
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		nextID:   1,
		byKey:    make(map[string]int64),
		balances: make(map[int64]int64),
	}
}

func (s *InMemoryStore) Append(ctx context.Context, entry Entry) (Entry, error) {
	if err := entry.validate(); err != nil {
		return Entry{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byKey[entry.IdempotencyKey]; exists {
		return Entry{}, ErrConflict
	}

	if s.balances[entry.AccountID]+entry.Amount < 0 {
		return Entry{}, ErrNegativeBalance
	}

	now := time.Now()
	entry.ID = s.nextID
	entry.Status = StatusCommitted
	entry.CreatedAt = now
	entry.SettledAt = sql.NullTime{Time: now, Valid: true}

	s.nextID++
	s.entries = append(s.entries, entry)
	s.byKey[entry.IdempotencyKey] = entry.ID
	s.balances[entry.AccountID] += entry.Amount

	return entry, nil
}

func (s *InMemoryStore) EntriesFor(ctx context.Context, accountID int64) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var entries []Entry
	for _, e := range s.entries {
		if e.AccountID == accountID {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

func (s *InMemoryStore) CommittedBalance(ctx context.Context, accountID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balances[accountID], nil
}
