package wallet

import (
	"sync"
	"time"
)

// DefaultReservationTTL bounds how long an in-flight hold can outlive its
// payment request before the sweeper reclaims it.
const DefaultReservationTTL = 5 * time.Minute

type reservation struct {
	amount    int64
	expiresAt time.Time
}

// reservationTable is the process-local hold table. All balance checks that
// involve holds for one account happen under that account's critical
// section, so two concurrent spends cannot both pass against the same
// pre-reservation balance.
type reservationTable struct {
	mu    sync.Mutex
	ttl   time.Duration
	locks map[int64]*sync.Mutex
	held  map[int64]map[string]reservation
}

func newReservationTable(ttl time.Duration) *reservationTable {
	if ttl <= 0 {
		ttl = DefaultReservationTTL
	}
	return &reservationTable{
		ttl:   ttl,
		locks: make(map[int64]*sync.Mutex),
		held:  make(map[int64]map[string]reservation),
	}
}

// accountLock returns the mutex serializing check-and-hold for one account.
func (t *reservationTable) accountLock(accountID int64) *sync.Mutex {
	t.mu.Lock()
	defer t.mu.Unlock()
	l, ok := t.locks[accountID]
	if !ok {
		l = &sync.Mutex{}
		t.locks[accountID] = l
	}
	return l
}

// reservedTotal sums the live holds for an account, dropping expired ones.
func (t *reservationTable) reservedTotal(accountID int64) int64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	var total int64
	for key, r := range t.held[accountID] {
		if now.After(r.expiresAt) {
			delete(t.held[accountID], key)
			continue
		}
		total += r.amount
	}
	return total
}

func (t *reservationTable) hold(accountID int64, key string, amount int64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.held[accountID] == nil {
		t.held[accountID] = make(map[string]reservation)
	}
	if _, exists := t.held[accountID][key]; exists {
		return false
	}
	t.held[accountID][key] = reservation{
		amount:    amount,
		expiresAt: time.Now().Add(t.ttl),
	}
	return true
}

func (t *reservationTable) release(accountID int64, key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.held[accountID], key)
}
