package wallet

import (
	"context"
	"fmt"
	"time"

	"github.com/VellaPay/VellaPay-Backend/services/ledger"
	"github.com/VellaPay/VellaPay-Backend/services/monitoring/logging"
)

// WalletService is a pure read over the ledger plus the in-flight
// reservation table. Balance is always derived from committed entries,
// never stored.
type WalletService struct {
	ledger       ledger.Store
	reservations *reservationTable
	logger       *logging.Logger
}

func NewWalletService(store ledger.Store, logger *logging.Logger) *WalletService {
	return NewWalletServiceWithTTL(store, logger, DefaultReservationTTL)
}

func NewWalletServiceWithTTL(store ledger.Store, logger *logging.Logger, ttl time.Duration) *WalletService {
	return &WalletService{
		ledger:       store,
		reservations: newReservationTable(ttl),
		logger:       logger,
	}
}

// Balance folds the committed ledger entries for the account.
func (w *WalletService) Balance(ctx context.Context, accountID int64) (int64, error) {
	return w.ledger.CommittedBalance(ctx, accountID)
}

// Available is the committed balance minus live holds.
func (w *WalletService) Available(ctx context.Context, accountID int64) (int64, error) {
	lock := w.reservations.accountLock(accountID)
	lock.Lock()
	defer lock.Unlock()
	return w.available(ctx, accountID)
}

func (w *WalletService) available(ctx context.Context, accountID int64) (int64, error) {
	balance, err := w.ledger.CommittedBalance(ctx, accountID)
	if err != nil {
		return 0, err
	}
	return balance - w.reservations.reservedTotal(accountID), nil
}

// CanDebit reports whether the account can cover amount after subtracting
// holds already taken by in-flight payment requests.
func (w *WalletService) CanDebit(ctx context.Context, accountID int64, amount int64) (bool, error) {
	available, err := w.Available(ctx, accountID)
	if err != nil {
		return false, err
	}
	return available >= amount, nil
}

// Reserve performs the check-and-hold for a spend inside the account's
// critical section and fails with ErrInsufficientFunds when the available
// balance cannot cover amount.
func (w *WalletService) Reserve(ctx context.Context, accountID int64, key string, amount int64) error {
	lock := w.reservations.accountLock(accountID)
	lock.Lock()
	defer lock.Unlock()

	available, err := w.available(ctx, accountID)
	if err != nil {
		return err
	}
	if available < amount {
		w.logger.Info(fmt.Sprintf("hold refused for account %v, available %v short of %v", accountID, available, amount))
		return NewWalletError(ErrInsufficientFunds, accountID)
	}
	if !w.reservations.hold(accountID, key, amount) {
		return NewWalletError(ErrHeldElsewhere, accountID)
	}
	return nil
}

// Release drops a hold. Safe to call for a key that was never held.
func (w *WalletService) Release(accountID int64, key string) {
	w.reservations.release(accountID, key)
}

// Transactions returns the settled entries for an account, newest first
// for display.
func (w *WalletService) Transactions(ctx context.Context, accountID int64) ([]ledger.Entry, error) {
	entries, err := w.ledger.EntriesFor(ctx, accountID)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries, nil
}
