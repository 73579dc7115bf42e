package ledger

import (
	"context"
	"database/sql"
	"time"

	"github.com/sqlc-dev/pqtype"
)

type Kind string

const (
	KindFunding  Kind = "funding"
	KindSpend    Kind = "spend"
	KindReversal Kind = "reversal"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusCommitted Status = "committed"
	StatusFailed    Status = "failed"
	StatusReversed  Status = "reversed"
)

// Entry is a single balance-affecting record. Amounts are signed kobo:
// credits positive, debits negative. Committed entries are immutable; a
// correction is a new reversal entry, never an update.
type Entry struct {
	ID             int64                `json:"id"`
	AccountID      int64                `json:"account_id"`
	Amount         int64                `json:"amount"`
	Kind           Kind                 `json:"kind"`
	Status         Status               `json:"status"`
	ExternalRef    sql.NullString       `json:"external_ref"`
	IdempotencyKey string               `json:"idempotency_key"`
	Metadata       pqtype.NullRawMessage `json:"metadata"`
	CreatedAt      time.Time            `json:"created_at"`
	SettledAt      sql.NullTime         `json:"settled_at"`
}

// Store is the append-only ledger. Append is atomic and durable before it
// returns; concurrent appends for one account are serialized; a duplicate
// idempotency key fails with ErrConflict so callers can detect replay.
type Store interface {
	Append(ctx context.Context, entry Entry) (Entry, error)
	// EntriesFor returns an account's entries oldest first.
	EntriesFor(ctx context.Context, accountID int64) ([]Entry, error)
	// CommittedBalance folds the committed entries for an account.
	CommittedBalance(ctx context.Context, accountID int64) (int64, error)
}

func (e Entry) validate() error {
	if e.AccountID == 0 {
		return ErrNoAccount
	}
	if e.Amount == 0 {
		return ErrZeroAmount
	}
	if e.IdempotencyKey == "" {
		return ErrNoIdempotencyKey
	}
	switch e.Kind {
	case KindFunding, KindSpend, KindReversal:
	default:
		return ErrUnknownKind
	}
	return nil
}
