package ledger

import "fmt"

var (
	// ErrConflict signals an idempotency-key replay: an entry with the same
	// key has already been committed.
	ErrConflict         = fmt.Errorf("ledger entry already committed for idempotency key")
	ErrNegativeBalance  = fmt.Errorf("entry would take account balance negative")
	ErrNoAccount        = fmt.Errorf("ledger entry requires an account id")
	ErrZeroAmount       = fmt.Errorf("ledger entry requires a non-zero amount")
	ErrNoIdempotencyKey = fmt.Errorf("ledger entry requires an idempotency key")
	ErrUnknownKind      = fmt.Errorf("unknown ledger entry kind")
)
