package ledger

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/VellaPay/VellaPay-Backend/db"
	"github.com/VellaPay/VellaPay-Backend/services/monitoring/logging"
)

type PostgresStore struct {
	store  *db.Store
	logger *logging.Logger
}

func NewPostgresStore(store *db.Store, logger *logging.Logger) *PostgresStore {
	return &PostgresStore{
		store:  store,
		logger: logger,
	}
}

const appendEntry = `
INSERT INTO ledger_entries (account_id, amount, kind, status, external_ref, idempotency_key, metadata, settled_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, now())
RETURNING id, account_id, amount, kind, status, external_ref, idempotency_key, metadata, created_at, settled_at
`

const committedSum = `
SELECT COALESCE(SUM(amount), 0) FROM ledger_entries
WHERE account_id = $1 AND status = 'committed'
`

const entriesForAccount = `
SELECT id, account_id, amount, kind, status, external_ref, idempotency_key, metadata, created_at, settled_at
FROM ledger_entries
WHERE account_id = $1
ORDER BY id ASC
`

func (s *PostgresStore) Append(ctx context.Context, entry Entry) (Entry, error) {
	if err := entry.validate(); err != nil {
		return Entry{}, err
	}

	var committed Entry
	err := s.store.ExecSerializableTx(ctx, func(tx *sql.Tx) error {
		// Row lock on the account serializes concurrent appends so the
		// balance check below cannot race another append.
		var accountID int64
		if err := tx.QueryRowContext(ctx,
			`SELECT id FROM users WHERE id = $1 FOR UPDATE`, entry.AccountID,
		).Scan(&accountID); err != nil {
			if err == sql.ErrNoRows {
				return ErrNoAccount
			}
			return fmt.Errorf("lock account: %w", err)
		}

		var balance int64
		if err := tx.QueryRowContext(ctx, committedSum, entry.AccountID).Scan(&balance); err != nil {
			return fmt.Errorf("fold committed entries: %w", err)
		}
		if balance+entry.Amount < 0 {
			return ErrNegativeBalance
		}

		row := tx.QueryRowContext(ctx, appendEntry,
			entry.AccountID,
			entry.Amount,
			entry.Kind,
			StatusCommitted,
			entry.ExternalRef,
			entry.IdempotencyKey,
			entry.Metadata,
		)
		if err := scanEntry(row, &committed); err != nil {
			if db.IsDuplicate(err) {
				return ErrConflict
			}
			return fmt.Errorf("append ledger entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return Entry{}, err
	}

	return committed, nil
}

func (s *PostgresStore) EntriesFor(ctx context.Context, accountID int64) ([]Entry, error) {
	rows, err := s.store.DB.QueryContext(ctx, entriesForAccount, accountID)
	if err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := scanEntry(rows, &e); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *PostgresStore) CommittedBalance(ctx context.Context, accountID int64) (int64, error) {
	var balance int64
	err := s.store.DB.QueryRowContext(ctx, committedSum, accountID).Scan(&balance)
	if err != nil {
		return 0, fmt.Errorf("fold committed entries: %w", err)
	}
	return balance, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(row rowScanner, e *Entry) error {
	return row.Scan(
		&e.ID,
		&e.AccountID,
		&e.Amount,
		&e.Kind,
		&e.Status,
		&e.ExternalRef,
		&e.IdempotencyKey,
		&e.Metadata,
		&e.CreatedAt,
		&e.SettledAt,
	)
}
