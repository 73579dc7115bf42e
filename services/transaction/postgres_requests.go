package transaction

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/VellaPay/VellaPay-Backend/db"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type PostgresRequestRepository struct {
	store *db.Store
}

func NewPostgresRequestRepository(store *db.Store) *PostgresRequestRepository {
	return &PostgresRequestRepository{store: store}
}

const insertRequest = `
INSERT INTO payment_requests (id, account_id, provider, service_code, variation_code, amount, recipient_ref, status, idempotency_key, payment_link, failure_cause)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
RETURNING created_at, updated_at
`

const updateRequest = `
UPDATE payment_requests
SET status = $2, failure_cause = $3, payment_link = $4, updated_at = now()
WHERE id = $1
RETURNING updated_at
`

const getRequest = `
SELECT id, account_id, provider, service_code, COALESCE(variation_code, ''), amount, recipient_ref, status, idempotency_key, COALESCE(payment_link, ''), COALESCE(failure_cause, ''), created_at, updated_at
FROM payment_requests
WHERE id = $1
`

const transitionRequest = `
UPDATE payment_requests
SET status = $3, updated_at = now()
WHERE id = $1 AND status = ANY($2)
`

func (r *PostgresRequestRepository) Save(ctx context.Context, request *PaymentRequest) error {
	row := r.store.DB.QueryRowContext(ctx, insertRequest,
		request.ID,
		request.AccountID,
		request.Provider,
		request.ServiceCode,
		nullableString(request.VariationCode),
		request.Amount,
		request.RecipientRef,
		request.Status,
		request.IdempotencyKey,
		nullableString(request.PaymentLink),
		nullableString(request.FailureCause),
	)
	if err := row.Scan(&request.CreatedAt, &request.UpdatedAt); err != nil {
		if db.IsCheckViolation(err) {
			return ErrInvalidAmount
		}
		return fmt.Errorf("save payment request: %w", err)
	}
	return nil
}

func (r *PostgresRequestRepository) Update(ctx context.Context, request *PaymentRequest) error {
	row := r.store.DB.QueryRowContext(ctx, updateRequest,
		request.ID,
		request.Status,
		nullableString(request.FailureCause),
		nullableString(request.PaymentLink),
	)
	if err := row.Scan(&request.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return ErrRequestNotFound
		}
		return fmt.Errorf("update payment request: %w", err)
	}
	return nil
}

func (r *PostgresRequestRepository) Get(ctx context.Context, id uuid.UUID) (*PaymentRequest, error) {
	var request PaymentRequest
	err := r.store.DB.QueryRowContext(ctx, getRequest, id).Scan(
		&request.ID,
		&request.AccountID,
		&request.Provider,
		&request.ServiceCode,
		&request.VariationCode,
		&request.Amount,
		&request.RecipientRef,
		&request.Status,
		&request.IdempotencyKey,
		&request.PaymentLink,
		&request.FailureCause,
		&request.CreatedAt,
		&request.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrRequestNotFound
	} else if err != nil {
		return nil, fmt.Errorf("get payment request: %w", err)
	}
	return &request, nil
}

func (r *PostgresRequestRepository) Transition(ctx context.Context, id uuid.UUID, from []Status, to Status) (bool, error) {
	states := make([]string, len(from))
	for i, s := range from {
		states[i] = string(s)
	}

	res, err := r.store.DB.ExecContext(ctx, transitionRequest, id, pq.Array(states), to)
	if err != nil {
		return false, fmt.Errorf("transition payment request: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
