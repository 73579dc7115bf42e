package transaction

import (
	"context"

	"github.com/google/uuid"
)

// RequestRepository persists PaymentRequest lifecycles. Transition is a
// compare-and-set: it moves the request to `to` only when its current
// status is one of `from`, which is what makes the cancel window and the
// dispatch race safe.
type RequestRepository interface {
	Save(ctx context.Context, request *PaymentRequest) error
	Update(ctx context.Context, request *PaymentRequest) error
	Get(ctx context.Context, id uuid.UUID) (*PaymentRequest, error)
	Transition(ctx context.Context, id uuid.UUID, from []Status, to Status) (bool, error)
}
