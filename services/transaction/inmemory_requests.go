package transaction

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryRequestRepository backs tests and local development.
type InMemoryRequestRepository struct {
	mu       sync.Mutex
	requests map[uuid.UUID]PaymentRequest
}

func NewInMemoryRequestRepository() *InMemoryRequestRepository {
	return &InMemoryRequestRepository{
		requests: make(map[uuid.UUID]PaymentRequest),
	}
}

func (r *InMemoryRequestRepository) Save(ctx context.Context, request *PaymentRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	request.CreatedAt = now
	request.UpdatedAt = now
	r.requests[request.ID] = *request
	return nil
}

func (r *InMemoryRequestRepository) Update(ctx context.Context, request *PaymentRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.requests[request.ID]; !ok {
		return ErrRequestNotFound
	}
	request.UpdatedAt = time.Now()
	r.requests[request.ID] = *request
	return nil
}

func (r *InMemoryRequestRepository) Get(ctx context.Context, id uuid.UUID) (*PaymentRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	request, ok := r.requests[id]
	if !ok {
		return nil, ErrRequestNotFound
	}
	return &request, nil
}

func (r *InMemoryRequestRepository) Transition(ctx context.Context, id uuid.UUID, from []Status, to Status) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	request, ok := r.requests[id]
	if !ok {
		return false, ErrRequestNotFound
	}
	for _, s := range from {
		if request.Status == s {
			request.Status = to
			request.UpdatedAt = time.Now()
			r.requests[id] = request
			return true, nil
		}
	}
	return false, nil
}
