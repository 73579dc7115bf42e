package fiat

import (
	"context"
	"sync"
)

type CollectStatus string

const (
	CollectSucceeded CollectStatus = "succeeded"
	CollectFailed    CollectStatus = "failed"
	CollectAbandoned CollectStatus = "abandoned"
)

type CollectRequest struct {
	Amount     int64 // kobo
	Currency   string
	Reference  string // caller's idempotency key, reused as the provider reference
	PayerEmail string
	Method     string
}

type CollectResult struct {
	Status      CollectStatus
	Reference   string
	ProviderRef string
	Message     string
}

// Collection is an initiated charge. PaymentLink is the provider checkout
// page the payer must visit to complete it; Await blocks until the webhook
// or the verification poll resolves the charge, or the collection window
// closes. The charge resolves exactly once per collection.
type Collection struct {
	Reference   string
	PaymentLink string
	Await       func(ctx context.Context) (*CollectResult, error)
}

// Collector is the uniform face of a payment-collection provider. Collect
// creates the charge and returns immediately with the checkout link.
type Collector interface {
	Name() string
	Collect(ctx context.Context, req CollectRequest) (*Collection, error)
	// Complete resolves an in-flight collection from a webhook delivery.
	// It reports false when no collection is pending under reference.
	Complete(reference string, result CollectResult) bool
}

type pendingCollection struct {
	once sync.Once
	done chan CollectResult
}

func (p *pendingCollection) complete(res CollectResult) {
	p.once.Do(func() {
		p.done <- res
	})
}

// completionHub holds in-flight collections keyed by reference. Dropping a
// reference on resolution detaches any late webhook delivery, so a charge
// can never be reported to the caller twice.
type completionHub struct {
	mu      sync.Mutex
	pending map[string]*pendingCollection
}

func newCompletionHub() *completionHub {
	return &completionHub{
		pending: make(map[string]*pendingCollection),
	}
}

func (h *completionHub) register(reference string) *pendingCollection {
	h.mu.Lock()
	defer h.mu.Unlock()
	p := &pendingCollection{done: make(chan CollectResult, 1)}
	h.pending[reference] = p
	return p
}

func (h *completionHub) resolve(reference string, res CollectResult) bool {
	h.mu.Lock()
	p, ok := h.pending[reference]
	h.mu.Unlock()
	if !ok {
		return false
	}
	p.complete(res)
	return true
}

func (h *completionHub) drop(reference string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.pending, reference)
}
