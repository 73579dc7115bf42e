package providers

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ProviderError is a failure from the bill aggregator. Retryable failures
// (timeouts, biller unreachable, aggregator-side faults) may be resent with
// the same request id; explicit declines must not be. InFlight marks a
// request the aggregator accepted but has not settled: resending it would
// be declined as a duplicate, so it must be requeried instead.
type ProviderError struct {
	Provider  string
	Code      string
	Message   string
	Retryable bool
	InFlight  bool
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %s (code %s)", e.Provider, e.Message, e.Code)
}

// CollectionError is a failure from a payment-collection provider.
type CollectionError struct {
	Provider  string
	Message   string
	Retryable bool
}

func (e *CollectionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

var ErrVerificationFailed = fmt.Errorf("biller rejected customer reference")

// IsRetryable classifies an error for the gateway's retry loop. Network
// timeouts and context deadlines are safe to resend because every call
// carries its idempotency key as the provider request id.
func IsRetryable(err error) bool {
	var provErr *ProviderError
	if errors.As(err, &provErr) {
		return provErr.Retryable
	}
	var collErr *CollectionError
	if errors.As(err, &collErr) {
		return collErr.Retryable
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}

// IsInFlight reports whether err marks an accepted-but-unsettled request
// that must be requeried rather than resent.
func IsInFlight(err error) bool {
	var provErr *ProviderError
	return errors.As(err, &provErr) && provErr.InFlight
}
