package gateway

import (
	"context"
	"testing"
	"time"

	"github.com/VellaPay/VellaPay-Backend/providers"
	"github.com/VellaPay/VellaPay-Backend/providers/bills"
	"github.com/VellaPay/VellaPay-Backend/providers/fiat"
	"github.com/VellaPay/VellaPay-Backend/services/monitoring/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBiller struct {
	payCalls    int
	verifyCalls int
	queryCalls  int
	payErrs     []error
	queryErrs   []error
	verifyErr   error
}

func (s *stubBiller) VerifyCustomer(request bills.VerifyCustomerRequest) (*bills.CustomerInfo, error) {
	s.verifyCalls++
	if s.verifyErr != nil {
		return nil, s.verifyErr
	}
	return &bills.CustomerInfo{CustomerName: "ADA OBI", Address: "12 Marina Rd"}, nil
}

func (s *stubBiller) Pay(request bills.PayRequest) (*bills.Transaction, error) {
	s.payCalls++
	if len(s.payErrs) > 0 {
		err := s.payErrs[0]
		s.payErrs = s.payErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	return &bills.Transaction{TransactionID: "agg-001", ProductName: "MTN Airtime", Status: "delivered"}, nil
}

func (s *stubBiller) QueryTransaction(requestID string) (*bills.Transaction, error) {
	s.queryCalls++
	if len(s.queryErrs) > 0 {
		err := s.queryErrs[0]
		s.queryErrs = s.queryErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	return &bills.Transaction{TransactionID: "agg-001", ProductName: "MTN Airtime", Status: "delivered"}, nil
}

type stubCollector struct {
	name   string
	link   string
	result *fiat.CollectResult
	err    error
}

func (s *stubCollector) Name() string { return s.name }

func (s *stubCollector) Collect(ctx context.Context, req fiat.CollectRequest) (*fiat.Collection, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &fiat.Collection{
		Reference:   req.Reference,
		PaymentLink: s.link,
		Await: func(ctx context.Context) (*fiat.CollectResult, error) {
			return s.result, nil
		},
	}, nil
}

func (s *stubCollector) Complete(reference string, result fiat.CollectResult) bool { return false }

func fastRetry() RetryPolicy {
	return RetryPolicy{Base: time.Millisecond, Factor: 2, MaxAttempts: 3}
}

func retryableErr() error {
	return &providers.ProviderError{Provider: providers.VTPass, Code: bills.BillerUnavailable, Message: "biller unreachable", Retryable: true}
}

func declineErr() error {
	return &providers.ProviderError{Provider: providers.VTPass, Code: bills.BelowMinAmount, Message: "amount below minimum", Retryable: false}
}

func processingErr() error {
	return &providers.ProviderError{Provider: providers.VTPass, Code: bills.TransactionProcessing, Message: "transaction is processing", InFlight: true}
}

func TestPayRetriesRetryableFailures(t *testing.T) {
	biller := &stubBiller{payErrs: []error{retryableErr(), retryableErr()}}
	g := NewProviderGateway(biller, nil, nil, fastRetry(), logging.NewTestLogger())

	outcome, err := g.Pay(context.Background(), PayInput{
		ServiceCode:    "mtn",
		Amount:         50_000,
		Phone:          "08030000000",
		IdempotencyKey: "202601011200abc",
	})
	require.NoError(t, err)
	assert.Equal(t, "agg-001", outcome.ProviderRef)
	assert.Equal(t, 3, biller.payCalls)
}

func TestPayStopsOnDecline(t *testing.T) {
	biller := &stubBiller{payErrs: []error{declineErr()}}
	g := NewProviderGateway(biller, nil, nil, fastRetry(), logging.NewTestLogger())

	_, err := g.Pay(context.Background(), PayInput{
		ServiceCode:    "mtn",
		Amount:         50_000,
		IdempotencyKey: "202601011200abd",
	})
	require.Error(t, err)
	assert.False(t, providers.IsRetryable(err))
	assert.Equal(t, 1, biller.payCalls)
}

func TestPayExhaustsRetries(t *testing.T) {
	biller := &stubBiller{payErrs: []error{retryableErr(), retryableErr(), retryableErr()}}
	g := NewProviderGateway(biller, nil, nil, fastRetry(), logging.NewTestLogger())

	_, err := g.Pay(context.Background(), PayInput{
		ServiceCode:    "ikeja-electric",
		Amount:         1_000_000,
		IdempotencyKey: "202601011200abe",
	})
	require.Error(t, err)
	assert.Equal(t, 3, biller.payCalls)
}

// A 099 means the aggregator holds the request id; resending it would be
// declined as a duplicate while the original may still deliver. The gateway
// must requery by id instead of resending.
func TestPayRequeriesProcessingInsteadOfResending(t *testing.T) {
	biller := &stubBiller{
		payErrs:   []error{processingErr()},
		queryErrs: []error{processingErr()},
	}
	g := NewProviderGateway(biller, nil, nil, fastRetry(), logging.NewTestLogger())

	outcome, err := g.Pay(context.Background(), PayInput{
		ServiceCode:    "mtn",
		Amount:         50_000,
		Phone:          "08030000000",
		IdempotencyKey: "202601011200abf",
	})
	require.NoError(t, err)
	assert.Equal(t, "agg-001", outcome.ProviderRef)
	assert.Equal(t, 1, biller.payCalls)
	assert.Equal(t, 2, biller.queryCalls)
}

func TestPayProcessingExhaustsRequeries(t *testing.T) {
	biller := &stubBiller{
		payErrs:   []error{processingErr()},
		queryErrs: []error{processingErr(), processingErr(), processingErr()},
	}
	g := NewProviderGateway(biller, nil, nil, fastRetry(), logging.NewTestLogger())

	_, err := g.Pay(context.Background(), PayInput{
		ServiceCode:    "mtn",
		Amount:         50_000,
		IdempotencyKey: "202601011200abg",
	})
	require.Error(t, err)
	assert.True(t, providers.IsInFlight(err))
	// the pay call itself was never resent
	assert.Equal(t, 1, biller.payCalls)
	assert.Equal(t, 3, biller.queryCalls)
}

func TestVerifyMapsCustomerInfo(t *testing.T) {
	biller := &stubBiller{}
	g := NewProviderGateway(biller, nil, nil, fastRetry(), logging.NewTestLogger())

	v, err := g.Verify(context.Background(), "ikeja-electric", "45060419861")
	require.NoError(t, err)
	assert.Equal(t, "ADA OBI", v.Name)
	assert.Equal(t, "12 Marina Rd", v.Address)
}

func TestVerifySurfacesRejection(t *testing.T) {
	biller := &stubBiller{verifyErr: providers.ErrVerificationFailed}
	g := NewProviderGateway(biller, nil, nil, fastRetry(), logging.NewTestLogger())

	_, err := g.Verify(context.Background(), "ikeja-electric", "00000000000")
	assert.ErrorIs(t, err, providers.ErrVerificationFailed)
}

func TestCollectRoutesToNamedProvider(t *testing.T) {
	collector := &stubCollector{
		name:   providers.Paystack,
		link:   "https://checkout.paystack.com/abc123",
		result: &fiat.CollectResult{Status: fiat.CollectSucceeded, ProviderRef: "ps-123"},
	}
	g := NewProviderGateway(&stubBiller{}, []fiat.Collector{collector}, nil, fastRetry(), logging.NewTestLogger())

	pending, err := g.Collect(context.Background(), CollectInput{
		Provider:       providers.Paystack,
		Amount:         500_000,
		PayerEmail:     "ada@example.com",
		IdempotencyKey: "fund-xyz",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.paystack.com/abc123", pending.PaymentLink)

	outcome, err := pending.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ps-123", outcome.ProviderRef)
}

func TestCollectUnknownProvider(t *testing.T) {
	g := NewProviderGateway(&stubBiller{}, nil, nil, fastRetry(), logging.NewTestLogger())

	_, err := g.Collect(context.Background(), CollectInput{Provider: "MOONPAY"})
	assert.Error(t, err)
}
