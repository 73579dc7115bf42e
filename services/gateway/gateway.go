package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/VellaPay/VellaPay-Backend/providers"
	"github.com/VellaPay/VellaPay-Backend/providers/bills"
	"github.com/VellaPay/VellaPay-Backend/providers/fiat"
	"github.com/VellaPay/VellaPay-Backend/services/catalog"
	"github.com/VellaPay/VellaPay-Backend/services/monitoring/logging"
	"github.com/shopspring/decimal"
)

// Verification is the customer record a biller returns for a reference.
type Verification struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

type PayInput struct {
	ServiceCode    string
	VariationCode  string
	Amount         int64 // kobo
	BillerRef      string
	Phone          string
	IdempotencyKey string
}

type PayOutcome struct {
	ProviderRef string
	ProductName string
}

type CollectInput struct {
	Provider       string
	Amount         int64 // kobo
	PayerEmail     string
	Method         string
	IdempotencyKey string
}

type CollectOutcome struct {
	ProviderRef string
}

// PendingCollection is a started collection waiting on the payer.
// PaymentLink is the provider checkout page to hand back to the client;
// Await blocks until the provider confirms or the collection window closes.
type PendingCollection struct {
	PaymentLink string
	Await       func(ctx context.Context) (*CollectOutcome, error)
}

// Gateway normalizes the bill aggregator and the collection providers
// behind one interface. Every outbound call carries its idempotency key as
// the provider-side request id, so retried calls are safe to resend.
type Gateway interface {
	Verify(ctx context.Context, serviceCode, billerRef string) (*Verification, error)
	ListVariations(ctx context.Context, serviceCode string) ([]bills.Variation, error)
	Pay(ctx context.Context, input PayInput) (*PayOutcome, error)
	Collect(ctx context.Context, input CollectInput) (*PendingCollection, error)
}

// billerClient is the slice of the aggregator the gateway drives.
type billerClient interface {
	VerifyCustomer(request bills.VerifyCustomerRequest) (*bills.CustomerInfo, error)
	Pay(request bills.PayRequest) (*bills.Transaction, error)
	QueryTransaction(requestID string) (*bills.Transaction, error)
}

type ProviderGateway struct {
	biller     billerClient
	collectors map[string]fiat.Collector
	catalog    *catalog.CatalogService
	retry      RetryPolicy
	logger     *logging.Logger
}

func NewProviderGateway(biller billerClient, collectors []fiat.Collector, catalogService *catalog.CatalogService, retry RetryPolicy, logger *logging.Logger) *ProviderGateway {
	byName := make(map[string]fiat.Collector, len(collectors))
	for _, c := range collectors {
		byName[c.Name()] = c
	}
	return &ProviderGateway{
		biller:     biller,
		collectors: byName,
		catalog:    catalogService,
		retry:      retry.withDefaults(),
		logger:     logger,
	}
}

func (g *ProviderGateway) Verify(ctx context.Context, serviceCode, billerRef string) (*Verification, error) {
	info, err := g.biller.VerifyCustomer(bills.VerifyCustomerRequest{
		ServiceID:   serviceCode,
		BillersCode: billerRef,
	})
	if err != nil {
		return nil, err
	}
	return &Verification{
		Name:    info.CustomerName,
		Address: info.Address,
	}, nil
}

func (g *ProviderGateway) ListVariations(ctx context.Context, serviceCode string) ([]bills.Variation, error) {
	return g.catalog.Variations(ctx, serviceCode)
}

// Pay submits a purchase, retrying retryable failures with the same request
// id under the bounded backoff policy.
func (g *ProviderGateway) Pay(ctx context.Context, input PayInput) (*PayOutcome, error) {
	request := bills.PayRequest{
		RequestID:     input.IdempotencyKey,
		ServiceID:     input.ServiceCode,
		BillersCode:   input.BillerRef,
		VariationCode: input.VariationCode,
		// the aggregator takes naira, the ledger holds kobo
		Amount: decimal.NewFromInt(input.Amount).Div(decimal.NewFromInt(100)),
		Phone:  input.Phone,
	}

	var outcome *PayOutcome
	err := g.withRetry(ctx, "pay", func() error {
		tx, err := g.biller.Pay(request)
		if err != nil && providers.IsInFlight(err) {
			// the aggregator accepted the request but has not settled it;
			// resending the same id would be declined as a duplicate, so
			// requery until it lands
			tx, err = g.awaitInFlight(ctx, request.RequestID)
		}
		if err != nil {
			return err
		}
		outcome = &PayOutcome{
			ProviderRef: tx.TransactionID,
			ProductName: tx.ProductName,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return outcome, nil
}

// awaitInFlight polls the aggregator by request id until the transaction
// reaches a terminal state or the backoff budget runs out. The last
// in-flight error is surfaced unretryable so the caller never resends.
func (g *ProviderGateway) awaitInFlight(ctx context.Context, requestID string) (*bills.Transaction, error) {
	delay := g.retry.Base
	var lastErr error
	for attempt := 1; attempt <= g.retry.MaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
		delay *= time.Duration(g.retry.Factor)

		tx, err := g.biller.QueryTransaction(requestID)
		if err == nil {
			return tx, nil
		}
		lastErr = err
		if !providers.IsInFlight(err) {
			return nil, err
		}
		g.logger.Info(fmt.Sprintf("requery attempt %d for %v: still processing", attempt, requestID))
	}
	return nil, lastErr
}

// Collect starts a collection through the named provider and returns the
// checkout link with an Await handle. The collection resolves exactly once,
// so no retry loop wraps it; a retryable CollectionError is surfaced for
// the caller to decide.
func (g *ProviderGateway) Collect(ctx context.Context, input CollectInput) (*PendingCollection, error) {
	collector, ok := g.collectors[input.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown collection provider %q", input.Provider)
	}

	collection, err := collector.Collect(ctx, fiat.CollectRequest{
		Amount:     input.Amount,
		Currency:   "NGN",
		Reference:  input.IdempotencyKey,
		PayerEmail: input.PayerEmail,
		Method:     input.Method,
	})
	if err != nil {
		return nil, err
	}

	return &PendingCollection{
		PaymentLink: collection.PaymentLink,
		Await: func(ctx context.Context) (*CollectOutcome, error) {
			result, err := collection.Await(ctx)
			if err != nil {
				return nil, err
			}
			return &CollectOutcome{ProviderRef: result.ProviderRef}, nil
		},
	}, nil
}

func (g *ProviderGateway) withRetry(ctx context.Context, op string, fn func() error) error {
	delay := g.retry.Base
	var err error
	for attempt := 1; attempt <= g.retry.MaxAttempts; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}
		if !providers.IsRetryable(err) || attempt == g.retry.MaxAttempts {
			return err
		}

		g.logger.Info(fmt.Sprintf("%v attempt %d failed, retrying in %v: %v", op, attempt, delay, err))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= time.Duration(g.retry.Factor)
	}
	return err
}
