package transaction

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/VellaPay/VellaPay-Backend/providers"
	"github.com/VellaPay/VellaPay-Backend/services/gateway"
	"github.com/VellaPay/VellaPay-Backend/services/ledger"
	"github.com/VellaPay/VellaPay-Backend/services/monitoring/logging"
	"github.com/VellaPay/VellaPay-Backend/services/wallet"
	"github.com/VellaPay/VellaPay-Backend/utils"
	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"
)

// Notifier receives best-effort success signals, e.g. for receipt emails.
type Notifier interface {
	PaymentSucceeded(ctx context.Context, request *PaymentRequest, providerRef string)
}

// TransactionService coordinates a funding or spend operation as one
// business transaction across the ledger and the provider gateway. The
// contract: a spend either fully completes (provider confirms, balance
// decreases) or fully does not; provider confirmation always precedes the
// ledger commit, so no debit is ever posted for a failed spend.
type TransactionService struct {
	store    ledger.Store
	wallet   *wallet.WalletService
	gateway  gateway.Gateway
	requests RequestRepository
	refs     *utils.RequestReference
	notifier Notifier
	logger   *logging.Logger
	seq      atomic.Int64
}

func NewTransactionService(
	store ledger.Store,
	walletService *wallet.WalletService,
	gw gateway.Gateway,
	requests RequestRepository,
	refs *utils.RequestReference,
	logger *logging.Logger,
) *TransactionService {
	return &TransactionService{
		store:    store,
		wallet:   walletService,
		gateway:  gw,
		requests: requests,
		refs:     refs,
		logger:   logger,
	}
}

// WithNotifier attaches an optional success notifier.
func (s *TransactionService) WithNotifier(n Notifier) *TransactionService {
	s.notifier = n
	return s
}

// Spend runs the spend state machine: initiated, optionally verifying,
// paying, then exactly one of succeeded or failed.
func (s *TransactionService) Spend(ctx context.Context, input SpendInput) (*PaymentRequest, error) {
	if err := validateSpend(input); err != nil {
		return nil, err
	}

	request, err := s.createRequest(ctx, &PaymentRequest{
		AccountID:     input.AccountID,
		Provider:      providers.VTPass,
		ServiceCode:   input.ServiceCode,
		VariationCode: input.VariationCode,
		Amount:        input.Amount,
		RecipientRef:  input.RecipientRef,
	})
	if err != nil {
		return nil, err
	}

	// fail fast before any external call: no gateway work for an account
	// that cannot cover the amount
	ok, err := s.wallet.CanDebit(ctx, input.AccountID, input.Amount)
	if err != nil {
		return request, s.fail(ctx, request, err)
	}
	if !ok {
		return request, s.fail(ctx, request, wallet.ErrInsufficientFunds)
	}

	if input.RequireVerification {
		moved, err := s.requests.Transition(ctx, request.ID, []Status{StatusInitiated}, StatusVerifying)
		if err != nil {
			return request, s.fail(ctx, request, err)
		}
		if !moved {
			return s.reload(ctx, request), ErrRequestCancelled
		}
		request.Status = StatusVerifying

		if _, err := s.gateway.Verify(ctx, input.ServiceCode, input.RecipientRef); err != nil {
			return request, s.fail(ctx, request, err)
		}
	}

	if err := s.wallet.Reserve(ctx, input.AccountID, request.IdempotencyKey, input.Amount); err != nil {
		return request, s.fail(ctx, request, err)
	}

	moved, err := s.requests.Transition(ctx, request.ID, []Status{StatusInitiated, StatusVerifying}, StatusPaying)
	if err != nil {
		s.wallet.Release(input.AccountID, request.IdempotencyKey)
		return request, s.fail(ctx, request, err)
	}
	if !moved {
		// cancelled in the pre-dispatch window; the hold is simply dropped
		s.wallet.Release(input.AccountID, request.IdempotencyKey)
		return s.reload(ctx, request), ErrRequestCancelled
	}
	request.Status = StatusPaying

	outcome, err := s.gateway.Pay(ctx, gateway.PayInput{
		ServiceCode:    input.ServiceCode,
		VariationCode:  input.VariationCode,
		Amount:         input.Amount,
		BillerRef:      input.RecipientRef,
		Phone:          input.Phone,
		IdempotencyKey: request.IdempotencyKey,
	})
	if err != nil {
		// no debit is ever posted for a failed spend
		s.wallet.Release(input.AccountID, request.IdempotencyKey)
		return request, s.fail(ctx, request, err)
	}

	entry := ledger.Entry{
		AccountID:      input.AccountID,
		Amount:         -input.Amount,
		Kind:           ledger.KindSpend,
		ExternalRef:    nullableString(outcome.ProviderRef),
		IdempotencyKey: request.IdempotencyKey,
		Metadata:       spendMetadata(input, outcome.ProductName),
	}
	if _, err := s.store.Append(ctx, entry); err != nil && !errors.Is(err, ledger.ErrConflict) {
		// provider confirmed but the commit failed: surface for
		// reconciliation rather than masking it as success
		s.wallet.Release(input.AccountID, request.IdempotencyKey)
		s.logger.Error(fmt.Sprintf("ledger commit failed after provider success, request %v needs reconciliation", request.ID), err)
		return request, s.fail(ctx, request, err)
	}
	s.wallet.Release(input.AccountID, request.IdempotencyKey)

	return s.succeed(ctx, request, outcome.ProviderRef)
}

// Fund starts a collection through a collection provider and returns the
// pending request carrying the provider checkout link for the payer. The
// wallet is credited in the background once the provider confirms, and
// only then; a failed or abandoned collection leaves no ledger entry.
func (s *TransactionService) Fund(ctx context.Context, input FundInput) (*PaymentRequest, error) {
	if err := validateFund(input); err != nil {
		return nil, err
	}

	request, err := s.createRequest(ctx, &PaymentRequest{
		AccountID:    input.AccountID,
		Provider:     input.Provider,
		ServiceCode:  "wallet-funding",
		Amount:       input.Amount,
		RecipientRef: input.PayerEmail,
	})
	if err != nil {
		return nil, err
	}

	moved, err := s.requests.Transition(ctx, request.ID, []Status{StatusInitiated}, StatusPaying)
	if err != nil {
		return request, s.fail(ctx, request, err)
	}
	if !moved {
		return s.reload(ctx, request), ErrRequestCancelled
	}
	request.Status = StatusPaying

	pending, err := s.gateway.Collect(ctx, gateway.CollectInput{
		Provider:       input.Provider,
		Amount:         input.Amount,
		PayerEmail:     input.PayerEmail,
		Method:         input.Method,
		IdempotencyKey: request.IdempotencyKey,
	})
	if err != nil {
		return request, s.fail(ctx, request, err)
	}

	request.PaymentLink = pending.PaymentLink
	if err := s.requests.Update(ctx, request); err != nil {
		s.logger.Error(fmt.Sprintf("could not store payment link for request %v", request.ID), err)
	}

	// the caller gets the checkout link now; settlement runs on its own
	// clock, driven by the provider webhook or the verify poll
	go s.settleFunding(context.WithoutCancel(ctx), *request, input, pending)

	return request, nil
}

func (s *TransactionService) settleFunding(ctx context.Context, request PaymentRequest, input FundInput, pending *gateway.PendingCollection) {
	outcome, err := pending.Await(ctx)
	if err != nil {
		s.fail(ctx, &request, err)
		return
	}

	entry := ledger.Entry{
		AccountID:      input.AccountID,
		Amount:         input.Amount,
		Kind:           ledger.KindFunding,
		ExternalRef:    nullableString(outcome.ProviderRef),
		IdempotencyKey: request.IdempotencyKey,
		Metadata:       fundMetadata(input),
	}
	if _, err := s.store.Append(ctx, entry); err != nil && !errors.Is(err, ledger.ErrConflict) {
		s.logger.Error(fmt.Sprintf("ledger commit failed after collection success, request %v needs reconciliation", request.ID), err)
		s.fail(ctx, &request, err)
		return
	}

	s.succeed(ctx, &request, outcome.ProviderRef)
}

// Cancel aborts a request that has not dispatched its provider call.
// Once pay/collect is in flight, cancellation only suppresses local
// follow-up, so it is rejected here.
func (s *TransactionService) Cancel(ctx context.Context, accountID int64, id uuid.UUID) (*PaymentRequest, error) {
	request, err := s.requests.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if request.AccountID != accountID {
		return nil, ErrNotYourRequest
	}

	moved, err := s.requests.Transition(ctx, id, []Status{StatusInitiated, StatusVerifying}, StatusFailed)
	if err != nil {
		return nil, err
	}
	if !moved {
		return nil, ErrCancelTooLate
	}

	request.Status = StatusFailed
	request.FailureCause = ErrRequestCancelled.Error()
	if err := s.requests.Update(ctx, request); err != nil {
		return nil, err
	}
	return request, nil
}

// VerifyRecipient checks a biller reference without creating a request,
// for pre-payment confirmation screens.
func (s *TransactionService) VerifyRecipient(ctx context.Context, serviceCode, recipient string) (*gateway.Verification, error) {
	return s.gateway.Verify(ctx, serviceCode, recipient)
}

// GetRequest returns a request owned by accountID.
func (s *TransactionService) GetRequest(ctx context.Context, accountID int64, id uuid.UUID) (*PaymentRequest, error) {
	request, err := s.requests.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if request.AccountID != accountID {
		return nil, ErrNotYourRequest
	}
	return request, nil
}

func (s *TransactionService) createRequest(ctx context.Context, request *PaymentRequest) (*PaymentRequest, error) {
	key, err := s.refs.Generate(s.seq.Add(1))
	if err != nil {
		return nil, err
	}

	request.ID = uuid.New()
	request.Status = StatusInitiated
	request.IdempotencyKey = key

	if err := s.requests.Save(ctx, request); err != nil {
		return nil, fmt.Errorf("create payment request: %w", err)
	}
	return request, nil
}

func (s *TransactionService) fail(ctx context.Context, request *PaymentRequest, cause error) error {
	request.Status = StatusFailed
	request.FailureCause = cause.Error()
	if err := s.requests.Update(ctx, request); err != nil {
		s.logger.Error(fmt.Sprintf("could not mark request %v failed", request.ID), err)
	}
	return cause
}

func (s *TransactionService) succeed(ctx context.Context, request *PaymentRequest, providerRef string) (*PaymentRequest, error) {
	request.Status = StatusSucceeded
	request.FailureCause = ""
	if err := s.requests.Update(ctx, request); err != nil {
		s.logger.Error(fmt.Sprintf("could not mark request %v succeeded", request.ID), err)
	}

	if s.notifier != nil {
		go s.notifier.PaymentSucceeded(context.WithoutCancel(ctx), request, providerRef)
	}

	return request, nil
}

func (s *TransactionService) reload(ctx context.Context, request *PaymentRequest) *PaymentRequest {
	fresh, err := s.requests.Get(ctx, request.ID)
	if err != nil {
		return request
	}
	return fresh
}

func validateSpend(input SpendInput) error {
	if input.Amount <= 0 {
		return ErrInvalidAmount
	}
	if input.ServiceCode == "" {
		return ErrMissingService
	}
	if input.RecipientRef == "" {
		return ErrMissingRecipient
	}
	return nil
}

func validateFund(input FundInput) error {
	if input.Amount <= 0 {
		return ErrInvalidAmount
	}
	if input.Provider == "" {
		return ErrMissingProvider
	}
	if input.PayerEmail == "" {
		return ErrMissingEmail
	}
	return nil
}

func spendMetadata(input SpendInput, productName string) pqtype.NullRawMessage {
	raw, err := json.Marshal(map[string]string{
		"service_code":   input.ServiceCode,
		"variation_code": input.VariationCode,
		"recipient_ref":  input.RecipientRef,
		"product_name":   productName,
	})
	if err != nil {
		return pqtype.NullRawMessage{}
	}
	return pqtype.NullRawMessage{RawMessage: raw, Valid: true}
}

func fundMetadata(input FundInput) pqtype.NullRawMessage {
	raw, err := json.Marshal(map[string]string{
		"provider": input.Provider,
		"method":   input.Method,
	})
	if err != nil {
		return pqtype.NullRawMessage{}
	}
	return pqtype.NullRawMessage{RawMessage: raw, Valid: true}
}
