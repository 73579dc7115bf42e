package models

import (
	"github.com/VellaPay/VellaPay-Backend/services/ledger"
	"github.com/VellaPay/VellaPay-Backend/services/transaction"
	"github.com/shopspring/decimal"
)

func nairaString(kobo int64) string {
	return decimal.NewFromInt(kobo).Div(decimal.NewFromInt(100)).StringFixed(2)
}

func ToWalletResponse(accountID int64, balance int64, available int64) *WalletResponse {
	return &WalletResponse{
		AccountID: accountID,
		Currency:  "NGN",
		Balance:   balance,
		Available: available,
		Naira:     nairaString(balance),
	}
}

func ToTransactionCollectionResponse(entries []ledger.Entry) TransactionCollectionResponse {
	responses := make(TransactionCollectionResponse, len(entries))
	for i, entry := range entries {
		responses[i] = TransactionResponse{
			ID:          entry.ID,
			Amount:      entry.Amount,
			Naira:       nairaString(entry.Amount),
			Kind:        string(entry.Kind),
			Status:      string(entry.Status),
			Reference:   entry.IdempotencyKey,
			ExternalRef: entry.ExternalRef.String,
			CreatedAt:   entry.CreatedAt,
		}
	}
	return responses
}

func ToPaymentRequestResponse(request *transaction.PaymentRequest) *PaymentRequestResponse {
	return &PaymentRequestResponse{
		ID:            request.ID,
		Provider:      request.Provider,
		ServiceCode:   request.ServiceCode,
		VariationCode: request.VariationCode,
		Amount:        request.Amount,
		Naira:         nairaString(request.Amount),
		RecipientRef:  request.RecipientRef,
		Status:        string(request.Status),
		Reference:     request.IdempotencyKey,
		PaymentLink:   request.PaymentLink,
		FailureCause:  request.FailureCause,
		CreatedAt:     request.CreatedAt,
		UpdatedAt:     request.UpdatedAt,
	}
}
