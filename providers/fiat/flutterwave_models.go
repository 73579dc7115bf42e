package fiat

import "github.com/shopspring/decimal"

type FlwResponse[T any] struct {
	Status  string `json:"status"` // "success" | "error"
	Message string `json:"message"`
	Data    T      `json:"data"`
}

type FlwCustomer struct {
	Email string `json:"email"`
}

type FlwInitiatePaymentRequest struct {
	TxRef    string          `json:"tx_ref"`
	Amount   decimal.Decimal `json:"amount"` // major units
	Currency string          `json:"currency"`
	Customer FlwCustomer     `json:"customer"`
}

type FlwInitiatePaymentData struct {
	Link string `json:"link"`
}

type FlwTransactionData struct {
	ID                int64           `json:"id"`
	TxRef             string          `json:"tx_ref"`
	FlwRef            string          `json:"flw_ref"`
	Amount            decimal.Decimal `json:"amount"`
	Currency          string          `json:"currency"`
	Status            string          `json:"status"` // successful | failed | pending
	ProcessorResponse string          `json:"processor_response"`
}
