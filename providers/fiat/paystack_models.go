package fiat

import "time"

type Response[T any] struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

type InitializeTransactionRequest struct {
	Amount    int64    `json:"amount"` // kobo
	Email     string   `json:"email"`
	Reference string   `json:"reference"`
	Currency  string   `json:"currency"`
	Channels  []string `json:"channels,omitempty"`
}

type InitializeTransactionData struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

type VerifyTransactionData struct {
	ID              int64     `json:"id"`
	Status          string    `json:"status"` // success | failed | abandoned | pending
	Reference       string    `json:"reference"`
	Amount          int64     `json:"amount"`
	GatewayResponse string    `json:"gateway_response"`
	Channel         string    `json:"channel"`
	Currency        string    `json:"currency"`
	PaidAt          time.Time `json:"paid_at"`
}
