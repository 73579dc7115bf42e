package models

import (
	"time"

	"github.com/google/uuid"
)

// Amounts cross the API in kobo; responses carry a formatted naira string
// alongside so clients do not redo the conversion.
type WalletResponse struct {
	AccountID int64  `json:"account_id"`
	Currency  string `json:"currency"`
	Balance   int64  `json:"balance"`
	Available int64  `json:"available"`
	Naira     string `json:"naira"`
}

type TransactionCollectionResponse []TransactionResponse

type TransactionResponse struct {
	ID          int64     `json:"id"`
	Amount      int64     `json:"amount"`
	Naira       string    `json:"naira"`
	Kind        string    `json:"kind"`
	Status      string    `json:"status"`
	Reference   string    `json:"reference"`
	ExternalRef string    `json:"external_ref,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type FundWalletParams struct {
	Amount     int64  `json:"amount" binding:"required,gt=0"`
	Provider   string `json:"provider" binding:"required"`
	Method     string `json:"method"`
	PayerEmail string `json:"payer_email"`
}

type PaymentRequestResponse struct {
	ID            uuid.UUID `json:"id"`
	Provider      string    `json:"provider"`
	ServiceCode   string    `json:"service_code"`
	VariationCode string    `json:"variation_code,omitempty"`
	Amount        int64     `json:"amount"`
	Naira         string    `json:"naira"`
	RecipientRef  string    `json:"recipient_ref"`
	Status        string    `json:"status"`
	Reference     string    `json:"reference"`
	PaymentLink   string    `json:"payment_link,omitempty"`
	FailureCause  string    `json:"failure_cause,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
