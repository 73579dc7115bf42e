package transaction

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusInitiated Status = "initiated"
	StatusVerifying Status = "verifying"
	StatusPaying    Status = "paying"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Terminal reports whether no further transition is possible.
func (s Status) Terminal() bool {
	return s == StatusSucceeded || s == StatusFailed
}

// PaymentRequest tracks one funding or spend operation. Its lifecycle is
// owned exclusively by the orchestrator; transitions are driven only by
// gateway responses and the pre-dispatch cancel window.
type PaymentRequest struct {
	ID             uuid.UUID `json:"id"`
	AccountID      int64     `json:"account_id"`
	Provider       string    `json:"provider"`
	ServiceCode    string    `json:"service_code"`
	VariationCode  string    `json:"variation_code,omitempty"`
	Amount         int64     `json:"amount"` // kobo
	RecipientRef   string    `json:"recipient_ref"`
	Status         Status    `json:"status"`
	IdempotencyKey string    `json:"idempotency_key"`
	PaymentLink    string    `json:"payment_link,omitempty"`
	FailureCause   string    `json:"failure_cause,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type SpendInput struct {
	AccountID     int64
	ServiceCode   string
	VariationCode string
	Amount        int64 // kobo
	RecipientRef  string
	Phone         string
	// RequireVerification routes the request through biller verification
	// before any hold is taken (electricity, TV and similar billers).
	RequireVerification bool
}

type FundInput struct {
	AccountID  int64
	Provider   string
	Amount     int64 // kobo
	PayerEmail string
	Method     string
}
