package transaction

import "fmt"

var (
	ErrRequestCancelled = fmt.Errorf("payment request was cancelled")
	ErrCancelTooLate    = fmt.Errorf("provider call already dispatched, request can no longer be cancelled")
	ErrRequestNotFound  = fmt.Errorf("payment request not found")
	ErrNotYourRequest   = fmt.Errorf("payment request belongs to another account")
	ErrInvalidAmount    = fmt.Errorf("amount must be a positive number of kobo")
	ErrMissingService   = fmt.Errorf("a service code is required")
	ErrMissingRecipient = fmt.Errorf("a recipient reference is required")
	ErrMissingProvider  = fmt.Errorf("a collection provider is required")
	ErrMissingEmail     = fmt.Errorf("a payer email is required")
)
