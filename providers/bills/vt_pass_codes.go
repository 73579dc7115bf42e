package bills

// Aggregator response codes and their meanings
const (
	// TransactionProcessed - Transaction is processed. Check [content][transactions][status] for actual state
	TransactionProcessed = "000"
	// TransactionProcessing - Transaction is currently processing. Requery using requestID to check status
	TransactionProcessing = "099"
	// TransactionNotProcessed - Transaction not processed and no charge applied
	TransactionNotProcessed = "091"
	// TransactionFailed - Transaction failed
	TransactionFailed = "016"
	// InvalidVariationCode - Invalid variation code used
	InvalidVariationCode = "010"
	// InvalidArguments - Missing required arguments in request
	InvalidArguments = "011"
	// ProductNotExist - Product does not exist
	ProductNotExist = "012"
	// BelowMinAmount - Amount is below minimum allowed for product/service
	BelowMinAmount = "013"
	// RequestIDExists - RequestID was already used in previous transaction
	RequestIDExists = "014"
	// AboveMaxAmount - Amount exceeds maximum allowed for product/service
	AboveMaxAmount = "017"
	// LowWalletBalance - Insufficient funds in aggregator wallet
	LowWalletBalance = "018"
	// DuplicateTransaction - Multiple identical service requests within 30 seconds
	DuplicateTransaction = "019"
	// BillerUnavailable - Biller for product/service is unreachable
	BillerUnavailable = "030"
	// ServiceSuspended - Service temporarily suspended
	ServiceSuspended = "034"
	// SystemError - System error, contact tech support
	SystemError = "083"
	// ImproperRequestIDNoDate - Request ID missing valid date
	ImproperRequestIDNoDate = "085"
)

// codeRetryable reports whether a non-success code is safe to resend with
// the same request id. 099 is deliberately absent: the aggregator holds the
// request id of a processing transaction, so a resend is declined as a
// duplicate (014) while the original may still deliver. Processing requests
// are requeried instead.
func codeRetryable(code string) bool {
	switch code {
	case BillerUnavailable, SystemError, TransactionNotProcessed:
		return true
	}
	return false
}
