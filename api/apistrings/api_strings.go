package apistrings

const (
	/// Basic User Related Strings
	UserNotFound       = "user or account does not exist"
	UserAlreadyExists  = "email already exists"
	IncorrectEmailPass = "incorrect email or password"
	InvalidPhoneInput  = "check 'phone_number' key, invalid request"

	/// Core Functionality Error
	ServerError = "a server error occurred, please try again later"

	/// Wallet Related Strings
	InvalidFundingInput  = "check 'amount', 'provider' or 'method' keys, invalid request"
	InsufficientBalance  = "insufficient wallet balance for this payment"
	InvalidRequestID     = "entered ID is invalid"
	RequestNotCancelable = "this payment can no longer be cancelled"

	/// Bill Related Strings
	InvalidBillInput   = "check 'service_code', 'amount' or 'recipient' keys, invalid request"
	InvalidVerifyInput = "check 'service_code' or 'recipient' keys, invalid request"
	VerifyFailed       = "could not verify the customer reference with the biller"
)
