package wallet

import "fmt"

var (
	ErrInsufficientFunds = fmt.Errorf("insufficient funds")
	ErrHeldElsewhere     = fmt.Errorf("a reservation with this key is already held")
)

type WalletError struct {
	ErrorObj  error
	AccountID int64
	Other     []error
}

func (w *WalletError) Error() string {
	return w.ErrorObj.Error()
}

func (w *WalletError) Unwrap() error {
	return w.ErrorObj
}

func (w *WalletError) ErrorOut() string {
	return fmt.Sprintf("%v: %v", w.ErrorObj.Error(), w.AccountID)
}

func NewWalletError(err error, accountID int64, e ...error) *WalletError {
	return &WalletError{
		ErrorObj:  err,
		AccountID: accountID,
		Other:     e,
	}
}
