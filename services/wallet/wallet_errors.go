package wallet

import "fmt"

var (
	ErrWalletNotFound     = fmt.Errorf("wallet not found")
	ErrWalletNotPossible  = fmt.Errorf("could not create wallet")
	ErrInvalidUserID      = fmt.Errorf("user id is required")
	ErrProvisioningExists = fmt.Errorf("wallet provisioning already exists")

	// Validation errors surfaced to callers of voucher search. The remediation
	// differs: an unscheduled wallet needs a fresh login, a pending one needs
	// patience.
	ErrWalletUnscheduled = fmt.Errorf("wallet creation has not been scheduled, please log in again")
	ErrWalletPending     = fmt.Errorf("wallet creation is still in progress, please try again shortly")

	// Data-inconsistency conditions. These mean an invariant was broken out of
	// band, not that the caller did anything wrong.
	ErrMissingWalletID = fmt.Errorf("provisioning marked created without an external wallet id")
	ErrBalanceMismatch = fmt.Errorf("provider opening balance does not match locally computed balance")

	ErrMissingErrorReason    = fmt.Errorf("error transition requires a reason")
	ErrMissingCreationFields = fmt.Errorf("created transition requires wallet id and initial balance")
	ErrUnsupportedStatus     = fmt.Errorf("unsupported wallet provisioning status")
)

type WalletError struct {
	ErrorObj error
	WalletID string
	Other    []error
}

func (w *WalletError) Error() string {
	return w.ErrorObj.Error()
}

func (w *WalletError) Unwrap() error {
	return w.ErrorObj
}

func (w *WalletError) ErrorOut() string {
	return fmt.Sprintf("%v: %v", w.ErrorObj.Error(), w.WalletID)
}

func NewWalletError(err error, wallID string, e ...error) *WalletError {
	return &WalletError{
		ErrorObj: err,
		WalletID: wallID,
		Other:    e,
	}
}
