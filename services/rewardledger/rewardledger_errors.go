package rewardledger

import "fmt"

var (
	ErrInvalidUserID           = fmt.Errorf("user id is required")
	ErrInvalidSourceEntityID   = fmt.Errorf("source entity id is required")
	ErrInvalidAmount           = fmt.Errorf("reward amount must be greater than zero")
	ErrTransactionNotFound     = fmt.Errorf("reward transaction not found")
	ErrMissingTransactionID    = fmt.Errorf("processed transaction requires an external transaction id")
	ErrUnexpectedTransactionID = fmt.Errorf("initial-balance transaction must not carry an external transaction id")
	ErrMissingErrorReason      = fmt.Errorf("error transition requires a reason")
	ErrUnsupportedStatus       = fmt.Errorf("unsupported reward transaction status")
	ErrUnknownRewardSource     = fmt.Errorf("unknown reward source")
)

type RewardError struct {
	ErrorObj      error
	TransactionID string
	Other         []error
}

func (r *RewardError) Error() string {
	return r.ErrorObj.Error()
}

func (r *RewardError) Unwrap() error {
	return r.ErrorObj
}

func (r *RewardError) ErrorOut() string {
	return fmt.Sprintf("%v: %v", r.ErrorObj.Error(), r.TransactionID)
}

func NewRewardError(err error, transactionID string, e ...error) *RewardError {
	return &RewardError{
		ErrorObj:      err,
		TransactionID: transactionID,
		Other:         e,
	}
}
