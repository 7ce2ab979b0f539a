package apistrings

const (
	/// Basic User Related Strings
	UserNotFound = "user or account does not exist"

	/// Core Functionality Error
	ServerError = "a server error occurred, please try again later"

	/// Wallet Related Strings
	UserNoWallet       = "user does not have a wallet created"
	WalletUnscheduled  = "wallet creation has not been scheduled, please log in again"
	WalletNotReady     = "wallet is still being set up, please try again shortly"
	InvalidVoucherPage = "check 'limit' or 'offset' keys, invalid request"

	/// Reward Related Strings
	InvalidRewardInput  = "check 'user_id', 'source' or 'amount' keys, invalid request"
	InvalidRewardAmount = "reward amount must be greater than zero"
	InvalidRewardSource = "reward source is not recognised"
	DuplicateReward     = "reward has already been scheduled for this source"
)
