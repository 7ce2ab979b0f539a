package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

type LedgerConfig struct {
	LedgerName         string `mapstructure:"LEDGER_PROVIDER_NAME"`
	LedgerBaseUrl      string `mapstructure:"LEDGER_BASE_URL"`
	LedgerAuthUrl      string `mapstructure:"LEDGER_AUTH_URL"`
	LedgerClientID     string `mapstructure:"LEDGER_CLIENT_ID"`
	LedgerClientSecret string `mapstructure:"LEDGER_CLIENT_SECRET"`
}

// WalletCreationStatus reports whether CreateWallet found an existing wallet for
// the username or created a fresh one.
type WalletCreationStatus string

const (
	WalletExisting WalletCreationStatus = "existing"
	WalletCreated  WalletCreationStatus = "created"
)

type Wallet struct {
	ID      string          `json:"id"`
	OwnerID string          `json:"ownerId"`
	Balance decimal.Decimal `json:"balance"`
}

type Voucher struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Value     decimal.Decimal `json:"value"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"createdAt"`
}

type CreateWalletRequest struct {
	OwnerName      string          `json:"ownerName"`
	Username       string          `json:"username"`
	InitialBalance decimal.Decimal `json:"initialBalance"`
}

type EarnRequest struct {
	WalletID    string          `json:"walletId"`
	Amount      decimal.Decimal `json:"amount"`
	Reference   string          `json:"reference"`
	Description string          `json:"description"`
}

type earnResponse struct {
	TransactionID string `json:"transactionId"`
}

type authRequest struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	GrantType    string `json:"grant_type"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

type voucherPage struct {
	Content []Voucher `json:"content"`
}
