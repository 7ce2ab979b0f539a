package wallet

import (
	"database/sql"
	"time"

	db "github.com/Perkly/Perkly-Backend/db/sqlc"
	"github.com/shopspring/decimal"
)

const (
	StatusUnscheduled = "unscheduled"
	StatusPending     = "pending"
	StatusCreated     = "created"
	StatusError       = "error"
)

type WalletProvisioningModel struct {
	ID               int64               `json:"id"`
	UserID           int64               `json:"user_id"`
	ExternalWalletID sql.NullString      `json:"external_wallet_id"`
	InitialBalance   decimal.NullDecimal `json:"initial_balance"`
	Status           string              `json:"status"`
	ErrorReason      sql.NullString      `json:"error_reason"`
	RetryCount       sql.NullInt32       `json:"retry_count"`
	DateModified     time.Time           `json:"date_modified"`
}

func ToWalletProvisioningModel(row db.WalletProvisioning) *WalletProvisioningModel {
	return &WalletProvisioningModel{
		ID:               row.ID,
		UserID:           row.UserID,
		ExternalWalletID: row.ExternalWalletID,
		InitialBalance:   row.InitialBalance,
		Status:           row.Status,
		ErrorReason:      row.ErrorReason,
		RetryCount:       row.RetryCount,
		DateModified:     row.DateModified,
	}
}

func ToWalletProvisioningModels(rows []db.WalletProvisioning) []WalletProvisioningModel {
	models := make([]WalletProvisioningModel, 0, len(rows))
	for _, row := range rows {
		models = append(models, *ToWalletProvisioningModel(row))
	}
	return models
}

// WalletStatusAndBalance is the caller-facing composite balance. Available is
// zero with ProviderOffline set when the ledger cannot be reached.
type WalletStatusAndBalance struct {
	Status          string          `json:"status"`
	WalletID        string          `json:"wallet_id,omitempty"`
	Pending         decimal.Decimal `json:"pending"`
	Available       decimal.Decimal `json:"available"`
	Total           decimal.Decimal `json:"total"`
	ProviderOffline bool            `json:"provider_offline"`
}

type VoucherFilter struct {
	Status string
	Limit  int
	Offset int
}

// ProvisioningUpdate describes one requested provisioning status transition.
type ProvisioningUpdate struct {
	ID               int64
	Status           string
	ExternalWalletID string
	InitialBalance   decimal.NullDecimal
	ErrorReason      string
}
