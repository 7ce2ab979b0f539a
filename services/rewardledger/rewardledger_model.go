package rewardledger

import (
	"database/sql"
	"time"

	db "github.com/Perkly/Perkly-Backend/db/sqlc"
	"github.com/shopspring/decimal"
)

const (
	StatusPending                 = "pending"
	StatusProcessed               = "processed"
	StatusProcessedInitialBalance = "processed_initial_balance"
	StatusError                   = "error"
)

type RewardTransactionModel struct {
	ID                    int64           `json:"id"`
	UserID                int64           `json:"user_id"`
	SourceEntityType      string          `json:"source_entity_type"`
	SourceEntityID        string          `json:"source_entity_id"`
	Amount                decimal.Decimal `json:"amount"`
	Status                string          `json:"status"`
	ExternalTransactionID sql.NullString  `json:"external_transaction_id"`
	ErrorReason           sql.NullString  `json:"error_reason"`
	RetryCount            sql.NullInt32   `json:"retry_count"`
	DateModified          time.Time       `json:"date_modified"`
}

func ToRewardTransactionModel(tx db.RewardTransaction) *RewardTransactionModel {
	return &RewardTransactionModel{
		ID:                    tx.ID,
		UserID:                tx.UserID,
		SourceEntityType:      tx.SourceEntityType,
		SourceEntityID:        tx.SourceEntityID,
		Amount:                tx.Amount,
		Status:                tx.Status,
		ExternalTransactionID: tx.ExternalTransactionID,
		ErrorReason:           tx.ErrorReason,
		RetryCount:            tx.RetryCount,
		DateModified:          tx.DateModified,
	}
}

func ToRewardTransactionModels(txs []db.RewardTransaction) []RewardTransactionModel {
	models := make([]RewardTransactionModel, 0, len(txs))
	for _, tx := range txs {
		models = append(models, *ToRewardTransactionModel(tx))
	}
	return models
}

// TransactionUpdate describes one requested status transition.
type TransactionUpdate struct {
	ID                    int64
	Status                string
	ExternalTransactionID string
	ErrorReason           string
}
