package models

import (
	"github.com/Perkly/Perkly-Backend/services/rewardledger"
	"github.com/shopspring/decimal"
)

type ScheduleRewardParams struct {
	UserID           int64           `json:"user_id" binding:"required" validate:"required,gt=0"`
	SourceEntityType string          `json:"source_entity_type" binding:"required" validate:"required"`
	SourceEntityID   string          `json:"source_entity_id" binding:"required" validate:"required,uuid"`
	Amount           decimal.Decimal `json:"amount" binding:"required"`
}

type RewardTransactionResponse struct {
	ID               int64           `json:"id"`
	UserID           int64           `json:"user_id"`
	SourceEntityType string          `json:"source_entity_type"`
	SourceEntityID   string          `json:"source_entity_id"`
	Amount           decimal.Decimal `json:"amount"`
	Status           string          `json:"status"`
}

func (r RewardTransactionResponse) ToRewardTransactionResponse(tx *rewardledger.RewardTransactionModel) RewardTransactionResponse {
	return RewardTransactionResponse{
		ID:               tx.ID,
		UserID:           tx.UserID,
		SourceEntityType: tx.SourceEntityType,
		SourceEntityID:   tx.SourceEntityID,
		Amount:           tx.Amount,
		Status:           tx.Status,
	}
}
