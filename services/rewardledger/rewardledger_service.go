package rewardledger

import (
	"context"
	"database/sql"
	"fmt"

	db "github.com/Perkly/Perkly-Backend/db/sqlc"
	"github.com/Perkly/Perkly-Backend/services/monitoring/logging"
	"github.com/shopspring/decimal"
)

// RewardLedgerService owns the reward-transaction state machine: idempotent
// scheduling, pending work listing and validated status transitions.
type RewardLedgerService struct {
	repo             Repository
	logger           *logging.Logger
	maxRetryAttempts int32
}

func NewRewardLedgerService(repo Repository, logger *logging.Logger, maxRetryAttempts int32) *RewardLedgerService {
	return &RewardLedgerService{
		repo:             repo,
		logger:           logger,
		maxRetryAttempts: maxRetryAttempts,
	}
}

// ScheduleRewardTransaction inserts a pending reward exactly once per source.
// A second call for the same source is a logged no-op returning the first row.
func (s *RewardLedgerService) ScheduleRewardTransaction(ctx context.Context, userID int64, source RewardSource, amount decimal.Decimal) (*RewardTransactionModel, error) {
	if userID == 0 {
		return nil, ErrInvalidUserID
	}
	if source == nil || source.EntityID() == "" {
		return nil, ErrInvalidSourceEntityID
	}
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	existing, err := s.repo.GetRewardTransactionBySource(ctx, db.GetRewardTransactionBySourceParams{
		SourceEntityType: source.EntityType(),
		SourceEntityID:   source.EntityID(),
	})
	if err == nil {
		s.logger.Info(fmt.Sprintf("reward already scheduled for %s/%s, skipping", source.EntityType(), source.EntityID()))
		return ToRewardTransactionModel(existing), nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("lookup reward transaction: %w", err)
	}

	created, err := s.repo.CreateRewardTransaction(ctx, db.CreateRewardTransactionParams{
		UserID:           userID,
		SourceEntityType: source.EntityType(),
		SourceEntityID:   source.EntityID(),
		Amount:           amount,
	})
	if err != nil {
		// A concurrent scheduler may have won the insert race. The unique
		// constraint makes that harmless: fetch and return the winner's row.
		if db.IsUniqueViolation(err) {
			raced, lookupErr := s.repo.GetRewardTransactionBySource(ctx, db.GetRewardTransactionBySourceParams{
				SourceEntityType: source.EntityType(),
				SourceEntityID:   source.EntityID(),
			})
			if lookupErr != nil {
				return nil, fmt.Errorf("lookup raced reward transaction: %w", lookupErr)
			}
			return ToRewardTransactionModel(raced), nil
		}
		return nil, fmt.Errorf("create reward transaction: %w", err)
	}

	return ToRewardTransactionModel(created), nil
}

// ListPendingForUser returns the user's pending rewards oldest-first. The sum
// of their amounts is the user's pending balance.
func (s *RewardLedgerService) ListPendingForUser(ctx context.Context, userID int64) ([]RewardTransactionModel, error) {
	if userID == 0 {
		return nil, ErrInvalidUserID
	}
	rows, err := s.repo.ListPendingRewardTransactionsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list pending reward transactions: %w", err)
	}
	return ToRewardTransactionModels(rows), nil
}

// PendingBalance sums the user's pending reward amounts.
func (s *RewardLedgerService) PendingBalance(ctx context.Context, userID int64) (decimal.Decimal, error) {
	pending, err := s.ListPendingForUser(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, tx := range pending {
		total = total.Add(tx.Amount)
	}
	return total, nil
}

// ListPendingBatch returns a FIFO page of pending rewards across all users,
// excluding idsToSkip.
func (s *RewardLedgerService) ListPendingBatch(ctx context.Context, batchSize int32, idsToSkip []int64) ([]RewardTransactionModel, error) {
	if idsToSkip == nil {
		idsToSkip = []int64{}
	}
	rows, err := s.repo.ListPendingRewardTransactions(ctx, db.ListPendingRewardTransactionsParams{
		SkipIds: idsToSkip,
		Limit:   batchSize,
	})
	if err != nil {
		return nil, fmt.Errorf("list pending reward transactions: %w", err)
	}
	return ToRewardTransactionModels(rows), nil
}

// UpdateTransaction validates and persists one status transition. Error
// transitions do the retry bookkeeping: the first failure records retry_count 0,
// later failures increment it, and once the budget is spent the row stays in
// error permanently. Under budget, the row is silently re-queued to pending.
func (s *RewardLedgerService) UpdateTransaction(ctx context.Context, update TransactionUpdate) (*RewardTransactionModel, error) {
	current, err := s.repo.GetRewardTransaction(ctx, update.ID)
	if err == sql.ErrNoRows {
		return nil, ErrTransactionNotFound
	} else if err != nil {
		return nil, fmt.Errorf("get reward transaction: %w", err)
	}

	params := db.UpdateRewardTransactionParams{ID: update.ID}

	switch update.Status {
	case StatusProcessed:
		if update.ExternalTransactionID == "" {
			return nil, NewRewardError(ErrMissingTransactionID, fmt.Sprint(update.ID))
		}
		params.Status = StatusProcessed
		params.ExternalTransactionID = sql.NullString{String: update.ExternalTransactionID, Valid: true}

	case StatusProcessedInitialBalance:
		if update.ExternalTransactionID != "" {
			return nil, NewRewardError(ErrUnexpectedTransactionID, fmt.Sprint(update.ID))
		}
		params.Status = StatusProcessedInitialBalance

	case StatusError:
		if update.ErrorReason == "" {
			return nil, NewRewardError(ErrMissingErrorReason, fmt.Sprint(update.ID))
		}
		retry := int32(0)
		if current.RetryCount.Valid {
			retry = current.RetryCount.Int32 + 1
		}
		params.ErrorReason = sql.NullString{String: update.ErrorReason, Valid: true}
		params.RetryCount = sql.NullInt32{Int32: retry, Valid: true}
		params.ExternalTransactionID = current.ExternalTransactionID
		if retry >= s.maxRetryAttempts {
			// retry budget spent: terminal, needs manual intervention
			params.Status = StatusError
		} else {
			params.Status = StatusPending
		}

	default:
		// Programmer error: the caller asked for a status this state machine
		// does not have.
		s.logger.Error(fmt.Sprintf("unsupported reward transaction status %q for id %d", update.Status, update.ID))
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedStatus, update.Status)
	}

	updated, err := s.repo.UpdateRewardTransaction(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("update reward transaction: %w", err)
	}

	return ToRewardTransactionModel(updated), nil
}

// UpdateTransactions applies a batch of transitions, stopping at the first
// failure.
func (s *RewardLedgerService) UpdateTransactions(ctx context.Context, updates []TransactionUpdate) error {
	for _, update := range updates {
		if _, err := s.UpdateTransaction(ctx, update); err != nil {
			return err
		}
	}
	return nil
}
