package rewardledger

import (
	"context"

	db "github.com/Perkly/Perkly-Backend/db/sqlc"
)

// Repository is the persistence contract for reward transactions. The SQL
// implementation lives below; tests swap in an in-memory one.
type Repository interface {
	CreateRewardTransaction(ctx context.Context, arg db.CreateRewardTransactionParams) (db.RewardTransaction, error)
	GetRewardTransaction(ctx context.Context, id int64) (db.RewardTransaction, error)
	GetRewardTransactionBySource(ctx context.Context, arg db.GetRewardTransactionBySourceParams) (db.RewardTransaction, error)
	ListPendingRewardTransactionsByUser(ctx context.Context, userID int64) ([]db.RewardTransaction, error)
	ListPendingRewardTransactions(ctx context.Context, arg db.ListPendingRewardTransactionsParams) ([]db.RewardTransaction, error)
	UpdateRewardTransaction(ctx context.Context, arg db.UpdateRewardTransactionParams) (db.RewardTransaction, error)
}

type SQLRepository struct {
	store *db.Store
}

func NewSQLRepository(store *db.Store) *SQLRepository {
	return &SQLRepository{store: store}
}

func (r *SQLRepository) CreateRewardTransaction(ctx context.Context, arg db.CreateRewardTransactionParams) (db.RewardTransaction, error) {
	return r.store.CreateRewardTransaction(ctx, arg)
}

func (r *SQLRepository) GetRewardTransaction(ctx context.Context, id int64) (db.RewardTransaction, error) {
	return r.store.GetRewardTransaction(ctx, id)
}

func (r *SQLRepository) GetRewardTransactionBySource(ctx context.Context, arg db.GetRewardTransactionBySourceParams) (db.RewardTransaction, error) {
	return r.store.GetRewardTransactionBySource(ctx, arg)
}

func (r *SQLRepository) ListPendingRewardTransactionsByUser(ctx context.Context, userID int64) ([]db.RewardTransaction, error) {
	return r.store.ListPendingRewardTransactionsByUser(ctx, userID)
}

func (r *SQLRepository) ListPendingRewardTransactions(ctx context.Context, arg db.ListPendingRewardTransactionsParams) ([]db.RewardTransaction, error) {
	return r.store.ListPendingRewardTransactions(ctx, arg)
}

func (r *SQLRepository) UpdateRewardTransaction(ctx context.Context, arg db.UpdateRewardTransactionParams) (db.RewardTransaction, error) {
	// Each update commits on its own so a failed neighbour cannot roll it back.
	var updated db.RewardTransaction
	err := r.store.ExecTx(ctx, func(q *db.Queries) error {
		var txErr error
		updated, txErr = q.UpdateRewardTransaction(ctx, arg)
		return txErr
	})
	return updated, err
}
