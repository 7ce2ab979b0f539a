package wallet

import (
	"context"
	"database/sql"
	"encoding/json"

	db "github.com/Perkly/Perkly-Backend/db/sqlc"
	"github.com/Perkly/Perkly-Backend/services/rewardledger"
	"github.com/shopspring/decimal"
	"github.com/sqlc-dev/pqtype"
)

// Repository is the persistence contract for wallet provisionings.
type Repository interface {
	CreateWalletProvisioning(ctx context.Context, arg db.CreateWalletProvisioningParams) (db.WalletProvisioning, error)
	GetWalletProvisioning(ctx context.Context, id int64) (db.WalletProvisioning, error)
	GetWalletProvisioningByUserID(ctx context.Context, userID int64) (db.WalletProvisioning, error)
	ListPendingWalletProvisionings(ctx context.Context, arg db.ListPendingWalletProvisioningsParams) ([]db.WalletProvisioning, error)
	UpdateWalletProvisioning(ctx context.Context, arg db.UpdateWalletProvisioningParams) (db.WalletProvisioning, error)
	// FinalizeCreation records a successful wallet creation and folds the given
	// pending reward transactions into the opening balance, all in one unit of
	// work. Either everything commits or nothing does.
	FinalizeCreation(ctx context.Context, arg FinalizeCreationParams) (db.WalletProvisioning, error)
}

type FinalizeCreationParams struct {
	UserID           int64
	ExternalWalletID string
	InitialBalance   decimal.Decimal
	ProviderSnapshot json.RawMessage
	FoldedTxIDs      []int64
}

type SQLWalletRepository struct {
	store *db.Store
}

func NewSQLWalletRepository(store *db.Store) *SQLWalletRepository {
	return &SQLWalletRepository{store: store}
}

func (r *SQLWalletRepository) CreateWalletProvisioning(ctx context.Context, arg db.CreateWalletProvisioningParams) (db.WalletProvisioning, error) {
	return r.store.CreateWalletProvisioning(ctx, arg)
}

func (r *SQLWalletRepository) GetWalletProvisioning(ctx context.Context, id int64) (db.WalletProvisioning, error) {
	return r.store.GetWalletProvisioning(ctx, id)
}

func (r *SQLWalletRepository) GetWalletProvisioningByUserID(ctx context.Context, userID int64) (db.WalletProvisioning, error) {
	return r.store.GetWalletProvisioningByUserID(ctx, userID)
}

func (r *SQLWalletRepository) ListPendingWalletProvisionings(ctx context.Context, arg db.ListPendingWalletProvisioningsParams) ([]db.WalletProvisioning, error) {
	return r.store.ListPendingWalletProvisionings(ctx, arg)
}

func (r *SQLWalletRepository) UpdateWalletProvisioning(ctx context.Context, arg db.UpdateWalletProvisioningParams) (db.WalletProvisioning, error) {
	// Committed on its own so error bookkeeping survives a failed item.
	var updated db.WalletProvisioning
	err := r.store.ExecTx(ctx, func(q *db.Queries) error {
		var txErr error
		updated, txErr = q.UpdateWalletProvisioning(ctx, arg)
		return txErr
	})
	return updated, err
}

func (r *SQLWalletRepository) FinalizeCreation(ctx context.Context, arg FinalizeCreationParams) (db.WalletProvisioning, error) {
	var finalized db.WalletProvisioning
	err := r.store.ExecTx(ctx, func(q *db.Queries) error {
		snapshot := pqtype.NullRawMessage{RawMessage: arg.ProviderSnapshot, Valid: len(arg.ProviderSnapshot) > 0}
		walletID := sql.NullString{String: arg.ExternalWalletID, Valid: true}
		balance := decimal.NullDecimal{Decimal: arg.InitialBalance, Valid: true}

		existing, err := q.GetWalletProvisioningByUserID(ctx, arg.UserID)
		if err == sql.ErrNoRows {
			finalized, err = q.CreateWalletProvisioning(ctx, db.CreateWalletProvisioningParams{
				UserID:           arg.UserID,
				ExternalWalletID: walletID,
				InitialBalance:   balance,
				Status:           StatusCreated,
				ProviderSnapshot: snapshot,
			})
			if err != nil {
				return err
			}
		} else if err != nil {
			return err
		} else {
			finalized, err = q.UpdateWalletProvisioning(ctx, db.UpdateWalletProvisioningParams{
				ID:               existing.ID,
				ExternalWalletID: walletID,
				InitialBalance:   balance,
				Status:           StatusCreated,
				ProviderSnapshot: snapshot,
			})
			if err != nil {
				return err
			}
		}

		for _, txID := range arg.FoldedTxIDs {
			if _, err := q.UpdateRewardTransaction(ctx, db.UpdateRewardTransactionParams{
				ID:     txID,
				Status: rewardledger.StatusProcessedInitialBalance,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	return finalized, err
}
