package wallet

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	db "github.com/Perkly/Perkly-Backend/db/sqlc"
	"github.com/Perkly/Perkly-Backend/providers/ledger"
	"github.com/Perkly/Perkly-Backend/services/monitoring/logging"
	"github.com/Perkly/Perkly-Backend/services/redis"
	"github.com/Perkly/Perkly-Backend/services/rewardledger"
	"github.com/shopspring/decimal"
)

const defaultVoucherPageSize = 20

// LedgerClient is the slice of the ledger provider this service consumes.
type LedgerClient interface {
	CreateWallet(ctx context.Context, ownerName string, username string, initialBalance decimal.Decimal) (*ledger.Wallet, ledger.WalletCreationStatus, error)
	GetWallet(ctx context.Context, walletID string) (*ledger.Wallet, error)
	ListWalletVouchers(ctx context.Context, walletID string, limit int, offset int) ([]ledger.Voucher, error)
}

// PendingRewards is the slice of the reward ledger this service consumes.
type PendingRewards interface {
	ListPendingForUser(ctx context.Context, userID int64) ([]rewardledger.RewardTransactionModel, error)
	PendingBalance(ctx context.Context, userID int64) (decimal.Decimal, error)
}

// WalletService provisions external ledger wallets (exactly once per user) and
// reconciles pending and available balances for callers.
type WalletService struct {
	repo             Repository
	rewards          PendingRewards
	provider         LedgerClient
	redis            *redis.RedisService
	logger           *logging.Logger
	maxRetryAttempts int32
}

func NewWalletService(repo Repository, rewards PendingRewards, provider LedgerClient, logger *logging.Logger, maxRetryAttempts int32) *WalletService {
	return &WalletService{
		repo:             repo,
		rewards:          rewards,
		provider:         provider,
		logger:           logger,
		maxRetryAttempts: maxRetryAttempts,
	}
}

func NewWalletServiceWithCache(repo Repository, rewards PendingRewards, provider LedgerClient, logger *logging.Logger, maxRetryAttempts int32, redis *redis.RedisService) *WalletService {
	s := NewWalletService(repo, rewards, provider, logger, maxRetryAttempts)
	s.redis = redis
	return s
}

// ledgerUsername is the provider-side idempotency key for a user's wallet.
func ledgerUsername(userID int64) string {
	return fmt.Sprintf("perkly-user-%d", userID)
}

func ledgerOwnerName(userID int64) string {
	return fmt.Sprintf("Perkly User %d", userID)
}

// GetWalletID returns the external wallet id for a user with a created wallet.
func (w *WalletService) GetWalletID(ctx context.Context, userID int64) (string, error) {
	if userID == 0 {
		return "", ErrInvalidUserID
	}

	row, err := w.repo.GetWalletProvisioningByUserID(ctx, userID)
	if err == sql.ErrNoRows {
		return "", ErrWalletNotFound
	} else if err != nil {
		return "", fmt.Errorf("get wallet provisioning: %w", err)
	}

	if row.Status != StatusCreated {
		return "", ErrWalletNotFound
	}

	if !row.ExternalWalletID.Valid || row.ExternalWalletID.String == "" {
		// Broken invariant: a created row always carries its wallet id. This is
		// out-of-band data damage, not a lookup miss.
		w.logger.Error(fmt.Sprintf("data inconsistency: provisioning %d is created without a wallet id", row.ID))
		return "", NewWalletError(ErrMissingWalletID, fmt.Sprint(row.ID))
	}

	return row.ExternalWalletID.String, nil
}

// GetWalletIDOrNil is GetWalletID with the lookup miss softened to an empty id.
// Invariant violations still fail loudly.
func (w *WalletService) GetWalletIDOrNil(ctx context.Context, userID int64) (string, error) {
	walletID, err := w.GetWalletID(ctx, userID)
	if err == ErrWalletNotFound {
		return "", nil
	}
	return walletID, err
}

// GetWalletStatusAndBalance composes the pending balance (unsettled rewards)
// with the provider's live balance. A provider outage degrades available to
// zero with the offline flag set; the caller always gets a usable answer.
func (w *WalletService) GetWalletStatusAndBalance(ctx context.Context, userID int64) (*WalletStatusAndBalance, error) {
	if userID == 0 {
		return nil, ErrInvalidUserID
	}

	pending, err := w.rewards.PendingBalance(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("compute pending balance: %w", err)
	}

	result := &WalletStatusAndBalance{
		Status:    StatusUnscheduled,
		Pending:   pending,
		Available: decimal.Zero,
	}

	row, err := w.repo.GetWalletProvisioningByUserID(ctx, userID)
	if err == sql.ErrNoRows {
		result.Total = result.Pending
		return result, nil
	} else if err != nil {
		return nil, fmt.Errorf("get wallet provisioning: %w", err)
	}

	result.Status = row.Status
	if row.Status != StatusCreated {
		result.Total = result.Pending
		return result, nil
	}

	if !row.ExternalWalletID.Valid || row.ExternalWalletID.String == "" {
		w.logger.Error(fmt.Sprintf("data inconsistency: provisioning %d is created without a wallet id", row.ID))
		return nil, NewWalletError(ErrMissingWalletID, fmt.Sprint(row.ID))
	}
	result.WalletID = row.ExternalWalletID.String

	result.Available = w.availableBalance(ctx, userID, row.ExternalWalletID.String, result)
	result.Total = result.Pending.Add(result.Available)
	return result, nil
}

func (w *WalletService) availableBalance(ctx context.Context, userID int64, walletID string, result *WalletStatusAndBalance) decimal.Decimal {
	if w.redis != nil {
		if cached, found, err := w.redis.GetAvailableBalance(ctx, userID); err == nil && found {
			return cached
		}
	}

	providerWallet, err := w.provider.GetWallet(ctx, walletID)
	if err != nil {
		// Degrade rather than propagate: the caller still sees a usable
		// (approximate) balance.
		w.logger.Warn(fmt.Sprintf("ledger provider unreachable for wallet %s: %v", walletID, err))
		result.ProviderOffline = true
		return decimal.Zero
	}

	if w.redis != nil {
		if err := w.redis.SetAvailableBalance(ctx, userID, providerWallet.Balance); err != nil {
			w.logger.Warn(fmt.Sprintf("could not cache balance for user %d: %v", userID, err))
		}
	}
	return providerWallet.Balance
}

// SearchVouchers lists the vouchers on a user's wallet. It requires a created
// wallet and tells the caller which remediation applies when there is none.
func (w *WalletService) SearchVouchers(ctx context.Context, userID int64, filter VoucherFilter) ([]ledger.Voucher, error) {
	if userID == 0 {
		return nil, ErrInvalidUserID
	}

	row, err := w.repo.GetWalletProvisioningByUserID(ctx, userID)
	if err == sql.ErrNoRows {
		return nil, ErrWalletUnscheduled
	} else if err != nil {
		return nil, fmt.Errorf("get wallet provisioning: %w", err)
	}

	if row.Status != StatusCreated {
		return nil, ErrWalletPending
	}

	if !row.ExternalWalletID.Valid || row.ExternalWalletID.String == "" {
		w.logger.Error(fmt.Sprintf("data inconsistency: provisioning %d is created without a wallet id", row.ID))
		return nil, NewWalletError(ErrMissingWalletID, fmt.Sprint(row.ID))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultVoucherPageSize
	}

	vouchers, err := w.provider.ListWalletVouchers(ctx, row.ExternalWalletID.String, limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("list wallet vouchers: %w", err)
	}

	if filter.Status == "" {
		return vouchers, nil
	}
	filtered := make([]ledger.Voucher, 0, len(vouchers))
	for _, v := range vouchers {
		if v.Status == filter.Status {
			filtered = append(filtered, v)
		}
	}
	return filtered, nil
}

// CreateWallet provisions the user's ledger wallet synchronously, folding the
// user's pending rewards into the opening balance. When the provider reports a
// freshly created wallet whose balance differs from the locally computed one,
// the call aborts without touching any reward transaction.
func (w *WalletService) CreateWallet(ctx context.Context, userID int64) (*WalletProvisioningModel, error) {
	if userID == 0 {
		return nil, ErrInvalidUserID
	}

	pending, err := w.rewards.ListPendingForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list pending rewards: %w", err)
	}

	balance := decimal.Zero
	foldedIDs := make([]int64, 0, len(pending))
	for _, tx := range pending {
		balance = balance.Add(tx.Amount)
		foldedIDs = append(foldedIDs, tx.ID)
	}

	providerWallet, creationStatus, err := w.provider.CreateWallet(ctx, ledgerOwnerName(userID), ledgerUsername(userID), balance)
	if err != nil {
		return nil, fmt.Errorf("provider create wallet: %w", err)
	}

	if creationStatus == ledger.WalletCreated && !providerWallet.Balance.Equal(balance) {
		// Integrity failure: either a race folded rewards twice or the provider
		// mangled the opening balance. Accepting the provider's number would
		// hide lost money, so abort loudly.
		w.logger.Error(fmt.Sprintf(
			"wallet %s opening balance mismatch: provider=%s local=%s",
			providerWallet.ID, providerWallet.Balance, balance,
		))
		return nil, NewWalletError(ErrBalanceMismatch, providerWallet.ID)
	}

	snapshot, err := json.Marshal(providerWallet)
	if err != nil {
		snapshot = nil
	}

	finalized, err := w.repo.FinalizeCreation(ctx, FinalizeCreationParams{
		UserID:           userID,
		ExternalWalletID: providerWallet.ID,
		InitialBalance:   balance,
		ProviderSnapshot: snapshot,
		FoldedTxIDs:      foldedIDs,
	})
	if err != nil {
		return nil, fmt.Errorf("finalize wallet creation: %w", err)
	}

	w.logger.Info(fmt.Sprintf("wallet %s provisioned for user %d (%s, opening balance %s)",
		providerWallet.ID, userID, creationStatus, balance))

	return ToWalletProvisioningModel(finalized), nil
}

// CreateWalletOrScheduleCreation is the registration-safe entry point. An
// existing provisioning row makes it a no-op; a provider failure schedules the
// creation for the sweep instead of failing the caller.
func (w *WalletService) CreateWalletOrScheduleCreation(ctx context.Context, userID int64) (*WalletProvisioningModel, error) {
	if userID == 0 {
		return nil, ErrInvalidUserID
	}

	existing, err := w.repo.GetWalletProvisioningByUserID(ctx, userID)
	if err == nil {
		return ToWalletProvisioningModel(existing), nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("get wallet provisioning: %w", err)
	}

	created, err := w.CreateWallet(ctx, userID)
	if err == nil {
		return created, nil
	}

	// Registration must never fail because the ledger is down. Park the user in
	// the pending queue and let the sweep retry.
	w.logger.Warn(fmt.Sprintf("could not create wallet for user %d, scheduling: %v", userID, err))

	scheduled, err := w.repo.CreateWalletProvisioning(ctx, db.CreateWalletProvisioningParams{
		UserID: userID,
		Status: StatusPending,
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			raced, lookupErr := w.repo.GetWalletProvisioningByUserID(ctx, userID)
			if lookupErr != nil {
				return nil, fmt.Errorf("lookup raced provisioning: %w", lookupErr)
			}
			return ToWalletProvisioningModel(raced), nil
		}
		return nil, fmt.Errorf("schedule wallet creation: %w", err)
	}

	return ToWalletProvisioningModel(scheduled), nil
}

// ListPendingCreationSchedule returns a FIFO page of pending provisionings,
// excluding idsToSkip.
func (w *WalletService) ListPendingCreationSchedule(ctx context.Context, batchSize int32, idsToSkip []int64) ([]WalletProvisioningModel, error) {
	if idsToSkip == nil {
		idsToSkip = []int64{}
	}
	rows, err := w.repo.ListPendingWalletProvisionings(ctx, db.ListPendingWalletProvisioningsParams{
		SkipIds: idsToSkip,
		Limit:   batchSize,
	})
	if err != nil {
		return nil, fmt.Errorf("list pending provisionings: %w", err)
	}
	return ToWalletProvisioningModels(rows), nil
}

// UpdateScheduleCreation validates and persists one provisioning transition,
// with the same retry bookkeeping as the reward-transaction state machine.
func (w *WalletService) UpdateScheduleCreation(ctx context.Context, update ProvisioningUpdate) (*WalletProvisioningModel, error) {
	current, err := w.repo.GetWalletProvisioning(ctx, update.ID)
	if err == sql.ErrNoRows {
		return nil, ErrWalletNotFound
	} else if err != nil {
		return nil, fmt.Errorf("get wallet provisioning: %w", err)
	}

	params := db.UpdateWalletProvisioningParams{
		ID:               update.ID,
		ProviderSnapshot: current.ProviderSnapshot,
	}

	switch update.Status {
	case StatusCreated:
		if update.ExternalWalletID == "" || !update.InitialBalance.Valid {
			return nil, NewWalletError(ErrMissingCreationFields, fmt.Sprint(update.ID))
		}
		params.Status = StatusCreated
		params.ExternalWalletID = sql.NullString{String: update.ExternalWalletID, Valid: true}
		params.InitialBalance = update.InitialBalance

	case StatusError:
		if update.ErrorReason == "" {
			return nil, NewWalletError(ErrMissingErrorReason, fmt.Sprint(update.ID))
		}
		retry := int32(0)
		if current.RetryCount.Valid {
			retry = current.RetryCount.Int32 + 1
		}
		params.ErrorReason = sql.NullString{String: update.ErrorReason, Valid: true}
		params.RetryCount = sql.NullInt32{Int32: retry, Valid: true}
		params.ExternalWalletID = current.ExternalWalletID
		params.InitialBalance = current.InitialBalance
		if retry >= w.maxRetryAttempts {
			// retry budget spent: terminal, needs manual intervention
			params.Status = StatusError
		} else {
			params.Status = StatusPending
		}

	default:
		w.logger.Error(fmt.Sprintf("unsupported wallet provisioning status %q for id %d", update.Status, update.ID))
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedStatus, update.Status)
	}

	updated, err := w.repo.UpdateWalletProvisioning(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("update wallet provisioning: %w", err)
	}

	return ToWalletProvisioningModel(updated), nil
}
