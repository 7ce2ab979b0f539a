package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Perkly/Perkly-Backend/providers/ledger"
	"github.com/Perkly/Perkly-Backend/services/monitoring/logging"
	"github.com/Perkly/Perkly-Backend/services/opportunity"
	"github.com/Perkly/Perkly-Backend/services/rewardledger"
	"github.com/Perkly/Perkly-Backend/services/wallet"
	"github.com/google/uuid"
)

// JobConfig is one sweep's knobs: how many items per fetch and how long a
// single invocation may run.
type JobConfig struct {
	BatchSize   int32
	MaxInterval time.Duration
}

type Config struct {
	WalletCreation     JobConfig
	RewardTransactions JobConfig
}

// WalletProvisioner is the slice of the wallet service the sweeps consume.
type WalletProvisioner interface {
	CreateWallet(ctx context.Context, userID int64) (*wallet.WalletProvisioningModel, error)
	ListPendingCreationSchedule(ctx context.Context, batchSize int32, idsToSkip []int64) ([]wallet.WalletProvisioningModel, error)
	UpdateScheduleCreation(ctx context.Context, update wallet.ProvisioningUpdate) (*wallet.WalletProvisioningModel, error)
	GetWalletID(ctx context.Context, userID int64) (string, error)
}

// RewardLedger is the slice of the reward ledger service the sweeps consume.
type RewardLedger interface {
	ListPendingBatch(ctx context.Context, batchSize int32, idsToSkip []int64) ([]rewardledger.RewardTransactionModel, error)
	UpdateTransaction(ctx context.Context, update rewardledger.TransactionUpdate) (*rewardledger.RewardTransactionModel, error)
}

type OpportunityLookup interface {
	GetOpportunity(ctx context.Context, id uuid.UUID) (*opportunity.OpportunityModel, error)
}

type EarnSubmitter interface {
	SubmitEarn(ctx context.Context, request ledger.EarnRequest) (string, error)
}

// BatchScheduler drives the two background jobs. Each job kind is guarded by
// its own instance-scoped mutex, so overlapping trigger firings within one
// process are skipped. Two separate process instances are NOT coordinated:
// horizontally scaled deployments need an external lease on top of this.
type BatchScheduler struct {
	wallets       WalletProvisioner
	rewards       RewardLedger
	opportunities OpportunityLookup
	provider      EarnSubmitter
	logger        *logging.Logger
	config        Config

	walletMu sync.Mutex
	rewardMu sync.Mutex

	// injectable clock
	now func() time.Time
}

func NewBatchScheduler(
	wallets WalletProvisioner,
	rewards RewardLedger,
	opportunities OpportunityLookup,
	provider EarnSubmitter,
	logger *logging.Logger,
	config Config,
) *BatchScheduler {
	return &BatchScheduler{
		wallets:       wallets,
		rewards:       rewards,
		opportunities: opportunities,
		provider:      provider,
		logger:        logger,
		config:        config,
		now:           time.Now,
	}
}

// ProcessWalletCreation sweeps pending wallet provisionings. Each item runs in
// its own unit of work: a failed item gets its error recorded in a fresh
// transaction and is excluded from the rest of this sweep, while its
// neighbours' successes stand. The sweep stops when the backlog is empty or
// the time box has elapsed.
func (s *BatchScheduler) ProcessWalletCreation(ctx context.Context) error {
	if !s.walletMu.TryLock() {
		s.logger.Warn("wallet creation sweep already running, skipping this trigger")
		return ErrSweepAlreadyRunning
	}
	defer s.walletMu.Unlock()

	deadline := s.now().Add(s.config.WalletCreation.MaxInterval)
	idsToSkip := []int64{}
	processed := 0

	s.logger.Info("wallet creation sweep started")

	for {
		batch, err := s.wallets.ListPendingCreationSchedule(ctx, s.config.WalletCreation.BatchSize, idsToSkip)
		if err != nil {
			return fmt.Errorf("fetch pending provisionings: %w", err)
		}
		if len(batch) == 0 {
			break
		}

		for _, item := range batch {
			// Deadline is only checked between items; a hung provider call is
			// bounded by the transport timeout, not by this loop.
			if s.now().After(deadline) {
				s.logger.Warn(fmt.Sprintf("wallet creation sweep hit its time box after %d items", processed))
				return nil
			}

			if _, err := s.wallets.CreateWallet(ctx, item.UserID); err != nil {
				s.logger.Warn(fmt.Sprintf("wallet creation failed for user %d: %v", item.UserID, err))
				s.recordProvisioningFailure(ctx, item.ID, err)
				idsToSkip = append(idsToSkip, item.ID)
			}
			processed++
		}

		if s.now().After(deadline) {
			s.logger.Warn(fmt.Sprintf("wallet creation sweep hit its time box after %d items", processed))
			return nil
		}
	}

	s.logger.Info(fmt.Sprintf("wallet creation sweep finished, %d items processed", processed))
	return nil
}

// recordProvisioningFailure writes the error bookkeeping in its own transaction
// so it survives the rollback of the item's attempt.
func (s *BatchScheduler) recordProvisioningFailure(ctx context.Context, provisioningID int64, cause error) {
	_, err := s.wallets.UpdateScheduleCreation(ctx, wallet.ProvisioningUpdate{
		ID:          provisioningID,
		Status:      wallet.StatusError,
		ErrorReason: cause.Error(),
	})
	if err != nil {
		s.logger.Error(fmt.Sprintf("could not record provisioning failure for %d: %v", provisioningID, err))
	}
}

// ProcessRewardTransactions sweeps pending reward transactions and settles each
// against the ledger. Items whose user has no created wallet yet fail softly
// and wait for the provisioning sweep; an unknown reward source aborts the
// sweep because it is a configuration bug, not a transient fault.
func (s *BatchScheduler) ProcessRewardTransactions(ctx context.Context) error {
	if !s.rewardMu.TryLock() {
		s.logger.Warn("reward transaction sweep already running, skipping this trigger")
		return ErrSweepAlreadyRunning
	}
	defer s.rewardMu.Unlock()

	deadline := s.now().Add(s.config.RewardTransactions.MaxInterval)
	idsToSkip := []int64{}
	processed := 0

	s.logger.Info("reward transaction sweep started")

	for {
		batch, err := s.rewards.ListPendingBatch(ctx, s.config.RewardTransactions.BatchSize, idsToSkip)
		if err != nil {
			return fmt.Errorf("fetch pending reward transactions: %w", err)
		}
		if len(batch) == 0 {
			break
		}

		for _, item := range batch {
			if s.now().After(deadline) {
				s.logger.Warn(fmt.Sprintf("reward transaction sweep hit its time box after %d items", processed))
				return nil
			}

			externalID, err := s.settle(ctx, item)
			if err != nil {
				if errors.Is(err, rewardledger.ErrUnknownRewardSource) {
					// Misconfiguration, not a retryable item failure.
					s.logger.Error(fmt.Sprintf("aborting sweep: %v", err))
					return err
				}
				s.logger.Warn(fmt.Sprintf("settlement failed for reward transaction %d: %v", item.ID, err))
				s.recordTransactionFailure(ctx, item.ID, err)
				idsToSkip = append(idsToSkip, item.ID)
				processed++
				continue
			}

			if _, err := s.rewards.UpdateTransaction(ctx, rewardledger.TransactionUpdate{
				ID:                    item.ID,
				Status:                rewardledger.StatusProcessed,
				ExternalTransactionID: externalID,
			}); err != nil {
				// The earn went through but the local mark failed. The provider
				// side is idempotent on lookup, so the retry is safe.
				s.logger.Error(fmt.Sprintf("could not mark reward transaction %d processed: %v", item.ID, err))
				s.recordTransactionFailure(ctx, item.ID, err)
				idsToSkip = append(idsToSkip, item.ID)
			}
			processed++
		}

		if s.now().After(deadline) {
			s.logger.Warn(fmt.Sprintf("reward transaction sweep hit its time box after %d items", processed))
			return nil
		}
	}

	s.logger.Info(fmt.Sprintf("reward transaction sweep finished, %d items processed", processed))
	return nil
}

// settle resolves the reward's source to its settlement path and submits the
// earn. The switch over RewardSource is exhaustive: a new variant that is not
// handled here fails at the default arm of ParseRewardSource's callers, not
// silently.
func (s *BatchScheduler) settle(ctx context.Context, item rewardledger.RewardTransactionModel) (string, error) {
	source, err := rewardledger.ParseRewardSource(item.SourceEntityType, item.SourceEntityID)
	if err != nil {
		return "", err
	}

	switch src := source.(type) {
	case rewardledger.OpportunityCompletion:
		opp, err := s.opportunities.GetOpportunity(ctx, src.OpportunityID)
		if err != nil {
			return "", fmt.Errorf("resolve opportunity %s: %w", src.OpportunityID, err)
		}

		walletID, err := s.wallets.GetWalletID(ctx, item.UserID)
		if err != nil {
			return "", fmt.Errorf("resolve wallet for user %d: %w", item.UserID, err)
		}

		externalID, err := s.provider.SubmitEarn(ctx, ledger.EarnRequest{
			WalletID:    walletID,
			Amount:      item.Amount,
			Reference:   fmt.Sprintf("opportunity:%s", src.OpportunityID),
			Description: fmt.Sprintf("Reward for completing %q", opp.Title),
		})
		if err != nil {
			return "", fmt.Errorf("submit earn: %w", err)
		}
		return externalID, nil

	default:
		return "", fmt.Errorf("%w: no settlement path for %T", rewardledger.ErrUnknownRewardSource, source)
	}
}

func (s *BatchScheduler) recordTransactionFailure(ctx context.Context, transactionID int64, cause error) {
	_, err := s.rewards.UpdateTransaction(ctx, rewardledger.TransactionUpdate{
		ID:          transactionID,
		Status:      rewardledger.StatusError,
		ErrorReason: cause.Error(),
	})
	if err != nil {
		s.logger.Error(fmt.Sprintf("could not record settlement failure for %d: %v", transactionID, err))
	}
}
