package scheduler

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Perkly/Perkly-Backend/providers/ledger"
	"github.com/Perkly/Perkly-Backend/services/monitoring/logging"
	"github.com/Perkly/Perkly-Backend/services/opportunity"
	"github.com/Perkly/Perkly-Backend/services/rewardledger"
	"github.com/Perkly/Perkly-Backend/services/wallet"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvisioner tracks pending provisionings and which users fail creation.
type fakeProvisioner struct {
	mu       sync.Mutex
	pending  []wallet.WalletProvisioningModel
	failing  map[int64]error // userID -> creation error
	walletBy map[int64]string

	created  []int64 // user ids created, in order
	failures []wallet.ProvisioningUpdate

	block     chan struct{} // when set, CreateWallet parks until closed
	entered   chan struct{} // closed on first CreateWallet entry
	enterOnce sync.Once
}

func newFakeProvisioner() *fakeProvisioner {
	return &fakeProvisioner{
		failing:  map[int64]error{},
		walletBy: map[int64]string{},
	}
}

func (f *fakeProvisioner) addPending(id, userID int64) {
	f.pending = append(f.pending, wallet.WalletProvisioningModel{
		ID:     id,
		UserID: userID,
		Status: wallet.StatusPending,
	})
}

func (f *fakeProvisioner) CreateWallet(_ context.Context, userID int64) (*wallet.WalletProvisioningModel, error) {
	if f.entered != nil {
		f.enterOnce.Do(func() { close(f.entered) })
	}
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failing[userID]; err != nil {
		return nil, err
	}
	for i, item := range f.pending {
		if item.UserID == userID {
			f.pending = append(f.pending[:i], f.pending[i+1:]...)
			break
		}
	}
	f.created = append(f.created, userID)
	f.walletBy[userID] = fmt.Sprintf("wal-%d", userID)
	return &wallet.WalletProvisioningModel{UserID: userID, Status: wallet.StatusCreated}, nil
}

func (f *fakeProvisioner) ListPendingCreationSchedule(_ context.Context, batchSize int32, idsToSkip []int64) ([]wallet.WalletProvisioningModel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	skip := map[int64]bool{}
	for _, id := range idsToSkip {
		skip[id] = true
	}
	result := []wallet.WalletProvisioningModel{}
	for _, item := range f.pending {
		if skip[item.ID] {
			continue
		}
		result = append(result, item)
		if len(result) == int(batchSize) {
			break
		}
	}
	return result, nil
}

func (f *fakeProvisioner) UpdateScheduleCreation(_ context.Context, update wallet.ProvisioningUpdate) (*wallet.WalletProvisioningModel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures = append(f.failures, update)
	return &wallet.WalletProvisioningModel{ID: update.ID, Status: wallet.StatusPending}, nil
}

func (f *fakeProvisioner) GetWalletID(_ context.Context, userID int64) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.walletBy[userID]
	if !ok {
		return "", wallet.ErrWalletNotFound
	}
	return id, nil
}

// fakeRewardLedger tracks pending reward transactions and applied updates.
type fakeRewardLedger struct {
	mu      sync.Mutex
	pending []rewardledger.RewardTransactionModel

	updates []rewardledger.TransactionUpdate
}

func (f *fakeRewardLedger) addPending(id, userID int64, source rewardledger.RewardSource, amount int64) {
	f.pending = append(f.pending, rewardledger.RewardTransactionModel{
		ID:               id,
		UserID:           userID,
		SourceEntityType: source.EntityType(),
		SourceEntityID:   source.EntityID(),
		Amount:           decimal.NewFromInt(amount),
		Status:           rewardledger.StatusPending,
	})
}

func (f *fakeRewardLedger) ListPendingBatch(_ context.Context, batchSize int32, idsToSkip []int64) ([]rewardledger.RewardTransactionModel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	skip := map[int64]bool{}
	for _, id := range idsToSkip {
		skip[id] = true
	}
	result := []rewardledger.RewardTransactionModel{}
	for _, item := range f.pending {
		if skip[item.ID] {
			continue
		}
		result = append(result, item)
		if len(result) == int(batchSize) {
			break
		}
	}
	return result, nil
}

func (f *fakeRewardLedger) UpdateTransaction(_ context.Context, update rewardledger.TransactionUpdate) (*rewardledger.RewardTransactionModel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, update)
	if update.Status == rewardledger.StatusProcessed {
		for i, item := range f.pending {
			if item.ID == update.ID {
				f.pending = append(f.pending[:i], f.pending[i+1:]...)
				break
			}
		}
	}
	return &rewardledger.RewardTransactionModel{ID: update.ID, Status: update.Status}, nil
}

// fakeOpportunities serves a fixed opportunity set.
type fakeOpportunities struct {
	byID map[uuid.UUID]*opportunity.OpportunityModel
}

func (f *fakeOpportunities) GetOpportunity(_ context.Context, id uuid.UUID) (*opportunity.OpportunityModel, error) {
	opp, ok := f.byID[id]
	if !ok {
		return nil, opportunity.ErrOpportunityNotFound
	}
	return opp, nil
}

// fakeEarnSubmitter records submitted earns.
type fakeEarnSubmitter struct {
	mu       sync.Mutex
	requests []ledger.EarnRequest
	err      error
	nextID   int
}

func (f *fakeEarnSubmitter) SubmitEarn(_ context.Context, request ledger.EarnRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.requests = append(f.requests, request)
	f.nextID++
	return fmt.Sprintf("earn-%d", f.nextID), nil
}

func testConfig() Config {
	return Config{
		WalletCreation:     JobConfig{BatchSize: 2, MaxInterval: time.Hour},
		RewardTransactions: JobConfig{BatchSize: 2, MaxInterval: time.Hour},
	}
}

func newTestScheduler(p *fakeProvisioner, r *fakeRewardLedger, o *fakeOpportunities, e *fakeEarnSubmitter) *BatchScheduler {
	if o == nil {
		o = &fakeOpportunities{byID: map[uuid.UUID]*opportunity.OpportunityModel{}}
	}
	if e == nil {
		e = &fakeEarnSubmitter{}
	}
	return NewBatchScheduler(p, r, o, e, logging.NewTestLogger(), testConfig())
}

func TestProcessWalletCreationDrainsBacklog(t *testing.T) {
	p := newFakeProvisioner()
	for i := int64(1); i <= 5; i++ {
		p.addPending(i, 100+i)
	}
	s := newTestScheduler(p, &fakeRewardLedger{}, nil, nil)

	require.NoError(t, s.ProcessWalletCreation(context.Background()))
	assert.Len(t, p.created, 5)
	assert.Empty(t, p.pending)
}

func TestProcessWalletCreationIsolatesFailures(t *testing.T) {
	p := newFakeProvisioner()
	p.addPending(1, 101)
	p.addPending(2, 102)
	p.addPending(3, 103)
	p.failing[102] = fmt.Errorf("ledger timeout")
	s := newTestScheduler(p, &fakeRewardLedger{}, nil, nil)

	require.NoError(t, s.ProcessWalletCreation(context.Background()))

	// Neighbours succeed, the failed item gets its error recorded and is not
	// refetched within the same sweep.
	assert.ElementsMatch(t, []int64{101, 103}, p.created)
	require.Len(t, p.failures, 1)
	assert.Equal(t, int64(2), p.failures[0].ID)
	assert.Equal(t, wallet.StatusError, p.failures[0].Status)
	assert.Equal(t, "ledger timeout", p.failures[0].ErrorReason)
}

func TestProcessWalletCreationStopsAtDeadline(t *testing.T) {
	p := newFakeProvisioner()
	for i := int64(1); i <= 4; i++ {
		p.addPending(i, 100+i)
	}
	s := newTestScheduler(p, &fakeRewardLedger{}, nil, nil)

	// Clock jumps past the deadline after the first read, so the sweep gets to
	// process at most the first item of the first batch.
	base := time.Now()
	calls := 0
	s.now = func() time.Time {
		calls++
		if calls == 1 {
			return base
		}
		return base.Add(2 * time.Hour)
	}

	require.NoError(t, s.ProcessWalletCreation(context.Background()))
	assert.Less(t, len(p.created), 4, "time box must cut the sweep short")
}

func TestProcessWalletCreationSingleFlight(t *testing.T) {
	p := newFakeProvisioner()
	p.addPending(1, 101)
	p.block = make(chan struct{})
	p.entered = make(chan struct{})
	s := newTestScheduler(p, &fakeRewardLedger{}, nil, nil)

	firstDone := make(chan error, 1)
	go func() {
		firstDone <- s.ProcessWalletCreation(context.Background())
	}()

	// Wait until the first sweep is parked inside CreateWallet, then a second
	// trigger must bail out instead of running concurrently.
	<-p.entered
	assert.ErrorIs(t, s.ProcessWalletCreation(context.Background()), ErrSweepAlreadyRunning)

	close(p.block)
	require.NoError(t, <-firstDone)
}

func TestProcessRewardTransactionsSettles(t *testing.T) {
	oppID := uuid.New()
	opps := &fakeOpportunities{byID: map[uuid.UUID]*opportunity.OpportunityModel{
		oppID: {ID: oppID, Title: "Beach Cleanup"},
	}}
	earns := &fakeEarnSubmitter{}

	p := newFakeProvisioner()
	p.walletBy[7] = "wal-7"

	r := &fakeRewardLedger{}
	r.addPending(1, 7, rewardledger.OpportunityCompletion{OpportunityID: oppID}, 25)

	s := newTestScheduler(p, r, opps, earns)
	require.NoError(t, s.ProcessRewardTransactions(context.Background()))

	require.Len(t, earns.requests, 1)
	assert.Equal(t, "wal-7", earns.requests[0].WalletID)
	assert.True(t, decimal.NewFromInt(25).Equal(earns.requests[0].Amount))
	assert.Equal(t, fmt.Sprintf("opportunity:%s", oppID), earns.requests[0].Reference)
	assert.Equal(t, `Reward for completing "Beach Cleanup"`, earns.requests[0].Description)

	require.Len(t, r.updates, 1)
	assert.Equal(t, rewardledger.StatusProcessed, r.updates[0].Status)
	assert.Equal(t, "earn-1", r.updates[0].ExternalTransactionID)
}

func TestProcessRewardTransactionsWaitsForWallet(t *testing.T) {
	oppID := uuid.New()
	opps := &fakeOpportunities{byID: map[uuid.UUID]*opportunity.OpportunityModel{
		oppID: {ID: oppID, Title: "Food Drive"},
	}}
	earns := &fakeEarnSubmitter{}

	p := newFakeProvisioner() // user 7 has no wallet yet
	r := &fakeRewardLedger{}
	r.addPending(1, 7, rewardledger.OpportunityCompletion{OpportunityID: oppID}, 25)

	s := newTestScheduler(p, r, opps, earns)
	require.NoError(t, s.ProcessRewardTransactions(context.Background()))

	// Settlement fails softly: no earn, error recorded, sweep finishes.
	assert.Empty(t, earns.requests)
	require.Len(t, r.updates, 1)
	assert.Equal(t, rewardledger.StatusError, r.updates[0].Status)
	assert.Contains(t, r.updates[0].ErrorReason, "resolve wallet")
}

func TestProcessRewardTransactionsAbortsOnUnknownSource(t *testing.T) {
	earns := &fakeEarnSubmitter{}
	p := newFakeProvisioner()

	r := &fakeRewardLedger{}
	r.pending = append(r.pending, rewardledger.RewardTransactionModel{
		ID:               1,
		UserID:           7,
		SourceEntityType: "referral_bonus",
		SourceEntityID:   uuid.NewString(),
		Amount:           decimal.NewFromInt(5),
		Status:           rewardledger.StatusPending,
	})

	s := newTestScheduler(p, r, nil, earns)
	err := s.ProcessRewardTransactions(context.Background())
	assert.ErrorIs(t, err, rewardledger.ErrUnknownRewardSource)

	// A configuration bug must not burn the item's retry budget.
	assert.Empty(t, r.updates)
	assert.Empty(t, earns.requests)
}

func TestProcessRewardTransactionsSkipsFailedWithinSweep(t *testing.T) {
	oppID := uuid.New()
	opps := &fakeOpportunities{byID: map[uuid.UUID]*opportunity.OpportunityModel{
		oppID: {ID: oppID, Title: "Park Restoration"},
	}}
	earns := &fakeEarnSubmitter{err: fmt.Errorf("ledger unavailable")}

	p := newFakeProvisioner()
	p.walletBy[7] = "wal-7"

	r := &fakeRewardLedger{}
	r.addPending(1, 7, rewardledger.OpportunityCompletion{OpportunityID: oppID}, 25)

	s := newTestScheduler(p, r, opps, earns)
	require.NoError(t, s.ProcessRewardTransactions(context.Background()))

	// Exactly one failure record for the item: it is skipped for the rest of
	// the sweep rather than retried in a tight loop.
	require.Len(t, r.updates, 1)
	assert.Equal(t, rewardledger.StatusError, r.updates[0].Status)
}
