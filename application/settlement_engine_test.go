package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"slothouse/domain/entities"
	"slothouse/domain/interfaces"
	"slothouse/domain/services"
	"slothouse/domain/testhelpers"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mockUnitOfWork drives the engine with testhelpers repository mocks.
// It tracks transaction lifecycle calls so tests can assert that every
// attempt ends in exactly one Commit or Rollback.
type mockUnitOfWork struct {
	accountRepo *testhelpers.MockAccountRepository
	historyRepo *testhelpers.MockPlayHistoryRepository
	publisher   *testhelpers.MockEventPublisher

	beginErr  error
	commitErr error

	begun      bool
	committed  bool
	rolledBack bool
}

func newMockUnitOfWork() *mockUnitOfWork {
	return &mockUnitOfWork{
		accountRepo: new(testhelpers.MockAccountRepository),
		historyRepo: new(testhelpers.MockPlayHistoryRepository),
		publisher:   new(testhelpers.MockEventPublisher),
	}
}

func (u *mockUnitOfWork) Begin(ctx context.Context) error {
	if u.beginErr != nil {
		return u.beginErr
	}
	u.begun = true
	return nil
}

func (u *mockUnitOfWork) Commit() error {
	if u.commitErr != nil {
		return u.commitErr
	}
	u.committed = true
	return nil
}

func (u *mockUnitOfWork) Rollback() error {
	u.rolledBack = true
	return nil
}

func (u *mockUnitOfWork) AccountRepository() interfaces.AccountRepository {
	return u.accountRepo
}

func (u *mockUnitOfWork) PlayHistoryRepository() interfaces.PlayHistoryRepository {
	return u.historyRepo
}

func (u *mockUnitOfWork) EventBus() interfaces.EventPublisher {
	return u.publisher
}

// mockUnitOfWorkFactory hands out units of work in order, one per
// settlement attempt.
type mockUnitOfWorkFactory struct {
	uows  []*mockUnitOfWork
	calls int
}

func (f *mockUnitOfWorkFactory) CreateForAccount(accountID uuid.UUID) UnitOfWork {
	uow := f.uows[f.calls%len(f.uows)]
	f.calls++
	return uow
}

func happyAccount(accountID uuid.UUID, balance int64) *entities.Account {
	return &entities.Account{ID: accountID, Balance: balance}
}

func TestSettlementEngine_Settle_CommitsOnSuccess(t *testing.T) {
	accountID := uuid.New()
	uow := newMockUnitOfWork()

	uow.historyRepo.On("GetByRequestID", mock.Anything, "req-1").Return(nil, nil)
	uow.accountRepo.On("Get", mock.Anything).Return(happyAccount(accountID, 100000), nil)
	uow.accountRepo.On("Debit", mock.Anything, int64(1000)).Return(int64(99000), nil)
	uow.historyRepo.On("Record", mock.Anything, mock.Anything).Return(nil)
	uow.publisher.On("Publish", mock.Anything).Return(nil)

	factory := &mockUnitOfWorkFactory{uows: []*mockUnitOfWork{uow}}
	engine := NewSettlementEngine(factory, &testhelpers.FixedOutcomeGenerator{
		Outcome: entities.Outcome{"💎", "🍒", "🔔"},
	}, 3)

	result, err := engine.Settle(context.Background(), accountID, services.GameDiamondSlots, 1000, "req-1")
	require.NoError(t, err)

	assert.Equal(t, int64(99000), result.Balance)
	assert.Zero(t, result.WinAmount)
	assert.True(t, uow.committed)
	assert.False(t, uow.rolledBack)
	assert.Equal(t, 1, factory.calls)
}

func TestSettlementEngine_Settle_ValidatesBeforeAnyTransaction(t *testing.T) {
	factory := &mockUnitOfWorkFactory{uows: []*mockUnitOfWork{newMockUnitOfWork()}}
	engine := NewSettlementEngine(factory, &testhelpers.FixedOutcomeGenerator{}, 3)
	accountID := uuid.New()

	_, err := engine.Settle(context.Background(), accountID, services.GameDiamondSlots, 0, "req-1")
	assert.ErrorIs(t, err, entities.ErrInvalidAmount)

	_, err = engine.Settle(context.Background(), accountID, services.GameDiamondSlots, -500, "req-1")
	assert.ErrorIs(t, err, entities.ErrInvalidAmount)

	_, err = engine.Settle(context.Background(), accountID, services.GameDiamondSlots, 1000, "")
	assert.ErrorIs(t, err, entities.ErrInvalidRequestID)

	_, err = engine.Settle(context.Background(), accountID, services.GameDiamondSlots, 1000, strings.Repeat("x", 129))
	assert.ErrorIs(t, err, entities.ErrInvalidRequestID)

	assert.Zero(t, factory.calls)
}

func TestSettlementEngine_Settle_RejectionIsNotRetried(t *testing.T) {
	accountID := uuid.New()
	uow := newMockUnitOfWork()

	uow.historyRepo.On("GetByRequestID", mock.Anything, "req-1").Return(nil, nil)
	uow.accountRepo.On("Get", mock.Anything).Return(happyAccount(accountID, 500), nil)

	factory := &mockUnitOfWorkFactory{uows: []*mockUnitOfWork{uow}}
	engine := NewSettlementEngine(factory, &testhelpers.FixedOutcomeGenerator{
		Outcome: entities.Outcome{"💎", "🍒", "🔔"},
	}, 3)

	_, err := engine.Settle(context.Background(), accountID, services.GameDiamondSlots, 1000, "req-1")
	assert.ErrorIs(t, err, entities.ErrInsufficientFunds)

	assert.Equal(t, 1, factory.calls)
	assert.True(t, uow.rolledBack)
	assert.False(t, uow.committed)
}

func TestSettlementEngine_Settle_DuplicateAnsweredFromHistory(t *testing.T) {
	accountID := uuid.New()
	original := &entities.PlayRecord{
		ID:           42,
		AccountID:    accountID,
		GameID:       services.GameDiamondSlots,
		BetAmount:    1000,
		WinAmount:    10000,
		Outcome:      entities.Outcome{"💎", "💎", "💎"},
		BalanceAfter: 109000,
		RequestID:    "req-1",
	}

	uow := newMockUnitOfWork()
	uow.historyRepo.On("GetByRequestID", mock.Anything, "req-1").Return(original, nil)

	factory := &mockUnitOfWorkFactory{uows: []*mockUnitOfWork{uow}}
	engine := NewSettlementEngine(factory, &testhelpers.FixedOutcomeGenerator{
		Outcome: entities.Outcome{"🍒", "🔔", "⭐"},
	}, 3)

	result, err := engine.Settle(context.Background(), accountID, services.GameDiamondSlots, 1000, "req-1")
	require.NoError(t, err)

	// The original result comes back, not a fresh spin.
	assert.Equal(t, entities.Outcome{"💎", "💎", "💎"}, result.Outcome)
	assert.Equal(t, int64(10000), result.WinAmount)
	assert.Equal(t, int64(109000), result.Balance)

	uow.accountRepo.AssertNotCalled(t, "Debit", mock.Anything, mock.Anything)
	assert.True(t, uow.rolledBack)
}

func TestSettlementEngine_Settle_TransientFailureRetriedThenSucceeds(t *testing.T) {
	accountID := uuid.New()

	failing := newMockUnitOfWork()
	failing.historyRepo.On("GetByRequestID", mock.Anything, "req-1").Return(nil, nil)
	failing.accountRepo.On("Get", mock.Anything).Return(happyAccount(accountID, 100000), nil)
	failing.accountRepo.On("Debit", mock.Anything, int64(1000)).Return(int64(99000), nil)
	failing.historyRepo.On("Record", mock.Anything, mock.Anything).Return(errors.New("connection reset"))

	succeeding := newMockUnitOfWork()
	succeeding.historyRepo.On("GetByRequestID", mock.Anything, "req-1").Return(nil, nil)
	succeeding.accountRepo.On("Get", mock.Anything).Return(happyAccount(accountID, 100000), nil)
	succeeding.accountRepo.On("Debit", mock.Anything, int64(1000)).Return(int64(99000), nil)
	succeeding.historyRepo.On("Record", mock.Anything, mock.Anything).Return(nil)
	succeeding.publisher.On("Publish", mock.Anything).Return(nil)

	factory := &mockUnitOfWorkFactory{uows: []*mockUnitOfWork{failing, succeeding}}
	engine := NewSettlementEngine(factory, &testhelpers.FixedOutcomeGenerator{
		Outcome: entities.Outcome{"💎", "🍒", "🔔"},
	}, 3)

	result, err := engine.Settle(context.Background(), accountID, services.GameDiamondSlots, 1000, "req-1")
	require.NoError(t, err)

	assert.Equal(t, int64(99000), result.Balance)
	assert.Equal(t, 2, factory.calls)
	assert.True(t, failing.rolledBack)
	assert.False(t, failing.committed)
	assert.True(t, succeeding.committed)
}

func TestSettlementEngine_Settle_ExhaustedRetries(t *testing.T) {
	accountID := uuid.New()
	uow := newMockUnitOfWork()

	uow.historyRepo.On("GetByRequestID", mock.Anything, "req-1").Return(nil, nil)
	uow.accountRepo.On("Get", mock.Anything).Return(happyAccount(accountID, 100000), nil)
	uow.accountRepo.On("Debit", mock.Anything, int64(1000)).Return(int64(99000), nil)
	uow.historyRepo.On("Record", mock.Anything, mock.Anything).Return(errors.New("connection reset"))

	factory := &mockUnitOfWorkFactory{uows: []*mockUnitOfWork{uow}}
	engine := NewSettlementEngine(factory, &testhelpers.FixedOutcomeGenerator{
		Outcome: entities.Outcome{"💎", "🍒", "🔔"},
	}, 3)

	_, err := engine.Settle(context.Background(), accountID, services.GameDiamondSlots, 1000, "req-1")
	require.Error(t, err)

	assert.ErrorIs(t, err, entities.ErrSettlementFailed)
	assert.Equal(t, 3, factory.calls)
	assert.False(t, uow.committed)
}

func TestSettlementEngine_Settle_BeginFailureRetried(t *testing.T) {
	accountID := uuid.New()

	broken := newMockUnitOfWork()
	broken.beginErr = errors.New("pool exhausted")

	factory := &mockUnitOfWorkFactory{uows: []*mockUnitOfWork{broken}}
	engine := NewSettlementEngine(factory, &testhelpers.FixedOutcomeGenerator{}, 2)

	_, err := engine.Settle(context.Background(), accountID, services.GameDiamondSlots, 1000, "req-1")
	assert.ErrorIs(t, err, entities.ErrSettlementFailed)
	assert.Equal(t, 2, factory.calls)
}

func TestSettlementEngine_Settle_DuplicateRaceAnsweredFromWinner(t *testing.T) {
	accountID := uuid.New()
	winner := &entities.PlayRecord{
		ID:           7,
		AccountID:    accountID,
		GameID:       services.GameDiamondSlots,
		BetAmount:    1000,
		WinAmount:    0,
		Outcome:      entities.Outcome{"💎", "🍒", "🔔"},
		BalanceAfter: 99000,
		RequestID:    "req-1",
	}

	// First attempt: the pre-check sees nothing, the insert collides
	// with a concurrent settlement that committed in between.
	racing := newMockUnitOfWork()
	racing.historyRepo.On("GetByRequestID", mock.Anything, "req-1").Return(nil, nil)
	racing.accountRepo.On("Get", mock.Anything).Return(happyAccount(accountID, 100000), nil)
	racing.accountRepo.On("Debit", mock.Anything, int64(1000)).Return(int64(99000), nil)
	racing.historyRepo.On("Record", mock.Anything, mock.Anything).
		Return(fmt.Errorf("failed to insert play record: %w", entities.ErrDuplicateRequest))

	// Second unit of work serves the lookup of the winning record.
	lookup := newMockUnitOfWork()
	lookup.historyRepo.On("GetByRequestID", mock.Anything, "req-1").Return(winner, nil)

	factory := &mockUnitOfWorkFactory{uows: []*mockUnitOfWork{racing, lookup}}
	engine := NewSettlementEngine(factory, &testhelpers.FixedOutcomeGenerator{
		Outcome: entities.Outcome{"💎", "🍒", "🔔"},
	}, 3)

	result, err := engine.Settle(context.Background(), accountID, services.GameDiamondSlots, 1000, "req-1")
	require.NoError(t, err)

	assert.Equal(t, int64(99000), result.Balance)
	assert.True(t, racing.rolledBack)
	assert.Equal(t, 2, factory.calls)
}

func TestSettlementEngine_Settle_DetachesCallerCancellation(t *testing.T) {
	accountID := uuid.New()
	uow := newMockUnitOfWork()

	uow.historyRepo.On("GetByRequestID", mock.Anything, "req-1").Return(nil, nil)
	uow.accountRepo.On("Get", mock.Anything).Return(happyAccount(accountID, 100000), nil)
	uow.accountRepo.On("Debit", mock.Anything, int64(1000)).Return(int64(99000), nil)
	uow.historyRepo.On("Record", mock.Anything, mock.MatchedBy(func(r *entities.PlayRecord) bool {
		return true
	})).Return(nil)
	uow.publisher.On("Publish", mock.Anything).Return(nil)

	factory := &mockUnitOfWorkFactory{uows: []*mockUnitOfWork{uow}}
	engine := NewSettlementEngine(factory, &testhelpers.FixedOutcomeGenerator{
		Outcome: entities.Outcome{"💎", "🍒", "🔔"},
	}, 3)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := engine.Settle(ctx, accountID, services.GameDiamondSlots, 1000, "req-1")
	require.NoError(t, err)
	assert.True(t, uow.committed)
	assert.Equal(t, int64(99000), result.Balance)
}
