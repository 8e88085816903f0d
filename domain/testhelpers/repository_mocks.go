package testhelpers

import (
	"context"

	"slothouse/domain/entities"
	"slothouse/domain/events"

	"github.com/stretchr/testify/mock"
)

// MockAccountRepository is a mock implementation of AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) Get(ctx context.Context) (*entities.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *MockAccountRepository) Create(ctx context.Context, initialBalance int64) (*entities.Account, error) {
	args := m.Called(ctx, initialBalance)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *MockAccountRepository) Debit(ctx context.Context, amount int64) (int64, error) {
	args := m.Called(ctx, amount)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccountRepository) Credit(ctx context.Context, amount int64) (int64, error) {
	args := m.Called(ctx, amount)
	return args.Get(0).(int64), args.Error(1)
}

// MockPlayHistoryRepository is a mock implementation of PlayHistoryRepository
type MockPlayHistoryRepository struct {
	mock.Mock
}

func (m *MockPlayHistoryRepository) Record(ctx context.Context, record *entities.PlayRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockPlayHistoryRepository) GetByRequestID(ctx context.Context, requestID string) (*entities.PlayRecord, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.PlayRecord), args.Error(1)
}

func (m *MockPlayHistoryRepository) GetRecent(ctx context.Context, limit int) ([]*entities.PlayRecord, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.PlayRecord), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	args := m.Called(event)
	return args.Error(0)
}

// FixedOutcomeGenerator always returns the same outcome. Inject it to
// test paytable and ledger behaviour against a known spin.
type FixedOutcomeGenerator struct {
	Outcome entities.Outcome
	Err     error
}

func (g *FixedOutcomeGenerator) Spin(reels int, alphabet []entities.Symbol) (entities.Outcome, error) {
	if g.Err != nil {
		return nil, g.Err
	}
	return g.Outcome, nil
}
