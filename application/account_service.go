package application

import (
	"context"
	"fmt"

	"slothouse/domain/entities"
	"slothouse/domain/events"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// AccountService provisions accounts. Registration itself (signup,
// credentials, profiles) lives outside this service; this only creates
// the ledger account a registered user plays against.
type AccountService interface {
	CreateAccount(ctx context.Context, initialBalance int64) (*entities.Account, error)
}

type accountService struct {
	uowFactory UnitOfWorkFactory
}

// NewAccountService creates an account service
func NewAccountService(uowFactory UnitOfWorkFactory) AccountService {
	return &accountService{uowFactory: uowFactory}
}

// CreateAccount creates a new account with the given starting balance.
func (s *accountService) CreateAccount(ctx context.Context, initialBalance int64) (*entities.Account, error) {
	if initialBalance < 0 {
		return nil, entities.ErrInvalidAmount
	}

	uow := s.uowFactory.CreateForAccount(uuid.New())
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if r := recover(); r != nil {
			uow.Rollback()
			panic(r)
		}
	}()

	account, err := uow.AccountRepository().Create(ctx, initialBalance)
	if err != nil {
		uow.Rollback()
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	// Publish failures are logged, not propagated: the account itself
	// is already consistent.
	if err := uow.EventBus().Publish(events.AccountCreatedEvent{
		AccountID:      account.ID,
		InitialBalance: account.Balance,
	}); err != nil {
		log.WithError(err).Error("Failed to publish account created event")
	}
	if err := uow.EventBus().Publish(events.BalanceChangeEvent{
		AccountID:       account.ID,
		OldBalance:      0,
		NewBalance:      account.Balance,
		ChangeAmount:    account.Balance,
		TransactionType: entities.TransactionTypeInitial,
	}); err != nil {
		log.WithError(err).Error("Failed to publish initial balance event")
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit account creation: %w", err)
	}
	return account, nil
}
