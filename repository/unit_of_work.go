package repository

import (
	"context"
	"errors"
	"fmt"

	"slothouse/application"
	"slothouse/database"
	"slothouse/domain/events"
	"slothouse/domain/interfaces"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// unitOfWork implements the application.UnitOfWork interface: one pgx
// transaction with account-scoped repositories and a transactional
// event publisher on top.
type unitOfWork struct {
	db               *database.DB
	tx               pgx.Tx
	ctx              context.Context
	accountID        uuid.UUID
	eventBus         *events.Bus
	transactionalBus *events.TransactionalBus
	accountRepo      interfaces.AccountRepository
	playHistoryRepo  interfaces.PlayHistoryRepository
}

type unitOfWorkFactory struct {
	db       *database.DB
	eventBus *events.Bus
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory
func NewUnitOfWorkFactory(db *database.DB, eventBus *events.Bus) application.UnitOfWorkFactory {
	return &unitOfWorkFactory{
		db:       db,
		eventBus: eventBus,
	}
}

// CreateForAccount creates a new UnitOfWork scoped to one account
func (f *unitOfWorkFactory) CreateForAccount(accountID uuid.UUID) application.UnitOfWork {
	return &unitOfWork{
		db:        f.db,
		accountID: accountID,
		eventBus:  f.eventBus,
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx
	u.transactionalBus = events.NewTransactionalBus(u.eventBus)

	// Create account-scoped repositories with the transaction
	u.accountRepo = newAccountRepository(tx, u.accountID)
	u.playHistoryRepo = newPlayHistoryRepository(tx, u.accountID)

	return nil
}

// Commit commits the transaction and flushes pending events
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	if err := u.tx.Commit(u.ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	u.tx = nil

	// Events only reach subscribers once the data they describe is durable
	u.transactionalBus.Flush(u.ctx)

	return nil
}

// Rollback rolls back the transaction and discards pending events
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil // Nothing to rollback
	}

	err := u.tx.Rollback(u.ctx)
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	u.tx = nil
	u.transactionalBus.Discard()

	return nil
}

// AccountRepository returns the account repository for this unit of work
func (u *unitOfWork) AccountRepository() interfaces.AccountRepository {
	if u.accountRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.accountRepo
}

// PlayHistoryRepository returns the play history repository for this unit of work
func (u *unitOfWork) PlayHistoryRepository() interfaces.PlayHistoryRepository {
	if u.playHistoryRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.playHistoryRepo
}

// EventBus returns the transactional event publisher for this unit of work
func (u *unitOfWork) EventBus() interfaces.EventPublisher {
	if u.transactionalBus == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.transactionalBus
}
