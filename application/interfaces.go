package application

import (
	"context"

	"slothouse/domain/interfaces"

	"github.com/google/uuid"
)

// UnitOfWork represents one database transaction scoped to a single
// account. Repositories obtained from it share the transaction, and
// events published through EventBus are held until Commit.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	AccountRepository() interfaces.AccountRepository
	PlayHistoryRepository() interfaces.PlayHistoryRepository
	EventBus() interfaces.EventPublisher
}

// UnitOfWorkFactory creates account-scoped units of work
type UnitOfWorkFactory interface {
	CreateForAccount(accountID uuid.UUID) UnitOfWork
}
