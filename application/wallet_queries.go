package application

import (
	"context"
	"fmt"

	"slothouse/domain/entities"

	"github.com/google/uuid"
)

// WalletQueries is the read-only surface over the stores the
// settlement core maintains: current balance and recent play history.
type WalletQueries interface {
	Balance(ctx context.Context, accountID uuid.UUID) (*entities.Account, error)
	History(ctx context.Context, accountID uuid.UUID, limit int) ([]*entities.PlayRecord, error)
}

type walletQueries struct {
	uowFactory UnitOfWorkFactory
}

// NewWalletQueries creates the wallet read surface
func NewWalletQueries(uowFactory UnitOfWorkFactory) WalletQueries {
	return &walletQueries{uowFactory: uowFactory}
}

func (q *walletQueries) Balance(ctx context.Context, accountID uuid.UUID) (*entities.Account, error) {
	uow := q.uowFactory.CreateForAccount(accountID)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := uow.AccountRepository().Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, entities.ErrAccountNotFound
	}
	return account, nil
}

func (q *walletQueries) History(ctx context.Context, accountID uuid.UUID, limit int) ([]*entities.PlayRecord, error) {
	uow := q.uowFactory.CreateForAccount(accountID)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	records, err := uow.PlayHistoryRepository().GetRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get play history: %w", err)
	}
	return records, nil
}
