package interfaces

import (
	"context"

	"slothouse/domain/entities"
)

// AccountRepository is the balance ledger for the account a unit of
// work was created for. Debit and Credit are atomic with respect to
// concurrent ledger operations on the same account: the row lock taken
// by the first mutation is held until the surrounding transaction
// commits, so the debit/credit pair of one settlement is never
// interleaved with another settlement on the same account.
type AccountRepository interface {
	// Get returns the account, or (nil, nil) when it does not exist.
	Get(ctx context.Context) (*entities.Account, error)

	// Create creates the account with an initial balance.
	Create(ctx context.Context, initialBalance int64) (*entities.Account, error)

	// Debit subtracts amount from the balance and returns the new
	// balance. Fails with entities.ErrInsufficientFunds, leaving the
	// balance unchanged, when the balance cannot cover the amount.
	// Amount must be positive.
	Debit(ctx context.Context, amount int64) (int64, error)

	// Credit adds amount to the balance and returns the new balance.
	// Amount must be positive.
	Credit(ctx context.Context, amount int64) (int64, error)
}

// PlayHistoryRepository appends and reads the immutable play history of
// the account a unit of work was created for. There is deliberately no
// update or delete.
type PlayHistoryRepository interface {
	// Record appends a play record, filling in ID and CreatedAt.
	// A record with the same request id already present fails with
	// entities.ErrDuplicateRequest.
	Record(ctx context.Context, record *entities.PlayRecord) error

	// GetByRequestID returns the record settled under the request id,
	// or (nil, nil) when no such record exists.
	GetByRequestID(ctx context.Context, requestID string) (*entities.PlayRecord, error)

	// GetRecent returns up to limit records, newest first.
	GetRecent(ctx context.Context, limit int) ([]*entities.PlayRecord, error)
}
