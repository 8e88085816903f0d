package repository

import (
	"context"
	"errors"
	"fmt"

	"slothouse/database"
	"slothouse/domain/entities"
	"slothouse/domain/interfaces"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// accountRepository implements the AccountRepository interface, scoped
// to a single account.
type accountRepository struct {
	q         Queryable
	accountID uuid.UUID
}

// NewAccountRepository creates an account repository on the pool
func NewAccountRepository(db *database.DB, accountID uuid.UUID) interfaces.AccountRepository {
	return &accountRepository{q: db.Pool, accountID: accountID}
}

// newAccountRepository creates an account repository bound to a transaction
func newAccountRepository(tx Queryable, accountID uuid.UUID) interfaces.AccountRepository {
	return &accountRepository{q: tx, accountID: accountID}
}

// Get retrieves the scoped account
func (r *accountRepository) Get(ctx context.Context) (*entities.Account, error) {
	query := `
		SELECT id, balance, created_at, updated_at
		FROM accounts
		WHERE id = $1`

	var account entities.Account
	err := r.q.QueryRow(ctx, query, r.accountID).Scan(
		&account.ID,
		&account.Balance,
		&account.CreatedAt,
		&account.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account %s: %w", r.accountID, err)
	}

	return &account, nil
}

// Create creates the scoped account with an initial balance
func (r *accountRepository) Create(ctx context.Context, initialBalance int64) (*entities.Account, error) {
	query := `
		INSERT INTO accounts (id, balance)
		VALUES ($1, $2)
		RETURNING created_at, updated_at`

	account := &entities.Account{
		ID:      r.accountID,
		Balance: initialBalance,
	}
	err := r.q.QueryRow(ctx, query, r.accountID, initialBalance).Scan(
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create account %s: %w", r.accountID, err)
	}

	return account, nil
}

// Debit subtracts amount from the balance. The conditional update both
// rejects an uncovered debit without changing the row and takes the row
// lock that serializes this settlement against any other settlement on
// the same account until the transaction ends.
func (r *accountRepository) Debit(ctx context.Context, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, entities.ErrInvalidAmount
	}

	query := `
		UPDATE accounts
		SET balance = balance - $2, updated_at = NOW()
		WHERE id = $1 AND balance >= $2
		RETURNING balance`

	var balance int64
	err := r.q.QueryRow(ctx, query, r.accountID, amount).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		// Either the account is missing or the balance cannot cover the
		// amount; look at the row to tell the two apart.
		account, getErr := r.Get(ctx)
		if getErr != nil {
			return 0, getErr
		}
		if account == nil {
			return 0, entities.ErrAccountNotFound
		}
		return 0, entities.ErrInsufficientFunds
	}
	if err != nil {
		return 0, fmt.Errorf("failed to debit account %s: %w", r.accountID, err)
	}

	return balance, nil
}

// Credit adds amount to the balance
func (r *accountRepository) Credit(ctx context.Context, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, entities.ErrInvalidAmount
	}

	query := `
		UPDATE accounts
		SET balance = balance + $2, updated_at = NOW()
		WHERE id = $1
		RETURNING balance`

	var balance int64
	err := r.q.QueryRow(ctx, query, r.accountID, amount).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, entities.ErrAccountNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to credit account %s: %w", r.accountID, err)
	}

	return balance, nil
}
