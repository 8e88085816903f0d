package entities

import (
	"time"

	"github.com/google/uuid"
)

// Account holds a player's balance in minor currency units (cents).
// Accounts are created once at registration and only ever mutated
// through the ledger's debit/credit operations; the balance is never
// negative (enforced both here and by a database constraint).
type Account struct {
	ID        uuid.UUID `db:"id"`
	Balance   int64     `db:"balance"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// CanCover checks whether the account balance covers an amount.
func (a *Account) CanCover(amount int64) bool {
	return a.Balance >= amount
}

// ValidateStake checks that an amount is a stake this account could place.
func (a *Account) ValidateStake(amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if !a.CanCover(amount) {
		return ErrInsufficientFunds
	}
	return nil
}
