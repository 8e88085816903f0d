package entities

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// PlayRecord is the immutable, append-only record of one settled wager.
// Exactly one record is created per settlement; no update or delete
// exists. RequestID is the caller-supplied idempotency token, unique
// per account, which lets a retried settlement be answered with the
// original result instead of being settled twice.
type PlayRecord struct {
	ID           int64     `db:"id"`
	AccountID    uuid.UUID `db:"account_id"`
	GameID       string    `db:"game_id"`
	BetAmount    int64     `db:"bet_amount"`
	WinAmount    int64     `db:"win_amount"`
	Outcome      Outcome   `db:"outcome"`
	BalanceAfter int64     `db:"balance_after"`
	RequestID    string    `db:"request_id"`
	CreatedAt    time.Time `db:"created_at"`
}

// IsWin reports whether the wager paid out.
func (p *PlayRecord) IsWin() bool {
	return p.WinAmount > 0
}

// Net returns the net balance change of the wager.
func (p *PlayRecord) Net() int64 {
	return p.WinAmount - p.BetAmount
}

// Validate performs basic consistency checks on the record.
func (p *PlayRecord) Validate() error {
	if p.BetAmount <= 0 {
		return ErrInvalidAmount
	}
	if p.WinAmount < 0 {
		return errors.New("win amount cannot be negative")
	}
	if p.RequestID == "" {
		return ErrInvalidRequestID
	}
	return nil
}

// Result rebuilds the settlement result this record was created from.
func (p *PlayRecord) Result() *SettlementResult {
	return &SettlementResult{
		Outcome:   p.Outcome,
		BetAmount: p.BetAmount,
		WinAmount: p.WinAmount,
		Balance:   p.BalanceAfter,
	}
}

// SettlementResult is the value returned to the caller of a settlement.
// Derived, never persisted itself.
type SettlementResult struct {
	Outcome   Outcome
	BetAmount int64
	WinAmount int64
	Balance   int64
}
