package testutil

import (
	"slothouse/domain/entities"

	"github.com/google/uuid"
)

// DefaultStartingBalance mirrors the production starting balance of
// 1000.00 in minor units.
const DefaultStartingBalance int64 = 100000

// NewTestPlayRecord creates a play record with sensible defaults for a
// losing 10.00 spin.
func NewTestPlayRecord(accountID uuid.UUID, requestID string) *entities.PlayRecord {
	return &entities.PlayRecord{
		AccountID:    accountID,
		GameID:       "diamond-slots",
		BetAmount:    1000,
		WinAmount:    0,
		Outcome:      entities.Outcome{"💎", "🍒", "🔔"},
		BalanceAfter: DefaultStartingBalance - 1000,
		RequestID:    requestID,
	}
}

// NewTestWinRecord creates a play record for a winning spin with the
// given amounts.
func NewTestWinRecord(accountID uuid.UUID, requestID string, bet, win, balanceAfter int64) *entities.PlayRecord {
	record := NewTestPlayRecord(accountID, requestID)
	record.BetAmount = bet
	record.WinAmount = win
	record.Outcome = entities.Outcome{"💎", "💎", "💎"}
	record.BalanceAfter = balanceAfter
	return record
}
