package entities

import "errors"

// Sentinel errors for the settlement core. Callers match these with
// errors.Is; everything else that bubbles out of a settlement is
// treated as a transient store failure.
var (
	// ErrInvalidAmount is returned when a bet or ledger amount is not a
	// positive number of minor units.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrInsufficientFunds is returned when a debit would take the
	// balance below zero. The balance is left unchanged.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrAccountNotFound is returned when the referenced account does
	// not exist.
	ErrAccountNotFound = errors.New("account not found")

	// ErrUnknownGame is returned when the game id is not in the catalog
	// or the game is not playable yet.
	ErrUnknownGame = errors.New("unknown game")

	// ErrInvalidRequestID is returned when the idempotency token is
	// missing or malformed.
	ErrInvalidRequestID = errors.New("invalid request id")

	// ErrDuplicateRequest signals that a play record with the same
	// request id already exists for the account. Not user-visible: the
	// engine answers duplicates with the originally settled result.
	ErrDuplicateRequest = errors.New("duplicate request id")

	// ErrSettlementFailed is the generic terminal failure surfaced when
	// a settlement could not be committed after bounded retries. The
	// debit has been rolled back; no money was lost or created.
	ErrSettlementFailed = errors.New("settlement failed")
)
