package interfaces

import (
	"context"

	"slothouse/domain/entities"
	"slothouse/domain/events"
)

// OutcomeGenerator produces random reel combinations. The production
// implementation draws from a cryptographically sound source; tests
// inject a deterministic stub.
type OutcomeGenerator interface {
	// Spin draws reels symbols independently and uniformly from the
	// alphabet.
	Spin(reels int, alphabet []entities.Symbol) (entities.Outcome, error)
}

// EventPublisher publishes domain events
type EventPublisher interface {
	Publish(event events.Event) error
}

// SettlementService performs the settlement steps of a single wager
// against the repositories of one unit of work. It assumes the caller
// owns the transaction boundary.
type SettlementService interface {
	Settle(ctx context.Context, gameID string, betAmount int64, requestID string) (*entities.SettlementResult, error)
}
