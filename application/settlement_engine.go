package application

import (
	"context"
	"errors"
	"fmt"

	"slothouse/domain/entities"
	"slothouse/domain/interfaces"
	"slothouse/domain/services"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const maxRequestIDLength = 128

// SettlementEngine settles wagers. It is the only entry point callers
// have to the ledger: every settlement runs as one transaction, is
// serialized against other settlements on the same account, and is
// answered idempotently when retried under the same request id.
type SettlementEngine interface {
	Settle(ctx context.Context, accountID uuid.UUID, gameID string, betAmount int64, requestID string) (*entities.SettlementResult, error)
}

type settlementEngine struct {
	uowFactory  UnitOfWorkFactory
	generator   interfaces.OutcomeGenerator
	maxAttempts int
}

// NewSettlementEngine creates a settlement engine. maxAttempts bounds
// the retries of a settlement whose transaction failed transiently.
func NewSettlementEngine(uowFactory UnitOfWorkFactory, generator interfaces.OutcomeGenerator, maxAttempts int) SettlementEngine {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &settlementEngine{
		uowFactory:  uowFactory,
		generator:   generator,
		maxAttempts: maxAttempts,
	}
}

// Settle resolves one wager to a determinate state. Rejections
// (invalid amount, unknown game, insufficient funds) happen before any
// mutation. A transient store failure after the debit rolls the whole
// transaction back, restoring the pre-call balance exactly, and the
// settlement is retried from scratch with a fresh transaction; after
// maxAttempts the generic entities.ErrSettlementFailed is surfaced.
// Callers may abandon waiting but the settlement itself is never
// abandoned: the caller's cancellation is detached before any work.
func (e *settlementEngine) Settle(ctx context.Context, accountID uuid.UUID, gameID string, betAmount int64, requestID string) (*entities.SettlementResult, error) {
	if betAmount <= 0 {
		return nil, entities.ErrInvalidAmount
	}
	if requestID == "" || len(requestID) > maxRequestIDLength {
		return nil, entities.ErrInvalidRequestID
	}

	// An in-flight settlement must reach committed or rolled back even
	// when the caller disconnects.
	ctx = context.WithoutCancel(ctx)

	var lastErr error
	for attempt := 1; attempt <= e.maxAttempts; attempt++ {
		result, err := e.settleOnce(ctx, accountID, gameID, betAmount, requestID)
		if err == nil {
			return result, nil
		}
		if isRejection(err) {
			return nil, err
		}
		if errors.Is(err, entities.ErrDuplicateRequest) {
			// Lost a race against a concurrent settlement with the same
			// request id: answer with the record that won.
			return e.lookupOriginal(ctx, accountID, requestID)
		}

		lastErr = err
		log.WithFields(log.Fields{
			"accountID": accountID,
			"requestID": requestID,
			"attempt":   attempt,
		}).WithError(err).Warn("Settlement attempt failed, retrying")
	}

	return nil, fmt.Errorf("%w after %d attempts: %v", entities.ErrSettlementFailed, e.maxAttempts, lastErr)
}

// settleOnce runs one settlement attempt inside its own unit of work.
func (e *settlementEngine) settleOnce(ctx context.Context, accountID uuid.UUID, gameID string, betAmount int64, requestID string) (*entities.SettlementResult, error) {
	uow := e.uowFactory.CreateForAccount(accountID)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if r := recover(); r != nil {
			uow.Rollback()
			panic(r)
		}
	}()

	// A retried request is answered with the original result without
	// re-settling.
	existing, err := uow.PlayHistoryRepository().GetByRequestID(ctx, requestID)
	if err != nil {
		uow.Rollback()
		return nil, fmt.Errorf("failed to check for duplicate request: %w", err)
	}
	if existing != nil {
		uow.Rollback()
		log.WithFields(log.Fields{
			"accountID": accountID,
			"requestID": requestID,
			"recordID":  existing.ID,
		}).Info("Duplicate settlement request answered from play history")
		return existing.Result(), nil
	}

	settlementService := services.NewSettlementService(
		uow.AccountRepository(),
		uow.PlayHistoryRepository(),
		e.generator,
		uow.EventBus(),
	)

	result, err := settlementService.Settle(ctx, gameID, betAmount, requestID)
	if err != nil {
		uow.Rollback()
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit settlement: %w", err)
	}

	return result, nil
}

// lookupOriginal reads the already-settled record for a request id in
// a fresh read-only unit of work.
func (e *settlementEngine) lookupOriginal(ctx context.Context, accountID uuid.UUID, requestID string) (*entities.SettlementResult, error) {
	uow := e.uowFactory.CreateForAccount(accountID)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	record, err := uow.PlayHistoryRepository().GetByRequestID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to load original settlement: %w", err)
	}
	if record == nil {
		return nil, fmt.Errorf("%w: duplicate request id %q but no record found", entities.ErrSettlementFailed, requestID)
	}
	return record.Result(), nil
}

// isRejection reports whether the error is a terminal pre-mutation
// rejection that must not be retried.
func isRejection(err error) bool {
	return errors.Is(err, entities.ErrInvalidAmount) ||
		errors.Is(err, entities.ErrInsufficientFunds) ||
		errors.Is(err, entities.ErrAccountNotFound) ||
		errors.Is(err, entities.ErrUnknownGame)
}
