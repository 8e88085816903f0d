package services

import (
	"context"
	"fmt"

	"slothouse/domain/entities"
	"slothouse/domain/events"
	"slothouse/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

type settlementService struct {
	accountRepo    interfaces.AccountRepository
	historyRepo    interfaces.PlayHistoryRepository
	generator      interfaces.OutcomeGenerator
	eventPublisher interfaces.EventPublisher
}

// NewSettlementService creates a settlement service bound to the
// repositories of one unit of work. The caller owns the transaction:
// every mutation performed here is committed or rolled back together.
func NewSettlementService(
	accountRepo interfaces.AccountRepository,
	historyRepo interfaces.PlayHistoryRepository,
	generator interfaces.OutcomeGenerator,
	eventPublisher interfaces.EventPublisher,
) interfaces.SettlementService {
	return &settlementService{
		accountRepo:    accountRepo,
		historyRepo:    historyRepo,
		generator:      generator,
		eventPublisher: eventPublisher,
	}
}

// Settle resolves one wager: debit the stake, generate the outcome,
// price it, credit the payout and append the play record. The order
// matters: the debit is first so an uncovered stake aborts before any
// entropy is consumed, and the record is last so it captures the final
// balance.
func (s *settlementService) Settle(ctx context.Context, gameID string, betAmount int64, requestID string) (*entities.SettlementResult, error) {
	if betAmount <= 0 {
		return nil, entities.ErrInvalidAmount
	}

	game := FindGame(gameID)
	if game == nil {
		return nil, entities.ErrUnknownGame
	}

	account, err := s.accountRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, entities.ErrAccountNotFound
	}
	if err := account.ValidateStake(betAmount); err != nil {
		return nil, err
	}

	// The pre-check above can race a concurrent settlement; the
	// conditional update inside Debit is what actually enforces the
	// non-negative balance.
	balance, err := s.accountRepo.Debit(ctx, betAmount)
	if err != nil {
		return nil, err
	}

	outcome, err := s.generator.Spin(game.Reels, game.Alphabet)
	if err != nil {
		return nil, fmt.Errorf("failed to generate outcome: %w", err)
	}

	winAmount := game.Paytable.Evaluate(outcome, betAmount)
	if winAmount > 0 {
		balance, err = s.accountRepo.Credit(ctx, winAmount)
		if err != nil {
			return nil, fmt.Errorf("failed to credit winnings: %w", err)
		}
	}

	record := &entities.PlayRecord{
		AccountID:    account.ID,
		GameID:       game.ID,
		BetAmount:    betAmount,
		WinAmount:    winAmount,
		Outcome:      outcome,
		BalanceAfter: balance,
		RequestID:    requestID,
	}
	if err := s.historyRepo.Record(ctx, record); err != nil {
		return nil, err
	}

	s.publishSettled(account.Balance, record, game.Paytable.MatchedRule(outcome))

	return &entities.SettlementResult{
		Outcome:   outcome,
		BetAmount: betAmount,
		WinAmount: winAmount,
		Balance:   balance,
	}, nil
}

// publishSettled emits the balance change and settlement events. The
// publisher is transactional, so the events only reach subscribers if
// the surrounding unit of work commits. Publish failures are logged,
// not propagated: the settlement itself is already consistent.
func (s *settlementService) publishSettled(balanceBefore int64, record *entities.PlayRecord, ruleName string) {
	balanceChange := events.BalanceChangeEvent{
		AccountID:       record.AccountID,
		OldBalance:      balanceBefore,
		NewBalance:      record.BalanceAfter,
		ChangeAmount:    record.Net(),
		TransactionType: entities.TransactionTypeWagerStake,
	}
	if record.IsWin() {
		balanceChange.TransactionType = entities.TransactionTypeWagerPayout
	}
	if err := s.eventPublisher.Publish(balanceChange); err != nil {
		log.WithError(err).Error("Failed to publish balance change event")
	}

	settled := events.WagerSettledEvent{
		AccountID: record.AccountID,
		RecordID:  record.ID,
		GameID:    record.GameID,
		BetAmount: record.BetAmount,
		WinAmount: record.WinAmount,
		Outcome:   record.Outcome,
		RuleName:  ruleName,
	}
	if err := s.eventPublisher.Publish(settled); err != nil {
		log.WithError(err).Error("Failed to publish wager settled event")
	}
}
