package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"slothouse/database"
	"slothouse/domain/entities"
	"slothouse/domain/interfaces"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// playHistoryRepository implements the PlayHistoryRepository interface,
// scoped to a single account. The table is append-only: there is no
// update or delete here on purpose.
type playHistoryRepository struct {
	q         Queryable
	accountID uuid.UUID
}

// NewPlayHistoryRepository creates a play history repository on the pool
func NewPlayHistoryRepository(db *database.DB, accountID uuid.UUID) interfaces.PlayHistoryRepository {
	return &playHistoryRepository{q: db.Pool, accountID: accountID}
}

// newPlayHistoryRepository creates a play history repository bound to a transaction
func newPlayHistoryRepository(tx Queryable, accountID uuid.UUID) interfaces.PlayHistoryRepository {
	return &playHistoryRepository{q: tx, accountID: accountID}
}

// Record appends a play record for the scoped account
func (r *playHistoryRepository) Record(ctx context.Context, record *entities.PlayRecord) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("invalid play record: %w", err)
	}

	outcomeJSON, err := json.Marshal(record.Outcome.Strings())
	if err != nil {
		return fmt.Errorf("failed to marshal outcome: %w", err)
	}

	query := `
		INSERT INTO play_history
		(account_id, game_id, bet_amount, win_amount, outcome, balance_after, request_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err = r.q.QueryRow(ctx, query,
		r.accountID,
		record.GameID,
		record.BetAmount,
		record.WinAmount,
		outcomeJSON,
		record.BalanceAfter,
		record.RequestID,
	).Scan(&record.ID, &record.CreatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("request %s already settled for account %s: %w",
			record.RequestID, r.accountID, entities.ErrDuplicateRequest)
	}
	if err != nil {
		return fmt.Errorf("failed to record play for account %s: %w", r.accountID, err)
	}

	record.AccountID = r.accountID
	return nil
}

// GetByRequestID returns the record settled under a request id
func (r *playHistoryRepository) GetByRequestID(ctx context.Context, requestID string) (*entities.PlayRecord, error) {
	query := `
		SELECT id, account_id, game_id, bet_amount, win_amount, outcome, balance_after, request_id, created_at
		FROM play_history
		WHERE account_id = $1 AND request_id = $2`

	record, err := r.scanRecord(r.q.QueryRow(ctx, query, r.accountID, requestID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get play record by request id: %w", err)
	}
	return record, nil
}

// GetRecent returns up to limit records for the scoped account, newest first
func (r *playHistoryRepository) GetRecent(ctx context.Context, limit int) ([]*entities.PlayRecord, error) {
	query := `
		SELECT id, account_id, game_id, bet_amount, win_amount, outcome, balance_after, request_id, created_at
		FROM play_history
		WHERE account_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`

	rows, err := r.q.Query(ctx, query, r.accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query play history: %w", err)
	}
	defer rows.Close()

	var records []*entities.PlayRecord
	for rows.Next() {
		record, err := r.scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan play record: %w", err)
		}
		records = append(records, record)
	}

	return records, nil
}

func (r *playHistoryRepository) scanRecord(row pgx.Row) (*entities.PlayRecord, error) {
	var record entities.PlayRecord
	var outcomeJSON []byte
	err := row.Scan(
		&record.ID,
		&record.AccountID,
		&record.GameID,
		&record.BetAmount,
		&record.WinAmount,
		&outcomeJSON,
		&record.BalanceAfter,
		&record.RequestID,
		&record.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	var symbols []string
	if err := json.Unmarshal(outcomeJSON, &symbols); err != nil {
		return nil, fmt.Errorf("failed to unmarshal outcome: %w", err)
	}
	record.Outcome = entities.OutcomeFromStrings(symbols)

	return &record, nil
}
