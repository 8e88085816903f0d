package api

import (
	"net/http"
	"strconv"
	"time"

	"slothouse/application"
	"slothouse/domain/entities"
	"slothouse/domain/utils"
)

const (
	defaultHistoryLimit = 10
	maxHistoryLimit     = 100
)

// WalletHandler exposes the read-only balance and history surfaces
type WalletHandler struct {
	queries application.WalletQueries
}

// NewWalletHandler creates a new wallet handler
func NewWalletHandler(queries application.WalletQueries) *WalletHandler {
	return &WalletHandler{queries: queries}
}

// BalanceResponse reports the current balance
type BalanceResponse struct {
	AccountID string `json:"account_id"`
	Balance   string `json:"balance"`
}

// PlayResponse is one settled wager in the history listing
type PlayResponse struct {
	GameID    string    `json:"game_id"`
	BetAmount string    `json:"bet_amount"`
	WinAmount string    `json:"win_amount"`
	Outcome   []string  `json:"outcome"`
	CreatedAt time.Time `json:"created_at"`
}

// Balance handles the get balance request.
// GET /api/wallet/balance
func (h *WalletHandler) Balance(w http.ResponseWriter, r *http.Request) {
	accountID, ok := AccountIDFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing session"})
		return
	}

	account, err := h.queries.Balance(r.Context(), accountID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, BalanceResponse{
		AccountID: account.ID.String(),
		Balance:   utils.FormatDollars(account.Balance),
	})
}

// History handles the recent play history request.
// GET /api/wallet/history?limit=N
func (h *WalletHandler) History(w http.ResponseWriter, r *http.Request) {
	accountID, ok := AccountIDFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing session"})
		return
	}

	limit := defaultHistoryLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	records, err := h.queries.History(r.Context(), accountID, limit)
	if err != nil {
		respondError(w, err)
		return
	}

	plays := make([]PlayResponse, 0, len(records))
	for _, record := range records {
		plays = append(plays, playResponse(record))
	}
	respondJSON(w, http.StatusOK, map[string]any{"data": plays})
}

func playResponse(record *entities.PlayRecord) PlayResponse {
	return PlayResponse{
		GameID:    record.GameID,
		BetAmount: utils.FormatDollars(record.BetAmount),
		WinAmount: utils.FormatDollars(record.WinAmount),
		Outcome:   record.Outcome.Strings(),
		CreatedAt: record.CreatedAt,
	}
}
