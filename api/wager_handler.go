package api

import (
	"encoding/json"
	"net/http"

	"slothouse/application"
	"slothouse/domain/utils"

	log "github.com/sirupsen/logrus"
)

// WagerHandler exposes wager settlement over HTTP
type WagerHandler struct {
	engine application.SettlementEngine
}

// NewWagerHandler creates a new wager handler
func NewWagerHandler(engine application.SettlementEngine) *WagerHandler {
	return &WagerHandler{engine: engine}
}

// SettleRequest is the body of a settle call. Amounts are decimal
// dollar strings; the account id comes from the session, never from
// the body.
type SettleRequest struct {
	GameID    string `json:"game_id"`
	BetAmount string `json:"bet_amount"`
	RequestID string `json:"request_id"`
}

// SettleResponse reports the settled wager back to the front end
type SettleResponse struct {
	Outcome   []string `json:"outcome"`
	WinAmount string   `json:"win_amount"`
	Balance   string   `json:"balance"`
}

// Settle handles the settle wager request.
// POST /api/wagers/settle
func (h *WagerHandler) Settle(w http.ResponseWriter, r *http.Request) {
	accountID, ok := AccountIDFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing session"})
		return
	}

	var req SettleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
		return
	}

	betAmount, err := utils.ParseDollars(req.BetAmount)
	if err != nil {
		respondError(w, err)
		return
	}

	result, err := h.engine.Settle(r.Context(), accountID, req.GameID, betAmount, req.RequestID)
	if err != nil {
		respondError(w, err)
		return
	}

	log.WithFields(log.Fields{
		"accountID": accountID,
		"gameID":    req.GameID,
		"betAmount": betAmount,
		"winAmount": result.WinAmount,
	}).Info("Wager settled")

	respondJSON(w, http.StatusOK, SettleResponse{
		Outcome:   result.Outcome.Strings(),
		WinAmount: utils.FormatDollars(result.WinAmount),
		Balance:   utils.FormatDollars(result.Balance),
	})
}
