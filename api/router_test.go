package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"slothouse/config"
	"slothouse/domain/entities"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubEngine returns a canned settlement result or error and records
// the arguments of the last call.
type stubEngine struct {
	result *entities.SettlementResult
	err    error

	lastAccountID uuid.UUID
	lastGameID    string
	lastBet       int64
	lastRequestID string
	calls         int
}

func (s *stubEngine) Settle(ctx context.Context, accountID uuid.UUID, gameID string, betAmount int64, requestID string) (*entities.SettlementResult, error) {
	s.calls++
	s.lastAccountID = accountID
	s.lastGameID = gameID
	s.lastBet = betAmount
	s.lastRequestID = requestID
	return s.result, s.err
}

type stubWalletQueries struct {
	account *entities.Account
	records []*entities.PlayRecord
	err     error

	lastLimit int
}

func (s *stubWalletQueries) Balance(ctx context.Context, accountID uuid.UUID) (*entities.Account, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.account, nil
}

func (s *stubWalletQueries) History(ctx context.Context, accountID uuid.UUID, limit int) ([]*entities.PlayRecord, error) {
	s.lastLimit = limit
	if s.err != nil {
		return nil, s.err
	}
	return s.records, nil
}

type apiFixture struct {
	engine  *stubEngine
	queries *stubWalletQueries
	router  http.Handler
	cfg     *config.Config
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	cfg := config.NewTestConfig()
	engine := &stubEngine{}
	queries := &stubWalletQueries{}
	router := NewRouter(cfg, NewWagerHandler(engine), NewWalletHandler(queries))

	return &apiFixture{engine: engine, queries: queries, router: router, cfg: cfg}
}

func (f *apiFixture) bearerFor(t *testing.T, accountID uuid.UUID) string {
	t.Helper()
	token, err := IssueToken(f.cfg.JWTSecret, accountID, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func (f *apiFixture) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func settleBody(t *testing.T, gameID, betAmount, requestID string) *bytes.Reader {
	t.Helper()
	body, err := json.Marshal(SettleRequest{GameID: gameID, BetAmount: betAmount, RequestID: requestID})
	require.NoError(t, err)
	return bytes.NewReader(body)
}

func TestRouter_Health(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestRouter_Settle_Success(t *testing.T) {
	f := newAPIFixture(t)
	accountID := uuid.New()
	f.engine.result = &entities.SettlementResult{
		Outcome:   entities.Outcome{"💎", "💎", "💎"},
		BetAmount: 1000,
		WinAmount: 10000,
		Balance:   109000,
	}

	req := httptest.NewRequest(http.MethodPost, "/api/wagers/settle", settleBody(t, "diamond-slots", "10.00", "req-1"))
	req.Header.Set("Authorization", f.bearerFor(t, accountID))

	rec := f.do(req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp SettleResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"💎", "💎", "💎"}, resp.Outcome)
	assert.Equal(t, "100.00", resp.WinAmount)
	assert.Equal(t, "1090.00", resp.Balance)

	// The account id comes from the token subject, dollars are
	// converted to cents before the engine sees them.
	assert.Equal(t, accountID, f.engine.lastAccountID)
	assert.Equal(t, "diamond-slots", f.engine.lastGameID)
	assert.Equal(t, int64(1000), f.engine.lastBet)
	assert.Equal(t, "req-1", f.engine.lastRequestID)
}

func TestRouter_Settle_RequiresToken(t *testing.T) {
	f := newAPIFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/api/wagers/settle", settleBody(t, "diamond-slots", "10.00", "req-1"))
	rec := f.do(req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, f.engine.calls)
}

func TestRouter_Settle_RejectsForgedToken(t *testing.T) {
	f := newAPIFixture(t)
	accountID := uuid.New()

	forged, err := IssueToken("wrong-secret", accountID, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/wagers/settle", settleBody(t, "diamond-slots", "10.00", "req-1"))
	req.Header.Set("Authorization", "Bearer "+forged)

	rec := f.do(req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, f.engine.calls)
}

func TestRouter_Settle_RejectsExpiredToken(t *testing.T) {
	f := newAPIFixture(t)
	accountID := uuid.New()

	expired, err := IssueToken(f.cfg.JWTSecret, accountID, -time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/wagers/settle", settleBody(t, "diamond-slots", "10.00", "req-1"))
	req.Header.Set("Authorization", "Bearer "+expired)

	rec := f.do(req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_Settle_InvalidBetAmounts(t *testing.T) {
	f := newAPIFixture(t)
	accountID := uuid.New()

	for _, amount := range []string{"0", "-5.00", "0.005", "ten dollars", ""} {
		req := httptest.NewRequest(http.MethodPost, "/api/wagers/settle", settleBody(t, "diamond-slots", amount, "req-1"))
		req.Header.Set("Authorization", f.bearerFor(t, accountID))

		rec := f.do(req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "amount %q", amount)
	}
	assert.Zero(t, f.engine.calls)
}

func TestRouter_Settle_MalformedBody(t *testing.T) {
	f := newAPIFixture(t)
	accountID := uuid.New()

	req := httptest.NewRequest(http.MethodPost, "/api/wagers/settle", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Authorization", f.bearerFor(t, accountID))

	rec := f.do(req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_Settle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "insufficient funds", err: entities.ErrInsufficientFunds, want: http.StatusPaymentRequired},
		{name: "unknown game", err: entities.ErrUnknownGame, want: http.StatusBadRequest},
		{name: "invalid request id", err: entities.ErrInvalidRequestID, want: http.StatusBadRequest},
		{name: "account not found", err: entities.ErrAccountNotFound, want: http.StatusNotFound},
		{name: "settlement failed", err: entities.ErrSettlementFailed, want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAPIFixture(t)
			f.engine.err = tt.err

			req := httptest.NewRequest(http.MethodPost, "/api/wagers/settle", settleBody(t, "diamond-slots", "10.00", "req-1"))
			req.Header.Set("Authorization", f.bearerFor(t, uuid.New()))

			rec := f.do(req)
			assert.Equal(t, tt.want, rec.Code)

			var resp errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestRouter_WalletBalance(t *testing.T) {
	f := newAPIFixture(t)
	accountID := uuid.New()
	f.queries.account = &entities.Account{ID: accountID, Balance: 97500}

	req := httptest.NewRequest(http.MethodGet, "/api/wallet/balance", nil)
	req.Header.Set("Authorization", f.bearerFor(t, accountID))

	rec := f.do(req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp BalanceResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, accountID.String(), resp.AccountID)
	assert.Equal(t, "975.00", resp.Balance)
}

func TestRouter_WalletHistory(t *testing.T) {
	f := newAPIFixture(t)
	accountID := uuid.New()
	f.queries.records = []*entities.PlayRecord{
		{
			GameID:    "diamond-slots",
			BetAmount: 1000,
			WinAmount: 2000,
			Outcome:   entities.Outcome{"🍒", "🍒", "🔔"},
			CreatedAt: time.Now(),
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/wallet/history?limit=5", nil)
	req.Header.Set("Authorization", f.bearerFor(t, accountID))

	rec := f.do(req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, f.queries.lastLimit)

	var resp struct {
		Data []PlayResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "10.00", resp.Data[0].BetAmount)
	assert.Equal(t, "20.00", resp.Data[0].WinAmount)
}

func TestRouter_WalletHistory_LimitClamped(t *testing.T) {
	f := newAPIFixture(t)
	accountID := uuid.New()
	f.queries.records = []*entities.PlayRecord{}

	req := httptest.NewRequest(http.MethodGet, "/api/wallet/history?limit=5000", nil)
	req.Header.Set("Authorization", f.bearerFor(t, accountID))

	rec := f.do(req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, maxHistoryLimit, f.queries.lastLimit)
}

func TestAccountIDFromContext(t *testing.T) {
	_, ok := AccountIDFromContext(context.Background())
	assert.False(t, ok)

	accountID := uuid.New()
	ctx := context.WithValue(context.Background(), accountIDKey, accountID)
	got, ok := AccountIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, accountID, got)
}
