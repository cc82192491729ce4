package round

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	dto "casino_rounds/internal/api/dto/round"
	"casino_rounds/internal/middleware"
	"casino_rounds/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type roundServiceMock struct {
	mock.Mock
}

func (m *roundServiceMock) Place(ctx context.Context, userID int, bet model.PlaceBet) (*model.BetSlot, error) {
	args := m.Called(ctx, userID, bet)
	slot, _ := args.Get(0).(*model.BetSlot)
	return slot, args.Error(1)
}

func (m *roundServiceMock) Cancel(ctx context.Context, userID int, game model.GameKind, slotID int) (*model.BetSlot, error) {
	args := m.Called(ctx, userID, game, slotID)
	slot, _ := args.Get(0).(*model.BetSlot)
	return slot, args.Error(1)
}

func (m *roundServiceMock) CashOut(ctx context.Context, userID int, game model.GameKind, slotID int) (*model.BetSlot, error) {
	args := m.Called(ctx, userID, game, slotID)
	slot, _ := args.Get(0).(*model.BetSlot)
	return slot, args.Error(1)
}

func (m *roundServiceMock) Steer(ctx context.Context, userID int, lane int) error {
	return m.Called(ctx, userID, lane).Error(0)
}

func (m *roundServiceMock) Snapshot(userID int, game model.GameKind) (*model.Snapshot, error) {
	args := m.Called(userID, game)
	snap, _ := args.Get(0).(*model.Snapshot)
	return snap, args.Error(1)
}

func (m *roundServiceMock) Subscribe(userID int, game model.GameKind) (<-chan model.Snapshot, func(), error) {
	args := m.Called(userID, game)
	ch, _ := args.Get(0).(chan model.Snapshot)
	cancel, _ := args.Get(1).(func())
	return ch, cancel, args.Error(2)
}

func (m *roundServiceMock) History(ctx context.Context, game model.GameKind) ([]model.OutcomeEntry, error) {
	args := m.Called(ctx, game)
	entries, _ := args.Get(0).([]model.OutcomeEntry)
	return entries, args.Error(1)
}

func (m *roundServiceMock) Stats(ctx context.Context, game model.GameKind) (*model.GameStats, error) {
	args := m.Called(ctx, game)
	stats, _ := args.Get(0).(*model.GameStats)
	return stats, args.Error(1)
}

func (m *roundServiceMock) Matches() []model.Match {
	matches, _ := m.Called().Get(0).([]model.Match)
	return matches
}

func (m *roundServiceMock) Run(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// router роуты как в приложении, но вместо JWT пользователь подставляется напрямую
func router(serv *roundServiceMock, userID int) http.Handler {
	h := NewHandler(HandlerDeps{Serv: serv, Log: zap.NewNop()})

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(middleware.WithUserID(r.Context(), userID)))
		})
	})
	r.Post("/rounds/race/steer", h.Steer)
	r.Get("/rounds/{game}", h.Snapshot)
	r.Get("/rounds/{game}/stream", h.Stream)
	r.Get("/rounds/sports/matches", h.Matches)
	r.Get("/rounds/{game}/history", h.History)
	r.Post("/rounds/{game}/bets", h.PlaceBet)
	r.Delete("/rounds/{game}/bets/{slot}", h.CancelBet)
	r.Post("/rounds/{game}/bets/{slot}/cashout", h.CashOut)
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, path, nil)
	} else {
		r = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func TestPlaceBet(t *testing.T) {
	serv := &roundServiceMock{}
	auto := 2.0
	serv.On("Place", mock.Anything, 5, model.PlaceBet{
		Game: model.GameFlight, SlotID: 1, Stake: 100, AutoCashout: &auto,
	}).Return(&model.BetSlot{UserID: 5, SlotID: 1, Stake: 100, AutoCashout: &auto, Status: model.SlotPlaced}, nil)

	w := do(t, router(serv, 5), http.MethodPost, "/rounds/flight/bets", `{"slot":1,"stake":100,"auto_cashout":2}`)

	require.Equal(t, http.StatusCreated, w.Code)
	var got dto.SlotResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	require.Equal(t, "placed", got.Status)
	require.Equal(t, int64(100), got.Stake)
	serv.AssertExpectations(t)
}

func TestPlaceBet_SportsSelection(t *testing.T) {
	serv := &roundServiceMock{}
	sel := &model.Selection{MatchID: "match1", Pick: model.PickDraw}
	serv.On("Place", mock.Anything, 5, model.PlaceBet{
		Game: model.GameSports, Stake: 100, Selection: sel,
	}).Return(&model.BetSlot{UserID: 5, Stake: 100, Selection: sel, Status: model.SlotPlaced}, nil)

	w := do(t, router(serv, 5), http.MethodPost, "/rounds/sports/bets", `{"stake":100,"match_id":"match1","pick":"draw"}`)

	require.Equal(t, http.StatusCreated, w.Code)
	var got dto.SlotResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	require.NotNil(t, got.Selection)
	require.Equal(t, "match1", got.Selection.MatchID)
	require.Equal(t, "draw", got.Selection.Pick)
	serv.AssertExpectations(t)
}

func TestMatches(t *testing.T) {
	serv := &roundServiceMock{}
	serv.On("Matches").Return([]model.Match{
		{ID: "match2", Sport: "basketball", Team1: "Lakers", Team2: "Warriors", Odds1: 1.9, Odds2: 2.1},
	})

	w := do(t, router(serv, 5), http.MethodGet, "/rounds/sports/matches", "")

	require.Equal(t, http.StatusOK, w.Code)
	var got []dto.MatchResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	require.Len(t, got, 1)
	require.Equal(t, "Lakers", got[0].Team1)
	require.Zero(t, got[0].OddsDraw)
}

func TestPlaceBet_BadBody(t *testing.T) {
	serv := &roundServiceMock{}
	w := do(t, router(serv, 5), http.MethodPost, "/rounds/flight/bets", `{"slot":1,"amount":100}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	serv.AssertNotCalled(t, "Place", mock.Anything, mock.Anything, mock.Anything)
}

func TestPlaceBet_ErrorStatuses(t *testing.T) {
	cases := map[error]int{
		model.ErrInsufficientFunds: http.StatusPaymentRequired,
		model.ErrWrongPhase:        http.StatusConflict,
		model.ErrInvalidStake:      http.StatusBadRequest,
		model.ErrLedgerUnavailable: http.StatusServiceUnavailable,
	}
	for err, status := range cases {
		serv := &roundServiceMock{}
		serv.On("Place", mock.Anything, 5, mock.Anything).Return(nil, err)

		w := do(t, router(serv, 5), http.MethodPost, "/rounds/flight/bets", `{"slot":0,"stake":10}`)
		require.Equal(t, status, w.Code, err.Error())
	}
}

func TestCancelAndCashOut(t *testing.T) {
	serv := &roundServiceMock{}
	serv.On("Cancel", mock.Anything, 5, model.GameWheel, 0).
		Return(&model.BetSlot{SlotID: 0, Status: model.SlotEmpty}, nil)
	serv.On("CashOut", mock.Anything, 5, model.GameFlight, 1).
		Return(&model.BetSlot{SlotID: 1, Status: model.SlotCashedOut, ResultMultiplier: 1.5, Payout: 150}, nil)
	h := router(serv, 5)

	w := do(t, h, http.MethodDelete, "/rounds/wheel/bets/0", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, h, http.MethodPost, "/rounds/flight/bets/1/cashout", "")
	require.Equal(t, http.StatusOK, w.Code)
	var got dto.SlotResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	require.Equal(t, int64(150), got.Payout)

	w = do(t, h, http.MethodPost, "/rounds/flight/bets/x/cashout", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	serv.AssertExpectations(t)
}

func TestSteer(t *testing.T) {
	serv := &roundServiceMock{}
	serv.On("Steer", mock.Anything, 5, 2).Return(nil)
	serv.On("Steer", mock.Anything, 5, 7).Return(model.ErrInvalidLane)
	h := router(serv, 5)

	require.Equal(t, http.StatusNoContent, do(t, h, http.MethodPost, "/rounds/race/steer", `{"lane":2}`).Code)
	require.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/rounds/race/steer", `{"lane":7}`).Code)
}

func TestSnapshot_HidesOutcomeUntilResolved(t *testing.T) {
	serv := &roundServiceMock{}
	serv.On("Snapshot", 5, model.GameFlight).Return(&model.Snapshot{
		RoundID: "r1", Game: model.GameFlight, Phase: model.PhaseRunning, Observable: 1.2, Multiplier: 1.2,
	}, nil)
	serv.On("Snapshot", 5, model.GameKind("poker")).Return(nil, model.ErrUnknownGame)
	h := router(serv, 5)

	w := do(t, h, http.MethodGet, "/rounds/flight", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NotContains(t, w.Body.String(), `"outcome"`)

	w = do(t, h, http.MethodGet, "/rounds/poker", "")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestHistory(t *testing.T) {
	serv := &roundServiceMock{}
	serv.On("History", mock.Anything, model.GameFlight).Return([]model.OutcomeEntry{
		{RoundID: "r1", Multiplier: 3.4, Band: "blue"},
	}, nil)

	w := do(t, router(serv, 5), http.MethodGet, "/rounds/flight/history", "")
	require.Equal(t, http.StatusOK, w.Code)
	var got []dto.OutcomeEntryResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	require.Len(t, got, 1)
	require.Equal(t, "blue", got[0].Band)
}

func TestStream(t *testing.T) {
	serv := &roundServiceMock{}
	ch := make(chan model.Snapshot, 1)
	cancelled := make(chan struct{})
	serv.On("Subscribe", 5, model.GameFlight).Return(ch, func() { close(cancelled) }, nil)
	serv.On("Snapshot", 5, model.GameFlight).Return(&model.Snapshot{RoundID: "r1", Phase: model.PhaseAcceptingBets}, nil)

	srv := httptest.NewServer(router(serv, 5))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/rounds/flight/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	var first dto.SnapshotResponse
	require.NoError(t, conn.ReadJSON(&first))
	require.Equal(t, "accepting_bets", first.Phase)

	ch <- model.Snapshot{RoundID: "r1", Phase: model.PhaseRunning, Observable: 1.05}
	var next dto.SnapshotResponse
	require.NoError(t, conn.ReadJSON(&next))
	require.Equal(t, "running", next.Phase)
	require.InDelta(t, 1.05, next.Observable, 1e-9)

	require.NoError(t, conn.Close())
	select {
	case <-cancelled:
	case <-time.After(2 * time.Second):
		t.Fatal("subscription was not cancelled")
	}
}
