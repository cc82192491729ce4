package round

import (
	"context"
	"testing"
	"time"

	"casino_rounds/internal/config/env"
	"casino_rounds/internal/model"
	"casino_rounds/internal/repository/round_stats_repo"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type outcomeRepoMock struct {
	mock.Mock
}

func (m *outcomeRepoMock) Push(ctx context.Context, entry model.OutcomeEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *outcomeRepoMock) Recent(ctx context.Context, game model.GameKind, limit int) ([]model.OutcomeEntry, error) {
	args := m.Called(ctx, game, limit)
	entries, _ := args.Get(0).([]model.OutcomeEntry)
	return entries, args.Error(1)
}

func newTestService(t *testing.T, outcomes *outcomeRepoMock) (*serv, *fakeLedger) {
	t.Helper()
	ledger := newLedger(map[int]int64{1: 1000, 2: 1000})
	s := newService(
		env.DefaultGameConfig(),
		ledger,
		passTx{},
		outcomes,
		round_stats_repo.NewRoundStatsRepository(),
		zap.NewNop(),
		time.Now,
	)
	t.Cleanup(s.stop)
	return s, ledger
}

func TestServicePlaceOnSharedTable(t *testing.T) {
	s, ledger := newTestService(t, &outcomeRepoMock{})
	ctx := context.Background()

	// Общий стол открывает раунд на первом тике
	require.NoError(t, s.shared[model.GameFlight].Step(ctx, time.Now()))

	slot, err := s.Place(ctx, 1, model.PlaceBet{Game: model.GameFlight, SlotID: 0, Stake: 100})
	require.NoError(t, err)
	require.Equal(t, model.SlotPlaced, slot.Status)
	require.Equal(t, int64(900), ledger.balance(1))

	// Чужие ставки на общем столе не видны
	snap, err := s.Snapshot(2, model.GameFlight)
	require.NoError(t, err)
	require.Empty(t, snap.Slots)

	snap, err = s.Snapshot(1, model.GameFlight)
	require.NoError(t, err)
	require.Len(t, snap.Slots, 1)
	require.Equal(t, 1, snap.Slots[0].UserID)

	_, err = s.Cancel(ctx, 1, model.GameFlight, 0)
	require.NoError(t, err)
	require.Equal(t, int64(1000), ledger.balance(1))
}

func TestServiceUnknownGame(t *testing.T) {
	s, _ := newTestService(t, &outcomeRepoMock{})
	ctx := context.Background()

	_, err := s.Place(ctx, 1, model.PlaceBet{Game: "poker", Stake: 100})
	require.ErrorIs(t, err, model.ErrUnknownGame)

	_, err = s.History(ctx, "poker")
	require.ErrorIs(t, err, model.ErrUnknownGame)

	_, err = s.Stats(ctx, "poker")
	require.ErrorIs(t, err, model.ErrUnknownGame)
}

func TestServicePersonalRaceTables(t *testing.T) {
	s, _ := newTestService(t, &outcomeRepoMock{})

	a, err := s.table(1, model.GameRace)
	require.NoError(t, err)
	again, err := s.table(1, model.GameRace)
	require.NoError(t, err)
	b, err := s.table(2, model.GameRace)
	require.NoError(t, err)
	sports, err := s.table(1, model.GameSports)
	require.NoError(t, err)

	require.Same(t, a, again)
	require.NotSame(t, a, b)
	require.NotSame(t, a, sports)
	require.Equal(t, model.GameSports, sports.Game())

	// Простаивающие столы закрываются
	s.reap(0)
	s.mu.Lock()
	require.Empty(t, s.personal)
	s.mu.Unlock()
}

// acceptingBets ждет, пока личный стол откроет раунд
func acceptingBets(t *testing.T, s *serv, userID int, game model.GameKind) {
	t.Helper()
	require.Eventually(t, func() bool {
		snap, err := s.Snapshot(userID, game)
		return err == nil && snap.Phase == model.PhaseAcceptingBets && !snap.Closed
	}, time.Second, 5*time.Millisecond)
}

func TestServiceReplacesReapedPersonalTable(t *testing.T) {
	s, ledger := newTestService(t, &outcomeRepoMock{})
	ctx := context.Background()

	old, err := s.table(1, model.GameRace)
	require.NoError(t, err)
	acceptingBets(t, s, 1, model.GameRace)

	s.reap(0)
	require.Eventually(t, old.Closed, time.Second, 5*time.Millisecond)

	// Стол, выданный до закрытия, ставок не принимает и денег не списывает
	_, err = old.Place(ctx, 1, 0, 100, nil)
	require.ErrorIs(t, err, model.ErrTableClosed)
	require.Equal(t, int64(1000), ledger.balance(1))

	acceptingBets(t, s, 1, model.GameRace)
	slot, err := s.Place(ctx, 1, model.PlaceBet{Game: model.GameRace, Stake: 100})
	require.NoError(t, err)
	require.Equal(t, model.SlotPlaced, slot.Status)
	require.Equal(t, int64(900), ledger.balance(1))

	fresh, err := s.table(1, model.GameRace)
	require.NoError(t, err)
	require.NotSame(t, old, fresh)
	require.False(t, fresh.Closed())
}

func TestServiceRetriesCommandOnClosedTable(t *testing.T) {
	s, _ := newTestService(t, &outcomeRepoMock{})

	var seen []*Engine
	err := s.onTable(1, model.GameRace, func(e *Engine) error {
		seen = append(seen, e)
		if len(seen) == 1 {
			require.NoError(t, e.Close(context.Background()))
			return model.ErrTableClosed
		}
		return nil
	})
	require.NoError(t, err)
	require.Len(t, seen, 2)
	require.NotSame(t, seen[0], seen[1])

	// Общий стол не пересоздается
	calls := 0
	err = s.onTable(1, model.GameFlight, func(*Engine) error {
		calls++
		return model.ErrTableClosed
	})
	require.ErrorIs(t, err, model.ErrTableClosed)
	require.Equal(t, 1, calls)
}

func TestServiceSportsBet(t *testing.T) {
	outcomes := &outcomeRepoMock{}
	s, ledger := newTestService(t, outcomes)
	ctx := context.Background()

	require.Len(t, s.Matches(), 3)

	acceptingBets(t, s, 1, model.GameSports)
	_, err := s.Place(ctx, 1, model.PlaceBet{Game: model.GameSports, Stake: 100})
	require.ErrorIs(t, err, model.ErrInvalidSelection)

	slot, err := s.Place(ctx, 1, model.PlaceBet{
		Game:      model.GameSports,
		Stake:     100,
		Selection: &model.Selection{MatchID: "match1", Pick: model.PickTeam1},
	})
	require.NoError(t, err)
	require.Equal(t, "match1", slot.Selection.MatchID)
	require.Equal(t, int64(900), ledger.balance(1))

	// Раунд ставки на матч не попадает в ленту исходов
	require.Eventually(t, func() bool {
		snap, err := s.Snapshot(1, model.GameSports)
		return err == nil && snap.Phase == model.PhaseResolved
	}, 3*time.Second, 10*time.Millisecond)
	outcomes.AssertNotCalled(t, "Push", mock.Anything, mock.Anything)

	snap, err := s.Snapshot(1, model.GameSports)
	require.NoError(t, err)
	require.Len(t, snap.Slots, 1)
	require.True(t, snap.Slots[0].Status.Final())
}

func TestServiceSteerRequiresRunningRace(t *testing.T) {
	s, _ := newTestService(t, &outcomeRepoMock{})
	require.ErrorIs(t, s.Steer(context.Background(), 1, 0), model.ErrWrongPhase)
}

func TestServiceHistoryAndStats(t *testing.T) {
	outcomes := &outcomeRepoMock{}
	s, _ := newTestService(t, outcomes)
	ctx := context.Background()

	recent := []model.OutcomeEntry{{RoundID: "r1", Game: model.GameFlight, Multiplier: 2.5, Band: "blue"}}
	outcomes.On("Recent", mock.Anything, model.GameFlight, historyLimit).Return(recent, nil).Once()

	got, err := s.History(ctx, model.GameFlight)
	require.NoError(t, err)
	require.Equal(t, recent, got)

	outcomes.On("Push", mock.Anything, mock.MatchedBy(func(e model.OutcomeEntry) bool {
		return e.RoundID == "r2" && e.Game == model.GameWheel && e.Multiplier == 10 && e.Band == "green"
	})).Return(nil).Once()

	s.recordResolution(ctx, Resolution{
		Round: model.Round{ID: "r2", Game: model.GameWheel, Multiplier: 10},
		Slots: []model.BetSlot{
			{UserID: 1, Stake: 100, Payout: 1000, Status: model.SlotSettledWon},
			{UserID: 2, Stake: 100, Payout: 0, Status: model.SlotSettledLost},
		},
	})

	st, err := s.Stats(ctx, model.GameWheel)
	require.NoError(t, err)
	require.Equal(t, 2, st.TotalBets)
	require.InDelta(t, 500.0, st.CurrentRTP, 1e-9)

	outcomes.AssertExpectations(t)
}

func TestBand(t *testing.T) {
	require.Equal(t, "red", Band(1.99))
	require.Equal(t, "blue", Band(2))
	require.Equal(t, "purple", Band(9.99))
	require.Equal(t, "green", Band(10))
}
