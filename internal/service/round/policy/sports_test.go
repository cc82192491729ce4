package policy

import (
	"testing"
	"time"

	"casino_rounds/internal/model"

	"github.com/stretchr/testify/require"
)

var testMatches = []model.Match{
	{ID: "match1", Team1: "Manchester United", Team2: "Liverpool", Odds1: 2.3, Odds2: 1.8, OddsDraw: 3.2},
	{ID: "match2", Team1: "Lakers", Team2: "Warriors", Odds1: 1.9, Odds2: 2.1},
}

func TestSportsDrawHalfChance(t *testing.T) {
	p := NewSports(testMatches)

	require.True(t, p.Draw(&fixedSource{floats: []float64{0.5}}).Hit)
	require.True(t, p.Draw(&fixedSource{floats: []float64{0.99}}).Hit)
	require.False(t, p.Draw(&fixedSource{floats: []float64{0.49}}).Hit)
	require.False(t, p.Draw(&fixedSource{floats: []float64{0}}).Hit)
}

func TestSportsResolvesOnFirstObservation(t *testing.T) {
	p := NewSports(testMatches)
	obs := p.Start(model.Outcome{Hit: true}).Observe(0)

	require.True(t, obs.Terminal)
	require.False(t, p.CashOutAllowed())
}

func TestSportsValidateSelection(t *testing.T) {
	sel := NewSports(testMatches).(Selective)

	require.NoError(t, sel.ValidateSelection(&model.Selection{MatchID: "match1", Pick: model.PickDraw}))
	require.NoError(t, sel.ValidateSelection(&model.Selection{MatchID: "match2", Pick: model.PickTeam2}))

	for name, s := range map[string]*model.Selection{
		"missing":       nil,
		"unknown match": {MatchID: "match9", Pick: model.PickTeam1},
		"no draw line":  {MatchID: "match2", Pick: model.PickDraw},
		"bad pick":      {MatchID: "match1", Pick: "home"},
	} {
		require.ErrorIs(t, sel.ValidateSelection(s), model.ErrInvalidSelection, name)
	}
}

func TestSportsSettleSlotPaysOdds(t *testing.T) {
	sel := NewSports(testMatches).(Selective)
	slot := model.BetSlot{Stake: 100, Selection: &model.Selection{MatchID: "match1", Pick: model.PickDraw}}

	mult, won := sel.SettleSlot(model.Outcome{Hit: true}, slot)
	require.True(t, won)
	require.InDelta(t, 3.2, mult, 1e-9)
	require.Equal(t, int64(320), Payout(slot.Stake, mult))

	mult, won = sel.SettleSlot(model.Outcome{Hit: false}, slot)
	require.False(t, won)
	require.Zero(t, mult)
}

func TestSportsObserveIgnoresElapsed(t *testing.T) {
	run := NewSports(testMatches).Start(model.Outcome{Hit: false})
	require.Equal(t, run.Observe(0), run.Observe(time.Hour))
}
