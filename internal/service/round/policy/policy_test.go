package policy

import (
	"math/rand/v2"
	"testing"
	"time"

	"casino_rounds/internal/model"

	"github.com/stretchr/testify/require"
)

// fixedSource отдает заранее заданные значения
type fixedSource struct {
	floats []float64
	ints   []int
	seed   int64
}

func (s *fixedSource) Float64() float64 {
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

func (s *fixedSource) IntN(int) int {
	v := s.ints[0]
	s.ints = s.ints[1:]
	return v
}

func (s *fixedSource) Int64() int64 {
	return s.seed
}

var testBands = []Band{
	{Weight: 0.33, Min: 1.00, Max: 1.50},
	{Weight: 0.33, Min: 1.50, Max: 3.00},
	{Weight: 0.24, Min: 3.00, Max: 7.00},
	{Weight: 0.10, Min: 7.00, Max: 20.00},
}

var testSegments = []float64{0.5, 2.0, 1.0, 0.2, 3.0, 0.1, 1.5, 5.0, 0.3, 10.0, 0.7, 1.2}

func TestPayout(t *testing.T) {
	require.Equal(t, int64(125), Payout(100, 1.25))
	require.Equal(t, int64(50), Payout(100, 0.5))
	require.Equal(t, int64(133), Payout(57, 2.34)) // 133.38
	require.Equal(t, int64(0), Payout(100, 0))
	require.Equal(t, int64(0), Payout(0, 2))
}

func TestFlightDrawPicksBand(t *testing.T) {
	f := NewFlight(0.15, testBands)

	out := f.Draw(&fixedSource{floats: []float64{0.10, 0.5}})
	require.Equal(t, 1.25, out.Multiplier)

	out = f.Draw(&fixedSource{floats: []float64{0.95, 0}})
	require.Equal(t, 7.0, out.Multiplier)
}

func TestFlightDrawStaysInRange(t *testing.T) {
	f := NewFlight(0.15, testBands)
	rnd := rand.New(rand.NewPCG(7, 11))
	for i := 0; i < 5000; i++ {
		m := f.Draw(rnd).Multiplier
		require.GreaterOrEqual(t, m, 1.0)
		require.LessOrEqual(t, m, 20.0)
	}
}

func TestFlightGrowthAndTerminal(t *testing.T) {
	f := NewFlight(0.15, testBands)
	run := f.Start(model.Outcome{Multiplier: 1.5})

	obs := run.Observe(0)
	require.Equal(t, 1.0, obs.Multiplier)
	require.False(t, obs.Terminal)

	obs = run.Observe(time.Second)
	require.Equal(t, 1.16, obs.Multiplier) // e^0.15 = 1.1618
	require.False(t, obs.Terminal)

	// e^(0.15*2.7) = 1.4993
	obs = run.Observe(2700 * time.Millisecond)
	require.Equal(t, 1.49, obs.Multiplier)
	require.False(t, obs.Terminal)

	// наблюдаемое значение не превышает точку краша
	obs = run.Observe(10 * time.Second)
	require.True(t, obs.Terminal)
	require.Equal(t, 1.5, obs.Multiplier)
}

func TestFlightGrowthMonotonic(t *testing.T) {
	prev := 0.0
	for ms := 0; ms < 20000; ms += 50 {
		m := GrowthMultiplier(0.15, time.Duration(ms)*time.Millisecond)
		require.GreaterOrEqual(t, m, prev)
		prev = m
	}
}

func TestWheelDrawAndAngle(t *testing.T) {
	w := NewWheel(testSegments, 4*time.Second)

	out := w.Draw(&fixedSource{ints: []int{0}})
	require.Equal(t, 0.5, out.Multiplier)
	require.Equal(t, 2880.0, out.Angle)

	out = w.Draw(&fixedSource{ints: []int{9}})
	require.Equal(t, 10.0, out.Multiplier)
	require.Equal(t, 9, out.Index)
	require.Equal(t, 2880.0+270, out.Angle)
}

func TestWheelSpin(t *testing.T) {
	w := NewWheel(testSegments, 4*time.Second)
	out := model.Outcome{Index: 0, Multiplier: 0.5, Angle: 2880}
	run := w.Start(out)

	mid := run.Observe(2 * time.Second)
	require.False(t, mid.Terminal)
	require.Greater(t, mid.Observable, 1440.0)
	require.Less(t, mid.Observable, 2880.0)

	end := run.Observe(4 * time.Second)
	require.True(t, end.Terminal)
	require.Equal(t, 2880.0, end.Observable)

	mult, won := w.Settle(out, end)
	require.Equal(t, 0.5, mult)
	require.False(t, won)
	require.Equal(t, int64(50), Payout(100, mult))

	mult, won = w.Settle(model.Outcome{Multiplier: 1.0}, end)
	require.Equal(t, 1.0, mult)
	require.True(t, won)

	require.False(t, w.CashOutAllowed())
}

func TestRaceDeterministicForSeed(t *testing.T) {
	r := NewRace(100*time.Millisecond, 0.25, 3)
	out := model.Outcome{Seed: 42}

	a := r.Start(out)
	b := r.Start(out)
	for i := 1; i <= 200; i++ {
		elapsed := time.Duration(i) * 100 * time.Millisecond
		oa := a.Observe(elapsed)
		ob := b.Observe(elapsed)
		require.Equal(t, oa, ob)
		if oa.Terminal {
			break
		}
	}
}

func TestRaceMultiplierGrows(t *testing.T) {
	r := NewRace(100*time.Millisecond, 0, 3)
	run := r.Start(model.Outcome{Seed: 1})

	obs := run.Observe(0)
	require.Equal(t, 1.0, obs.Multiplier)

	obs = run.Observe(time.Second)
	require.Equal(t, 1.1, obs.Multiplier)
	require.Equal(t, 50.0, obs.Observable)
	require.False(t, obs.Terminal)
	require.Empty(t, obs.Race.Obstacles)
}

func TestRaceCollisionEndsRun(t *testing.T) {
	r := NewRace(100*time.Millisecond, 1, 1)
	run := r.Start(model.Outcome{Seed: 3})

	// одна полоса, препятствия появляются каждый тик: столкновение неизбежно
	var obs Observation
	for i := 1; i <= 100 && !obs.Terminal; i++ {
		obs = run.Observe(time.Duration(i) * 100 * time.Millisecond)
	}
	require.True(t, obs.Terminal)

	after := run.Observe(time.Minute)
	require.Equal(t, obs.Multiplier, after.Multiplier)
}

func TestRaceSteer(t *testing.T) {
	r := NewRace(100*time.Millisecond, 0.25, 3)
	run := r.Start(model.Outcome{Seed: 5})

	s, ok := run.(Steerable)
	require.True(t, ok)
	require.NoError(t, s.Steer(2))
	require.ErrorIs(t, s.Steer(3), model.ErrInvalidLane)
	require.ErrorIs(t, s.Steer(-1), model.ErrInvalidLane)

	obs := run.Observe(0)
	require.Equal(t, 2, obs.Race.Lane)
}
