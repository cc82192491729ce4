package policy

import (
	"math"
	"time"

	"casino_rounds/internal/model"
)

// Полных оборотов перед остановкой на секторе
const wheelTurns = 8

type wheel struct {
	segments     []float64
	spinDuration time.Duration
}

// NewWheel колесо: сектор выбирается равномерно, угол вычисляется из индекса
func NewWheel(segments []float64, spinDuration time.Duration) GamePolicy {
	return &wheel{segments: segments, spinDuration: spinDuration}
}

func (w *wheel) Kind() model.GameKind {
	return model.GameWheel
}

func (w *wheel) Draw(src Source) model.Outcome {
	idx := src.IntN(len(w.segments))
	return model.Outcome{
		Index:      idx,
		Multiplier: w.segments[idx],
		Angle:      w.angle(idx),
	}
}

func (w *wheel) angle(idx int) float64 {
	return 360*wheelTurns + float64(idx)*(360/float64(len(w.segments)))
}

func (w *wheel) Start(outcome model.Outcome) Run {
	return wheelRun{outcome: outcome, duration: w.spinDuration}
}

func (w *wheel) CashOutAllowed() bool {
	return false
}

func (w *wheel) EndsWithoutLiveSlots() bool {
	return false
}

func (w *wheel) Settle(outcome model.Outcome, _ Observation) (float64, bool) {
	return outcome.Multiplier, outcome.Multiplier >= 1
}

type wheelRun struct {
	outcome  model.Outcome
	duration time.Duration
}

// Observe угол поворота, замедляется к концу вращения
func (r wheelRun) Observe(elapsed time.Duration) Observation {
	if r.duration <= 0 || elapsed >= r.duration {
		return Observation{Observable: r.outcome.Angle, Multiplier: r.outcome.Multiplier, Terminal: true}
	}
	if elapsed < 0 {
		elapsed = 0
	}
	p := float64(elapsed) / float64(r.duration)
	eased := 1 - math.Pow(1-p, 3)
	return Observation{Observable: r.outcome.Angle * eased}
}
