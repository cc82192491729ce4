package policy

import (
	"math"
	"time"

	"casino_rounds/internal/model"
)

// Band диапазон точки краша
type Band struct {
	Weight float64
	Min    float64
	Max    float64
}

type flight struct {
	growthRate float64
	bands      []Band
	total      float64
}

// NewFlight самолетик: множитель e^(k*t) растет до зафиксированной точки краша
func NewFlight(growthRate float64, bands []Band) GamePolicy {
	var total float64
	for _, b := range bands {
		total += b.Weight
	}
	return &flight{growthRate: growthRate, bands: bands, total: total}
}

func (f *flight) Kind() model.GameKind {
	return model.GameFlight
}

func (f *flight) Draw(src Source) model.Outcome {
	return model.Outcome{Multiplier: f.crashPoint(src)}
}

// crashPoint выбирает диапазон по весу, затем равномерно точку внутри него
func (f *flight) crashPoint(src Source) float64 {
	if len(f.bands) == 0 {
		return 1
	}
	u := src.Float64() * f.total
	band := f.bands[len(f.bands)-1]
	for _, b := range f.bands {
		if u < b.Weight {
			band = b
			break
		}
		u -= b.Weight
	}
	point := round2(band.Min + src.Float64()*(band.Max-band.Min))
	if point < 1 {
		point = 1
	}
	return point
}

func (f *flight) Start(outcome model.Outcome) Run {
	return flightRun{growthRate: f.growthRate, crash: outcome.Multiplier}
}

func (f *flight) CashOutAllowed() bool {
	return true
}

func (f *flight) EndsWithoutLiveSlots() bool {
	return false
}

func (f *flight) Settle(model.Outcome, Observation) (float64, bool) {
	return 0, false
}

type flightRun struct {
	growthRate float64
	crash      float64
}

// Observe зависит только от прошедшего времени и точки краша
func (r flightRun) Observe(elapsed time.Duration) Observation {
	m := GrowthMultiplier(r.growthRate, elapsed)
	if m >= r.crash {
		return Observation{Observable: r.crash, Multiplier: r.crash, Terminal: true}
	}
	return Observation{Observable: m, Multiplier: m}
}

// GrowthMultiplier e^(k*t) с точностью до сотых, округление вниз
func GrowthMultiplier(k float64, elapsed time.Duration) float64 {
	if elapsed < 0 {
		elapsed = 0
	}
	return floor2(math.Exp(k * elapsed.Seconds()))
}
