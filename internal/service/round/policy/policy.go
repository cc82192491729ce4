// Package policy описывает правила игр для движка раундов: розыгрыш исхода,
// функцию роста наблюдаемого значения, условие завершения и расчет выплаты.
package policy

import (
	"math"
	"time"

	"casino_rounds/internal/model"

	"github.com/shopspring/decimal"
)

// Source источник случайных чисел. Подходит *rand.Rand из math/rand/v2.
type Source interface {
	Float64() float64
	IntN(n int) int
	Int64() int64
}

// Observation значение раунда в конкретный момент времени
type Observation struct {
	Observable float64
	Multiplier float64
	Terminal   bool
	Race       *model.RaceView
}

// GamePolicy правила одной игры
type GamePolicy interface {
	Kind() model.GameKind
	// Draw вызывается ровно один раз при входе раунда в Running
	Draw(src Source) model.Outcome
	// Start создает вычислитель наблюдаемого значения для зафиксированного исхода
	Start(outcome model.Outcome) Run
	CashOutAllowed() bool
	// EndsWithoutLiveSlots завершает раунд, когда не осталось активных ставок
	EndsWithoutLiveSlots() bool
	// Settle итог для ставок, оставшихся в Placed на момент завершения
	Settle(outcome model.Outcome, last Observation) (multiplier float64, won bool)
}

// Run вычислитель наблюдаемого значения в пределах одного раунда
type Run interface {
	Observe(elapsed time.Duration) Observation
}

// Steerable раунд, в котором игрок может менять полосу
type Steerable interface {
	Steer(lane int) error
}

// Steering игра с управлением полосой
type Steering interface {
	Lanes() int
}

// Selective игра, в которой ставка содержит выбор игрока и итог зависит от него.
// Для таких игр движок рассчитывает слоты через SettleSlot вместо Settle.
type Selective interface {
	ValidateSelection(sel *model.Selection) error
	SettleSlot(outcome model.Outcome, slot model.BetSlot) (multiplier float64, won bool)
}

// Payout выплата по ставке, округляется вниз до целого
func Payout(stake int64, multiplier float64) int64 {
	if stake <= 0 || multiplier <= 0 {
		return 0
	}
	return decimal.NewFromInt(stake).
		Mul(decimal.NewFromFloat(multiplier)).
		Floor().
		IntPart()
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func floor2(v float64) float64 {
	return math.Floor(v*100+1e-9) / 100
}
