// Package round движок раундов: часы, машина состояний, ставки и расчет.
// Один Engine обслуживает один стол одной игры.
package round

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	mrand "math/rand/v2"
	"sync"
	"time"

	"casino_rounds/internal/config"
	"casino_rounds/internal/model"
	"casino_rounds/internal/service"
	"casino_rounds/internal/service/round/policy"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultTick = 100 * time.Millisecond

// Transactor выполняет fn в одной транзакции. Подходит trm.Manager.
type Transactor interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Resolution итог завершенного раунда
type Resolution struct {
	Round model.Round
	Slots []model.BetSlot
}

type EngineDeps struct {
	Policy policy.GamePolicy
	Table  config.TableConfig
	Ledger service.LedgerService
	Tx     Transactor
	Log    *zap.Logger
	// Now и Source подменяются в тестах
	Now        func() time.Time
	Source     policy.Source
	OnResolved func(ctx context.Context, res Resolution)
}

type slotKey struct {
	userID int
	slotID int
}

type Engine struct {
	mu sync.Mutex

	policy     policy.GamePolicy
	table      config.TableConfig
	ledger     service.LedgerService
	tx         Transactor
	log        *zap.Logger
	now        func() time.Time
	src        policy.Source
	onResolved func(ctx context.Context, res Resolution)

	round   model.Round
	run     policy.Run
	last    policy.Observation
	slots   map[slotKey]*model.BetSlot
	order   []slotKey
	fault   error
	closed  bool
	lastBet time.Time

	subMu   sync.Mutex
	subs    map[int]subscriber
	nextSub int
}

func NewEngine(deps EngineDeps) *Engine {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Source == nil {
		deps.Source = newSource()
	}
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}

	e := &Engine{
		policy:     deps.Policy,
		table:      deps.Table,
		ledger:     deps.Ledger,
		tx:         deps.Tx,
		log:        deps.Log.With(zap.String("game", string(deps.Policy.Kind()))),
		now:        deps.Now,
		src:        deps.Source,
		onResolved: deps.OnResolved,
		round:      model.Round{Game: deps.Policy.Kind(), Phase: model.PhaseIdle},
		slots:      make(map[slotKey]*model.BetSlot),
		subs:       make(map[int]subscriber),
	}
	e.lastBet = e.now()

	return e
}

// newSource ChaCha8 с зерном из crypto/rand
func newSource() *mrand.Rand {
	var seed [32]byte
	if _, err := rand.Read(seed[:]); err != nil {
		panic("failed to seed outcome generator: " + err.Error())
	}
	return mrand.New(mrand.NewChaCha8(seed))
}

func (e *Engine) Game() model.GameKind {
	return e.policy.Kind()
}

// Run двигает часы стола с фиксированным интервалом. При отмене ctx стол
// закрывается через Close. Возвращает ошибку, если стол остановлен из-за сбоя расчета.
func (e *Engine) Run(ctx context.Context) error {
	defer e.closeSubscribers()

	tick := e.table.Tick
	if tick <= 0 {
		tick = defaultTick
	}
	t := time.NewTicker(tick)
	defer t.Stop()

	for {
		if err := e.Step(ctx, e.now()); err != nil {
			// Стол закрыли снаружи, возврат ставок уже сделал Close
			if errors.Is(err, model.ErrTableClosed) {
				return nil
			}
			return err
		}
		select {
		case <-ctx.Done():
			return e.Close(ctx)
		case <-t.C:
		}
	}
}

// Step один тик часов. Тик выполняется целиком под блокировкой,
// поэтому команды игроков не могут вклиниться между его частями.
func (e *Engine) Step(ctx context.Context, now time.Time) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return model.ErrTableClosed
	}
	if e.fault != nil {
		fault := e.fault
		e.mu.Unlock()
		return fault
	}

	var res *Resolution
	switch e.round.Phase {
	case model.PhaseIdle:
		e.openRound(now)
	case model.PhaseAcceptingBets:
		if e.round.Deadline.IsZero() || now.Before(e.round.Deadline) {
			break
		}
		if e.table.WaitForBets && !e.hasLive() {
			// Все ставки отменены, ждем следующую
			e.round.Deadline = time.Time{}
			break
		}
		e.startRound(now)
		res = e.advance(ctx, now)
	case model.PhaseRunning:
		res = e.advance(ctx, now)
	case model.PhaseResolved:
		if now.Before(e.round.Deadline) {
			break
		}
		e.openRound(now)
	}

	snap := e.snapshotLocked(now)
	fault := e.fault
	e.mu.Unlock()

	e.broadcast(snap)
	if res != nil && e.onResolved != nil {
		e.onResolved(ctx, *res)
	}

	return fault
}

func (e *Engine) openRound(now time.Time) {
	e.slots = make(map[slotKey]*model.BetSlot)
	e.order = nil
	e.run = nil
	e.last = policy.Observation{}
	e.round = model.Round{
		ID:    uuid.NewString(),
		Game:  e.policy.Kind(),
		Phase: model.PhaseAcceptingBets,
	}
	if !e.table.WaitForBets {
		e.round.Deadline = now.Add(e.table.Countdown)
	}

	e.log.Debug("round opened", zap.String("round_id", e.round.ID))
}

// startRound фиксирует исход до первого вычисления наблюдаемого значения
func (e *Engine) startRound(now time.Time) {
	outcome := e.policy.Draw(e.src)
	e.round.Outcome = &outcome
	e.run = e.policy.Start(outcome)
	e.round.StartedAt = now
	e.round.Deadline = time.Time{}
	e.round.Phase = model.PhaseRunning

	e.log.Debug("round started", zap.String("round_id", e.round.ID), zap.Int("slots", len(e.order)))
}

// advance вычисляет значение тика, затем автокэшаут, затем условие завершения
func (e *Engine) advance(ctx context.Context, now time.Time) *Resolution {
	obs := e.run.Observe(now.Sub(e.round.StartedAt))
	e.round.Ticks++
	e.round.Observable = obs.Observable
	e.round.Multiplier = obs.Multiplier
	e.round.Race = obs.Race
	e.last = obs

	if e.policy.CashOutAllowed() {
		if err := e.autoCashOut(ctx, obs); err != nil {
			e.halt(err)
			return nil
		}
	}

	if obs.Terminal || (e.policy.EndsWithoutLiveSlots() && !e.hasLive()) {
		return e.resolve(ctx, now)
	}
	return nil
}

// resolve рассчитывает все ставки, оставшиеся в Placed
func (e *Engine) resolve(ctx context.Context, now time.Time) *Resolution {
	e.round.Phase = model.PhaseResolved

	for _, key := range e.order {
		slot := e.slots[key]
		if slot.Status != model.SlotPlaced {
			continue
		}
		mult, won := e.result(slot)
		status := model.SlotSettledLost
		if won {
			status = model.SlotSettledWon
		}
		if err := e.settle(ctx, slot, mult, status); err != nil {
			e.halt(err)
			return nil
		}
	}

	e.round.Deadline = now.Add(e.table.Cooldown)
	e.log.Debug("round resolved",
		zap.String("round_id", e.round.ID),
		zap.Float64("multiplier", e.round.Multiplier),
		zap.Int("ticks", e.round.Ticks),
	)

	res := Resolution{Round: e.round, Slots: e.slotList()}
	outcome := *e.round.Outcome
	res.Round.Outcome = &outcome
	return &res
}

// result итог слота, оставшегося в Placed к завершению раунда
func (e *Engine) result(slot *model.BetSlot) (float64, bool) {
	if sel, ok := e.policy.(policy.Selective); ok {
		return sel.SettleSlot(*e.round.Outcome, *slot)
	}
	return e.policy.Settle(*e.round.Outcome, e.last)
}

// Close закрывает стол: ставки в Placed возвращаются игрокам с записью в историю,
// дальше команды получают ErrTableClosed. Повторный вызов ничего не делает.
func (e *Engine) Close(ctx context.Context) error {
	// Возврат должен дойти до кошелька и при остановке сервера
	ctx = context.WithoutCancel(ctx)

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true

	var err error
	if e.fault == nil {
		err = e.refundLive(ctx)
	}
	snap := e.snapshotLocked(e.now())
	e.mu.Unlock()

	e.broadcast(snap)
	return err
}

func (e *Engine) refundLive(ctx context.Context) error {
	refunded := 0
	for _, key := range e.order {
		slot := e.slots[key]
		if slot.Status != model.SlotPlaced {
			continue
		}
		if err := e.settle(ctx, slot, 1, model.SlotRefunded); err != nil {
			e.halt(err)
			return e.fault
		}
		refunded++
	}
	if refunded > 0 {
		e.log.Info("table closed, bets refunded",
			zap.String("round_id", e.round.ID),
			zap.String("phase", string(e.round.Phase)),
			zap.Int("refunded", refunded),
		)
	}
	return nil
}

// Closed true после Close
func (e *Engine) Closed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closed
}

// halt останавливает стол. Дальше он не принимает команды и не тикает.
func (e *Engine) halt(err error) {
	e.fault = fmt.Errorf("%w: %v", model.ErrRoundHalted, err)
	e.log.Error("round engine halted",
		zap.String("round_id", e.round.ID),
		zap.String("phase", string(e.round.Phase)),
		zap.Error(err),
	)
}

// Fault ошибка, из-за которой стол остановлен
func (e *Engine) Fault() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.fault
}

// IdleFor сколько стол простаивает без ставок
func (e *Engine) IdleFor(now time.Time) time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.round.Phase == model.PhaseRunning || e.hasLive() {
		return 0
	}
	return now.Sub(e.lastBet)
}

func (e *Engine) hasLive() bool {
	for _, slot := range e.slots {
		if slot.Status == model.SlotPlaced {
			return true
		}
	}
	return false
}

func (e *Engine) slotList() []model.BetSlot {
	out := make([]model.BetSlot, 0, len(e.order))
	for _, key := range e.order {
		out = append(out, *e.slots[key])
	}
	return out
}
