package round

import (
	"context"
	"errors"
	"fmt"

	"casino_rounds/internal/model"
	"casino_rounds/internal/service/round/policy"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Place ставка без выбора исхода
func (e *Engine) Place(ctx context.Context, userID, slotID int, stake int64, autoCashout *float64) (*model.BetSlot, error) {
	return e.Bet(ctx, userID, model.PlaceBet{
		Game:        e.policy.Kind(),
		SlotID:      slotID,
		Stake:       stake,
		AutoCashout: autoCashout,
	})
}

// Bet принимает ставку. Ставка списывается сразу, до создания слота.
func (e *Engine) Bet(ctx context.Context, userID int, bet model.PlaceBet) (*model.BetSlot, error) {
	slotID, stake, autoCashout := bet.SlotID, bet.Stake, bet.AutoCashout
	if stake <= 0 {
		return nil, model.ErrInvalidStake
	}
	if stake < e.table.MinStake {
		return nil, fmt.Errorf("%w: minimum is %d", model.ErrInvalidStake, e.table.MinStake)
	}
	if autoCashout != nil && *autoCashout <= 1 {
		return nil, fmt.Errorf("%w: auto cashout must be above 1.00", model.ErrInvalidStake)
	}
	if slotID < 0 || slotID >= e.table.SlotsPerPlayer {
		return nil, model.ErrInvalidSlot
	}
	var selection *model.Selection
	if sel, ok := e.policy.(policy.Selective); ok {
		if err := sel.ValidateSelection(bet.Selection); err != nil {
			return nil, err
		}
		s := *bet.Selection
		selection = &s
	} else if bet.Selection != nil {
		return nil, fmt.Errorf("%w: game has no selections", model.ErrInvalidSelection)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.usable(); err != nil {
		return nil, err
	}
	if e.round.Phase != model.PhaseAcceptingBets {
		return nil, model.ErrWrongPhase
	}
	key := slotKey{userID: userID, slotID: slotID}
	if _, ok := e.slots[key]; ok {
		return nil, model.ErrSlotOccupied
	}

	if _, err := e.ledger.Debit(ctx, userID, stake); err != nil {
		return nil, ledgerError(err)
	}

	slot := &model.BetSlot{
		UserID:      userID,
		SlotID:      slotID,
		Stake:       stake,
		AutoCashout: autoCashout,
		Status:      model.SlotPlaced,
		BetID:       uuid.NewString(),
		Selection:   selection,
	}
	e.slots[key] = slot
	e.order = append(e.order, key)

	now := e.now()
	e.lastBet = now
	if e.table.WaitForBets && e.round.Deadline.IsZero() {
		e.round.Deadline = now.Add(e.table.Countdown)
	}

	out := *slot
	return &out, nil
}

// Cancel снимает ставку до старта и возвращает ее сумму
func (e *Engine) Cancel(ctx context.Context, userID, slotID int) (*model.BetSlot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.usable(); err != nil {
		return nil, err
	}
	if e.round.Phase != model.PhaseAcceptingBets {
		return nil, model.ErrWrongPhase
	}
	key := slotKey{userID: userID, slotID: slotID}
	slot, ok := e.slots[key]
	if !ok {
		return nil, model.ErrSlotEmpty
	}

	if _, err := e.ledger.Credit(ctx, userID, slot.Stake); err != nil {
		return nil, ledgerError(err)
	}

	delete(e.slots, key)
	for i, k := range e.order {
		if k == key {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}

	out := *slot
	out.Status = model.SlotEmpty
	return &out, nil
}

// CashOut забирает ставку по множителю последнего обработанного тика.
// Проверка фазы и чтение множителя идут под той же блокировкой, что и тик.
func (e *Engine) CashOut(ctx context.Context, userID, slotID int) (*model.BetSlot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.usable(); err != nil {
		return nil, err
	}
	slot, ok := e.slots[slotKey{userID: userID, slotID: slotID}]
	if !ok {
		return nil, model.ErrSlotEmpty
	}
	if slot.Status.Final() {
		return nil, model.ErrAlreadySettled
	}
	if e.round.Phase != model.PhaseRunning || !e.policy.CashOutAllowed() {
		return nil, model.ErrWrongPhase
	}

	if err := e.settle(ctx, slot, e.round.Multiplier, model.SlotCashedOut); err != nil {
		e.halt(err)
		return nil, ledgerError(err)
	}

	out := *slot
	return &out, nil
}

// Steer меняет полосу в гонке
func (e *Engine) Steer(userID, lane int) error {
	steering, ok := e.policy.(policy.Steering)
	if !ok {
		return model.ErrSteerNotSupported
	}
	if lane < 0 || lane >= steering.Lanes() {
		return model.ErrInvalidLane
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.usable(); err != nil {
		return err
	}
	if e.round.Phase != model.PhaseRunning {
		return model.ErrWrongPhase
	}
	if !e.hasSlot(userID) {
		return model.ErrSlotEmpty
	}
	run, ok := e.run.(policy.Steerable)
	if !ok {
		return model.ErrSteerNotSupported
	}

	return run.Steer(lane)
}

// autoCashOut проверяет пороги на значении текущего тика.
// На тике краша срабатывают только пороги строго ниже точки краша, по значению порога.
func (e *Engine) autoCashOut(ctx context.Context, obs policy.Observation) error {
	for _, key := range e.order {
		slot := e.slots[key]
		if slot.Status != model.SlotPlaced || slot.AutoCashout == nil {
			continue
		}
		threshold := *slot.AutoCashout

		var mult float64
		switch {
		case !obs.Terminal && threshold <= obs.Multiplier:
			mult = obs.Multiplier
		case obs.Terminal && threshold < obs.Multiplier:
			mult = threshold
		default:
			continue
		}

		if err := e.settle(ctx, slot, mult, model.SlotCashedOut); err != nil {
			return err
		}
		e.log.Debug("auto cashout",
			zap.Int("user_id", slot.UserID),
			zap.Int("slot_id", slot.SlotID),
			zap.Float64("multiplier", mult),
		)
	}
	return nil
}

// usable ошибка, если стол больше не принимает команды. Вызывается под e.mu.
func (e *Engine) usable() error {
	if e.closed {
		return model.ErrTableClosed
	}
	if e.fault != nil {
		return model.ErrRoundHalted
	}
	return nil
}

func (e *Engine) hasSlot(userID int) bool {
	for key, slot := range e.slots {
		if key.userID == userID && slot.Status == model.SlotPlaced {
			return true
		}
	}
	return false
}

// ledgerError нехватка средств отдается как есть, остальное считается недоступностью кошелька
func ledgerError(err error) error {
	if errors.Is(err, model.ErrInsufficientFunds) {
		return model.ErrInsufficientFunds
	}
	return fmt.Errorf("%w: %v", model.ErrLedgerUnavailable, err)
}
