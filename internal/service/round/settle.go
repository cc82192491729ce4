package round

import (
	"context"

	"casino_rounds/internal/model"
	"casino_rounds/internal/service/round/policy"
)

// Effect итог ставки для кошелька. Ставка уже списана при размещении,
// поэтому StakeDelta всегда -stake, а к зачислению идет только выплата.
func Effect(slot model.BetSlot, round model.Round, multiplier float64, status model.SlotStatus) model.LedgerEffect {
	payout := policy.Payout(slot.Stake, multiplier)
	return model.LedgerEffect{
		UserID:       slot.UserID,
		RoundID:      round.ID,
		Game:         round.Game,
		StakeDelta:   -slot.Stake,
		PayoutAmount: payout,
		Multiplier:   multiplier,
		Won:          status == model.SlotCashedOut || status == model.SlotSettledWon,
	}
}

// settle переводит слот в финальный статус. Выплата и запись ставки идут
// одной транзакцией, слот меняется только после ее успеха. Вызывается под e.mu.
func (e *Engine) settle(ctx context.Context, slot *model.BetSlot, multiplier float64, status model.SlotStatus) error {
	if slot.Status.Final() {
		return model.ErrAlreadySettled
	}

	effect := Effect(*slot, e.round, multiplier, status)
	if err := e.dispatch(ctx, slot.BetID, effect); err != nil {
		return err
	}

	slot.Status = status
	slot.ResultMultiplier = multiplier
	slot.Payout = effect.PayoutAmount
	return nil
}

// dispatch без повторов: ошибка кошелька уходит вызывающему
func (e *Engine) dispatch(ctx context.Context, betID string, effect model.LedgerEffect) error {
	// Остановка сервера не должна обрывать начатый расчет
	ctx = context.WithoutCancel(ctx)

	return e.tx.Do(ctx, func(ctx context.Context) error {
		if effect.PayoutAmount > 0 {
			if _, err := e.ledger.Credit(ctx, effect.UserID, effect.PayoutAmount); err != nil {
				return err
			}
		}
		return e.ledger.RecordBet(ctx, &model.BetRecord{
			ID:         betID,
			UserID:     effect.UserID,
			Game:       effect.Game,
			RoundID:    effect.RoundID,
			Stake:      -effect.StakeDelta,
			Multiplier: effect.Multiplier,
			Payout:     effect.PayoutAmount,
			Won:        effect.Won,
			CreatedAt:  e.now(),
		})
	})
}
