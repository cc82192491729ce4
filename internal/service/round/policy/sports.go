package policy

import (
	"fmt"
	"time"

	"casino_rounds/internal/model"
)

// Вероятность, что ставка на матч сыграет, не зависит от выбора
const sportsHitChance = 0.5

type sports struct {
	matches []model.Match
	byID    map[string]model.Match
}

// NewSports ставки на матчи из линии. Раунд завершается на первом тике:
// исход один на раунд, выплата stake * коэффициент выбранного исхода.
func NewSports(matches []model.Match) GamePolicy {
	byID := make(map[string]model.Match, len(matches))
	for _, m := range matches {
		byID[m.ID] = m
	}
	return &sports{matches: matches, byID: byID}
}

func (p *sports) Kind() model.GameKind {
	return model.GameSports
}

func (p *sports) Draw(src Source) model.Outcome {
	return model.Outcome{Hit: src.Float64() >= 1-sportsHitChance}
}

func (p *sports) Start(outcome model.Outcome) Run {
	return sportsRun{outcome: outcome}
}

func (p *sports) CashOutAllowed() bool {
	return false
}

func (p *sports) EndsWithoutLiveSlots() bool {
	return false
}

// Settle без выбора ставка не выигрывает
func (p *sports) Settle(model.Outcome, Observation) (float64, bool) {
	return 0, false
}

// Matches линия матчей
func (p *sports) Matches() []model.Match {
	out := make([]model.Match, len(p.matches))
	copy(out, p.matches)
	return out
}

func (p *sports) ValidateSelection(sel *model.Selection) error {
	if sel == nil {
		return fmt.Errorf("%w: match and pick are required", model.ErrInvalidSelection)
	}
	m, ok := p.byID[sel.MatchID]
	if !ok {
		return fmt.Errorf("%w: unknown match %q", model.ErrInvalidSelection, sel.MatchID)
	}
	if _, ok := m.Odds(sel.Pick); !ok {
		return fmt.Errorf("%w: no odds for %q", model.ErrInvalidSelection, sel.Pick)
	}
	return nil
}

func (p *sports) SettleSlot(outcome model.Outcome, slot model.BetSlot) (float64, bool) {
	if slot.Selection == nil {
		return 0, false
	}
	odds, ok := p.byID[slot.Selection.MatchID].Odds(slot.Selection.Pick)
	if !ok || !outcome.Hit {
		return 0, false
	}
	return odds, true
}

type sportsRun struct {
	outcome model.Outcome
}

func (r sportsRun) Observe(time.Duration) Observation {
	hit := 0.0
	if r.outcome.Hit {
		hit = 1
	}
	return Observation{Observable: hit, Terminal: true}
}
