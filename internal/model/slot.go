package model

import "time"

// SlotStatus статус ставки внутри раунда
type SlotStatus string

const (
	SlotEmpty       SlotStatus = "empty"
	SlotPlaced      SlotStatus = "placed"
	SlotCashedOut   SlotStatus = "cashed_out"
	SlotSettledWon  SlotStatus = "settled_won"
	SlotSettledLost SlotStatus = "settled_lost"
	SlotRefunded    SlotStatus = "refunded" // Стол закрыт до завершения раунда, ставка возвращена
)

// Final возвращает true для статусов, после которых ставка больше не меняется
func (s SlotStatus) Final() bool {
	return s == SlotCashedOut || s == SlotSettledWon || s == SlotSettledLost || s == SlotRefunded
}

// BetSlot ставка игрока в раунде
type BetSlot struct {
	UserID           int
	SlotID           int
	Stake            int64
	AutoCashout      *float64
	Status           SlotStatus
	ResultMultiplier float64
	Payout           int64
	BetID            string
	Selection        *Selection // Только для sports
}

// PlaceBet команда на размещение ставки
type PlaceBet struct {
	Game        GameKind
	SlotID      int
	Stake       int64
	AutoCashout *float64
	Selection   *Selection
}

// LedgerEffect итог расчета одной ставки для кошелька
type LedgerEffect struct {
	UserID       int
	RoundID      string
	Game         GameKind
	StakeDelta   int64 // Уже списано при размещении, поэтому всегда -stake
	PayoutAmount int64
	Multiplier   float64
	Won          bool
}

// BetRecord запись в истории ставок
type BetRecord struct {
	ID         string
	UserID     int
	Game       GameKind
	RoundID    string
	Stake      int64
	Multiplier float64
	Payout     int64
	Won        bool
	CreatedAt  time.Time
}

// Pick исход матча, на который ставит игрок
type Pick string

const (
	PickTeam1 Pick = "team1"
	PickTeam2 Pick = "team2"
	PickDraw  Pick = "draw"
)

// Selection выбор в ставке на спорт
type Selection struct {
	MatchID string
	Pick    Pick
}

// Match матч из линии ставок. OddsDraw 0, если ничьей нет.
type Match struct {
	ID       string
	Sport    string
	Team1    string
	Team2    string
	Odds1    float64
	Odds2    float64
	OddsDraw float64
}

// Odds коэффициент на выбранный исход, false если такого исхода нет
func (m Match) Odds(p Pick) (float64, bool) {
	switch p {
	case PickTeam1:
		return m.Odds1, m.Odds1 > 0
	case PickTeam2:
		return m.Odds2, m.Odds2 > 0
	case PickDraw:
		return m.OddsDraw, m.OddsDraw > 0
	}
	return 0, false
}
