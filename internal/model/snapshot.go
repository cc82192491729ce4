package model

import "time"

// Snapshot состояние раунда только для чтения, отправляется клиентам
type Snapshot struct {
	RoundID     string
	Game        GameKind
	Phase       Phase
	Observable  float64
	Multiplier  float64
	CountdownMs int64
	Outcome     *Outcome // Раскрывается только после Resolved
	Slots       []BetSlot
	Race        *RaceView
	Halted      bool
	Closed      bool
	Fault       string
	At          time.Time
}

// VisibleTo копия снимка только со ставками игрока userID
func (s Snapshot) VisibleTo(userID int) Snapshot {
	own := make([]BetSlot, 0, len(s.Slots))
	for _, slot := range s.Slots {
		if slot.UserID == userID {
			own = append(own, slot)
		}
	}
	s.Slots = own
	return s
}

// OutcomeEntry исход завершенного раунда для ленты истории
type OutcomeEntry struct {
	RoundID    string    `json:"round_id"`
	Game       GameKind  `json:"game"`
	Multiplier float64   `json:"multiplier"`
	Band       string    `json:"band"`
	At         time.Time `json:"at"`
}

// GameStats статистика RTP по игре
type GameStats struct {
	Game        GameKind
	TotalBets   int
	TotalStake  float64
	TotalPayout float64
	CurrentRTP  float64
	WindowRTP   float64
	WindowSize  int
}
