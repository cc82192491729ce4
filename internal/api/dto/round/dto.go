package round

import "time"

type PlaceBetRequest struct {
	Slot        int      `json:"slot"`                   // Номер слота игрока
	Stake       int64    `json:"stake"`                  // Сумма ставки
	AutoCashout *float64 `json:"auto_cashout,omitempty"` // Порог автокэшаута, > 1.00
	MatchID     string   `json:"match_id,omitempty"`     // Только для sports
	Pick        string   `json:"pick,omitempty"`         // team1, team2 или draw
}

type SelectionResponse struct {
	MatchID string `json:"match_id"`
	Pick    string `json:"pick"`
}

type MatchResponse struct {
	ID       string  `json:"id"`
	Sport    string  `json:"sport"`
	Team1    string  `json:"team1"`
	Team2    string  `json:"team2"`
	Odds1    float64 `json:"odds1"`
	Odds2    float64 `json:"odds2"`
	OddsDraw float64 `json:"odds_draw,omitempty"`
}

type SteerRequest struct {
	Lane int `json:"lane"` // 0..lanes-1
}

type SlotResponse struct {
	UserID           int      `json:"user_id"`
	Slot             int      `json:"slot"`
	Stake            int64    `json:"stake"`
	AutoCashout      *float64 `json:"auto_cashout,omitempty"`
	Status           string   `json:"status"`
	ResultMultiplier float64  `json:"result_multiplier"`
	Payout           int64    `json:"payout"`
	BetID            string   `json:"bet_id"`

	Selection *SelectionResponse `json:"selection,omitempty"`
}

type OutcomeResponse struct {
	Multiplier float64 `json:"multiplier"`
	Hit        bool    `json:"hit,omitempty"`
	Index      int     `json:"index"`
	Angle      float64 `json:"angle"`
	Seed       int64   `json:"seed,omitempty"`
}

type ObstacleResponse struct {
	ID       int     `json:"id"`
	Lane     int     `json:"lane"`
	Position float64 `json:"position"`
	Bonus    float64 `json:"bonus"`
	Passed   bool    `json:"passed"`
}

type RaceResponse struct {
	Lane      int                `json:"lane"`
	Position  float64            `json:"position"`
	Obstacles []ObstacleResponse `json:"obstacles"`
}

type SnapshotResponse struct {
	RoundID     string           `json:"round_id"`
	Game        string           `json:"game"`
	Phase       string           `json:"phase"`
	Observable  float64          `json:"observable"`  // Множитель, угол или позиция
	Multiplier  float64          `json:"multiplier"`  // Текущий множитель для кэшаута
	CountdownMs int64            `json:"countdown_ms"`
	Outcome     *OutcomeResponse `json:"outcome,omitempty"` // Только после завершения
	Slots       []SlotResponse   `json:"slots"`
	Race        *RaceResponse    `json:"race,omitempty"`
	Halted      bool             `json:"halted"`
	Fault       string           `json:"fault,omitempty"`
	Closed      bool             `json:"closed"`
	At          time.Time        `json:"at"`
}

type OutcomeEntryResponse struct {
	RoundID    string    `json:"round_id"`
	Multiplier float64   `json:"multiplier"`
	Band       string    `json:"band"`
	At         time.Time `json:"at"`
}

type StatsResponse struct {
	Game        string  `json:"game"`
	TotalBets   int     `json:"total_bets"`
	TotalStake  float64 `json:"total_stake"`
	TotalPayout float64 `json:"total_payout"`
	CurrentRTP  float64 `json:"current_rtp"`
	WindowRTP   float64 `json:"window_rtp"`
	WindowSize  int     `json:"window_size"`
}
