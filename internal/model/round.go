package model

import "time"

// GameKind вид игры, обслуживаемой движком раундов
type GameKind string

const (
	GameFlight GameKind = "flight"
	GameWheel  GameKind = "wheel"
	GameRace   GameKind = "race"
	GameSports GameKind = "sports"
)

// Phase фаза жизненного цикла раунда
type Phase string

const (
	PhaseIdle          Phase = "idle"
	PhaseAcceptingBets Phase = "accepting_bets"
	PhaseRunning       Phase = "running"
	PhaseResolved      Phase = "resolved"
)

// Outcome зафиксированный исход раунда. Не меняется после фиксации.
type Outcome struct {
	Multiplier float64 // Точка краша (flight) или множитель сектора (wheel)
	Index      int     // Индекс сектора колеса
	Angle      float64 // Итоговый угол поворота колеса
	Seed       int64   // Зерно генератора препятствий (race)
	Hit        bool    // Ставка на матч сыграла (sports)
}

// Round один игровой цикл
type Round struct {
	ID         string
	Game       GameKind
	Phase      Phase
	Outcome    *Outcome // nil до входа в Running
	StartedAt  time.Time
	Deadline   time.Time // Конец отсчета ставок или паузы после раунда
	Observable float64   // Значение, которое видят игроки
	Multiplier float64   // Множитель, по которому можно забрать ставку
	Ticks      int
	Race       *RaceView
}

// RaceView состояние трассы для отрисовки
type RaceView struct {
	Lane      int
	Position  float64
	Obstacles []Obstacle
}

// Obstacle препятствие на полосе
type Obstacle struct {
	ID       int
	Lane     int
	Position float64
	Bonus    float64
	Passed   bool
}
