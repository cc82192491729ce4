package config

import (
	"time"

	"casino_rounds/internal/model"

	"github.com/joho/godotenv"
)

func Load(path string) error {
	err := godotenv.Load(path)
	if err != nil {
		return err
	}
	return nil
}

// TableConfig тайминги и ограничения стола одной игры
type TableConfig struct {
	Countdown      time.Duration
	Cooldown       time.Duration
	Tick           time.Duration
	SlotsPerPlayer int
	MinStake       int64
	WaitForBets    bool          // Отсчет идет только когда есть хотя бы одна ставка
	IdleTimeout    time.Duration // Для личных столов: остановка без ставок
}

// CrashBand диапазон точки краша и его вероятность
type CrashBand struct {
	Weight float64
	Min    float64
	Max    float64
}

type GameConfig interface {
	Table(game model.GameKind) TableConfig
	FlightGrowthRate() float64
	FlightBands() []CrashBand
	WheelSegments() []float64
	WheelSpinDuration() time.Duration
	RaceSpawnChance() float64
	RaceLanes() int
	SportsMatches() []model.Match
}

type HTTPConfig interface {
	Address() string
}

type PGConfig interface {
	DSN() string
}

type RedisConfig interface {
	Addr() string
	Password() string
	DB() int
}

type LogConfig interface {
	Level() string
	Prod() bool
	Dir() string
	File() bool
}

type JWTConfig interface {
	AccessTokenSecretKey() []byte
	AccessTokenDuration() time.Duration
	RefreshTokenDuration() time.Duration
}
