package env

import (
	"casino_rounds/internal/config"
	"casino_rounds/internal/model"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type tableYAML struct {
	Countdown      time.Duration `yaml:"countdown"`
	Cooldown       time.Duration `yaml:"cooldown"`
	Tick           time.Duration `yaml:"tick"`
	SlotsPerPlayer int           `yaml:"slots_per_player"`
	MinStake       int64         `yaml:"min_stake"`
	WaitForBets    *bool         `yaml:"wait_for_bets"`
	IdleTimeout    time.Duration `yaml:"idle_timeout"`
}

type bandYAML struct {
	Weight float64 `yaml:"weight"`
	Min    float64 `yaml:"min"`
	Max    float64 `yaml:"max"`
}

type matchYAML struct {
	ID       string  `yaml:"id"`
	Sport    string  `yaml:"sport"`
	Team1    string  `yaml:"team1"`
	Team2    string  `yaml:"team2"`
	Odds1    float64 `yaml:"odds1"`
	Odds2    float64 `yaml:"odds2"`
	OddsDraw float64 `yaml:"odds_draw"`
}

type gamesYAML struct {
	Games struct {
		Flight struct {
			tableYAML  `yaml:",inline"`
			GrowthRate float64    `yaml:"growth_rate"`
			Bands      []bandYAML `yaml:"bands"`
		} `yaml:"flight"`
		Wheel struct {
			tableYAML    `yaml:",inline"`
			Segments     []float64     `yaml:"segments"`
			SpinDuration time.Duration `yaml:"spin_duration"`
		} `yaml:"wheel"`
		Race struct {
			tableYAML   `yaml:",inline"`
			SpawnChance float64 `yaml:"spawn_chance"`
			Lanes       int     `yaml:"lanes"`
		} `yaml:"race"`
		Sports struct {
			tableYAML `yaml:",inline"`
			Matches   []matchYAML `yaml:"matches"`
		} `yaml:"sports"`
	} `yaml:"games"`
}

type gameConfig struct {
	tables       map[model.GameKind]config.TableConfig
	growthRate   float64
	bands        []config.CrashBand
	segments     []float64
	spinDuration time.Duration
	spawnChance  float64
	lanes        int
	matches      []model.Match
}

// Значения по умолчанию повторяют поведение клиентских игр
var (
	defaultTables = map[model.GameKind]config.TableConfig{
		model.GameFlight: {
			Countdown:      5 * time.Second,
			Cooldown:       3 * time.Second,
			Tick:           50 * time.Millisecond,
			SlotsPerPlayer: 2,
			MinStake:       1,
		},
		model.GameWheel: {
			Countdown:      3 * time.Second,
			Cooldown:       3 * time.Second,
			Tick:           100 * time.Millisecond,
			SlotsPerPlayer: 1,
			MinStake:       1,
			WaitForBets:    true,
		},
		model.GameRace: {
			Countdown:      3 * time.Second,
			Cooldown:       3 * time.Second,
			Tick:           100 * time.Millisecond,
			SlotsPerPlayer: 1,
			MinStake:       100,
			WaitForBets:    true,
			IdleTimeout:    10 * time.Minute,
		},
		model.GameSports: {
			Countdown:      time.Second,
			Cooldown:       time.Second,
			Tick:           100 * time.Millisecond,
			SlotsPerPlayer: 1,
			MinStake:       1,
			WaitForBets:    true,
			IdleTimeout:    10 * time.Minute,
		},
	}
	defaultBands = []config.CrashBand{
		{Weight: 0.33, Min: 1.00, Max: 1.50},
		{Weight: 0.33, Min: 1.50, Max: 3.00},
		{Weight: 0.24, Min: 3.00, Max: 7.00},
		{Weight: 0.10, Min: 7.00, Max: 20.00},
	}
	defaultSegments = []float64{0.5, 2.0, 1.0, 0.2, 3.0, 0.1, 1.5, 5.0, 0.3, 10.0, 0.7, 1.2}
	defaultMatches  = []model.Match{
		{ID: "match1", Sport: "football", Team1: "Manchester United", Team2: "Liverpool", Odds1: 2.3, Odds2: 1.8, OddsDraw: 3.2},
		{ID: "match2", Sport: "basketball", Team1: "Lakers", Team2: "Warriors", Odds1: 1.9, Odds2: 2.1},
		{ID: "match3", Sport: "volleyball", Team1: "Brazil", Team2: "USA", Odds1: 2.5, Odds2: 1.6},
	}
)

const (
	defaultGrowthRate   = 0.15
	defaultSpinDuration = 4 * time.Second
	defaultSpawnChance  = 0.25
	defaultLanes        = 3
)

// DefaultGameConfig конфиг игр без файла
func DefaultGameConfig() config.GameConfig {
	cfg, _ := buildGameConfig(gamesYAML{})
	return cfg
}

// NewGameConfigFromYAML читает настройки игр. Если файла нет, используются значения по умолчанию.
func NewGameConfigFromYAML(path string) (config.GameConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultGameConfig(), nil
		}
		return nil, err
	}

	var doc gamesYAML
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return buildGameConfig(doc)
}

func buildGameConfig(doc gamesYAML) (*gameConfig, error) {
	g := doc.Games
	cfg := &gameConfig{
		tables: map[model.GameKind]config.TableConfig{
			model.GameFlight: mergeTable(defaultTables[model.GameFlight], g.Flight.tableYAML),
			model.GameWheel:  mergeTable(defaultTables[model.GameWheel], g.Wheel.tableYAML),
			model.GameRace:   mergeTable(defaultTables[model.GameRace], g.Race.tableYAML),
			model.GameSports: mergeTable(defaultTables[model.GameSports], g.Sports.tableYAML),
		},
		growthRate:   orFloat(g.Flight.GrowthRate, defaultGrowthRate),
		bands:        defaultBands,
		segments:     defaultSegments,
		spinDuration: defaultSpinDuration,
		spawnChance:  orFloat(g.Race.SpawnChance, defaultSpawnChance),
		lanes:        defaultLanes,
		matches:      defaultMatches,
	}

	if len(g.Flight.Bands) > 0 {
		bands := make([]config.CrashBand, 0, len(g.Flight.Bands))
		var total float64
		for _, b := range g.Flight.Bands {
			if b.Weight <= 0 || b.Min < 1 || b.Max <= b.Min {
				return nil, fmt.Errorf("invalid crash band %+v", b)
			}
			total += b.Weight
			bands = append(bands, config.CrashBand{Weight: b.Weight, Min: b.Min, Max: b.Max})
		}
		if total <= 0 {
			return nil, errors.New("crash bands have zero weight")
		}
		cfg.bands = bands
	}
	if len(g.Wheel.Segments) > 0 {
		cfg.segments = g.Wheel.Segments
	}
	if g.Wheel.SpinDuration > 0 {
		cfg.spinDuration = g.Wheel.SpinDuration
	}
	if g.Race.Lanes > 0 {
		cfg.lanes = g.Race.Lanes
	}
	if len(g.Sports.Matches) > 0 {
		matches, err := buildMatches(g.Sports.Matches)
		if err != nil {
			return nil, err
		}
		cfg.matches = matches
	}

	return cfg, nil
}

func buildMatches(raw []matchYAML) ([]model.Match, error) {
	seen := make(map[string]struct{}, len(raw))
	matches := make([]model.Match, 0, len(raw))
	for _, m := range raw {
		if m.ID == "" || m.Odds1 <= 1 || m.Odds2 <= 1 || (m.OddsDraw != 0 && m.OddsDraw <= 1) {
			return nil, fmt.Errorf("invalid match %+v", m)
		}
		if _, ok := seen[m.ID]; ok {
			return nil, fmt.Errorf("duplicate match id %q", m.ID)
		}
		seen[m.ID] = struct{}{}
		matches = append(matches, model.Match{
			ID:       m.ID,
			Sport:    m.Sport,
			Team1:    m.Team1,
			Team2:    m.Team2,
			Odds1:    m.Odds1,
			Odds2:    m.Odds2,
			OddsDraw: m.OddsDraw,
		})
	}
	return matches, nil
}

func mergeTable(base config.TableConfig, over tableYAML) config.TableConfig {
	if over.Countdown > 0 {
		base.Countdown = over.Countdown
	}
	if over.Cooldown > 0 {
		base.Cooldown = over.Cooldown
	}
	if over.Tick > 0 {
		base.Tick = over.Tick
	}
	if over.SlotsPerPlayer > 0 {
		base.SlotsPerPlayer = over.SlotsPerPlayer
	}
	if over.MinStake > 0 {
		base.MinStake = over.MinStake
	}
	if over.WaitForBets != nil {
		base.WaitForBets = *over.WaitForBets
	}
	if over.IdleTimeout > 0 {
		base.IdleTimeout = over.IdleTimeout
	}
	return base
}

func orFloat(v, fallback float64) float64 {
	if v > 0 {
		return v
	}
	return fallback
}

func (c *gameConfig) Table(game model.GameKind) config.TableConfig {
	return c.tables[game]
}

func (c *gameConfig) FlightGrowthRate() float64 {
	return c.growthRate
}

func (c *gameConfig) FlightBands() []config.CrashBand {
	return c.bands
}

func (c *gameConfig) WheelSegments() []float64 {
	return c.segments
}

func (c *gameConfig) WheelSpinDuration() time.Duration {
	return c.spinDuration
}

func (c *gameConfig) RaceSpawnChance() float64 {
	return c.spawnChance
}

func (c *gameConfig) RaceLanes() int {
	return c.lanes
}

func (c *gameConfig) SportsMatches() []model.Match {
	out := make([]model.Match, len(c.matches))
	copy(out, c.matches)
	return out
}
