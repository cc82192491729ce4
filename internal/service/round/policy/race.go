package policy

import (
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"casino_rounds/internal/model"
)

// Параметры трассы
const (
	raceStep          = 5.0  // Продвижение машины за тик
	raceObstacleSpeed = 3.0  // Сдвиг препятствий за тик
	raceSpawnAt       = 100.0
	raceDropBelow     = -20.0
	raceCarAt         = 50.0 // Позиция машины на экране
	raceHitWindow     = 10.0
	racePassedBelow   = 40.0
	raceTickGrowth    = 0.01
	raceBonusShare    = 0.1
	raceBonusMin      = 1.1
	raceBonusMax      = 4.0
)

type race struct {
	tick        time.Duration
	spawnChance float64
	lanes       int
}

// NewRace гонка: препятствия генерируются из зафиксированного зерна,
// раунд заканчивается столкновением или когда игрок забрал ставку
func NewRace(tick time.Duration, spawnChance float64, lanes int) GamePolicy {
	if lanes <= 0 {
		lanes = 1
	}
	return &race{tick: tick, spawnChance: spawnChance, lanes: lanes}
}

func (r *race) Kind() model.GameKind {
	return model.GameRace
}

func (r *race) Draw(src Source) model.Outcome {
	return model.Outcome{Seed: src.Int64()}
}

func (r *race) Start(outcome model.Outcome) Run {
	seed := uint64(outcome.Seed)
	return &raceRun{
		policy:     r,
		rnd:        rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		lane:       r.lanes / 2,
		multiplier: 1,
	}
}

func (r *race) Lanes() int {
	return r.lanes
}

func (r *race) CashOutAllowed() bool {
	return true
}

func (r *race) EndsWithoutLiveSlots() bool {
	return true
}

func (r *race) Settle(model.Outcome, Observation) (float64, bool) {
	return 0, false
}

type raceRun struct {
	mu         sync.Mutex
	policy     *race
	rnd        *rand.Rand
	ticks      int
	lane       int
	position   float64
	multiplier float64
	obstacles  []model.Obstacle
	nextID     int
	crashed    bool
}

// Observe прокручивает трассу до нужного тика. Одинаковое зерно и
// одинаковые смены полосы дают одинаковый результат.
func (r *raceRun) Observe(elapsed time.Duration) Observation {
	r.mu.Lock()
	defer r.mu.Unlock()

	target := 0
	if r.policy.tick > 0 && elapsed > 0 {
		target = int(elapsed / r.policy.tick)
	}
	for r.ticks < target && !r.crashed {
		r.step()
	}

	return Observation{
		Observable: r.position,
		Multiplier: r.multiplier,
		Terminal:   r.crashed,
		Race:       r.view(),
	}
}

func (r *raceRun) Steer(lane int) error {
	if lane < 0 || lane >= r.policy.lanes {
		return model.ErrInvalidLane
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lane = lane
	return nil
}

func (r *raceRun) step() {
	r.ticks++
	r.position += raceStep

	if r.rnd.Float64() < r.policy.spawnChance {
		r.nextID++
		bonus := math.Round((raceBonusMin+r.rnd.Float64()*(raceBonusMax-raceBonusMin))*10) / 10
		r.obstacles = append(r.obstacles, model.Obstacle{
			ID:       r.nextID,
			Lane:     r.rnd.IntN(r.policy.lanes),
			Position: raceSpawnAt,
			Bonus:    bonus,
		})
	}

	kept := r.obstacles[:0]
	for _, o := range r.obstacles {
		o.Position -= raceObstacleSpeed
		if o.Position > raceDropBelow {
			kept = append(kept, o)
		}
	}
	r.obstacles = kept

	r.multiplier = round2(r.multiplier + raceTickGrowth)

	for i := range r.obstacles {
		o := &r.obstacles[i]
		if o.Lane == r.lane && math.Abs(o.Position-raceCarAt) < raceHitWindow {
			r.crashed = true
			return
		}
		// Объехал препятствие на соседней полосе
		if !o.Passed && o.Lane != r.lane && o.Position < racePassedBelow {
			o.Passed = true
			r.multiplier = round2(r.multiplier + o.Bonus*raceBonusShare)
		}
	}
}

func (r *raceRun) view() *model.RaceView {
	obstacles := make([]model.Obstacle, len(r.obstacles))
	copy(obstacles, r.obstacles)
	return &model.RaceView{
		Lane:      r.lane,
		Position:  r.position,
		Obstacles: obstacles,
	}
}
