package round

import (
	"context"
	"errors"
	"sync"
	"time"

	"casino_rounds/internal/config"
	"casino_rounds/internal/metrics"
	"casino_rounds/internal/model"
	"casino_rounds/internal/repository"
	"casino_rounds/internal/service"
	"casino_rounds/internal/service/round/policy"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	historyLimit = 10
	reapInterval = 30 * time.Second
)

// personalTable стол одного игрока (гонка, ставки на спорт)
type personalKey struct {
	userID int
	game   model.GameKind
}

type personalTable struct {
	engine *Engine
	cancel context.CancelFunc
}

type serv struct {
	cfg      config.GameConfig
	ledger   service.LedgerService
	tx       Transactor
	outcomes repository.OutcomeRepository
	stats    repository.RoundStatsRepository
	log      *zap.Logger
	now      func() time.Time

	shared map[model.GameKind]*Engine

	mu       sync.Mutex
	personal map[personalKey]*personalTable
	ctx      context.Context
	stop     context.CancelFunc
}

// NewRoundService общие столы flight и wheel, личные столы для гонки и спорта
func NewRoundService(
	cfg config.GameConfig,
	ledger service.LedgerService,
	tx Transactor,
	outcomes repository.OutcomeRepository,
	stats repository.RoundStatsRepository,
	log *zap.Logger,
) service.RoundService {
	return newService(cfg, ledger, tx, outcomes, stats, log, time.Now)
}

func newService(
	cfg config.GameConfig,
	ledger service.LedgerService,
	tx Transactor,
	outcomes repository.OutcomeRepository,
	stats repository.RoundStatsRepository,
	log *zap.Logger,
	now func() time.Time,
) *serv {
	ctx, stop := context.WithCancel(context.Background())
	s := &serv{
		cfg:      cfg,
		ledger:   ledger,
		tx:       tx,
		outcomes: outcomes,
		stats:    stats,
		log:      log,
		now:      now,
		personal: make(map[personalKey]*personalTable),
		ctx:      ctx,
		stop:     stop,
	}
	s.shared = map[model.GameKind]*Engine{
		model.GameFlight: s.newEngine(model.GameFlight),
		model.GameWheel:  s.newEngine(model.GameWheel),
	}
	return s
}

// Policy правила игры по конфигу
func Policy(cfg config.GameConfig, game model.GameKind) (policy.GamePolicy, error) {
	switch game {
	case model.GameFlight:
		bands := make([]policy.Band, 0, len(cfg.FlightBands()))
		for _, b := range cfg.FlightBands() {
			bands = append(bands, policy.Band{Weight: b.Weight, Min: b.Min, Max: b.Max})
		}
		return policy.NewFlight(cfg.FlightGrowthRate(), bands), nil
	case model.GameWheel:
		return policy.NewWheel(cfg.WheelSegments(), cfg.WheelSpinDuration()), nil
	case model.GameRace:
		return policy.NewRace(cfg.Table(model.GameRace).Tick, cfg.RaceSpawnChance(), cfg.RaceLanes()), nil
	case model.GameSports:
		return policy.NewSports(cfg.SportsMatches()), nil
	default:
		return nil, model.ErrUnknownGame
	}
}

func (s *serv) newEngine(game model.GameKind) *Engine {
	p, err := Policy(s.cfg, game)
	if err != nil {
		panic("unknown game " + string(game))
	}
	return NewEngine(EngineDeps{
		Policy:     p,
		Table:      s.cfg.Table(game),
		Ledger:     s.ledger,
		Tx:         s.tx,
		Log:        s.log,
		Now:        s.now,
		OnResolved: s.recordResolution,
	})
}

// Run запускает общие столы и уборку простаивающих личных столов
func (s *serv) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	for _, e := range s.shared {
		g.Go(func() error {
			s.runEngine(gctx, e)
			return nil
		})
	}
	g.Go(func() error {
		return s.reapIdle(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		s.stop()
		return nil
	})

	return g.Wait()
}

// runEngine остановленный из-за сбоя стол остается в памяти, чтобы снимок показывал ошибку
func (s *serv) runEngine(ctx context.Context, e *Engine) {
	metrics.SetHalted(e.Game(), false)
	if err := e.Run(ctx); err != nil {
		metrics.SetHalted(e.Game(), true)
		s.log.Error("round table stopped", zap.String("game", string(e.Game())), zap.Error(err))
	}
}

// runPersonal личный стол после остановки убирается из лобби
func (s *serv) runPersonal(ctx context.Context, key personalKey, e *Engine) {
	s.runEngine(ctx, e)
	if e.Closed() {
		s.forget(key, e)
	}
}

func (s *serv) forget(key personalKey, e *Engine) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if pt, ok := s.personal[key]; ok && pt.engine == e {
		pt.cancel()
		delete(s.personal, key)
	}
}

// idleTimeout наименьший таймаут простоя среди личных столов
func (s *serv) idleTimeout() time.Duration {
	var timeout time.Duration
	for _, game := range personalGames {
		t := s.cfg.Table(game).IdleTimeout
		if t > 0 && (timeout == 0 || t < timeout) {
			timeout = t
		}
	}
	return timeout
}

func (s *serv) reapIdle(ctx context.Context) error {
	timeout := s.idleTimeout()
	if timeout <= 0 {
		<-ctx.Done()
		return nil
	}

	t := time.NewTicker(min(reapInterval, timeout))
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			s.reap(timeout)
		}
	}
}

func (s *serv) reap(timeout time.Duration) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()
	for key, pt := range s.personal {
		if pt.engine.IdleFor(now) >= timeout {
			pt.cancel()
			delete(s.personal, key)
			s.log.Debug("personal table closed",
				zap.Int("user_id", key.userID),
				zap.String("game", string(key.game)),
			)
		}
	}
}

// table стол игры для игрока. Личный стол создается при первом обращении
// и заново, если прежний уже закрыт.
func (s *serv) table(userID int, game model.GameKind) (*Engine, error) {
	if e, ok := s.shared[game]; ok {
		return e, nil
	}
	if !personalGame(game) {
		return nil, model.ErrUnknownGame
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := personalKey{userID: userID, game: game}
	if pt, ok := s.personal[key]; ok {
		if !pt.engine.Closed() {
			return pt.engine, nil
		}
		pt.cancel()
		delete(s.personal, key)
	}
	if s.ctx.Err() != nil {
		return nil, model.ErrTableClosed
	}

	ctx, cancel := context.WithCancel(s.ctx)
	e := s.newEngine(game)
	s.personal[key] = &personalTable{engine: e, cancel: cancel}
	go s.runPersonal(ctx, key, e)

	return e, nil
}

// onTable выполняет команду на столе игрока. Если личный стол закрылся
// между выдачей и командой, команда повторяется один раз на новом столе.
func (s *serv) onTable(userID int, game model.GameKind, fn func(e *Engine) error) error {
	e, err := s.table(userID, game)
	if err != nil {
		return err
	}
	err = fn(e)
	if !errors.Is(err, model.ErrTableClosed) || !personalGame(game) || s.ctx.Err() != nil {
		return err
	}

	s.forget(personalKey{userID: userID, game: game}, e)
	e, err = s.table(userID, game)
	if err != nil {
		return err
	}
	return fn(e)
}

func (s *serv) Place(ctx context.Context, userID int, bet model.PlaceBet) (*model.BetSlot, error) {
	var slot *model.BetSlot
	err := s.onTable(userID, bet.Game, func(e *Engine) (err error) {
		slot, err = e.Bet(ctx, userID, bet)
		return err
	})
	if err != nil {
		s.rejected(bet.Game, "place", userID, err)
		return nil, err
	}

	metrics.BetPlaced(bet.Game, bet.Stake)
	return slot, nil
}

func (s *serv) Cancel(ctx context.Context, userID int, game model.GameKind, slotID int) (*model.BetSlot, error) {
	var slot *model.BetSlot
	err := s.onTable(userID, game, func(e *Engine) (err error) {
		slot, err = e.Cancel(ctx, userID, slotID)
		return err
	})
	if err != nil {
		s.rejected(game, "cancel", userID, err)
		return nil, err
	}
	return slot, nil
}

func (s *serv) CashOut(ctx context.Context, userID int, game model.GameKind, slotID int) (*model.BetSlot, error) {
	var slot *model.BetSlot
	err := s.onTable(userID, game, func(e *Engine) (err error) {
		slot, err = e.CashOut(ctx, userID, slotID)
		return err
	})
	if err != nil {
		s.rejected(game, "cashout", userID, err)
		return nil, err
	}
	return slot, nil
}

func (s *serv) Steer(_ context.Context, userID int, lane int) error {
	return s.onTable(userID, model.GameRace, func(e *Engine) error {
		return e.Steer(userID, lane)
	})
}

// Snapshot снимок стола глазами игрока: видны только его ставки
func (s *serv) Snapshot(userID int, game model.GameKind) (*model.Snapshot, error) {
	e, err := s.table(userID, game)
	if err != nil {
		return nil, err
	}
	snap := e.SnapshotFor(userID)
	return &snap, nil
}

func (s *serv) Subscribe(userID int, game model.GameKind) (<-chan model.Snapshot, func(), error) {
	e, err := s.table(userID, game)
	if err != nil {
		return nil, nil, err
	}
	ch, cancel := e.Subscribe(userID)
	return ch, cancel, nil
}

// Matches линия матчей для ставок на спорт
func (s *serv) Matches() []model.Match {
	return s.cfg.SportsMatches()
}

func (s *serv) History(ctx context.Context, game model.GameKind) ([]model.OutcomeEntry, error) {
	if !knownGame(game) {
		return nil, model.ErrUnknownGame
	}
	return s.outcomes.Recent(ctx, game, historyLimit)
}

func (s *serv) Stats(_ context.Context, game model.GameKind) (*model.GameStats, error) {
	if !knownGame(game) {
		return nil, model.ErrUnknownGame
	}
	st := s.stats.Stats(game)
	return &st, nil
}

// recordResolution история исходов, статистика RTP и метрики по завершенному раунду
func (s *serv) recordResolution(ctx context.Context, res Resolution) {
	game := res.Round.Game
	metrics.RoundResolved(game, res.Round.Multiplier)

	for _, slot := range res.Slots {
		s.stats.Record(game, slot.Stake, slot.Payout)
		metrics.Payout(game, slot.Payout)
	}
	if len(res.Slots) > 0 {
		metrics.SetRTP(game, s.stats.Stats(game).WindowRTP)
	}

	// У ставок на спорт нет общего исхода для ленты
	if game == model.GameSports {
		return
	}

	entry := model.OutcomeEntry{
		RoundID:    res.Round.ID,
		Game:       game,
		Multiplier: res.Round.Multiplier,
		Band:       Band(res.Round.Multiplier),
		At:         s.now(),
	}
	if err := s.outcomes.Push(context.WithoutCancel(ctx), entry); err != nil {
		s.log.Warn("push outcome history", zap.String("game", string(game)), zap.Error(err))
	}
}

func (s *serv) rejected(game model.GameKind, cmd string, userID int, err error) {
	metrics.CommandRejected(game, reason(err))
	s.log.Info("command rejected",
		zap.String("game", string(game)),
		zap.String("command", cmd),
		zap.Int("user_id", userID),
		zap.Error(err),
	)
}

func reason(err error) string {
	switch {
	case errors.Is(err, model.ErrInvalidStake):
		return "invalid_stake"
	case errors.Is(err, model.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, model.ErrWrongPhase):
		return "wrong_phase"
	case errors.Is(err, model.ErrAlreadySettled):
		return "already_settled"
	case errors.Is(err, model.ErrLedgerUnavailable):
		return "ledger_unavailable"
	case errors.Is(err, model.ErrRoundHalted):
		return "halted"
	case errors.Is(err, model.ErrTableClosed):
		return "table_closed"
	case errors.Is(err, model.ErrInvalidSelection):
		return "invalid_selection"
	default:
		return "other"
	}
}

// Band цвет исхода в ленте истории
func Band(multiplier float64) string {
	switch {
	case multiplier < 2:
		return "red"
	case multiplier < 5:
		return "blue"
	case multiplier < 10:
		return "purple"
	default:
		return "green"
	}
}

// personalGames игры, где у каждого игрока свой стол
var personalGames = []model.GameKind{model.GameRace, model.GameSports}

func personalGame(game model.GameKind) bool {
	return game == model.GameRace || game == model.GameSports
}

func knownGame(game model.GameKind) bool {
	return game == model.GameFlight || game == model.GameWheel || personalGame(game)
}
