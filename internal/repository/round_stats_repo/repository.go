package round_stats_repo

import (
	"casino_rounds/internal/model"
	"casino_rounds/internal/repository"
	repoModel "casino_rounds/internal/repository/round_stats_repo/model"
	"sync"
)

// Размер окна для RTP по последним ставкам
const defaultWindowSize = 500

// Хранит статистику RTP в памяти процесса, по игре на ключ
type StateRepo struct {
	mtx        sync.RWMutex
	windowSize int
	games      map[model.GameKind]*repoModel.GameState
}

func NewRoundStatsRepository() repository.RoundStatsRepository {
	return NewRoundStatsRepositoryWithWindow(defaultWindowSize)
}

func NewRoundStatsRepositoryWithWindow(size int) *StateRepo {
	if size <= 0 {
		size = defaultWindowSize
	}
	return &StateRepo{
		windowSize: size,
		games:      make(map[model.GameKind]*repoModel.GameState),
	}
}

// Record учитывает рассчитанную ставку
func (r *StateRepo) Record(game model.GameKind, stake, payout int64) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	st, ok := r.games[game]
	if !ok {
		st = &repoModel.GameState{WindowSize: r.windowSize}
		r.games[game] = st
	}

	st.TotalBets++
	st.TotalStake += float64(stake)
	st.TotalPayout += float64(payout)
	if st.TotalStake > 0 {
		st.CurrentRTP = st.TotalPayout / st.TotalStake * 100
	}

	st.BetWindow = append(st.BetWindow, repoModel.BetResult{Stake: float64(stake), Payout: float64(payout)})
	if len(st.BetWindow) > st.WindowSize {
		st.BetWindow = st.BetWindow[1:]
	}

	var windowStake, windowPayout float64
	for _, b := range st.BetWindow {
		windowStake += b.Stake
		windowPayout += b.Payout
	}
	if windowStake > 0 {
		st.WindowRTP = windowPayout / windowStake * 100
	} else {
		st.WindowRTP = 0
	}
}

// Stats копия статистики игры
func (r *StateRepo) Stats(game model.GameKind) model.GameStats {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	st, ok := r.games[game]
	if !ok {
		return model.GameStats{Game: game, WindowSize: r.windowSize}
	}

	return model.GameStats{
		Game:        game,
		TotalBets:   st.TotalBets,
		TotalStake:  st.TotalStake,
		TotalPayout: st.TotalPayout,
		CurrentRTP:  st.CurrentRTP,
		WindowRTP:   st.WindowRTP,
		WindowSize:  len(st.BetWindow),
	}
}
