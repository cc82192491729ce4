package model

// Состояние статистики одной игры
type GameState struct {
	TotalBets   int     // Сколько всего ставок рассчитано
	TotalStake  float64 // Сумма всех ставок
	TotalPayout float64 // Сумма всех выплат

	CurrentRTP float64 // Текущий RTP = (TotalPayout/TotalStake)*100

	BetWindow  []BetResult // Окно последних ставок
	WindowRTP  float64     // RTP в окне
	WindowSize int         // Размер окна
}

// Результат ставки для окна
type BetResult struct {
	Stake  float64
	Payout float64
}
