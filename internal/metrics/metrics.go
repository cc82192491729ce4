// Package metrics prometheus метрики движка раундов и кошелька.
package metrics

import (
	"net/http"

	"casino_rounds/internal/model"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const labelGame = "game"

// Имена метрик: casino_rounds_<name>, метка game
var (
	roundsResolved = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "casino_rounds_resolved_total",
		Help: "Завершенные раунды",
	}, []string{labelGame})

	betsPlaced = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "casino_rounds_bets_placed_total",
		Help: "Принятые ставки",
	}, []string{labelGame})

	betsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "casino_rounds_bets_rejected_total",
		Help: "Отклоненные команды игроков",
	}, []string{labelGame, "reason"})

	stakeTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "casino_rounds_stake_total",
		Help: "Сумма ставок",
	}, []string{labelGame})

	payoutTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "casino_rounds_payout_total",
		Help: "Сумма выплат",
	}, []string{labelGame})

	rtp = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "casino_rounds_rtp_pct",
		Help: "RTP по скользящему окну, %",
	}, []string{labelGame})

	crashPoint = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "casino_rounds_outcome_multiplier",
		Help:    "Распределение зафиксированных множителей",
		Buckets: []float64{1, 1.2, 1.5, 2, 3, 5, 7, 10, 20},
	}, []string{labelGame})

	halted = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "casino_rounds_engine_halted",
		Help: "1 если стол остановлен из-за ошибки расчета",
	}, []string{labelGame})

	walletOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "casino_rounds_wallet_operations_total",
		Help: "Пополнения и выводы",
	}, []string{"type"})
)

func BetPlaced(game model.GameKind, stake int64) {
	betsPlaced.WithLabelValues(string(game)).Inc()
	stakeTotal.WithLabelValues(string(game)).Add(float64(stake))
}

func CommandRejected(game model.GameKind, reason string) {
	betsRejected.WithLabelValues(string(game), reason).Inc()
}

func Payout(game model.GameKind, amount int64) {
	if amount > 0 {
		payoutTotal.WithLabelValues(string(game)).Add(float64(amount))
	}
}

// RoundResolved учитывает раунд и его исход
func RoundResolved(game model.GameKind, multiplier float64) {
	roundsResolved.WithLabelValues(string(game)).Inc()
	crashPoint.WithLabelValues(string(game)).Observe(multiplier)
}

func SetRTP(game model.GameKind, pct float64) {
	rtp.WithLabelValues(string(game)).Set(pct)
}

func SetHalted(game model.GameKind, v bool) {
	var f float64
	if v {
		f = 1
	}
	halted.WithLabelValues(string(game)).Set(f)
}

func WalletOperation(t model.TransactionType) {
	walletOps.WithLabelValues(string(t)).Inc()
}

// Handler отдает метрики для /metrics
func Handler() http.Handler {
	return promhttp.Handler()
}
