package wallet

import (
	"casino_rounds/internal/repository"
	"casino_rounds/internal/service"
	"time"

	"github.com/avito-tech/go-transaction-manager/trm/v2"
)

const (
	// Налог с пополнения, %
	depositTaxPct = 12
	// Минимальная сумма вывода
	minWithdrawal = 3000

	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
)

type serv struct {
	txManager trm.Manager
	userRepo  repository.UserRepository
	betRepo   repository.BetRepository
	txRepo    repository.TransactionRepository
	now       func() time.Time
}

func NewWalletService(
	txManager trm.Manager,
	userRepo repository.UserRepository,
	betRepo repository.BetRepository,
	txRepo repository.TransactionRepository,
) service.WalletService {
	return &serv{
		txManager: txManager,
		userRepo:  userRepo,
		betRepo:   betRepo,
		txRepo:    txRepo,
		now:       time.Now,
	}
}

func historyLimit(limit int) int {
	if limit <= 0 {
		return defaultHistoryLimit
	}
	return min(limit, maxHistoryLimit)
}
