// Package ledger кошелек в роли внешнего реестра для движка раундов.
package ledger

import (
	"casino_rounds/internal/model"
	"casino_rounds/internal/repository"
	"casino_rounds/internal/service"
	"context"
)

type serv struct {
	userRepo repository.UserRepository
	betRepo  repository.BetRepository
}

func NewLedgerService(userRepo repository.UserRepository, betRepo repository.BetRepository) service.LedgerService {
	return &serv{
		userRepo: userRepo,
		betRepo:  betRepo,
	}
}

// Debit списание ставки, model.ErrInsufficientFunds если не хватает баланса
func (s *serv) Debit(ctx context.Context, userID int, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, model.ErrInvalidAmount
	}
	return s.userRepo.Debit(ctx, userID, amount)
}

func (s *serv) Credit(ctx context.Context, userID int, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, model.ErrInvalidAmount
	}
	return s.userRepo.Credit(ctx, userID, amount)
}

func (s *serv) RecordBet(ctx context.Context, bet *model.BetRecord) error {
	return s.betRepo.CreateBet(ctx, bet)
}
