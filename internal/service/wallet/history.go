package wallet

import (
	"casino_rounds/internal/model"
	"context"
)

func (s *serv) Balance(ctx context.Context, userID int) (int64, error) {
	return s.userRepo.GetBalance(ctx, userID)
}

// BetHistory рассчитанные ставки, новые первыми
func (s *serv) BetHistory(ctx context.Context, userID int, limit int) ([]model.BetRecord, error) {
	return s.betRepo.ListByUser(ctx, userID, historyLimit(limit))
}

func (s *serv) Transactions(ctx context.Context, userID int, limit int) ([]model.Transaction, error) {
	return s.txRepo.ListByUser(ctx, userID, historyLimit(limit))
}
