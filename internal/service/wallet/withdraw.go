package wallet

import (
	"casino_rounds/internal/metrics"
	"casino_rounds/internal/model"
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Withdraw списывает сумму, если она не меньше минимальной и есть на балансе
func (s *serv) Withdraw(ctx context.Context, tx *model.Transaction) (*model.Transaction, error) {
	if tx.Amount <= 0 {
		return nil, model.ErrInvalidAmount
	}
	if tx.Amount < minWithdrawal {
		return nil, fmt.Errorf("%w: minimum is %d", model.ErrWithdrawTooSmall, minWithdrawal)
	}

	out := *tx
	out.ID = uuid.NewString()
	out.Type = model.TxWithdrawal
	out.NetAmount = tx.Amount
	out.CreatedAt = s.now()

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		if _, err := s.userRepo.Debit(ctx, out.UserID, out.Amount); err != nil {
			return err
		}
		return s.txRepo.CreateTransaction(ctx, &out)
	})
	if err != nil {
		return nil, err
	}

	metrics.WalletOperation(model.TxWithdrawal)
	return &out, nil
}
