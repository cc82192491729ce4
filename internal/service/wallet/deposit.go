package wallet

import (
	"casino_rounds/internal/metrics"
	"casino_rounds/internal/model"
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Deposit зачисляет сумму за вычетом налога и сохраняет операцию
func (s *serv) Deposit(ctx context.Context, tx *model.Transaction) (*model.Transaction, error) {
	if tx.Amount <= 0 {
		return nil, model.ErrInvalidAmount
	}

	out := *tx
	out.ID = uuid.NewString()
	out.Type = model.TxDeposit
	out.Tax = depositTax(tx.Amount)
	out.NetAmount = tx.Amount - out.Tax
	out.CreatedAt = s.now()

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		// 1. Зачислить на баланс
		if _, err := s.userRepo.Credit(ctx, out.UserID, out.NetAmount); err != nil {
			return err
		}
		// 2. Записать операцию
		return s.txRepo.CreateTransaction(ctx, &out)
	})
	if err != nil {
		return nil, err
	}

	metrics.WalletOperation(model.TxDeposit)
	return &out, nil
}

// depositTax 12% с округлением до целого
func depositTax(amount int64) int64 {
	return decimal.NewFromInt(amount).
		Mul(decimal.NewFromInt(depositTaxPct)).
		Div(decimal.NewFromInt(100)).
		Round(0).
		IntPart()
}
