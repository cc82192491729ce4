package converter

import (
	"casino_rounds/internal/api/dto/wallet"
	"casino_rounds/internal/model"
)

func ToTransaction(userID int, req wallet.PaymentRequest) *model.Transaction {
	return &model.Transaction{
		UserID: userID,
		Method: req.Method,
		Amount: req.Amount,
		Phone:  req.Phone,
	}
}

func ToTransactionResponse(tx model.Transaction) wallet.TransactionResponse {
	return wallet.TransactionResponse{
		ID:        tx.ID,
		Type:      string(tx.Type),
		Method:    tx.Method,
		Amount:    tx.Amount,
		Tax:       tx.Tax,
		NetAmount: tx.NetAmount,
		Phone:     tx.Phone,
		CreatedAt: tx.CreatedAt,
	}
}

func ToBetsResponse(bets []model.BetRecord) []wallet.BetResponse {
	out := make([]wallet.BetResponse, len(bets))
	for i, b := range bets {
		out[i] = wallet.BetResponse{
			ID:         b.ID,
			Game:       string(b.Game),
			RoundID:    b.RoundID,
			Stake:      b.Stake,
			Multiplier: b.Multiplier,
			Payout:     b.Payout,
			Won:        b.Won,
			CreatedAt:  b.CreatedAt,
		}
	}
	return out
}
