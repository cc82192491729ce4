package wallet

import "time"

type BalanceResponse struct {
	Balance int64 `json:"balance"`
}

type PaymentRequest struct {
	Amount int64  `json:"amount"`
	Method string `json:"method"` // mtn, airtel
	Phone  string `json:"phone"`
}

type TransactionResponse struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Method    string    `json:"method"`
	Amount    int64     `json:"amount"`
	Tax       int64     `json:"tax"`
	NetAmount int64     `json:"net_amount"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type BetResponse struct {
	ID         string    `json:"id"`
	Game       string    `json:"game"`
	RoundID    string    `json:"round_id"`
	Stake      int64     `json:"stake"`
	Multiplier float64   `json:"multiplier"`
	Payout     int64     `json:"payout"`
	Won        bool      `json:"won"`
	CreatedAt  time.Time `json:"created_at"`
}
