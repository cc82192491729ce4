package service

import (
	"casino_rounds/internal/model"
	"context"
)

// RoundService столы игр: команды игроков над раундом и чтение состояния
type RoundService interface {
	Place(ctx context.Context, userID int, bet model.PlaceBet) (*model.BetSlot, error)
	Cancel(ctx context.Context, userID int, game model.GameKind, slotID int) (*model.BetSlot, error)
	CashOut(ctx context.Context, userID int, game model.GameKind, slotID int) (*model.BetSlot, error)
	Steer(ctx context.Context, userID int, lane int) error

	Snapshot(userID int, game model.GameKind) (*model.Snapshot, error)
	Subscribe(userID int, game model.GameKind) (<-chan model.Snapshot, func(), error)
	History(ctx context.Context, game model.GameKind) ([]model.OutcomeEntry, error)
	Stats(ctx context.Context, game model.GameKind) (*model.GameStats, error)
	Matches() []model.Match

	Run(ctx context.Context) error
}

// LedgerService операции с балансом, которые выполняет движок раундов
type LedgerService interface {
	Debit(ctx context.Context, userID int, amount int64) (balance int64, err error)
	Credit(ctx context.Context, userID int, amount int64) (balance int64, err error)
	RecordBet(ctx context.Context, bet *model.BetRecord) error
}

type WalletService interface {
	Balance(ctx context.Context, userID int) (int64, error)
	Deposit(ctx context.Context, tx *model.Transaction) (*model.Transaction, error)
	Withdraw(ctx context.Context, tx *model.Transaction) (*model.Transaction, error)
	BetHistory(ctx context.Context, userID int, limit int) ([]model.BetRecord, error)
	Transactions(ctx context.Context, userID int, limit int) ([]model.Transaction, error)
}

type AuthService interface {
	Register(ctx context.Context, user *model.User) (*model.AuthData, error)
	Login(ctx context.Context, user *model.User) (*model.AuthData, error)
	Refresh(ctx context.Context, data *model.AuthData) (newAccessToken string, err error)
	Logout(ctx context.Context, sessionID string) error
}
