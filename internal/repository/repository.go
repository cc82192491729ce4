package repository

import (
	"casino_rounds/internal/model"
	"context"
)

type AuthRepository interface {
	CreateSession(ctx context.Context, session *model.Session) error
	GetRefreshTokenBySessionID(ctx context.Context, sessionID string) (refreshTokenHash string, err error)
	DeleteSession(ctx context.Context, sessionID string) error
	GetUserBySessionID(ctx context.Context, sessionID string) (*model.User, error)
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) (id int, err error)
	GetUserByLogin(ctx context.Context, login string) (*model.User, error)

	GetBalance(ctx context.Context, id int) (int64, error)
	// Debit атомарно списывает сумму, если ее хватает на балансе
	Debit(ctx context.Context, id int, amount int64) (balance int64, err error)
	Credit(ctx context.Context, id int, amount int64) (balance int64, err error)
}

type BetRepository interface {
	CreateBet(ctx context.Context, bet *model.BetRecord) error
	ListByUser(ctx context.Context, userID int, limit int) ([]model.BetRecord, error)
}

type TransactionRepository interface {
	CreateTransaction(ctx context.Context, tx *model.Transaction) error
	ListByUser(ctx context.Context, userID int, limit int) ([]model.Transaction, error)
}

// OutcomeRepository лента последних исходов по игре
type OutcomeRepository interface {
	Push(ctx context.Context, entry model.OutcomeEntry) error
	Recent(ctx context.Context, game model.GameKind, limit int) ([]model.OutcomeEntry, error)
}

// RoundStatsRepository статистика RTP по играм
type RoundStatsRepository interface {
	Record(game model.GameKind, stake, payout int64)
	Stats(game model.GameKind) model.GameStats
}
