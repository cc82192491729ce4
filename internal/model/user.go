package model

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type User struct {
	ID       int
	Name     string
	Login    string
	Password string
	Balance  int64
}

type UserClaims struct {
	jwt.RegisteredClaims
}

// Session сессия игрока, хранит хэш refresh токена
type Session struct {
	ID               string
	UserID           int
	RefreshTokenHash string
	ExpiresAt        time.Time
}

// AuthData токены, выдаваемые после регистрации или входа
type AuthData struct {
	AccessToken  string
	RefreshToken string
	SessionID    string
}

// TransactionType тип операции с кошельком
type TransactionType string

const (
	TxDeposit    TransactionType = "deposit"
	TxWithdrawal TransactionType = "withdrawal"
)

// Transaction пополнение или вывод средств
type Transaction struct {
	ID        string
	UserID    int
	Type      TransactionType
	Method    string
	Amount    int64
	Tax       int64
	NetAmount int64
	Phone     string
	CreatedAt time.Time
}
