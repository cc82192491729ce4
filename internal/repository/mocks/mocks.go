// Package mocks testify моки репозиториев для тестов сервисов.
package mocks

import (
	"casino_rounds/internal/model"
	"context"

	"github.com/stretchr/testify/mock"
)

type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) CreateUser(ctx context.Context, user *model.User) (int, error) {
	args := m.Called(ctx, user)
	return args.Int(0), args.Error(1)
}

func (m *UserRepository) GetUserByLogin(ctx context.Context, login string) (*model.User, error) {
	args := m.Called(ctx, login)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

func (m *UserRepository) GetBalance(ctx context.Context, id int) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *UserRepository) Debit(ctx context.Context, id int, amount int64) (int64, error) {
	args := m.Called(ctx, id, amount)
	return args.Get(0).(int64), args.Error(1)
}

func (m *UserRepository) Credit(ctx context.Context, id int, amount int64) (int64, error) {
	args := m.Called(ctx, id, amount)
	return args.Get(0).(int64), args.Error(1)
}

type AuthRepository struct {
	mock.Mock
}

func (m *AuthRepository) CreateSession(ctx context.Context, session *model.Session) error {
	return m.Called(ctx, session).Error(0)
}

func (m *AuthRepository) GetRefreshTokenBySessionID(ctx context.Context, sessionID string) (string, error) {
	args := m.Called(ctx, sessionID)
	return args.String(0), args.Error(1)
}

func (m *AuthRepository) DeleteSession(ctx context.Context, sessionID string) error {
	return m.Called(ctx, sessionID).Error(0)
}

func (m *AuthRepository) GetUserBySessionID(ctx context.Context, sessionID string) (*model.User, error) {
	args := m.Called(ctx, sessionID)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

type BetRepository struct {
	mock.Mock
}

func (m *BetRepository) CreateBet(ctx context.Context, bet *model.BetRecord) error {
	return m.Called(ctx, bet).Error(0)
}

func (m *BetRepository) ListByUser(ctx context.Context, userID int, limit int) ([]model.BetRecord, error) {
	args := m.Called(ctx, userID, limit)
	bets, _ := args.Get(0).([]model.BetRecord)
	return bets, args.Error(1)
}

type TransactionRepository struct {
	mock.Mock
}

func (m *TransactionRepository) CreateTransaction(ctx context.Context, tx *model.Transaction) error {
	return m.Called(ctx, tx).Error(0)
}

func (m *TransactionRepository) ListByUser(ctx context.Context, userID int, limit int) ([]model.Transaction, error) {
	args := m.Called(ctx, userID, limit)
	txs, _ := args.Get(0).([]model.Transaction)
	return txs, args.Error(1)
}
