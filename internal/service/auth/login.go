package auth

import (
	"casino_rounds/internal/model"
	"casino_rounds/pkg/pass"
	"context"
	"errors"
)

func (s *serv) Login(ctx context.Context, user *model.User) (*model.AuthData, error) {
	// Получение пользователя из бд по логину
	stored, err := s.userRepo.GetUserByLogin(ctx, user.Login)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, model.ErrInvalidCredentials
		}
		return nil, err
	}

	// Верификация пароля
	if !pass.VerifyPassword(stored.Password, user.Password) {
		return nil, model.ErrInvalidCredentials
	}

	return s.openSession(ctx, stored)
}
