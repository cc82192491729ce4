package auth

import (
	"casino_rounds/internal/model"
	"casino_rounds/pkg/pass"
	"casino_rounds/pkg/token"
	"context"
	"time"
)

func (s *serv) Register(ctx context.Context, user *model.User) (*model.AuthData, error) {
	if user.Login == "" || user.Password == "" {
		return nil, model.ErrInvalidCredentials
	}

	// Хэширование пароля пользователя
	passwordHash, err := pass.HashPassword(user.Password)
	if err != nil {
		return nil, err
	}

	newUser := *user
	newUser.Password = passwordHash
	newUser.Balance = signupBonus

	var data *model.AuthData

	// Пользователь и его первая сессия создаются в одной транзакции
	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		// 1. Создать пользователя в бд
		newUser.ID, err = s.userRepo.CreateUser(ctx, &newUser)
		if err != nil {
			return err
		}

		// 2. Сессия и токены
		data, err = s.openSession(ctx, &newUser)
		return err
	})
	if err != nil {
		return nil, err
	}

	return data, nil
}

// openSession создает сессию с хэшем refresh токена и выдает access токен
func (s *serv) openSession(ctx context.Context, user *model.User) (*model.AuthData, error) {
	sessionID := token.NewSessionID()

	refreshToken, err := token.GenerateRefreshToken()
	if err != nil {
		return nil, err
	}

	err = s.authRepo.CreateSession(ctx, &model.Session{
		ID:               sessionID,
		UserID:           user.ID,
		RefreshTokenHash: token.HashRefreshToken(refreshToken),
		ExpiresAt:        time.Now().Add(s.jwtConfig.RefreshTokenDuration()),
	})
	if err != nil {
		return nil, err
	}

	accessToken, err := token.GenerateAccessToken(
		user,
		s.jwtConfig.AccessTokenSecretKey(),
		s.jwtConfig.AccessTokenDuration())
	if err != nil {
		return nil, err
	}

	return &model.AuthData{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		SessionID:    sessionID,
	}, nil
}
