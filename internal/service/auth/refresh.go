package auth

import (
	"casino_rounds/internal/model"
	"casino_rounds/pkg/token"
	"context"
)

func (s *serv) Refresh(ctx context.Context, data *model.AuthData) (string, error) {
	// Хэш refresh токена из хранилища по sessionID
	refreshTokenHash, err := s.authRepo.GetRefreshTokenBySessionID(ctx, data.SessionID)
	if err != nil {
		return "", err
	}

	if !token.VerifyRefreshToken(data.RefreshToken, refreshTokenHash) {
		return "", model.ErrUnauthorized
	}

	user, err := s.authRepo.GetUserBySessionID(ctx, data.SessionID)
	if err != nil {
		return "", err
	}

	return token.GenerateAccessToken(
		user,
		s.jwtConfig.AccessTokenSecretKey(),
		s.jwtConfig.AccessTokenDuration())
}
