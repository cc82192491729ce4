package auth

import (
	"casino_rounds/internal/config"
	"casino_rounds/internal/repository"
	"casino_rounds/internal/service"

	"github.com/avito-tech/go-transaction-manager/trm/v2"
)

// Бонус при регистрации
const signupBonus = 1000

type serv struct {
	txManager trm.Manager
	userRepo  repository.UserRepository
	authRepo  repository.AuthRepository
	jwtConfig config.JWTConfig
}

func NewAuthService(
	txManager trm.Manager,
	userRepo repository.UserRepository,
	authRepo repository.AuthRepository,
	jwtConfig config.JWTConfig,
) service.AuthService {
	return &serv{
		txManager: txManager,
		userRepo:  userRepo,
		authRepo:  authRepo,
		jwtConfig: jwtConfig,
	}
}
