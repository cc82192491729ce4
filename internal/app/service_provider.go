package app

import (
	authAPI "casino_rounds/internal/api/auth"
	roundAPI "casino_rounds/internal/api/round"
	walletAPI "casino_rounds/internal/api/wallet"
	"casino_rounds/internal/config"
	"casino_rounds/internal/config/env"
	"casino_rounds/internal/metrics"
	"casino_rounds/internal/middleware"
	"casino_rounds/internal/repository"
	"casino_rounds/internal/repository/auth_repo"
	"casino_rounds/internal/repository/bet_repo"
	"casino_rounds/internal/repository/outcome_repo"
	"casino_rounds/internal/repository/round_stats_repo"
	"casino_rounds/internal/repository/transaction_repo"
	"casino_rounds/internal/repository/user_repo"
	"casino_rounds/internal/service"
	"casino_rounds/internal/service/auth"
	"casino_rounds/internal/service/ledger"
	"casino_rounds/internal/service/round"
	"casino_rounds/internal/service/wallet"
	"casino_rounds/pkg/logger"
	"context"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2/manager"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const gameConfigPath = "config.yaml"

type ServiceProvider struct {
	// Logger
	logCfg config.LogConfig
	log    *zap.Logger

	//TXManager
	txManager trm.Manager

	// Database
	pgConfig config.PGConfig
	dbClient *pgxpool.Pool

	// Redis
	redisCfg    config.RedisConfig
	redisClient *redis.Client

	// Auth bits
	jwtCfg   config.JWTConfig
	authRepo repository.AuthRepository
	authServ service.AuthService
	authHand *authAPI.Handler

	// User and wallet bits
	userRepo   repository.UserRepository
	betRepo    repository.BetRepository
	txRepo     repository.TransactionRepository
	ledgerServ service.LedgerService
	walletServ service.WalletService
	walletHand *walletAPI.Handler

	// Round bits
	gameCfg     config.GameConfig
	outcomeRepo repository.OutcomeRepository
	statsRepo   repository.RoundStatsRepository
	roundServ   service.RoundService
	roundHand   *roundAPI.Handler

	// Router and HTTP config
	httpCfg config.HTTPConfig
	router  chi.Router
}

func newServiceProvider() *ServiceProvider {
	return &ServiceProvider{}
}

func (sp *ServiceProvider) LogCfg() config.LogConfig {
	if sp.logCfg == nil {
		sp.logCfg = env.NewLogConfig()
	}
	return sp.logCfg
}

func (sp *ServiceProvider) Logger() *zap.Logger {
	if sp.log == nil {
		cfg := sp.LogCfg()
		sp.log = logger.New(logger.Config{
			Level: cfg.Level(),
			Prod:  cfg.Prod(),
			Dir:   cfg.Dir(),
			File:  cfg.File(),
		})
	}
	return sp.log
}

func (sp *ServiceProvider) PgConfig() config.PGConfig {
	if sp.pgConfig == nil {
		cfg, err := env.NewPGConfig()
		if err != nil {
			panic("failed to get database config: " + err.Error())
		}
		sp.pgConfig = cfg
	}
	return sp.pgConfig
}

func (sp *ServiceProvider) DBClient(ctx context.Context) *pgxpool.Pool {
	if sp.dbClient == nil {
		dbc, err := pgxpool.New(ctx, sp.PgConfig().DSN())
		if err != nil {
			panic("failed to create db pool: " + err.Error())
		}
		err = dbc.Ping(ctx)
		if err != nil {
			panic("failed to ping db: " + err.Error())
		}
		sp.dbClient = dbc
	}
	return sp.dbClient
}

func (sp *ServiceProvider) RedisCfg() config.RedisConfig {
	if sp.redisCfg == nil {
		cfg, err := env.NewRedisConfig()
		if err != nil {
			panic("failed to get redis config: " + err.Error())
		}
		sp.redisCfg = cfg
	}
	return sp.redisCfg
}

func (sp *ServiceProvider) RedisClient(ctx context.Context) *redis.Client {
	if sp.redisClient == nil {
		cfg := sp.RedisCfg()
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Addr(),
			Password: cfg.Password(),
			DB:       cfg.DB(),
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			panic("failed to ping redis: " + err.Error())
		}
		sp.redisClient = rdb
	}
	return sp.redisClient
}

func (sp *ServiceProvider) TXManager(ctx context.Context) trm.Manager {
	if sp.txManager == nil {
		m, err := manager.New(trmpgx.NewDefaultFactory(sp.DBClient(ctx)))
		if err != nil {
			panic("failed to create tx manager: " + err.Error())
		}

		sp.txManager = m
	}

	return sp.txManager
}

func (sp *ServiceProvider) JWTCfg() config.JWTConfig {
	if sp.jwtCfg == nil {
		cfg, err := env.NewJWTConfig()
		if err != nil {
			panic("failed to get jwt config: " + err.Error())
		}
		sp.jwtCfg = cfg
	}
	return sp.jwtCfg
}

func (sp *ServiceProvider) AuthRepo(ctx context.Context) repository.AuthRepository {
	if sp.authRepo == nil {
		sp.authRepo = auth_repo.NewAuthRepository(sp.DBClient(ctx))
	}
	return sp.authRepo
}

func (sp *ServiceProvider) UserRepo(ctx context.Context) repository.UserRepository {
	if sp.userRepo == nil {
		sp.userRepo = user_repo.NewUserRepository(sp.DBClient(ctx))
	}
	return sp.userRepo
}

func (sp *ServiceProvider) BetRepo(ctx context.Context) repository.BetRepository {
	if sp.betRepo == nil {
		sp.betRepo = bet_repo.NewBetRepository(sp.DBClient(ctx))
	}
	return sp.betRepo
}

func (sp *ServiceProvider) TransactionRepo(ctx context.Context) repository.TransactionRepository {
	if sp.txRepo == nil {
		sp.txRepo = transaction_repo.NewTransactionRepository(sp.DBClient(ctx))
	}
	return sp.txRepo
}

func (sp *ServiceProvider) AuthService(ctx context.Context) service.AuthService {
	if sp.authServ == nil {
		sp.authServ = auth.NewAuthService(sp.TXManager(ctx), sp.UserRepo(ctx), sp.AuthRepo(ctx), sp.JWTCfg())
	}
	return sp.authServ
}

func (sp *ServiceProvider) AuthHandler(ctx context.Context) *authAPI.Handler {
	if sp.authHand == nil {
		sp.authHand = authAPI.NewHandler(authAPI.HandlerDeps{
			Serv: sp.AuthService(ctx),
			Log:  sp.Logger(),
		})
	}
	return sp.authHand
}

func (sp *ServiceProvider) LedgerService(ctx context.Context) service.LedgerService {
	if sp.ledgerServ == nil {
		sp.ledgerServ = ledger.NewLedgerService(sp.UserRepo(ctx), sp.BetRepo(ctx))
	}
	return sp.ledgerServ
}

func (sp *ServiceProvider) WalletService(ctx context.Context) service.WalletService {
	if sp.walletServ == nil {
		sp.walletServ = wallet.NewWalletService(sp.TXManager(ctx), sp.UserRepo(ctx), sp.BetRepo(ctx), sp.TransactionRepo(ctx))
	}
	return sp.walletServ
}

func (sp *ServiceProvider) WalletHandler(ctx context.Context) *walletAPI.Handler {
	if sp.walletHand == nil {
		sp.walletHand = walletAPI.NewHandler(walletAPI.HandlerDeps{
			Serv: sp.WalletService(ctx),
			Log:  sp.Logger(),
		})
	}
	return sp.walletHand
}

func (sp *ServiceProvider) GameCfg() config.GameConfig {
	if sp.gameCfg == nil {
		cfg, err := env.NewGameConfigFromYAML(gameConfigPath)
		if err != nil {
			panic("failed to get game config: " + err.Error())
		}
		sp.gameCfg = cfg
	}
	return sp.gameCfg
}

func (sp *ServiceProvider) OutcomeRepo(ctx context.Context) repository.OutcomeRepository {
	if sp.outcomeRepo == nil {
		sp.outcomeRepo = outcome_repo.NewOutcomeRepository(sp.RedisClient(ctx))
	}
	return sp.outcomeRepo
}

func (sp *ServiceProvider) RoundStatsRepo() repository.RoundStatsRepository {
	if sp.statsRepo == nil {
		sp.statsRepo = round_stats_repo.NewRoundStatsRepository()
	}
	return sp.statsRepo
}

func (sp *ServiceProvider) RoundService(ctx context.Context) service.RoundService {
	if sp.roundServ == nil {
		sp.roundServ = round.NewRoundService(
			sp.GameCfg(),
			sp.LedgerService(ctx),
			sp.TXManager(ctx),
			sp.OutcomeRepo(ctx),
			sp.RoundStatsRepo(),
			sp.Logger().Named("round"),
		)
	}
	return sp.roundServ
}

func (sp *ServiceProvider) RoundHandler(ctx context.Context) *roundAPI.Handler {
	if sp.roundHand == nil {
		sp.roundHand = roundAPI.NewHandler(roundAPI.HandlerDeps{
			Serv: sp.RoundService(ctx),
			Log:  sp.Logger(),
		})
	}
	return sp.roundHand
}

func (sp *ServiceProvider) HTTPCfg() config.HTTPConfig {
	if sp.httpCfg == nil {
		cfg, err := env.NewHTTPConfig()
		if err != nil {
			panic("failed to get http config: " + err.Error())
		}
		sp.httpCfg = cfg
	}

	return sp.httpCfg
}

func (sp *ServiceProvider) Router(ctx context.Context) chi.Router {
	if sp.router == nil {
		r := chi.NewRouter()

		r.Use(chimw.RequestID)
		r.Use(chimw.Recoverer)

		// CORS middleware
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
			ExposedHeaders:   []string{"Link"},
			AllowCredentials: true,
			MaxAge:           60 * 15,
		}))

		r.Handle("/metrics", metrics.Handler())

		// Auth endpoints
		authHandler := sp.AuthHandler(ctx)
		r.Route("/auth", func(rr chi.Router) {
			rr.Post("/register", authHandler.Register)
			rr.Post("/login", authHandler.Login)
			rr.Post("/refresh", authHandler.Refresh)
			rr.Post("/logout", authHandler.Logout)
		})

		requireAuth := middleware.Auth(sp.JWTCfg().AccessTokenSecretKey())

		// Wallet endpoints
		walletHandler := sp.WalletHandler(ctx)
		r.Route("/wallet", func(rr chi.Router) {
			rr.Use(requireAuth)
			rr.Get("/balance", walletHandler.Balance)
			rr.Get("/history", walletHandler.History)
			rr.Get("/transactions", walletHandler.Transactions)
			rr.Post("/deposit", walletHandler.Deposit)
			rr.Post("/withdraw", walletHandler.Withdraw)
		})

		// Round endpoints
		roundHandler := sp.RoundHandler(ctx)
		r.Route("/rounds", func(rr chi.Router) {
			rr.Get("/sports/matches", roundHandler.Matches)
			rr.Get("/{game}/history", roundHandler.History)
			rr.Get("/{game}/stats", roundHandler.Stats)

			rr.Group(func(pr chi.Router) {
				pr.Use(requireAuth)
				pr.Post("/race/steer", roundHandler.Steer)
				pr.Get("/{game}", roundHandler.Snapshot)
				pr.Get("/{game}/stream", roundHandler.Stream)
				pr.Post("/{game}/bets", roundHandler.PlaceBet)
				pr.Delete("/{game}/bets/{slot}", roundHandler.CancelBet)
				pr.Post("/{game}/bets/{slot}/cashout", roundHandler.CashOut)
			})
		})

		sp.router = r
	}

	return sp.router
}

// Close закрывает соединения с хранилищами
func (sp *ServiceProvider) Close() {
	if sp.redisClient != nil {
		_ = sp.redisClient.Close()
	}
	if sp.dbClient != nil {
		sp.dbClient.Close()
	}
	if sp.log != nil {
		_ = sp.log.Sync()
	}
}
