package bet_repo

import (
	"casino_rounds/internal/model"
	"casino_rounds/internal/repository"
	"context"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	table         = "bets"
	colID         = "id"
	colUserID     = "user_id"
	colGame       = "game"
	colRoundID    = "round_id"
	colStake      = "stake"
	colMultiplier = "multiplier"
	colPayout     = "payout"
	colWon        = "won"
	colCreatedAt  = "created_at"
)

type repo struct {
	dbc *pgxpool.Pool
	sb  sq.StatementBuilderType
}

func NewBetRepository(dbc *pgxpool.Pool) repository.BetRepository {
	return &repo{
		dbc: dbc,
		sb:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// CreateBet - запись рассчитанной ставки. Повторная запись того же ID игнорируется.
func (r *repo) CreateBet(ctx context.Context, bet *model.BetRecord) error {
	query := r.sb.Insert(table).
		Columns(colID, colUserID, colGame, colRoundID, colStake, colMultiplier, colPayout, colWon, colCreatedAt).
		Values(bet.ID, bet.UserID, string(bet.Game), bet.RoundID, bet.Stake, bet.Multiplier, bet.Payout, bet.Won, bet.CreatedAt).
		Suffix("ON CONFLICT (" + colID + ") DO NOTHING")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = trmpgx.DefaultCtxGetter.DefaultTrOrDB(ctx, r.dbc).Exec(ctx, sqlStr, args...)
	return err
}

// ListByUser - история ставок, новые первыми
func (r *repo) ListByUser(ctx context.Context, userID int, limit int) ([]model.BetRecord, error) {
	query := r.sb.Select(colID, colUserID, colGame, colRoundID, colStake, colMultiplier, colPayout, colWon, colCreatedAt).
		From(table).
		Where(sq.Eq{colUserID: userID}).
		OrderBy(colCreatedAt + " DESC").
		Limit(uint64(limit))

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := trmpgx.DefaultCtxGetter.DefaultTrOrDB(ctx, r.dbc).Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bets := make([]model.BetRecord, 0, limit)
	for rows.Next() {
		var (
			bet  model.BetRecord
			game string
		)
		err = rows.Scan(&bet.ID, &bet.UserID, &game, &bet.RoundID, &bet.Stake, &bet.Multiplier, &bet.Payout, &bet.Won, &bet.CreatedAt)
		if err != nil {
			return nil, err
		}
		bet.Game = model.GameKind(game)
		bets = append(bets, bet)
	}

	return bets, rows.Err()
}
