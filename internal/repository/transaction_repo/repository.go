package transaction_repo

import (
	"casino_rounds/internal/model"
	"casino_rounds/internal/repository"
	"context"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	table        = "transactions"
	colID        = "id"
	colUserID    = "user_id"
	colType      = "type"
	colMethod    = "method"
	colAmount    = "amount"
	colTax       = "tax"
	colNetAmount = "net_amount"
	colPhone     = "phone"
	colCreatedAt = "created_at"
)

type repo struct {
	dbc *pgxpool.Pool
	sb  sq.StatementBuilderType
}

func NewTransactionRepository(dbc *pgxpool.Pool) repository.TransactionRepository {
	return &repo{
		dbc: dbc,
		sb:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *repo) CreateTransaction(ctx context.Context, tx *model.Transaction) error {
	query := r.sb.Insert(table).
		Columns(colID, colUserID, colType, colMethod, colAmount, colTax, colNetAmount, colPhone, colCreatedAt).
		Values(tx.ID, tx.UserID, string(tx.Type), tx.Method, tx.Amount, tx.Tax, tx.NetAmount, tx.Phone, tx.CreatedAt)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = trmpgx.DefaultCtxGetter.DefaultTrOrDB(ctx, r.dbc).Exec(ctx, sqlStr, args...)
	return err
}

// ListByUser - операции кошелька, новые первыми
func (r *repo) ListByUser(ctx context.Context, userID int, limit int) ([]model.Transaction, error) {
	query := r.sb.Select(colID, colUserID, colType, colMethod, colAmount, colTax, colNetAmount, colPhone, colCreatedAt).
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

	out := make([]model.Transaction, 0, limit)
	for rows.Next() {
		var (
			tx     model.Transaction
			txType string
		)
		err = rows.Scan(&tx.ID, &tx.UserID, &txType, &tx.Method, &tx.Amount, &tx.Tax, &tx.NetAmount, &tx.Phone, &tx.CreatedAt)
		if err != nil {
			return nil, err
		}
		tx.Type = model.TransactionType(txType)
		out = append(out, tx)
	}

	return out, rows.Err()
}
