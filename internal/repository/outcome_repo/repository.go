package outcome_repo

import (
	"casino_rounds/internal/model"
	"casino_rounds/internal/repository"
	"context"
	"errors"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	keyPrefix = "outcomes:"
	// Сколько исходов хранится на игру
	historySize = 10
)

type repo struct {
	rdb *redis.Client
}

func NewOutcomeRepository(rdb *redis.Client) repository.OutcomeRepository {
	return &repo{rdb: rdb}
}

func key(game model.GameKind) string {
	return keyPrefix + string(game)
}

// Push кладет исход в начало списка и обрезает список до historySize
func (r *repo) Push(ctx context.Context, entry model.OutcomeEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	pipe := r.rdb.TxPipeline()
	pipe.LPush(ctx, key(entry.Game), data)
	pipe.LTrim(ctx, key(entry.Game), 0, historySize-1)
	_, err = pipe.Exec(ctx)
	return err
}

// Recent последние исходы, новые первыми
func (r *repo) Recent(ctx context.Context, game model.GameKind, limit int) ([]model.OutcomeEntry, error) {
	if limit <= 0 || limit > historySize {
		limit = historySize
	}

	vals, err := r.rdb.LRange(ctx, key(game), 0, int64(limit-1)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []model.OutcomeEntry{}, nil
		}
		return nil, err
	}

	out := make([]model.OutcomeEntry, 0, len(vals))
	for _, v := range vals {
		var entry model.OutcomeEntry
		if err := json.Unmarshal([]byte(v), &entry); err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, nil
}
