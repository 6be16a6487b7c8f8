package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"luckywheel/internal/domain"
	"luckywheel/internal/domain/entity"
	"luckywheel/pkg/contextx"
	"luckywheel/pkg/errcodes"
)

const redisKeyPrefix = "luckywheel:quota:"

// RedisQuotaStore квота как JSON {remaining, recoveryDeadline}.
type RedisQuotaStore struct {
	client redis.UniversalClient
}

func NewRedisQuotaStore(client redis.UniversalClient) *RedisQuotaStore {
	return &RedisQuotaStore{client: client}
}

func (s *RedisQuotaStore) Load(ctx context.Context, userID contextx.UserID) (entity.QuotaState, bool, error) {
	data, err := s.client.Get(ctx, redisKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return entity.QuotaState{}, false, nil
		}

		return entity.QuotaState{}, false, domain.WrapError(err, errcodes.InternalServerError, "failed to load quota")
	}

	var state entity.QuotaState
	if err := state.UnmarshalJSON(data); err != nil {
		return entity.QuotaState{}, false, fmt.Errorf("state.UnmarshalJSON: %w", err)
	}

	return state, true, nil
}

func (s *RedisQuotaStore) Save(ctx context.Context, userID contextx.UserID, state entity.QuotaState) error {
	data, err := state.MarshalJSON()
	if err != nil {
		return fmt.Errorf("state.MarshalJSON: %w", err)
	}

	if err := s.client.Set(ctx, redisKey(userID), data, 0).Err(); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to save quota")
	}

	return nil
}

func redisKey(userID contextx.UserID) string {
	return redisKeyPrefix + userID.String()
}
