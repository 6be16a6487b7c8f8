package persistence

import (
	"context"

	"github.com/patrickmn/go-cache"

	"luckywheel/internal/domain/entity"
	"luckywheel/pkg/contextx"
)

// MemoryQuotaStore квота в памяти процесса, без истечения.
type MemoryQuotaStore struct {
	cache *cache.Cache
}

func NewMemoryQuotaStore() *MemoryQuotaStore {
	return &MemoryQuotaStore{cache: cache.New(cache.NoExpiration, 0)}
}

func (s *MemoryQuotaStore) Load(_ context.Context, userID contextx.UserID) (entity.QuotaState, bool, error) {
	v, ok := s.cache.Get(userID.String())
	if !ok {
		return entity.QuotaState{}, false, nil
	}

	state, ok := v.(entity.QuotaState)

	return state, ok, nil
}

func (s *MemoryQuotaStore) Save(_ context.Context, userID contextx.UserID, state entity.QuotaState) error {
	s.cache.Set(userID.String(), state, cache.NoExpiration)
	return nil
}
