package wheel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"luckywheel/internal/domain"
	"luckywheel/internal/domain/entity"
	"luckywheel/pkg/contextx"
	"luckywheel/pkg/errcodes"
	"luckywheel/pkg/logx"
)

// QuotaStore хранилище квоты между перезапусками.
type QuotaStore interface {
	// Load found == false, если состояния ещё нет.
	Load(ctx context.Context, userID contextx.UserID) (state entity.QuotaState, found bool, err error)
	Save(ctx context.Context, userID contextx.UserID, state entity.QuotaState) error
}

// Persister пишет квоту в фоне. Для каждого пользователя сохраняется только
// последнее состояние, Publish никогда не ждёт хранилище.
type Persister struct {
	store QuotaStore

	mu      sync.Mutex
	pending map[contextx.UserID]entity.QuotaState
	wake    chan struct{}
}

func NewPersister(store QuotaStore) *Persister {
	return &Persister{
		store:   store,
		pending: make(map[contextx.UserID]entity.QuotaState),
		wake:    make(chan struct{}, 1),
	}
}

func (p *Persister) Load(ctx context.Context, userID contextx.UserID) (entity.QuotaState, bool, error) {
	state, found, err := p.store.Load(ctx, userID)
	if err != nil {
		return entity.QuotaState{}, false, domain.WrapError(
			fmt.Errorf("store.Load: %w", err), errcodes.ServiceUnavailable, "quota store unavailable",
		)
	}

	return state, found, nil
}

func (p *Persister) Publish(_ context.Context, event entity.Event) {
	if event.Type != entity.EventQuota {
		return
	}

	p.mu.Lock()
	p.pending[event.UserID] = event.Quota
	p.mu.Unlock()

	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// Run сохраняет накопленное до отмены ctx, затем делает последний сброс.
func (p *Persister) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return p.Flush(context.WithoutCancel(ctx))
		case <-p.wake:
			if err := p.Flush(ctx); err != nil {
				logger(ctx).ErrorContext(ctx, "persister.Flush", logx.Error(err))
			}
		}
	}
}

// Flush сохраняет всё накопленное. Неудачные записи возвращаются в очередь,
// если их не вытеснило более новое состояние.
func (p *Persister) Flush(ctx context.Context) error {
	p.mu.Lock()
	batch := p.pending
	p.pending = make(map[contextx.UserID]entity.QuotaState, len(batch))
	p.mu.Unlock()

	var errs []error

	for userID, state := range batch {
		if err := p.store.Save(ctx, userID, state); err != nil {
			logger(ctx).WarnContext(ctx, "quota not saved",
				slog.String(logx.FieldUserID, userID.String()),
				logx.Error(err),
			)

			errs = append(errs, fmt.Errorf("store.Save %s: %w", userID, err))

			p.mu.Lock()
			if _, newer := p.pending[userID]; !newer {
				p.pending[userID] = state
			}
			p.mu.Unlock()
		}
	}

	return errors.Join(errs...)
}
