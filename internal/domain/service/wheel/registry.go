package wheel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"golang.org/x/sync/singleflight"

	"luckywheel/internal/domain"
	"luckywheel/internal/domain/service/animator"
	"luckywheel/internal/domain/service/quota"
	"luckywheel/pkg/contextx"
	"luckywheel/pkg/logx"
)

type Config struct {
	MaxSpins         int
	RecoveryInterval time.Duration
	ResolveTimeout   time.Duration
}

// Registry координаторы по пользователям. Квота восстанавливается
// из хранилища при первом обращении.
type Registry struct {
	cfg       Config
	clk       clock.Clock
	resolver  Resolver
	animator  *animator.Animator
	persister *Persister
	publisher Publisher

	loads singleflight.Group

	mu           sync.Mutex
	coordinators map[contextx.UserID]*Coordinator
	closed       bool
}

func NewRegistry(
	cfg Config,
	clk clock.Clock,
	resolver Resolver,
	anim *animator.Animator,
	persister *Persister,
) *Registry {
	return &Registry{
		cfg:          cfg,
		clk:          clk,
		resolver:     resolver,
		animator:     anim,
		persister:    persister,
		publisher:    nopPublisher{},
		coordinators: make(map[contextx.UserID]*Coordinator),
	}
}

// WithPublisher подписчики событий всех координаторов. Persister добавляется сам.
func (r *Registry) WithPublisher(publisher Publisher) *Registry {
	r.publisher = publisher
	return r
}

func (r *Registry) Config() Config {
	return r.cfg
}

// Get координатор пользователя. Если хранилище недоступно, координатор
// не создаётся: полная квота по умолчанию раздала бы лишние спины.
// Хранилище читается без блокировки реестра, параллельные первые
// обращения одного пользователя делят одну загрузку.
func (r *Registry) Get(ctx context.Context, userID contextx.UserID) (*Coordinator, error) {
	r.mu.Lock()
	c, ok := r.coordinators[userID]
	closed := r.closed
	r.mu.Unlock()

	switch {
	case closed:
		return nil, domain.ErrShuttingDown
	case ok:
		return c, nil
	}

	v, err, _ := r.loads.Do(userID.String(), func() (any, error) {
		return r.create(ctx, userID)
	})
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	return v.(*Coordinator), nil //nolint:forcetypeassert
}

func (r *Registry) create(ctx context.Context, userID contextx.UserID) (*Coordinator, error) {
	state, found, err := r.persister.Load(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("persister.Load: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, domain.ErrShuttingDown
	}

	if c, ok := r.coordinators[userID]; ok {
		return c, nil
	}

	gate := quota.NewGate(r.cfg.MaxSpins, r.cfg.RecoveryInterval, r.clk)

	c := NewCoordinator(ctx, userID, gate, r.resolver, r.animator, r.clk).
		WithPublisher(Publishers{r.persister, r.publisher})

	if r.cfg.ResolveTimeout > 0 {
		c.WithResolveTimeout(r.cfg.ResolveTimeout)
	}

	if found {
		if err := gate.Restore(state); err != nil {
			return nil, fmt.Errorf("gate.Restore: %w", err)
		}

		logger(ctx).DebugContext(ctx, "quota restored",
			slog.String(logx.FieldUserID, userID.String()),
			slog.Int(logx.FieldRemaining, gate.State().Remaining),
		)
	}

	r.coordinators[userID] = c

	return c, nil
}

// Lookup координатор без создания.
func (r *Registry) Lookup(userID contextx.UserID) (*Coordinator, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.coordinators[userID]

	return c, ok
}

// Close дожидается всех спинов в полёте (commit или release) в пределах ctx
// и сбрасывает квоты в хранилище.
func (r *Registry) Close(ctx context.Context) error {
	r.mu.Lock()
	r.closed = true
	coordinators := make([]*Coordinator, 0, len(r.coordinators))

	for _, c := range r.coordinators {
		coordinators = append(coordinators, c)
	}
	r.mu.Unlock()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)

	for _, c := range coordinators {
		wg.Add(1)

		go func() {
			defer wg.Done()

			if err := c.Shutdown(ctx); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("coordinator %s: %w", c.UserID(), err))
				mu.Unlock()
			}
		}()
	}

	wg.Wait()

	if err := r.persister.Flush(context.WithoutCancel(ctx)); err != nil {
		errs = append(errs, fmt.Errorf("persister.Flush: %w", err))
	}

	return errors.Join(errs...)
}
