package wheel

import (
	"context"
	"fmt"
	"sync"

	"luckywheel/internal/domain/entity"
	"luckywheel/internal/domain/service/animator"
)

// Session один спин в полёте. Поля пишутся один раз до закрытия
// соответствующего канала и читаются только после него.
type Session struct {
	ID string

	planned     chan struct{}
	plannedOnce sync.Once
	done        chan struct{}

	plan    entity.RotationPlan
	outcome entity.SpinOutcome
	err     error

	// Пишутся под Coordinator.mu при переходе в Animating.
	ctx       context.Context //nolint:containedctx
	animation *animator.Animation
}

func newSession(id string) *Session {
	return &Session{
		ID:      id,
		planned: make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Planned закрывается при переходе в Animating или при неудаче резолва.
func (s *Session) Planned() <-chan struct{} {
	return s.planned
}

// Done закрывается после Revealed или Failed.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// WaitPlan ждёт план анимации. Отмена ctx не прерывает сессию.
func (s *Session) WaitPlan(ctx context.Context) (entity.RotationPlan, error) {
	select {
	case <-ctx.Done():
		return entity.RotationPlan{}, fmt.Errorf("session.WaitPlan: %w", ctx.Err())
	case <-s.planned:
	}

	select {
	case <-s.done:
		if s.err != nil {
			return entity.RotationPlan{}, s.err
		}
	default:
	}

	return s.plan, nil
}

// Wait ждёт результат спина. Отмена ctx не прерывает сессию.
func (s *Session) Wait(ctx context.Context) (entity.SpinOutcome, error) {
	select {
	case <-ctx.Done():
		return entity.SpinOutcome{}, fmt.Errorf("session.Wait: %w", ctx.Err())
	case <-s.done:
	}

	return s.outcome, s.err
}

func (s *Session) markPlanned() {
	s.plannedOnce.Do(func() { close(s.planned) })
}
