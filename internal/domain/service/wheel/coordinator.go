// Package wheel ведёт жизненный цикл спина: квота, резолв приза,
// анимация и раскрытие результата.
package wheel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/rs/xid"

	"luckywheel/internal/domain"
	"luckywheel/internal/domain/entity"
	"luckywheel/internal/domain/service/animator"
	"luckywheel/internal/domain/service/quota"
	"luckywheel/pkg/contextx"
	"luckywheel/pkg/errcodes"
	"luckywheel/pkg/logx"
)

const DefaultResolveTimeout = 15 * time.Second

// Resolver авторитетный источник приза. Одна попытка, без повторов.
type Resolver interface {
	Resolve(ctx context.Context) (entity.SpinOutcome, error)
}

type ResolverFunc func(ctx context.Context) (entity.SpinOutcome, error)

func (f ResolverFunc) Resolve(ctx context.Context) (entity.SpinOutcome, error) {
	return f(ctx)
}

// Snapshot состояние координатора для UI.
type Snapshot struct {
	UserID      contextx.UserID
	State       entity.SpinState
	SpinID      string
	Rotation    float64
	Quota       entity.QuotaState
	MaxSpins    int
	Plan        *entity.RotationPlan
	LastOutcome *entity.SpinOutcome
	LastError   errcodes.ErrorCode
}

// Coordinator автомат спина одного пользователя.
//
// Idle -> Requesting -> Animating -> Revealed -> Idle, выходы с ошибкой
// Requesting -> Failed -> Idle и Animating -> Failed -> Idle.
// Блокировки берутся в порядке Coordinator.mu, затем Gate.
type Coordinator struct {
	userID         contextx.UserID
	gate           *quota.Gate
	resolver       Resolver
	animator       *animator.Animator
	clk            clock.Clock
	publisher      Publisher
	resolveTimeout time.Duration

	// ctx фоновых событий (таймер восстановления).
	ctx context.Context //nolint:containedctx

	mu          sync.Mutex
	state       entity.SpinState
	rotation    float64
	session     *Session
	plan        *entity.RotationPlan
	lastOutcome *entity.SpinOutcome
	lastError   errcodes.ErrorCode
	closed      bool

	// stateView копия state для событий квоты, которые приходят под блокировкой гейта.
	stateView atomic.Int32
}

func NewCoordinator(
	ctx context.Context,
	userID contextx.UserID,
	gate *quota.Gate,
	resolver Resolver,
	anim *animator.Animator,
	clk clock.Clock,
) *Coordinator {
	c := &Coordinator{
		userID:         userID,
		gate:           gate,
		resolver:       resolver,
		animator:       anim,
		clk:            clk,
		publisher:      nopPublisher{},
		resolveTimeout: DefaultResolveTimeout,
		ctx: contextx.WithLogger(
			context.WithoutCancel(ctx),
			logger(ctx).With(slog.String(logx.FieldUserID, userID.String())),
		),
		state: entity.SpinStateIdle,
	}

	gate.WithListener(c.onQuota)

	return c
}

func (c *Coordinator) WithPublisher(publisher Publisher) *Coordinator {
	c.publisher = publisher
	return c
}

func (c *Coordinator) WithResolveTimeout(timeout time.Duration) *Coordinator {
	c.resolveTimeout = timeout
	return c
}

func (c *Coordinator) UserID() contextx.UserID {
	return c.userID
}

// RequestSpin начинает спин. Отказы QuotaExhausted и SpinInProgress
// возвращаются сразу и не меняют состояние. Сессия продолжается в фоне
// и после отмены ctx, чтобы commit или release выполнились всегда.
func (c *Coordinator) RequestSpin(ctx context.Context) (*Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var err error

	switch {
	case c.closed:
		err = domain.ErrShuttingDown
	case c.session != nil:
		err = domain.ErrSpinInProgress
	default:
		err = c.gate.Reserve()
	}

	if err != nil {
		logger(ctx).InfoContext(ctx, "spin rejected",
			slog.String(logx.FieldUserID, c.userID.String()),
			logx.Error(err),
		)

		c.publishLocked(ctx, entity.Event{Type: entity.EventRejected, Error: errcodes.Code(err)})

		return nil, err
	}

	s := newSession(xid.New().String())
	c.session = s
	c.plan = nil

	sctx := contextx.WithLogger(context.WithoutCancel(ctx), logger(ctx).With(
		slog.String(logx.FieldUserID, c.userID.String()),
		slog.String(logx.FieldSpinID, s.ID),
	))

	c.transitionLocked(sctx, entity.SpinStateRequesting, entity.Event{})

	go c.resolve(sctx, s)

	return s, nil
}

// Snapshot текущее состояние, квота пересчитывается от дедлайна.
func (c *Coordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		UserID:      c.userID,
		State:       c.state,
		Rotation:    c.rotation,
		Quota:       c.gate.State(),
		MaxSpins:    c.gate.MaxSpins(),
		Plan:        c.plan,
		LastOutcome: c.lastOutcome,
		LastError:   c.lastError,
	}

	if c.session != nil {
		snap.SpinID = c.session.ID
	}

	return snap
}

// ResetQuota явный сброс квоты до максимума.
func (c *Coordinator) ResetQuota(ctx context.Context) {
	logger(ctx).InfoContext(ctx, "quota reset", slog.String(logx.FieldUserID, c.userID.String()))
	c.gate.Reset()
}

// Wait ждёт завершения сессии в полёте.
func (c *Coordinator) Wait(ctx context.Context) error {
	c.mu.Lock()
	s := c.session
	c.mu.Unlock()

	if s == nil {
		return nil
	}

	select {
	case <-ctx.Done():
		return fmt.Errorf("coordinator.Wait: %w", ctx.Err())
	case <-s.Done():
		return nil
	}
}

// Shutdown перестаёт принимать спины, дожидается сессии в полёте
// и снимает таймер восстановления. Если ctx истёк во время анимации,
// анимация обрывается и уже известный исход фиксируется сразу.
func (c *Coordinator) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	err := c.Wait(ctx)
	if err != nil && c.settleEarly() {
		err = nil
	}

	c.gate.Close()

	return err
}

// settleEarly false, если сессия ещё в Requesting.
// Cancel вызывается без c.mu: settle берёт c.mu внутри once анимации.
func (c *Coordinator) settleEarly() bool {
	c.mu.Lock()
	s := c.session

	var an *animator.Animation
	if s != nil {
		an = s.animation
	}
	c.mu.Unlock()

	switch {
	case s == nil:
		return true
	case an == nil:
		return false
	}

	if !an.Cancel() {
		<-an.Done()
		return true
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == s {
		logger(s.ctx).WarnContext(s.ctx, "animation cut short by shutdown")
		c.settleLocked(s.ctx, s)
	}

	return true
}

func (c *Coordinator) resolve(ctx context.Context, s *Session) {
	rctx, cancel := context.WithTimeout(ctx, c.resolveTimeout)
	started := c.clk.Now()
	outcome, err := c.resolver.Resolve(rctx)
	elapsed := c.clk.Since(started)

	cancel()

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.failLocked(ctx, s, classify(err), entity.Event{ResolveDuration: elapsed})
		return
	}

	plan, err := c.animator.PlanRotation(c.rotation, outcome)
	if err != nil {
		c.failLocked(ctx, s, classify(err), entity.Event{ResolveDuration: elapsed})
		return
	}

	s.plan = plan
	s.outcome = outcome
	c.plan = &plan

	c.transitionLocked(ctx, entity.SpinStateAnimating, entity.Event{Plan: &plan, ResolveDuration: elapsed})

	s.ctx = ctx
	s.animation = c.animator.Start(plan, func() { c.settle(ctx, s) })
	s.markPlanned()
}

func (c *Coordinator) settle(ctx context.Context, s *Session) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.settleLocked(ctx, s)
}

func (c *Coordinator) settleLocked(ctx context.Context, s *Session) {
	if err := c.gate.Commit(); err != nil {
		c.failLocked(ctx, s, err, entity.Event{})
		return
	}

	outcome := s.outcome
	c.rotation = s.plan.TargetRotation
	c.lastOutcome = &outcome
	c.lastError = ""

	logger(ctx).InfoContext(ctx, "spin revealed",
		slog.String(logx.FieldPrizeID, outcome.PrizeID.String()),
		slog.String(logx.FieldAmount, outcome.Amount.String()),
	)

	c.transitionLocked(ctx, entity.SpinStateRevealed, entity.Event{Outcome: &outcome})
	c.finishLocked(ctx, s, nil)
}

func (c *Coordinator) failLocked(ctx context.Context, s *Session, err error, ev entity.Event) {
	if c.gate.Active() {
		if rerr := c.gate.Release(); rerr != nil {
			logger(ctx).ErrorContext(ctx, "gate.Release", logx.Error(rerr))
		}
	}

	c.lastError = errcodes.Code(err)

	logger(ctx).WarnContext(ctx, "spin failed", logx.Error(err))

	ev.Error = c.lastError
	c.transitionLocked(ctx, entity.SpinStateFailed, ev)
	c.finishLocked(ctx, s, err)
}

func (c *Coordinator) finishLocked(ctx context.Context, s *Session, err error) {
	s.err = err
	c.session = nil
	c.plan = nil

	c.transitionLocked(ctx, entity.SpinStateIdle, entity.Event{})

	close(s.done)
	s.markPlanned()
}

func (c *Coordinator) transitionLocked(ctx context.Context, state entity.SpinState, ev entity.Event) {
	c.state = state
	c.stateView.Store(int32(state)) //nolint:gosec

	ev.Type = entity.EventState
	if c.session != nil {
		ev.SpinID = c.session.ID
	}

	logger(ctx).DebugContext(ctx, "spin state", slog.String(logx.FieldSpinState, state.String()))

	c.publishLocked(ctx, ev)
}

func (c *Coordinator) publishLocked(ctx context.Context, ev entity.Event) {
	ev.UserID = c.userID
	ev.State = c.state
	ev.Quota = c.gate.State()
	ev.At = c.clk.Now()

	c.publisher.Publish(ctx, ev)
}

// onQuota вызывается гейтом под его блокировкой: к гейту не обращаемся.
func (c *Coordinator) onQuota(state entity.QuotaState) {
	c.publisher.Publish(c.ctx, entity.Event{
		Type:   entity.EventQuota,
		UserID: c.userID,
		State:  entity.SpinState(c.stateView.Load()),
		Quota:  state,
		At:     c.clk.Now(),
	})
}

// classify гарантирует, что неудача резолва не превратится в «пустой» выигрыш.
func classify(err error) error {
	if errors.Is(err, domain.ErrTransport) || errors.Is(err, domain.ErrInvalidResponse) {
		return err
	}

	return domain.WrapError(err, errcodes.TransportError, "prize endpoint failed")
}
