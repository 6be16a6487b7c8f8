// Package quota ограничивает спины конечной, восстанавливаемой по времени квотой.
package quota

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"luckywheel/internal/domain"
	"luckywheel/internal/domain/entity"
)

// Listener получает снимок квоты после каждого изменения. Вызывается под
// блокировкой гейта, поэтому не должен блокироваться и обращаться к гейту.
type Listener func(state entity.QuotaState)

// Gate владеет остатком спинов, дедлайном восстановления и отметкой
// активной сессии. Таймер восстановления делит с гейтом одну блокировку,
// поэтому пополнение атомарно относительно CanSpin и Commit.
type Gate struct {
	mu sync.Mutex

	clk      clock.Clock
	maxSpins int
	interval time.Duration
	listener Listener

	state  entity.QuotaState
	active bool
	timer  *Timer
}

// NewGate создаёт гейт с полной квотой.
func NewGate(maxSpins int, interval time.Duration, clk clock.Clock) *Gate {
	g := &Gate{
		clk:      clk,
		maxSpins: maxSpins,
		interval: interval,
		state:    entity.QuotaState{Remaining: maxSpins},
	}

	g.timer = newTimer(&g.mu, clk, g.replenishLocked)

	return g
}

func (g *Gate) WithListener(listener Listener) *Gate {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.listener = listener

	return g
}

func (g *Gate) MaxSpins() int {
	return g.maxSpins
}

func (g *Gate) RecoveryInterval() time.Duration {
	return g.interval
}

// CanSpin true, если квота не исчерпана и нет активной сессии.
func (g *Gate) CanSpin() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.catchUpLocked()

	return g.state.Remaining > 0 && !g.active
}

// Reserve отмечает сессию активной. Остаток не уменьшается до Commit.
func (g *Gate) Reserve() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.catchUpLocked()

	switch {
	case g.state.Remaining == 0:
		return domain.ErrQuotaExhausted
	case g.active:
		return domain.ErrSpinInProgress
	}

	g.active = true

	return nil
}

// Commit списывает спин. При обнулении ставит дедлайн now+interval и взводит таймер.
func (g *Gate) Commit() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.active {
		return domain.ErrNoActiveSpin
	}

	g.catchUpLocked()

	g.active = false
	g.state.Remaining--

	if g.state.Remaining == 0 {
		g.state.RecoveryDeadline = g.clk.Now().Add(g.interval)
		g.timer.armLocked(g.state.RecoveryDeadline)
	}

	g.notifyLocked()

	return nil
}

// Release снимает отметку без списания: неудачный спин квоту не тратит.
func (g *Gate) Release() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.active {
		return domain.ErrNoActiveSpin
	}

	g.active = false

	return nil
}

// Active есть ли зарезервированная сессия.
func (g *Gate) Active() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.active
}

// State снимок квоты. Просроченный дедлайн применяется сразу.
func (g *Gate) State() entity.QuotaState {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.catchUpLocked()

	return g.state
}

// Reset явно восстанавливает квоту до maxSpins.
func (g *Gate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.replenishLocked()
}

// Restore подменяет состояние сохранённым, нормализуя противоречивые пары:
// остаток обрезается до [0, maxSpins], дедлайн при остатке > 0 отбрасывается,
// нулевой остаток без дедлайна открывает новое окно восстановления,
// прошедший дедлайн пополняет квоту.
func (g *Gate) Restore(state entity.QuotaState) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.active {
		return domain.ErrSpinInProgress
	}

	now := g.clk.Now()
	state.Remaining = min(max(state.Remaining, 0), g.maxSpins)

	switch {
	case state.Remaining > 0:
		g.timer.cancelLocked()
		g.state = entity.QuotaState{Remaining: state.Remaining}
	case !state.HasDeadline():
		g.state = entity.QuotaState{RecoveryDeadline: now.Add(g.interval)}
		g.timer.armLocked(g.state.RecoveryDeadline)
	case !now.Before(state.RecoveryDeadline):
		g.replenishLocked()
		return nil
	default:
		g.state = entity.QuotaState{RecoveryDeadline: state.RecoveryDeadline}
		g.timer.armLocked(g.state.RecoveryDeadline)
	}

	g.notifyLocked()

	return nil
}

// Close снимает таймер восстановления.
func (g *Gate) Close() {
	g.timer.Cancel()
}

// catchUpLocked пополняет квоту, если дедлайн прошёл, а таймер ещё не
// отработал (например, процесс был усыплён).
func (g *Gate) catchUpLocked() {
	if g.state.HasDeadline() && !g.clk.Now().Before(g.state.RecoveryDeadline) {
		g.replenishLocked()
	}
}

func (g *Gate) replenishLocked() {
	g.timer.cancelLocked()
	g.state = entity.QuotaState{Remaining: g.maxSpins}
	g.notifyLocked()
}

func (g *Gate) notifyLocked() {
	if g.listener != nil {
		g.listener(g.state)
	}
}
