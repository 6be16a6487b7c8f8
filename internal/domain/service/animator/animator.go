// Package animator рассчитывает конечный поворот колеса по результату спина
// и отсчитывает время анимации, после которого спин считается завершённым.
package animator

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"luckywheel/internal/domain"
	"luckywheel/internal/domain/catalog"
	"luckywheel/internal/domain/entity"
)

const (
	DefaultDuration = 5 * time.Second
	DefaultMinTurns = 8
	DefaultMaxTurns = 15

	fullTurn = 360.0
)

type Animator struct {
	catalog  *catalog.Catalog
	clk      clock.Clock
	duration time.Duration
	minTurns int
	maxTurns int
	intN     func(n int) int
}

func New(cat *catalog.Catalog, clk clock.Clock) *Animator {
	return &Animator{
		catalog:  cat,
		clk:      clk,
		duration: DefaultDuration,
		minTurns: DefaultMinTurns,
		maxTurns: DefaultMaxTurns,
		intN:     rand.IntN,
	}
}

func (a *Animator) WithDuration(duration time.Duration) *Animator {
	a.duration = duration
	return a
}

// WithTurns диапазон полных оборотов, включительно.
func (a *Animator) WithTurns(minTurns, maxTurns int) *Animator {
	a.minTurns = max(1, minTurns)
	a.maxTurns = max(a.minTurns, maxTurns)

	return a
}

// WithRandom источник случайности для числа оборотов, в тестах детерминированный.
func (a *Animator) WithRandom(intN func(n int) int) *Animator {
	a.intN = intN
	return a
}

func (a *Animator) Duration() time.Duration {
	return a.duration
}

// PlanRotation выбирает сектор по призу из результата. Случайно только число
// оборотов. Текущий поворот округляется вверх до целого оборота, чтобы
// остаток от прошлых спинов не сдвигал сектор.
func (a *Animator) PlanRotation(current float64, outcome entity.SpinOutcome) (entity.RotationPlan, error) {
	_, index, ok := a.catalog.ByID(outcome.PrizeID)
	if !ok {
		return entity.RotationPlan{}, fmt.Errorf("prize %q: %w", outcome.PrizeID, domain.ErrInvalidResponse)
	}

	turns := a.minTurns + a.intN(a.maxTurns-a.minTurns+1)
	base := math.Ceil(current/fullTurn) * fullTurn

	return entity.RotationPlan{
		SectorIndex:    index,
		Turns:          turns,
		StartRotation:  current,
		TargetRotation: base + fullTurn*float64(turns) + a.catalog.SectorAngle(index),
		Duration:       a.duration,
	}, nil
}

// Start запускает отсчёт plan.Duration. settled вызывается ровно один раз,
// в отдельной горутине, независимо от подписчиков UI.
func (a *Animator) Start(plan entity.RotationPlan, settled func()) *Animation {
	an := &Animation{
		done:    make(chan struct{}),
		settled: settled,
	}

	an.timer = a.clk.AfterFunc(plan.Duration, an.settle)

	return an
}

// Animation идущая анимация одного спина.
type Animation struct {
	once    sync.Once
	timer   *clock.Timer
	done    chan struct{}
	settled func()
}

// Done закрывается после settle или Cancel.
func (an *Animation) Done() <-chan struct{} {
	return an.done
}

// Cancel снимает анимацию. true, если settle ещё не произошёл и уже не произойдёт.
func (an *Animation) Cancel() bool {
	cancelled := false

	an.once.Do(func() {
		an.timer.Stop()
		cancelled = true
		close(an.done)
	})

	return cancelled
}

func (an *Animation) settle() {
	an.once.Do(func() {
		defer close(an.done)
		an.settled()
	})
}
