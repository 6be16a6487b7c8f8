package quota

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// Timer одноразовый таймер восстановления квоты.
//
// В каждый момент запланирован не более чем один вызов fn. Повторный Arm
// заменяет расписание. После Cancel fn не вызывается, даже если срок уже
// наступил и колбэк часов ждёт блокировку: каждому Arm соответствует своё
// поколение, и устаревшее поколение отбрасывается под той же блокировкой.
type Timer struct {
	mu  sync.Locker
	clk clock.Clock
	fn  func()

	pending  *clock.Timer
	deadline time.Time
	gen      uint64
	armed    bool
}

// NewTimer fn вызывается под внутренней блокировкой таймера
// и не должен обращаться к методам таймера.
func NewTimer(clk clock.Clock, fn func()) *Timer {
	return newTimer(&sync.Mutex{}, clk, fn)
}

func newTimer(mu sync.Locker, clk clock.Clock, fn func()) *Timer {
	return &Timer{
		mu:  mu,
		clk: clk,
		fn:  fn,
	}
}

func (t *Timer) Arm(deadline time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.armLocked(deadline)
}

func (t *Timer) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.cancelLocked()
}

// Remaining max(0, deadline - now), без перепланирования.
// Считается от дедлайна, а не от числа тиков.
func (t *Timer) Remaining(now time.Time) time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.armed {
		return 0
	}

	return max(0, t.deadline.Sub(now))
}

func (t *Timer) armLocked(deadline time.Time) {
	t.cancelLocked()

	gen := t.gen
	t.deadline = deadline
	t.armed = true
	t.pending = t.clk.AfterFunc(max(0, deadline.Sub(t.clk.Now())), func() {
		t.fire(gen)
	})
}

func (t *Timer) cancelLocked() {
	if t.pending != nil {
		t.pending.Stop()
	}

	t.pending = nil
	t.deadline = time.Time{}
	t.armed = false
	t.gen++
}

func (t *Timer) fire(gen uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.armed || t.gen != gen {
		return
	}

	t.pending = nil
	t.deadline = time.Time{}
	t.armed = false
	t.gen++

	t.fn()
}
