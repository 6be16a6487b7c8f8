package wheel_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"luckywheel/internal/domain/catalog"
	"luckywheel/internal/domain/entity"
	"luckywheel/internal/domain/service/animator"
	"luckywheel/internal/domain/service/quota"
	"luckywheel/internal/domain/service/wheel"
	"luckywheel/pkg/contextx"
)

const (
	testUser     = contextx.UserID("u-1")
	spinDuration = 5 * time.Second
	waitFor      = 2 * time.Second
	tick         = time.Millisecond
)

type eventLog struct {
	mu     sync.Mutex
	events []entity.Event
}

func (l *eventLog) Publish(_ context.Context, event entity.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.events = append(l.events, event)
}

func (l *eventLog) all() []entity.Event {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]entity.Event, len(l.events))
	copy(out, l.events)

	return out
}

// states переходы автомата по порядку.
func (l *eventLog) states() []entity.SpinState {
	var out []entity.SpinState

	for _, ev := range l.all() {
		if ev.Type == entity.EventState {
			out = append(out, ev.State)
		}
	}

	return out
}

func (l *eventLog) lastQuota() (entity.QuotaState, bool) {
	events := l.all()
	for i := len(events) - 1; i >= 0; i-- {
		if events[i].Type == entity.EventQuota {
			return events[i].Quota, true
		}
	}

	return entity.QuotaState{}, false
}

type fixture struct {
	clk   *clock.Mock
	gate  *quota.Gate
	coord *wheel.Coordinator
	log   *eventLog
}

func newFixture(t *testing.T, maxSpins int, interval time.Duration, resolver wheel.Resolver) *fixture {
	t.Helper()

	mock := clock.NewMock()
	gate := quota.NewGate(maxSpins, interval, mock)
	anim := animator.New(catalog.Default(), mock).WithDuration(spinDuration)
	log := &eventLog{}

	coord := wheel.NewCoordinator(context.Background(), testUser, gate, resolver, anim, mock).
		WithPublisher(log)

	t.Cleanup(gate.Close)

	return &fixture{clk: mock, gate: gate, coord: coord, log: log}
}

func (f *fixture) waitState(rq *require.Assertions, state entity.SpinState) {
	rq.Eventually(func() bool { return f.coord.Snapshot().State == state }, waitFor, tick)
}

func outcome(prizeID entity.PrizeID, symbol, amount string) entity.SpinOutcome {
	return entity.SpinOutcome{PrizeID: prizeID, Symbol: symbol, Amount: decimal.RequireFromString(amount)}
}

func fixed(o entity.SpinOutcome) wheel.ResolverFunc {
	return func(context.Context) (entity.SpinOutcome, error) { return o, nil }
}

type memoryStore struct {
	mu     sync.Mutex
	states map[contextx.UserID]entity.QuotaState
	err    error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{states: make(map[contextx.UserID]entity.QuotaState)}
}

func (s *memoryStore) Load(_ context.Context, userID contextx.UserID) (entity.QuotaState, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return entity.QuotaState{}, false, s.err
	}

	state, ok := s.states[userID]

	return state, ok, nil
}

func (s *memoryStore) Save(_ context.Context, userID contextx.UserID, state entity.QuotaState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return s.err
	}

	s.states[userID] = state

	return nil
}

func (s *memoryStore) get(userID contextx.UserID) (entity.QuotaState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.states[userID]

	return state, ok
}
