package animator_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"luckywheel/internal/domain"
	"luckywheel/internal/domain/catalog"
	"luckywheel/internal/domain/entity"
	"luckywheel/internal/domain/service/animator"
)

func TestPlanRotationLandsOnOutcome(t *testing.T) {
	rq := require.New(t)

	cat := catalog.Default()
	a := animator.New(cat, clock.NewMock())

	current := 0.0

	for round := range 5 {
		for _, prize := range cat.Prizes() {
			plan, err := a.PlanRotation(current, entity.SpinOutcome{PrizeID: prize.ID, Amount: decimal.NewFromInt(1)})
			rq.NoError(err)

			rq.Greater(plan.TargetRotation, current)
			rq.GreaterOrEqual(plan.Turns, animator.DefaultMinTurns)
			rq.LessOrEqual(plan.Turns, animator.DefaultMaxTurns)
			rq.Equal(animator.DefaultDuration, plan.Duration)
			rq.Equal(int64(5000), plan.DurationMs())

			landed := cat.At(cat.SectorAt(plan.TargetRotation))
			rq.Equal(prize.ID, landed.ID, "round %d", round)

			current = plan.TargetRotation
		}
	}
}

func TestPlanRotationFromOddRotation(t *testing.T) {
	rq := require.New(t)

	cat := catalog.Default()
	a := animator.New(cat, clock.NewMock()).WithRandom(func(int) int { return 0 })

	plan, err := a.PlanRotation(123.4, entity.SpinOutcome{PrizeID: "usdt"})
	rq.NoError(err)
	rq.Equal(8, plan.Turns)
	rq.InDelta(360+360*8+cat.SectorAngle(2), plan.TargetRotation, 1e-9)
	rq.Equal(2, cat.SectorAt(plan.TargetRotation))
}

func TestPlanRotationTurnsRange(t *testing.T) {
	rq := require.New(t)

	a := animator.New(catalog.Default(), clock.NewMock()).
		WithTurns(2, 4).
		WithRandom(func(n int) int { return n - 1 })

	plan, err := a.PlanRotation(0, entity.SpinOutcome{PrizeID: "btc"})
	rq.NoError(err)
	rq.Equal(4, plan.Turns)
	rq.InDelta(360*4, plan.TargetRotation, 1e-9)
}

func TestPlanRotationUnknownPrize(t *testing.T) {
	a := animator.New(catalog.Default(), clock.NewMock())

	_, err := a.PlanRotation(0, entity.SpinOutcome{PrizeID: "doge"})
	require.ErrorIs(t, err, domain.ErrInvalidResponse)
}

func TestStartSettlesOnce(t *testing.T) {
	rq := require.New(t)

	mock := clock.NewMock()
	a := animator.New(catalog.Default(), mock)

	var settled atomic.Int32

	an := a.Start(entity.RotationPlan{Duration: 5 * time.Second}, func() { settled.Add(1) })

	mock.Add(4 * time.Second)
	time.Sleep(20 * time.Millisecond)
	rq.Equal(int32(0), settled.Load())

	mock.Add(time.Second)
	rq.Eventually(func() bool { return settled.Load() == 1 }, time.Second, time.Millisecond)

	<-an.Done()
	rq.False(an.Cancel())

	mock.Add(time.Minute)
	time.Sleep(20 * time.Millisecond)
	rq.Equal(int32(1), settled.Load())
}

func TestCancelBeforeSettle(t *testing.T) {
	rq := require.New(t)

	mock := clock.NewMock()
	a := animator.New(catalog.Default(), mock)

	var settled atomic.Int32

	an := a.Start(entity.RotationPlan{Duration: time.Second}, func() { settled.Add(1) })
	rq.True(an.Cancel())
	rq.False(an.Cancel())

	mock.Add(time.Minute)
	time.Sleep(20 * time.Millisecond)
	rq.Equal(int32(0), settled.Load())

	select {
	case <-an.Done():
	default:
		rq.Fail("done must be closed after cancel")
	}
}
