package monitoring_test

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"luckywheel/internal/domain/entity"
	"luckywheel/internal/infrastructure/monitoring"
	"luckywheel/pkg/errcodes"
)

func TestCollector(t *testing.T) {
	rq := require.New(t)

	reg := prometheus.NewRegistry()
	c := monitoring.NewCollector(reg)
	ctx := context.Background()

	c.Publish(ctx, entity.Event{Type: entity.EventRejected, Error: errcodes.QuotaExhausted})
	c.Publish(ctx, entity.Event{Type: entity.EventRejected, Error: errcodes.SpinInProgress})
	c.Publish(ctx, entity.Event{Type: entity.EventState, State: entity.SpinStateAnimating, ResolveDuration: 120 * time.Millisecond})
	c.Publish(ctx, entity.Event{Type: entity.EventState, State: entity.SpinStateRevealed, Outcome: &entity.SpinOutcome{PrizeID: "btc"}})
	c.Publish(ctx, entity.Event{Type: entity.EventState, State: entity.SpinStateFailed, Error: errcodes.TransportError, ResolveDuration: time.Second})
	c.Publish(ctx, entity.Event{Type: entity.EventQuota})

	count, err := testutil.GatherAndCount(reg, "luckywheel_quota_exhausted_total")
	rq.NoError(err)
	rq.Equal(1, count)

	families, err := reg.Gather()
	rq.NoError(err)

	values := map[string]float64{}

	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			key := mf.GetName()
			for _, l := range m.GetLabel() {
				key += "{" + l.GetValue() + "}"
			}

			switch {
			case m.GetCounter() != nil:
				values[key] = m.GetCounter().GetValue()
			case m.GetHistogram() != nil:
				values[key] = float64(m.GetHistogram().GetSampleCount())
			}
		}
	}

	rq.InDelta(1.0, values["luckywheel_quota_exhausted_total"], 0)
	rq.InDelta(1.0, values["luckywheel_spins_total{revealed}"], 0)
	rq.InDelta(1.0, values["luckywheel_spins_total{TransportError}"], 0)
	rq.InDelta(1.0, values["luckywheel_prizes_total{btc}"], 0)
	rq.InDelta(2.0, values["luckywheel_resolve_duration_seconds"], 0)
}
