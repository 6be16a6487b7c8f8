// Package monitoring метрики колеса, собираемые из событий координатора.
package monitoring

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"luckywheel/internal/domain/entity"
	"luckywheel/pkg/errcodes"
)

const namespace = "luckywheel"

// Collector подписчик координатора. Регистрируется в переданном Registerer.
type Collector struct {
	spins           *prometheus.CounterVec
	prizes          *prometheus.CounterVec
	quotaExhausted  prometheus.Counter
	resolveDuration prometheus.Histogram
}

func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		spins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "spins_total",
			Help:      "Finished spins by result.",
		}, []string{"result"}),
		prizes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "prizes_total",
			Help:      "Revealed prizes by prize id.",
		}, []string{"prize"}),
		quotaExhausted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quota_exhausted_total",
			Help:      "Spin requests rejected because the quota is exhausted.",
		}),
		resolveDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "resolve_duration_seconds",
			Help:      "Latency of the prize endpoint.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(c.spins, c.prizes, c.quotaExhausted, c.resolveDuration)

	return c
}

func (c *Collector) Publish(_ context.Context, event entity.Event) {
	switch event.Type {
	case entity.EventRejected:
		if event.Error == errcodes.QuotaExhausted {
			c.quotaExhausted.Inc()
		}
	case entity.EventState:
		c.observeState(event)
	case entity.EventQuota:
	}
}

func (c *Collector) observeState(event entity.Event) {
	if event.ResolveDuration > 0 {
		c.resolveDuration.Observe(event.ResolveDuration.Seconds())
	}

	switch event.State {
	case entity.SpinStateRevealed:
		c.spins.WithLabelValues("revealed").Inc()

		if event.Outcome != nil {
			c.prizes.WithLabelValues(event.Outcome.PrizeID.String()).Inc()
		}
	case entity.SpinStateFailed:
		result := "failed"
		if event.Error != "" {
			result = event.Error.String()
		}

		c.spins.WithLabelValues(result).Inc()
	case entity.SpinStateIdle, entity.SpinStateRequesting, entity.SpinStateAnimating:
	}
}
