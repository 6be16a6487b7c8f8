package view_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"luckywheel/internal/domain/catalog"
	"luckywheel/internal/domain/entity"
	"luckywheel/internal/domain/service/wheel"
	"luckywheel/internal/transport/bot/view"
)

func TestStatus(t *testing.T) {
	rq := require.New(t)

	now := time.Now()

	text := view.Status(wheel.Snapshot{
		UserID:   "<alice>",
		State:    entity.SpinStateIdle,
		Quota:    entity.QuotaState{Remaining: 0, RecoveryDeadline: now.Add(75 * time.Second)},
		MaxSpins: 3,
		LastOutcome: &entity.SpinOutcome{
			PrizeID: "btc",
			Symbol:  "BTC",
			Amount:  decimal.RequireFromString("0.0001"),
		},
		LastError: "TransportError",
	}, now)

	rq.Contains(text, "&lt;alice&gt;")
	rq.Contains(text, "idle")
	rq.Contains(text, "0/3")
	rq.Contains(text, "1:15")
	rq.Contains(text, "0.0001 BTC")
	rq.Contains(text, "TransportError")
}

func TestStatusFullQuota(t *testing.T) {
	rq := require.New(t)

	text := view.Status(wheel.Snapshot{
		UserID:   "bob",
		State:    entity.SpinStateAnimating,
		Quota:    entity.QuotaState{Remaining: 2},
		MaxSpins: 3,
	}, time.Now())

	rq.Contains(text, "animating")
	rq.Contains(text, "2/3")
	rq.NotContains(text, "Восстановление")
	rq.NotContains(text, "Последний приз")
}

func TestCatalog(t *testing.T) {
	rq := require.New(t)

	text := view.Catalog(catalog.Default())

	rq.Contains(text, "1. Bitcoin (BTC) 0.0°")
	rq.Contains(text, "7. NOT (NOT)")
}
