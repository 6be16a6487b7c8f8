package server

import (
	"time"

	"github.com/samber/lo"

	"luckywheel/internal/domain/catalog"
	"luckywheel/internal/domain/entity"
	"luckywheel/internal/domain/service/wheel"
	"luckywheel/internal/infrastructure/walletapi"
	"luckywheel/pkg/rest"
)

const walletPrecision = 8

func newRESTWheel(snap wheel.Snapshot, now time.Time) rest.Wheel {
	res := rest.Wheel{
		State:     snap.State.String(),
		SpinID:    snap.SpinID,
		Rotation:  snap.Rotation,
		Quota:     newRESTQuota(snap.Quota, snap.MaxSpins, now),
		LastError: snap.LastError.String(),
	}

	if snap.Plan != nil {
		plan := newRESTPlan(*snap.Plan)
		res.Plan = &plan
	}

	if snap.LastOutcome != nil {
		outcome := newRESTOutcome(*snap.LastOutcome)
		res.LastOutcome = &outcome
	}

	return res
}

func newRESTQuota(state entity.QuotaState, maxSpins int, now time.Time) rest.Quota {
	remaining := state.RecoveryRemaining(now)

	res := rest.Quota{
		Remaining:           state.Remaining,
		MaxSpins:            maxSpins,
		RecoveryRemainingMs: remaining.Milliseconds(),
		Countdown:           entity.Countdown(remaining),
	}

	if state.HasDeadline() {
		res.RecoveryDeadline = lo.ToPtr(state.RecoveryDeadline.UnixMilli())
	}

	return res
}

func newRESTPlan(plan entity.RotationPlan) rest.Plan {
	return rest.Plan{
		SectorIndex:    plan.SectorIndex,
		Turns:          plan.Turns,
		StartRotation:  plan.StartRotation,
		TargetRotation: plan.TargetRotation,
		DurationMs:     plan.DurationMs(),
	}
}

func newRESTOutcome(outcome entity.SpinOutcome) rest.Outcome {
	return rest.Outcome{
		PrizeID: outcome.PrizeID.String(),
		Symbol:  outcome.Symbol,
		Amount:  outcome.Amount.String(),
	}
}

func newRESTSpin(spinID string, plan entity.RotationPlan) rest.Spin {
	return rest.Spin{
		SpinID: spinID,
		State:  entity.SpinStateAnimating.String(),
		Plan:   newRESTPlan(plan),
	}
}

func newRESTCatalog(cat *catalog.Catalog) rest.Catalog {
	return rest.Catalog{
		Sectors: lo.Map(cat.Prizes(), func(prize entity.Prize, i int) rest.Sector {
			return rest.Sector{
				ID:          prize.ID.String(),
				Name:        prize.Name,
				Symbol:      prize.Symbol,
				Color:       prize.Color,
				Icon:        prize.Icon,
				SectorAngle: cat.SectorAngle(i),
			}
		}),
		SectorStep: cat.SectorStep(),
	}
}

func newRESTWallet(balances []walletapi.Balance) rest.Wallet {
	return rest.Wallet{
		Balances: lo.Map(balances, func(b walletapi.Balance, _ int) rest.Balance {
			return rest.Balance{
				Symbol: b.Symbol,
				Amount: b.Amount.StringFixed(walletPrecision),
			}
		}),
	}
}
