package entity

import (
	"time"

	"luckywheel/pkg/contextx"
	"luckywheel/pkg/errcodes"
)

type EventType string

const (
	// EventState переход автомата спина.
	EventState EventType = "state"
	// EventQuota изменение квоты, включая восстановление по таймеру.
	EventQuota EventType = "quota"
	// EventRejected отказ до старта, состояние не меняется.
	EventRejected EventType = "rejected"
)

// Event уведомление подписчиков координатора (UI, метрики, анонсы, хранилище).
type Event struct {
	Type    EventType          `json:"type"`
	UserID  contextx.UserID    `json:"-"`
	SpinID  string             `json:"spinId,omitempty"`
	State   SpinState          `json:"state"`
	Quota   QuotaState         `json:"quota"`
	Plan    *RotationPlan      `json:"plan,omitempty"`
	Outcome *SpinOutcome       `json:"outcome,omitempty"`
	Error   errcodes.ErrorCode `json:"error,omitempty"`
	At      time.Time          `json:"at"`

	// ResolveDuration время ответа эндпоинта спина, только для Animating и Failed.
	ResolveDuration time.Duration `json:"-"`
}
