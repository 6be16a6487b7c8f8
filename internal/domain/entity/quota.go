package entity

import (
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

// QuotaState остаток спинов и момент восстановления.
// RecoveryDeadline заполнен тогда и только тогда, когда Remaining == 0.
type QuotaState struct {
	Remaining        int
	RecoveryDeadline time.Time
}

func (q QuotaState) Exhausted() bool {
	return q.Remaining == 0
}

func (q QuotaState) HasDeadline() bool {
	return !q.RecoveryDeadline.IsZero()
}

// RecoveryRemaining max(0, deadline - now); 0 если дедлайна нет.
func (q QuotaState) RecoveryRemaining(now time.Time) time.Duration {
	if !q.HasDeadline() {
		return 0
	}

	return max(0, q.RecoveryDeadline.Sub(now))
}

// Validate проверяет инварианты относительно maxSpins.
func (q QuotaState) Validate(maxSpins int) error {
	switch {
	case q.Remaining < 0:
		return fmt.Errorf("remaining %d is negative", q.Remaining)
	case q.Remaining > maxSpins:
		return fmt.Errorf("remaining %d exceeds max %d", q.Remaining, maxSpins)
	case q.Remaining == 0 && !q.HasDeadline():
		return fmt.Errorf("exhausted quota without recovery deadline")
	case q.Remaining > 0 && q.HasDeadline():
		return fmt.Errorf("recovery deadline set while %d spins remain", q.Remaining)
	}

	return nil
}

type quotaStateJSON struct {
	Remaining        int    `json:"remaining"`
	RecoveryDeadline *int64 `json:"recoveryDeadline"`
}

// MarshalJSON пишет {"remaining": int, "recoveryDeadline": epoch-ms | null}.
func (q QuotaState) MarshalJSON() ([]byte, error) {
	wire := quotaStateJSON{Remaining: q.Remaining}

	if q.HasDeadline() {
		ms := q.RecoveryDeadline.UnixMilli()
		wire.RecoveryDeadline = &ms
	}

	return json.Marshal(wire)
}

func (q *QuotaState) UnmarshalJSON(data []byte) error {
	var wire quotaStateJSON

	if err := json.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("json.Unmarshal: %w", err)
	}

	q.Remaining = wire.Remaining
	q.RecoveryDeadline = time.Time{}

	if wire.RecoveryDeadline != nil {
		q.RecoveryDeadline = time.UnixMilli(*wire.RecoveryDeadline)
	}

	return nil
}

// Countdown обратный отсчёт m:ss: минуты не ограничены, секунды с ведущим нулём.
func Countdown(d time.Duration) string {
	if d < 0 {
		d = 0
	}

	total := int64(d / time.Second)

	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
