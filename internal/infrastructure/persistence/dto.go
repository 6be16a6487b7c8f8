package persistence

import (
	"database/sql"
	"time"

	"luckywheel/internal/domain/entity"
	"luckywheel/pkg/contextx"
)

// quotaSchema строка таблицы wheel_quota.
type quotaSchema struct {
	UserID           string       `db:"user_id"`
	Remaining        int          `db:"remaining"`
	RecoveryDeadline sql.NullTime `db:"recovery_deadline"`
	UpdatedAt        time.Time    `db:"updated_at"`
}

func fromQuota(userID contextx.UserID, state entity.QuotaState, now time.Time) *quotaSchema {
	return &quotaSchema{
		UserID:    userID.String(),
		Remaining: state.Remaining,
		RecoveryDeadline: sql.NullTime{
			Time:  state.RecoveryDeadline,
			Valid: state.HasDeadline(),
		},
		UpdatedAt: now,
	}
}

func (s *quotaSchema) toDomain() entity.QuotaState {
	state := entity.QuotaState{Remaining: s.Remaining}
	if s.RecoveryDeadline.Valid {
		state.RecoveryDeadline = s.RecoveryDeadline.Time
	}

	return state
}
