package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"luckywheel/internal/domain"
	"luckywheel/internal/domain/entity"
	"luckywheel/pkg/contextx"
	"luckywheel/pkg/errcodes"
)

// QuotaRepository квота в Postgres, таблица wheel_quota.
type QuotaRepository struct {
	db *sqlx.DB
}

func NewQuotaRepository(db *sqlx.DB) *QuotaRepository {
	return &QuotaRepository{db: db}
}

func (r *QuotaRepository) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to begin transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to commit")
	}

	return nil
}

func (r *QuotaRepository) Load(ctx context.Context, userID contextx.UserID) (entity.QuotaState, bool, error) {
	query := `SELECT user_id, remaining, recovery_deadline, updated_at FROM wheel_quota WHERE user_id = $1`

	var schema quotaSchema
	if err := r.db.GetContext(ctx, &schema, query, userID.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.QuotaState{}, false, nil
		}

		return entity.QuotaState{}, false, domain.WrapError(err, errcodes.InternalServerError, "failed to load quota")
	}

	return schema.toDomain(), true, nil
}

// Save upsert. Старое состояние не перетирает более новое.
func (r *QuotaRepository) Save(ctx context.Context, userID contextx.UserID, state entity.QuotaState) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO wheel_quota (user_id, remaining, recovery_deadline, updated_at)
			VALUES (:user_id, :remaining, :recovery_deadline, :updated_at)
			ON CONFLICT (user_id) DO UPDATE SET
				remaining = EXCLUDED.remaining,
				recovery_deadline = EXCLUDED.recovery_deadline,
				updated_at = EXCLUDED.updated_at
			WHERE wheel_quota.updated_at <= EXCLUDED.updated_at`

		if _, err := tx.NamedExecContext(ctx, query, fromQuota(userID, state, time.Now())); err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to save quota")
		}

		return nil
	})
}
