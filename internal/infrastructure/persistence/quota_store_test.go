package persistence_test

import (
	"context"
	"os"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // golang postgres driver
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"luckywheel/internal/domain/entity"
	"luckywheel/internal/domain/service/wheel"
	"luckywheel/internal/infrastructure/persistence"
	"luckywheel/pkg/contextx"
	"luckywheel/pkg/dbtest"
	"luckywheel/pkg/tests"
)

func testStore(t *testing.T, store wheel.QuotaStore) {
	t.Helper()

	rq := require.New(t)
	ctx := context.Background()
	userID := contextx.UserID("user-" + tests.NewRandomizer().String(8))

	_, found, err := store.Load(ctx, userID)
	rq.NoError(err)
	rq.False(found)

	rq.NoError(store.Save(ctx, userID, entity.QuotaState{Remaining: 2}))

	state, found, err := store.Load(ctx, userID)
	rq.NoError(err)
	rq.True(found)
	rq.Equal(2, state.Remaining)
	rq.False(state.HasDeadline())

	deadline := time.UnixMilli(time.Now().Add(time.Hour).UnixMilli())
	rq.NoError(store.Save(ctx, userID, entity.QuotaState{Remaining: 0, RecoveryDeadline: deadline}))

	state, found, err = store.Load(ctx, userID)
	rq.NoError(err)
	rq.True(found)
	rq.Equal(0, state.Remaining)
	rq.True(deadline.Equal(state.RecoveryDeadline))
}

func TestMemoryQuotaStore(t *testing.T) {
	testStore(t, persistence.NewMemoryQuotaStore())
}

func TestRedisQuotaStore(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDRESS")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDRESS is not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr}) //nolint:exhaustruct
	t.Cleanup(func() { _ = client.Close() })

	testStore(t, persistence.NewRedisQuotaStore(client))
}

func TestQuotaRepository(t *testing.T) {
	dsn := os.Getenv("PG_TEST_DSN")
	if dsn == "" {
		t.Skip("PG_TEST_DSN is not set")
	}

	rq := require.New(t)

	db, err := sqlx.Connect("pgx", dsn)
	rq.NoError(err)
	t.Cleanup(func() { _ = db.Close() })

	rq.NoError(dbtest.MigrateFromFile(t.Context(), db, "../../../migrations/001_wheel_quota.sql"))
	t.Cleanup(func() { _ = dbtest.Truncate(context.Background(), db, "wheel_quota") })

	testStore(t, persistence.NewQuotaRepository(db))
}
