package application

import (
	"context"
	"fmt"

	"luckywheel/internal/config"
	"luckywheel/internal/domain/service/wheel"
	"luckywheel/internal/infrastructure/persistence"
	pkgconnectors "luckywheel/pkg/application/connectors"
	"luckywheel/pkg/probe"
)

// connectors внешние подключения, создаются лениво при первом обращении.
type connectors struct {
	redis    *pkgconnectors.Redis
	postgres *pkgconnectors.Postgres

	usesRedis    bool
	usesPostgres bool
}

func newConnectors(cfg config.Config) *connectors {
	return &connectors{
		redis: &pkgconnectors.Redis{
			Address:        cfg.Redis.Address,
			Username:       cfg.Redis.Username,
			Password:       cfg.Redis.Password,
			DatabaseNumber: cfg.Redis.DatabaseNumber,
			PoolSize:       cfg.Redis.PoolSize,
		},
		postgres: &pkgconnectors.Postgres{
			DSN:             cfg.Postgres.DSN,
			MaxIdleConns:    cfg.Postgres.MaxIdleConns,
			MaxOpenConns:    cfg.Postgres.MaxOpenConns,
			ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
		},
		usesRedis: cfg.AnnouncementsEnabled(),
	}
}

func (c *connectors) quotaStore(ctx context.Context, kind string) (wheel.QuotaStore, error) {
	switch kind {
	case config.QuotaStoreMemory:
		return persistence.NewMemoryQuotaStore(), nil
	case config.QuotaStoreRedis:
		c.usesRedis = true
		return persistence.NewRedisQuotaStore(c.redis.Client(ctx)), nil
	case config.QuotaStorePostgres:
		c.usesPostgres = true
		return persistence.NewQuotaRepository(c.postgres.Client(ctx)), nil
	default:
		return nil, fmt.Errorf("unknown quota store %q", kind)
	}
}

func (c *connectors) checks() map[string]probe.Check {
	checks := make(map[string]probe.Check)

	if c.usesRedis {
		checks["redis"] = c.redis.Ping
	}

	if c.usesPostgres {
		checks["postgres"] = c.postgres.Ping
	}

	return checks
}

func (c *connectors) close(ctx context.Context) {
	c.redis.Close(ctx)
	c.postgres.Close(ctx)
}
