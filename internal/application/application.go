// Package application собирает сервис из модулей и запускает их в errgroup.
package application

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"luckywheel/internal/config"
	"luckywheel/internal/domain/catalog"
	"luckywheel/internal/domain/service/animator"
	"luckywheel/internal/domain/service/wheel"
	"luckywheel/internal/infrastructure/monitoring"
	"luckywheel/internal/infrastructure/notifier"
	"luckywheel/internal/infrastructure/prizeapi"
	"luckywheel/internal/server"
	"luckywheel/internal/transport/bot"
	"luckywheel/internal/transport/bot/handler"
	"luckywheel/internal/transport/ws"
	"luckywheel/internal/worker"
	"luckywheel/pkg/application/modules"
	"luckywheel/pkg/httpx"
	"luckywheel/pkg/logx"
)

const (
	httpReadHeaderTimeout = 5 * time.Second
	asynqConcurrency      = 2
)

func Run(ctx context.Context, cfg config.Config) error {
	clk := clock.New()

	cat, err := loadCatalog(cfg.Wheel.CatalogFile)
	if err != nil {
		return err
	}

	logger(ctx).Info("catalog loaded", slog.Any("symbols", cat.Symbols()))

	deps := newConnectors(cfg)
	defer deps.close(ctx)

	store, err := deps.quotaStore(ctx, cfg.Quota.Store)
	if err != nil {
		return err
	}

	httpClient := &http.Client{
		Transport: prizeapi.NewTransport(
			http.DefaultTransport,
			httpx.WithLogFieldMaxLen(cfg.PrizeAPI.LogFieldMaxLen),
			httpx.WithSensitiveDataMasker(logx.NewSensitiveDataMasker()),
		),
	}

	anim := animator.New(cat, clk).
		WithDuration(cfg.Wheel.SpinDuration).
		WithTurns(cfg.Wheel.MinTurns, cfg.Wheel.MaxTurns)

	persister := wheel.NewPersister(store)

	registry := wheel.NewRegistry(
		wheel.Config{
			MaxSpins:         cfg.Wheel.MaxSpins,
			RecoveryInterval: cfg.Wheel.RecoveryInterval,
			ResolveTimeout:   cfg.Wheel.ResolveTimeout,
		},
		clk,
		prizeapi.New(httpClient, cfg.PrizeAPI.SpinURL, cat),
		anim,
		persister,
	)

	hub := ws.NewHub(originChecker(cfg.HTTP.AllowedOrigins))
	wallet := newWallet(httpClient, cfg.PrizeAPI, cat)

	publishers := wheel.Publishers{
		hub,
		monitoring.NewCollector(prometheus.DefaultRegisterer),
		wallet,
	}

	g, ctx := errgroup.WithContext(ctx)

	if cfg.AnnouncementsEnabled() {
		announcer, err := runAnnouncements(ctx, g, cfg, deps)
		if err != nil {
			return err
		}

		publishers = append(publishers, announcer)
	}

	registry.WithPublisher(publishers)

	g.Go(func() error {
		if err := persister.Run(ctx); err != nil {
			return fmt.Errorf("persister.Run: %w", err)
		}

		return nil
	})

	srv := server.NewServer(
		server.NewWheelServer(registry, hub, cat, clk),
		server.NewWalletServer(wallet),
	)

	// Спины в полёте доводятся до commit или release, квоты сбрасываются в хранилище.
	modules.HTTPServer{
		ShutdownTimeout: cfg.HTTP.ShutdownTimeout,
		OnShutdown:      []func(){hub.Close},
		Drain: func(ctx context.Context) error {
			if err := registry.Close(ctx); err != nil {
				return fmt.Errorf("registry.Close: %w", err)
			}

			return nil
		},
	}.Run(ctx, g, &http.Server{
		Addr: cfg.HTTP.ListenAddress,
		Handler: srv.Handler(server.Options{
			AuthSecret:     []byte(cfg.Auth.JWTSecret),
			AdminToken:     cfg.Auth.AdminToken,
			AllowedOrigins: cfg.HTTP.AllowedOrigins,
			LogFieldMaxLen: cfg.HTTP.LogFieldMaxLen,
		}),
		ReadHeaderTimeout: httpReadHeaderTimeout,
	})

	modules.ProbeServer{
		Name:          cfg.App.Name,
		Version:       cfg.App.Version,
		ListenAddress: cfg.Probe.ListenAddress,
		Checks:        deps.checks(),
	}.Run(ctx, g)

	modules.MetricServer{
		ListenAddress: cfg.Metrics.ListenAddress,
		Gatherer:      prometheus.DefaultGatherer,
	}.Run(ctx, g)

	if cfg.AdminBotEnabled() {
		adminBot, err := bot.New(cfg.Bot.Token, cfg.Bot.AdminID, handler.New(registry, cat, clk))
		if err != nil {
			return fmt.Errorf("bot.New: %w", err)
		}

		g.Go(func() error {
			if err := adminBot.Run(ctx); err != nil {
				return fmt.Errorf("adminBot.Run: %w", err)
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("errgroup.Wait: %w", err)
	}

	return nil
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default(), nil
	}

	cat, err := catalog.Load(path)
	if err != nil {
		return nil, fmt.Errorf("catalog.Load: %w", err)
	}

	return cat, nil
}

// runAnnouncements очередь анонсов: постановка из Announcer, отправка в Telegram из asynq.
func runAnnouncements(
	ctx context.Context,
	g *errgroup.Group,
	cfg config.Config,
	deps *connectors,
) (*worker.Announcer, error) {
	tgBot, err := notifier.NewTelegramBot(cfg.Bot.Token, cfg.Bot.ChatID)
	if err != nil {
		return nil, fmt.Errorf("notifier.NewTelegramBot: %w", err)
	}

	if err := tgBot.SendText(ctx, "🎡 Колесо запущено"); err != nil {
		logger(ctx).Error("notifier test message failed, check BOT_TOKEN and BOT_CHAT_ID", logx.Error(err))
	}

	redisOpt := deps.redis.AsynqOpt()

	client := asynq.NewClient(redisOpt)
	announcer := worker.NewAnnouncer(client, cfg.Bot.MinAmount)

	g.Go(func() error {
		defer func() {
			if err := client.Close(); err != nil {
				logger(ctx).Error("asynqClient.Close", logx.Error(err))
			}
		}()

		if err := announcer.Run(ctx); err != nil {
			return fmt.Errorf("announcer.Run: %w", err)
		}

		return nil
	})

	modules.AsynqServer{
		Redis:       redisOpt,
		Concurrency: asynqConcurrency,
	}.Run(ctx, g, modules.AsynqQueues{worker.QueueAnnounce: 1}, modules.AsynqHandler{
		Pattern: worker.TypeAnnounceWin,
		Handle:  worker.NewAnnounceHandler(tgBot).ProcessTask,
	})

	return announcer, nil
}
