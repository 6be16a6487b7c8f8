package modules

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"luckywheel/pkg/logx"
)

// HTTPServer модуль, ответственный за запуск и остановку HTTP-сервера
// (graceful shutdown).
//
// Shutdown не трогает захваченные соединения (вебсокеты), их закрывает
// OnShutdown. Drain выполняется после Shutdown в пределах того же
// ShutdownTimeout.
type HTTPServer struct {
	ShutdownTimeout time.Duration
	OnShutdown      []func()
	Drain           func(ctx context.Context) error
}

func (h HTTPServer) Run(
	ctx context.Context,
	g *errgroup.Group,
	httpServer *http.Server,
) {
	for _, fn := range h.OnShutdown {
		httpServer.RegisterOnShutdown(fn)
	}

	stopped := make(chan struct{})

	g.Go(func() error {
		<-ctx.Done()

		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), h.ShutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(sctx); err != nil {
			logger(ctx).Error("server.Shutdown", logx.Error(err))
		}

		<-stopped

		if h.Drain == nil {
			return nil
		}

		if err := h.Drain(sctx); err != nil {
			logger(ctx).Error("drain", logx.Error(err))
		}

		logger(ctx).Info("http server drained", slog.String("address", httpServer.Addr))

		return nil
	})

	g.Go(func() error {
		defer close(stopped)

		logger(ctx).Info("http server started", slog.String("address", httpServer.Addr))

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("httpServer.ListenAndServe: %w", err)
		}

		logger(ctx).Info("http server stopped", slog.String("address", httpServer.Addr))

		return nil
	})
}
