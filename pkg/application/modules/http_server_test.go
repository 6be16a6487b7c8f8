package modules_test

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"luckywheel/pkg/application/modules"
)

func TestHTTPServerShutdownHooks(t *testing.T) {
	rq := require.New(t)

	var (
		hooked  atomic.Bool
		drained atomic.Bool
	)

	ctx, cancel := context.WithCancel(t.Context())

	g, gctx := errgroup.WithContext(ctx)

	modules.HTTPServer{
		ShutdownTimeout: time.Second,
		OnShutdown:      []func(){func() { hooked.Store(true) }},
		Drain: func(ctx context.Context) error {
			_, ok := ctx.Deadline()
			drained.Store(ok)

			return nil
		},
	}.Run(gctx, g, &http.Server{
		Addr:              "127.0.0.1:0",
		Handler:           http.NotFoundHandler(),
		ReadHeaderTimeout: time.Second,
	})

	cancel()

	rq.NoError(g.Wait())
	rq.True(drained.Load())
	rq.Eventually(hooked.Load, time.Second, 5*time.Millisecond)
}
