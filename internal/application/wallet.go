package application

import (
	"context"
	"net/http"

	"github.com/samber/lo"

	"luckywheel/internal/config"
	"luckywheel/internal/domain"
	"luckywheel/internal/domain/catalog"
	"luckywheel/internal/domain/entity"
	"luckywheel/internal/infrastructure/walletapi"
	"luckywheel/pkg/contextx"
	"luckywheel/pkg/errcodes"
)

// wallet снимок балансов. После выигрыша кэш пользователя сбрасывается.
type wallet struct {
	client *walletapi.Client
}

func newWallet(httpClient *http.Client, cfg config.PrizeAPI, cat *catalog.Catalog) wallet {
	if cfg.WalletURL == "" {
		return wallet{}
	}

	return wallet{client: walletapi.New(httpClient, cfg.WalletURL, cat, cfg.WalletCacheTTL)}
}

func (w wallet) Balances(ctx context.Context, userID contextx.UserID) ([]walletapi.Balance, error) {
	if w.client == nil {
		return nil, domain.NewError(errcodes.ServiceUnavailable, "wallet endpoint is not configured")
	}

	return w.client.Balances(ctx, userID)
}

func (w wallet) Publish(_ context.Context, event entity.Event) {
	if w.client == nil || event.Type != entity.EventState || event.State != entity.SpinStateRevealed {
		return
	}

	w.client.Invalidate(event.UserID)
}

func originChecker(origins []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}

		return lo.Contains(origins, "*") || lo.Contains(origins, origin)
	}
}
