// Package walletapi снимок балансов кошелька пользователя, только для отображения.
package walletapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"

	"luckywheel/internal/domain"
	"luckywheel/internal/domain/catalog"
	"luckywheel/pkg/contextx"
	"luckywheel/pkg/errcodes"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

const maxBodySize = 1 << 20

type Balance struct {
	Symbol string
	Amount decimal.Decimal
}

type walletResponse struct {
	WalletBalances map[string]decimal.Decimal `json:"walletBalances"`
}

type Client struct {
	httpClient *http.Client
	walletURL  string
	catalog    *catalog.Catalog
	cache      *cache.Cache
}

func New(httpClient *http.Client, walletURL string, cat *catalog.Catalog, ttl time.Duration) *Client {
	return &Client{
		httpClient: httpClient,
		walletURL:  walletURL,
		catalog:    cat,
		cache:      cache.New(ttl, 2*ttl),
	}
}

// Balances балансы по символам каталога, в порядке каталога.
// Символы, которых нет в кошельке или в каталоге, пропускаются.
func (c *Client) Balances(ctx context.Context, userID contextx.UserID) ([]Balance, error) {
	if v, ok := c.cache.Get(userID.String()); ok {
		if balances, ok := v.([]Balance); ok {
			return balances, nil
		}
	}

	raw, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}

	bySymbol := make(map[string]decimal.Decimal, len(raw))
	for symbol, amount := range raw {
		bySymbol[strings.ToUpper(symbol)] = amount
	}

	balances := make([]Balance, 0, len(bySymbol))

	for _, symbol := range c.catalog.Symbols() {
		if amount, ok := bySymbol[strings.ToUpper(symbol)]; ok {
			balances = append(balances, Balance{Symbol: symbol, Amount: amount})
		}
	}

	c.cache.SetDefault(userID.String(), balances)

	return balances, nil
}

// Invalidate сбрасывает снимок, например после выигрыша.
func (c *Client) Invalidate(userID contextx.UserID) {
	c.cache.Delete(userID.String())
}

func (c *Client) fetch(ctx context.Context) (map[string]decimal.Decimal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.walletURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("http.NewRequestWithContext: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domain.WrapError(err, errcodes.TransportError, "wallet endpoint unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, domain.WrapError(
			fmt.Errorf("unexpected status %d", resp.StatusCode),
			errcodes.TransportError,
			"wallet endpoint failed",
		)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, domain.WrapError(err, errcodes.TransportError, "wallet endpoint response interrupted")
	}

	var payload walletResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, domain.WrapError(err, errcodes.InvalidResponse, "wallet endpoint returned invalid response")
	}

	return payload.WalletBalances, nil
}
