// Package prizeapi клиент авторитетного эндпоинта спина.
package prizeapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"

	"luckywheel/internal/domain"
	"luckywheel/internal/domain/catalog"
	"luckywheel/internal/domain/entity"
	"luckywheel/pkg/contextx"
	"luckywheel/pkg/errcodes"
	"luckywheel/pkg/httpx"
)

var (
	json     = jsoniter.ConfigCompatibleWithStandardLibrary         //nolint:gochecknoglobals // skip
	validate = validator.New(validator.WithRequiredStructEnabled()) //nolint:gochecknoglobals // skip
)

const maxBodySize = 1 << 20

// spinResponse контракт {prize: {type, amount}}.
type spinResponse struct {
	Prize *prizeDTO `json:"prize" validate:"required"`
}

// Amount сырой: decimal принял бы и строку "0.001".
type prizeDTO struct {
	Type   *string             `json:"type"   validate:"required"`
	Amount jsoniter.RawMessage `json:"amount" validate:"required"`
}

// Client одна попытка на спин, без повторов: эндпоинт начисляет приз
// и не поддерживает ключи идемпотентности.
type Client struct {
	httpClient *http.Client
	spinURL    string
	catalog    *catalog.Catalog
}

func New(httpClient *http.Client, spinURL string, cat *catalog.Catalog) *Client {
	return &Client{
		httpClient: httpClient,
		spinURL:    spinURL,
		catalog:    cat,
	}
}

// NewTransport транспорт с токеном вызывающего пользователя и логированием.
func NewTransport(base http.RoundTripper, opts ...httpx.Option) http.RoundTripper {
	return httpx.NewAuthBearerRoundTripper(
		httpx.NewLoggingRoundTripper(base, opts...),
		httpx.TokenSourceFunc(bearerToken),
	)
}

func bearerToken(ctx context.Context) (string, error) {
	token, err := contextx.BearerTokenFromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("contextx.BearerTokenFromContext: %w", err)
	}

	return token.String(), nil
}

// Resolve запрашивает приз. TransportError при сетевой ошибке или статусе не 2xx,
// InvalidResponse при неверной форме ответа, неизвестном призе или отрицательной сумме.
func (c *Client) Resolve(ctx context.Context) (entity.SpinOutcome, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.spinURL, http.NoBody)
	if err != nil {
		return entity.SpinOutcome{}, fmt.Errorf("http.NewRequestWithContext: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return entity.SpinOutcome{}, domain.WrapError(err, errcodes.TransportError, "prize endpoint unreachable")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return entity.SpinOutcome{}, domain.WrapError(err, errcodes.TransportError, "prize endpoint response interrupted")
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return entity.SpinOutcome{}, domain.WrapError(
			fmt.Errorf("unexpected status %d", resp.StatusCode),
			errcodes.TransportError,
			"prize endpoint failed",
		)
	}

	return c.decode(ctx, body)
}

func (c *Client) decode(ctx context.Context, body []byte) (entity.SpinOutcome, error) {
	var payload spinResponse

	if err := json.Unmarshal(body, &payload); err != nil {
		return entity.SpinOutcome{}, invalid(fmt.Errorf("json.Unmarshal: %w", err))
	}

	if err := validate.StructCtx(ctx, payload); err != nil {
		return entity.SpinOutcome{}, invalid(fmt.Errorf("validate.StructCtx: %w", err))
	}

	prize, ok := c.lookup(*payload.Prize.Type)
	if !ok {
		return entity.SpinOutcome{}, invalid(fmt.Errorf("unknown prize type %q", *payload.Prize.Type))
	}

	amount, err := parseAmount(payload.Prize.Amount)
	if err != nil {
		return entity.SpinOutcome{}, invalid(err)
	}

	if amount.IsNegative() {
		return entity.SpinOutcome{}, invalid(fmt.Errorf("negative amount %s", amount))
	}

	return entity.SpinOutcome{
		PrizeID: prize.ID,
		Symbol:  prize.Symbol,
		Amount:  amount,
	}, nil
}

// lookup по символу, затем по id.
func (c *Client) lookup(prizeType string) (entity.Prize, bool) {
	prizeType = strings.TrimSpace(prizeType)
	if prizeType == "" {
		return entity.Prize{}, false
	}

	if prize, _, ok := c.catalog.BySymbol(prizeType); ok {
		return prize, true
	}

	prize, _, ok := c.catalog.ByID(entity.PrizeID(strings.ToLower(prizeType)))

	return prize, ok
}

// parseAmount принимает только JSON-число.
func parseAmount(raw []byte) (decimal.Decimal, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || (raw[0] != '-' && (raw[0] < '0' || raw[0] > '9')) {
		return decimal.Zero, fmt.Errorf("amount %s is not a number", raw)
	}

	amount, err := decimal.NewFromString(string(raw))
	if err != nil {
		return decimal.Zero, fmt.Errorf("decimal.NewFromString: %w", err)
	}

	return amount, nil
}

func invalid(err error) error {
	return domain.WrapError(err, errcodes.InvalidResponse, "prize endpoint returned invalid response")
}
