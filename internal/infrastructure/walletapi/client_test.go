package walletapi_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"luckywheel/internal/domain"
	"luckywheel/internal/domain/catalog"
	"luckywheel/internal/infrastructure/walletapi"
)

func TestBalances(t *testing.T) {
	rq := require.New(t)

	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"walletBalances":{"not":1500,"BTC":"0.00123","DOGE":7,"USDT":12.5}}`))
	}))
	defer srv.Close()

	client := walletapi.New(srv.Client(), srv.URL, catalog.Default(), time.Minute)

	balances, err := client.Balances(context.Background(), "u-1")
	rq.NoError(err)
	rq.Len(balances, 3)
	rq.Equal("BTC", balances[0].Symbol)
	rq.Equal("0.00123000", balances[0].Amount.StringFixed(8))
	rq.Equal("USDT", balances[1].Symbol)
	rq.Equal("NOT", balances[2].Symbol)

	_, err = client.Balances(context.Background(), "u-1")
	rq.NoError(err)
	rq.Equal(int32(1), calls.Load())

	client.Invalidate("u-1")

	_, err = client.Balances(context.Background(), "u-1")
	rq.NoError(err)
	rq.Equal(int32(2), calls.Load())
}

func TestBalancesErrors(t *testing.T) {
	rq := require.New(t)

	var status atomic.Int32

	status.Store(http.StatusBadGateway)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(int(status.Load()))
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	client := walletapi.New(srv.Client(), srv.URL, catalog.Default(), time.Minute)

	_, err := client.Balances(context.Background(), "u-1")
	rq.ErrorIs(err, domain.ErrTransport)

	status.Store(http.StatusOK)

	_, err = client.Balances(context.Background(), "u-1")
	rq.ErrorIs(err, domain.ErrInvalidResponse)
}
