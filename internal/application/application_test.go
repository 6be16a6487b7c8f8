package application

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"luckywheel/internal/config"
	"luckywheel/internal/domain/catalog"
	"luckywheel/pkg/errcodes"
)

func TestOriginChecker(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name    string
		origins []string
		origin  string
		allowed bool
	}{
		{name: "No origin header", origins: []string{"https://app.example"}, allowed: true},
		{name: "Wildcard", origins: []string{"*"}, origin: "https://evil.example", allowed: true},
		{name: "Listed", origins: []string{"https://app.example"}, origin: "https://app.example", allowed: true},
		{name: "Not listed", origins: []string{"https://app.example"}, origin: "https://evil.example"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/v1/wheel/events", http.NoBody)
			if tc.origin != "" {
				r.Header.Set("Origin", tc.origin)
			}

			rq.Equal(tc.allowed, originChecker(tc.origins)(r))
		})
	}
}

func TestWalletNotConfigured(t *testing.T) {
	rq := require.New(t)

	w := newWallet(http.DefaultClient, config.PrizeAPI{}, catalog.Default())

	_, err := w.Balances(t.Context(), "alice")
	rq.Equal(errcodes.ServiceUnavailable, errcodes.Code(err))
}

func TestLoadCatalogDefault(t *testing.T) {
	rq := require.New(t)

	cat, err := loadCatalog("")
	rq.NoError(err)
	rq.Equal(catalog.Default().Symbols(), cat.Symbols())

	_, err = loadCatalog("testdata/missing.json")
	rq.Error(err)
}
