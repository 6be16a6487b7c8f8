package catalog_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"luckywheel/internal/domain"
	"luckywheel/internal/domain/catalog"
	"luckywheel/internal/domain/entity"
	"luckywheel/pkg/errcodes"
)

func TestDefault(t *testing.T) {
	rq := require.New(t)

	c := catalog.Default()
	rq.Equal(7, c.Len())
	rq.Equal([]string{"BTC", "MAJOR", "USDT", "USDC", "STAR", "GBD", "NOT"}, c.Symbols())

	p, idx, ok := c.BySymbol("usdt")
	rq.True(ok)
	rq.Equal(2, idx)
	rq.Equal(entity.PrizeID("usdt"), p.ID)

	_, _, ok = c.ByID("doge")
	rq.False(ok)
}

func TestSectorRoundTrip(t *testing.T) {
	rq := require.New(t)

	for _, n := range []int{1, 2, 3, 7, 12} {
		prizes := make([]entity.Prize, n)
		for i := range prizes {
			id := string(rune('a' + i))
			prizes[i] = entity.Prize{ID: entity.PrizeID(id), Symbol: id}
		}

		c, err := catalog.New(prizes...)
		rq.NoError(err)

		for i := range n {
			angle := c.SectorAngle(i)
			rq.GreaterOrEqual(angle, 0.0)
			rq.Less(angle, 360.0)
			rq.Equal(i, c.SectorAt(angle), "n=%d i=%d", n, i)
			rq.Equal(i, c.SectorAt(angle+360*9), "full turns must not change the sector")
			rq.Equal(i, c.SectorAt(angle-360*2))
		}
	}
}

func TestSectorAngleMatchesDrawing(t *testing.T) {
	rq := require.New(t)

	c := catalog.Default()
	step := 360.0 / 7

	rq.InDelta(0.0, c.SectorAngle(0), 1e-9)
	rq.InDelta(360-step, c.SectorAngle(1), 1e-9)
	rq.InDelta(360-step*6, c.SectorAngle(6), 1e-9)
}

func TestNewInvalid(t *testing.T) {
	testCases := []struct {
		name   string
		prizes []entity.Prize
	}{
		{name: "Empty"},
		{name: "Empty id", prizes: []entity.Prize{{Symbol: "A"}}},
		{name: "Duplicate id", prizes: []entity.Prize{{ID: "a", Symbol: "A"}, {ID: "a", Symbol: "B"}}},
		{name: "Duplicate symbol", prizes: []entity.Prize{{ID: "a", Symbol: "A"}, {ID: "b", Symbol: "a"}}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := catalog.New(tc.prizes...)
			require.ErrorIs(t, err, domain.NewError(errcodes.InvalidCatalog, ""))
		})
	}
}

func TestLoad(t *testing.T) {
	rq := require.New(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.json")
	rq.NoError(os.WriteFile(path, []byte(`[{"id":"ton","name":"Toncoin","symbol":"TON"},{"id":"not","name":"NOT","symbol":"NOT"}]`), 0o600))

	c, err := catalog.Load(path)
	rq.NoError(err)
	rq.Equal(2, c.Len())
	rq.Equal("Toncoin", c.At(0).Name)

	rq.NoError(os.WriteFile(path, []byte(`{`), 0o600))
	_, err = catalog.Load(path)
	rq.Error(err)

	_, err = catalog.Load(filepath.Join(dir, "missing.json"))
	rq.Error(err)
}
