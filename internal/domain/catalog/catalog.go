// Package catalog хранит упорядоченный неизменяемый список призов колеса
// и геометрию секторов, которой пользуется рендерер.
package catalog

import (
	"fmt"
	"math"
	"os"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/samber/lo"

	"luckywheel/internal/domain"
	"luckywheel/internal/domain/entity"
	"luckywheel/pkg/errcodes"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

const fullTurn = 360.0

type Catalog struct {
	prizes   []entity.Prize
	byID     map[entity.PrizeID]int
	bySymbol map[string]int
}

// New проверяет, что каталог не пуст, а id и symbol уникальны.
func New(prizes ...entity.Prize) (*Catalog, error) {
	if len(prizes) == 0 {
		return nil, domain.NewError(errcodes.InvalidCatalog, "catalog is empty")
	}

	c := &Catalog{
		prizes:   make([]entity.Prize, len(prizes)),
		byID:     make(map[entity.PrizeID]int, len(prizes)),
		bySymbol: make(map[string]int, len(prizes)),
	}

	copy(c.prizes, prizes)

	for i, p := range c.prizes {
		if p.ID == "" || p.Symbol == "" {
			return nil, domain.NewError(errcodes.InvalidCatalog, fmt.Sprintf("prize #%d has empty id or symbol", i))
		}

		if _, dup := c.byID[p.ID]; dup {
			return nil, domain.NewError(errcodes.InvalidCatalog, fmt.Sprintf("duplicate prize id %q", p.ID))
		}

		symbol := normalizeSymbol(p.Symbol)
		if _, dup := c.bySymbol[symbol]; dup {
			return nil, domain.NewError(errcodes.InvalidCatalog, fmt.Sprintf("duplicate prize symbol %q", p.Symbol))
		}

		c.byID[p.ID] = i
		c.bySymbol[symbol] = i
	}

	return c, nil
}

// Default каталог мини-приложения.
func Default() *Catalog {
	return lo.Must(New(
		entity.Prize{ID: "btc", Name: "Bitcoin", Symbol: "BTC", Color: "text-orange-500", Icon: "bitcoin"},
		entity.Prize{ID: "major", Name: "Major", Symbol: "MAJOR", Color: "text-yellow-500", Icon: "star"},
		entity.Prize{ID: "usdt", Name: "Tether", Symbol: "USDT", Color: "text-green-500", Icon: "dollar-sign"},
		entity.Prize{ID: "usdc", Name: "USD Coin", Symbol: "USDC", Color: "text-blue-500", Icon: "dollar-sign"},
		entity.Prize{ID: "star", Name: "Star", Symbol: "STAR", Color: "text-purple-500", Icon: "star"},
		entity.Prize{ID: "gbd", Name: "GBD", Symbol: "GBD", Color: "text-red-500", Icon: "dollar-sign"},
		entity.Prize{ID: "not", Name: "NOT", Symbol: "NOT", Color: "text-gray-500", Icon: "star"},
	))
}

// Load читает каталог из JSON-файла: массив объектов {id, name, symbol, color, icon}.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("os.ReadFile: %w", err)
	}

	var prizes []entity.Prize

	if err := json.Unmarshal(data, &prizes); err != nil {
		return nil, domain.WrapError(err, errcodes.InvalidCatalog, "catalog file is not valid JSON")
	}

	return New(prizes...)
}

func (c *Catalog) Len() int {
	return len(c.prizes)
}

// Prizes возвращает копию в порядке секторов.
func (c *Catalog) Prizes() []entity.Prize {
	out := make([]entity.Prize, len(c.prizes))
	copy(out, c.prizes)

	return out
}

func (c *Catalog) Symbols() []string {
	return lo.Map(c.prizes, func(p entity.Prize, _ int) string { return p.Symbol })
}

func (c *Catalog) ByID(id entity.PrizeID) (entity.Prize, int, bool) {
	i, ok := c.byID[id]
	if !ok {
		return entity.Prize{}, -1, false
	}

	return c.prizes[i], i, true
}

// BySymbol без учёта регистра.
func (c *Catalog) BySymbol(symbol string) (entity.Prize, int, bool) {
	i, ok := c.bySymbol[normalizeSymbol(symbol)]
	if !ok {
		return entity.Prize{}, -1, false
	}

	return c.prizes[i], i, true
}

func (c *Catalog) At(index int) entity.Prize {
	return c.prizes[index]
}

// SectorStep угловой размер одного сектора.
func (c *Catalog) SectorStep() float64 {
	return fullTurn / float64(len(c.prizes))
}

// Сектор i нарисован повёрнутым на step*i по часовой стрелке, указатель
// сверху на 0°. Под указателем оказывается сектор i, когда поворот колеса
// R ≡ -step*i (mod 360).

// SectorAngle поворот колеса в [0, 360), ставящий сектор index под указатель.
func (c *Catalog) SectorAngle(index int) float64 {
	return normalizeAngle(-c.SectorStep() * float64(index))
}

// SectorAt обратная операция: какой сектор под указателем при повороте rotation.
func (c *Catalog) SectorAt(rotation float64) int {
	n := len(c.prizes)
	steps := int(math.Round(normalizeAngle(rotation) / c.SectorStep()))

	return ((n-steps)%n + n) % n
}

func normalizeAngle(deg float64) float64 {
	deg = math.Mod(deg, fullTurn)
	if deg < 0 {
		deg += fullTurn
	}

	if deg >= fullTurn || deg == 0 {
		// -0 тоже сюда.
		return 0
	}

	return deg
}

func normalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
