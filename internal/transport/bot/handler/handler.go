package handler

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"

	"luckywheel/internal/domain/catalog"
	"luckywheel/internal/domain/service/wheel"
	"luckywheel/pkg/contextx"
)

type wheels interface {
	Get(ctx context.Context, userID contextx.UserID) (*wheel.Coordinator, error)
}

type Handler struct {
	wheels  wheels
	catalog *catalog.Catalog
	clk     clock.Clock
}

func New(wheels wheels, cat *catalog.Catalog, clk clock.Clock) *Handler {
	return &Handler{
		wheels:  wheels,
		catalog: cat,
		clk:     clk,
	}
}

func (h *Handler) now() time.Time {
	return h.clk.Now()
}
