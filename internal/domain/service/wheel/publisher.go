package wheel

import (
	"context"

	"luckywheel/internal/domain/entity"
)

// Publisher получает события координатора. Вызывается под блокировкой
// координатора, поэтому не должен блокироваться.
type Publisher interface {
	Publish(ctx context.Context, event entity.Event)
}

type PublisherFunc func(ctx context.Context, event entity.Event)

func (f PublisherFunc) Publish(ctx context.Context, event entity.Event) {
	f(ctx, event)
}

// Publishers рассылает событие всем по порядку.
type Publishers []Publisher

func (ps Publishers) Publish(ctx context.Context, event entity.Event) {
	for _, p := range ps {
		p.Publish(ctx, event)
	}
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, entity.Event) {}
