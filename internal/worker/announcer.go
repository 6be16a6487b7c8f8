// Package worker фоновые задачи asynq: анонсы крупных выигрышей.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"

	"luckywheel/internal/domain/entity"
	"luckywheel/pkg/logx"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

const (
	TypeAnnounceWin = "wheel:announce_win"
	QueueAnnounce   = "announcements"

	announceMaxRetry = 5
	announceBuffer   = 256
)

type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Announcer подписчик координатора: выигрыши выше порога ставятся в очередь asynq.
// Publish не ждёт Redis, постановка идёт из Run.
type Announcer struct {
	client    enqueuer
	minAmount decimal.Decimal
	queue     chan entity.WinAnnouncement
}

func NewAnnouncer(client enqueuer, minAmount decimal.Decimal) *Announcer {
	return &Announcer{
		client:    client,
		minAmount: minAmount,
		queue:     make(chan entity.WinAnnouncement, announceBuffer),
	}
}

func (a *Announcer) Publish(ctx context.Context, event entity.Event) {
	if event.Type != entity.EventState || event.State != entity.SpinStateRevealed || event.Outcome == nil {
		return
	}

	if !event.Outcome.Amount.GreaterThan(a.minAmount) {
		return
	}

	win := entity.WinAnnouncement{
		UserID:  event.UserID.String(),
		SpinID:  event.SpinID,
		PrizeID: event.Outcome.PrizeID,
		Symbol:  event.Outcome.Symbol,
		Amount:  event.Outcome.Amount,
		At:      event.At,
	}

	select {
	case a.queue <- win:
	default:
		logger(ctx).WarnContext(ctx, "announcement dropped, queue is full",
			slog.String(logx.FieldSpinID, win.SpinID),
		)
	}
}

// Run ставит накопленные анонсы в очередь до отмены ctx.
func (a *Announcer) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case win := <-a.queue:
			if err := a.enqueue(ctx, win); err != nil {
				logger(ctx).ErrorContext(ctx, "announcer.enqueue",
					slog.String(logx.FieldSpinID, win.SpinID),
					logx.Error(err),
				)
			}
		}
	}
}

func (a *Announcer) enqueue(ctx context.Context, win entity.WinAnnouncement) error {
	payload, err := json.Marshal(win)
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	task := asynq.NewTask(TypeAnnounceWin, payload)

	// spin id как task id: повторная постановка того же выигрыша отбрасывается
	if _, err := a.client.EnqueueContext(ctx, task,
		asynq.Queue(QueueAnnounce),
		asynq.MaxRetry(announceMaxRetry),
		asynq.TaskID(win.SpinID),
	); err != nil {
		return fmt.Errorf("client.EnqueueContext: %w", err)
	}

	logger(ctx).InfoContext(ctx, "announcement enqueued",
		slog.String(logx.FieldTaskType, TypeAnnounceWin),
		slog.String(logx.FieldSpinID, win.SpinID),
	)

	return nil
}
