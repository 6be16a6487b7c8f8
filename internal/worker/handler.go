package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"luckywheel/internal/domain/entity"
	"luckywheel/pkg/logx"
)

type winSender interface {
	SendWin(ctx context.Context, win entity.WinAnnouncement) error
}

// AnnounceHandler обработчик задачи TypeAnnounceWin.
type AnnounceHandler struct {
	sender winSender
}

func NewAnnounceHandler(sender winSender) AnnounceHandler {
	return AnnounceHandler{sender: sender}
}

func (h AnnounceHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var win entity.WinAnnouncement

	// битый payload не повторяем
	if err := json.Unmarshal(task.Payload(), &win); err != nil {
		return fmt.Errorf("json.Unmarshal: %w: %w", err, asynq.SkipRetry)
	}

	if err := h.sender.SendWin(ctx, win); err != nil {
		return fmt.Errorf("sender.SendWin: %w", err)
	}

	logger(ctx).InfoContext(ctx, "win announced",
		slog.String(logx.FieldSpinID, win.SpinID),
		slog.String(logx.FieldPrizeID, win.PrizeID.String()),
	)

	return nil
}

// LogSender пишет анонс в лог, когда бот не настроен.
type LogSender struct{}

func (LogSender) SendWin(ctx context.Context, win entity.WinAnnouncement) error {
	logger(ctx).InfoContext(ctx, "win",
		slog.String(logx.FieldUserID, win.UserID),
		slog.String(logx.FieldPrizeID, win.PrizeID.String()),
		slog.String(logx.FieldAmount, win.Amount.String()),
	)

	return nil
}
