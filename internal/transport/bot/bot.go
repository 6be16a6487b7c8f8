// Package bot админ-бот колеса в Telegram.
package bot

import (
	"context"
	"fmt"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"luckywheel/internal/transport/bot/handler"
	"luckywheel/pkg/contextx"
	"luckywheel/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// Bot long polling админ-бот.
type Bot struct {
	bot     *telego.Bot
	handler *handler.Handler
	adminID int64
}

func New(token string, adminID int64, h *handler.Handler) (*Bot, error) {
	bot, err := telego.NewBot(token)
	if err != nil {
		return nil, fmt.Errorf("telego.NewBot: %w", err)
	}

	return &Bot{
		bot:     bot,
		handler: h,
		adminID: adminID,
	}, nil
}

// Run обрабатывает апдейты до отмены ctx.
func (b *Bot) Run(ctx context.Context) error {
	updates, err := b.bot.UpdatesViaLongPolling(ctx, &telego.GetUpdatesParams{
		Timeout: 60, //nolint:mnd
	})
	if err != nil {
		return fmt.Errorf("bot.UpdatesViaLongPolling: %w", err)
	}

	bh, err := th.NewBotHandler(b.bot, updates)
	if err != nil {
		return fmt.Errorf("th.NewBotHandler: %w", err)
	}

	b.handler.RegisterRoutes(bh, b.adminID)

	go func() {
		if err := bh.Start(); err != nil {
			logger(ctx).ErrorContext(ctx, "bot handler stopped", logx.Error(err))
		}
	}()

	logger(ctx).InfoContext(ctx, "admin bot started")

	<-ctx.Done()

	if err := bh.Stop(); err != nil {
		logger(ctx).ErrorContext(ctx, "bh.Stop", logx.Error(err))
	}

	return nil
}
