package handler

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
	tu "github.com/mymmrac/telego/telegoutil"

	"luckywheel/internal/transport/bot/view"
	"luckywheel/pkg/contextx"
	"luckywheel/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

func (h *Handler) OnStart(ctx *th.Context, msg telego.Message) error {
	return h.sendHTML(ctx, msg.Chat.ID, view.StartMessage)
}

func (h *Handler) OnStatus(ctx *th.Context, msg telego.Message) error {
	userID, ok := CommandArg(msg.Text)
	if !ok {
		return h.sendHTML(ctx, msg.Chat.ID, view.Usage("status"))
	}

	coordinator, err := h.wheels.Get(ctx, userID)
	if err != nil {
		return fmt.Errorf("wheels.Get: %w", err)
	}

	return h.sendHTML(ctx, msg.Chat.ID, view.Status(coordinator.Snapshot(), h.now()))
}

func (h *Handler) OnReset(ctx *th.Context, msg telego.Message) error {
	userID, ok := CommandArg(msg.Text)
	if !ok {
		return h.sendHTML(ctx, msg.Chat.ID, view.Usage("reset"))
	}

	coordinator, err := h.wheels.Get(ctx, userID)
	if err != nil {
		return fmt.Errorf("wheels.Get: %w", err)
	}

	coordinator.ResetQuota(ctx)

	logger(ctx).InfoContext(ctx, "quota reset by admin", slog.String(logx.FieldUserID, userID.String()))

	return h.sendHTML(ctx, msg.Chat.ID, view.Reset(userID.String(), coordinator.Snapshot().Quota))
}

func (h *Handler) OnCatalog(ctx *th.Context, msg telego.Message) error {
	return h.sendHTML(ctx, msg.Chat.ID, view.Catalog(h.catalog))
}

func (h *Handler) sendHTML(ctx *th.Context, chatID int64, text string) error {
	_, err := ctx.Bot().SendMessage(ctx, tu.Message(tu.ID(chatID), text).WithParseMode(telego.ModeHTML))
	if err != nil {
		return fmt.Errorf("bot.SendMessage: %w", err)
	}

	return nil
}

// CommandArg первый аргумент команды: "/status@bot alice" -> "alice".
func CommandArg(text string) (contextx.UserID, bool) {
	parts := strings.Fields(text)
	if len(parts) < 2 { //nolint:mnd
		return "", false
	}

	return contextx.UserID(parts[1]), true
}
