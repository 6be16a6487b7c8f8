package notifier

import (
	"context"
	"fmt"
	"html"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"luckywheel/internal/domain/entity"
)

type TelegramBot struct {
	bot    *telego.Bot
	chatID int64
}

func NewTelegramBot(token string, chatID int64) (*TelegramBot, error) {
	bot, err := telego.NewBot(token)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	return &TelegramBot{
		bot:    bot,
		chatID: chatID,
	}, nil
}

// SendWin публикует выигрыш в канал.
func (b *TelegramBot) SendWin(ctx context.Context, win entity.WinAnnouncement) error {
	msg := tu.Message(
		tu.ID(b.chatID),
		FormatWin(win),
	).WithParseMode(telego.ModeHTML)

	if _, err := b.bot.SendMessage(ctx, msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	return nil
}

// SendText отправляет простое текстовое сообщение.
func (b *TelegramBot) SendText(ctx context.Context, text string) error {
	msg := tu.Message(tu.ID(b.chatID), text)

	if _, err := b.bot.SendMessage(ctx, msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	return nil
}

func FormatWin(win entity.WinAnnouncement) string {
	return fmt.Sprintf(
		"🎉 <b>BIG WIN!</b>\n\n"+
			"🎡 <b>Prize:</b> %s\n"+
			"💰 <b>Amount:</b> %s\n"+
			"👤 <b>Player:</b> <code>%s</code>",
		html.EscapeString(win.Symbol),
		win.Amount.String(),
		html.EscapeString(maskUser(win.UserID)),
	)
}

// maskUser оставляет от id первые и последние два символа.
func maskUser(userID string) string {
	const keep = 2

	runes := []rune(userID)
	if len(runes) <= 2*keep {
		return "***"
	}

	return string(runes[:keep]) + "***" + string(runes[len(runes)-keep:])
}
