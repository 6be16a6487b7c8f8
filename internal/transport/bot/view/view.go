// Package view тексты ответов админ-бота.
package view

import (
	"fmt"
	"html"
	"strings"
	"time"

	"luckywheel/internal/domain/catalog"
	"luckywheel/internal/domain/entity"
	"luckywheel/internal/domain/service/wheel"
)

const StartMessage = `🎡 <b>Колесо удачи</b>

/status &lt;user-id&gt; состояние колеса пользователя
/reset &lt;user-id&gt; вернуть все спины
/catalog призы и углы секторов`

const UnknownUser = "❌ Укажите user-id: <code>/%s &lt;user-id&gt;</code>"

func Usage(command string) string {
	return fmt.Sprintf(UnknownUser, command)
}

func Status(snap wheel.Snapshot, now time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "📊 <b>Колесо %s</b>\n\n", html.EscapeString(snap.UserID.String()))
	fmt.Fprintf(&b, "🔄 <b>Состояние:</b> %s\n", snap.State)
	fmt.Fprintf(&b, "🎟 <b>Спины:</b> %d/%d\n", snap.Quota.Remaining, snap.MaxSpins)

	if snap.Quota.HasDeadline() {
		fmt.Fprintf(&b, "⏳ <b>Восстановление через:</b> %s\n", entity.Countdown(snap.Quota.RecoveryRemaining(now)))
	}

	if snap.LastOutcome != nil {
		fmt.Fprintf(&b, "🏆 <b>Последний приз:</b> %s %s\n",
			snap.LastOutcome.Amount.String(), html.EscapeString(snap.LastOutcome.Symbol))
	}

	if snap.LastError != "" {
		fmt.Fprintf(&b, "⚠️ <b>Последняя ошибка:</b> %s\n", snap.LastError)
	}

	return b.String()
}

func Reset(userID string, state entity.QuotaState) string {
	return fmt.Sprintf("✅ Спины %s восстановлены: %d", html.EscapeString(userID), state.Remaining)
}

func Catalog(cat *catalog.Catalog) string {
	var b strings.Builder

	b.WriteString("🎯 <b>Каталог</b>\n\n")

	for i, prize := range cat.Prizes() {
		fmt.Fprintf(&b, "%d. %s (%s) %.1f°\n",
			i+1, html.EscapeString(prize.Name), html.EscapeString(prize.Symbol), cat.SectorAngle(i))
	}

	return b.String()
}
