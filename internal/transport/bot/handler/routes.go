package handler

import (
	th "github.com/mymmrac/telego/telegohandler"

	"luckywheel/internal/transport/bot/middleware"
)

func (h *Handler) RegisterRoutes(bh *th.BotHandler, adminID int64) {
	adminGroup := bh.Group(th.AnyMessage())
	adminGroup.Use(middleware.AdminOnly(adminID))

	adminGroup.HandleMessage(h.OnStart, th.CommandEqual("start"))
	adminGroup.HandleMessage(h.OnStatus, th.CommandEqual("status"))
	adminGroup.HandleMessage(h.OnReset, th.CommandEqual("reset"))
	adminGroup.HandleMessage(h.OnCatalog, th.CommandEqual("catalog"))
}
