package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// WinAnnouncement выигрыш для публикации в канал.
type WinAnnouncement struct {
	UserID  string          `json:"userId"`
	SpinID  string          `json:"spinId"`
	PrizeID PrizeID         `json:"prizeId"`
	Symbol  string          `json:"symbol"`
	Amount  decimal.Decimal `json:"amount"`
	At      time.Time       `json:"at"`
}
