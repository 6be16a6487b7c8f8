package entity

import "github.com/shopspring/decimal"

// SpinOutcome авторитетный результат одного спина.
type SpinOutcome struct {
	PrizeID PrizeID         `json:"prizeId"`
	Symbol  string          `json:"symbol"`
	Amount  decimal.Decimal `json:"amount"`
}

// IsZero true для пустого значения (результата ещё нет).
func (o SpinOutcome) IsZero() bool {
	return o.PrizeID == ""
}
