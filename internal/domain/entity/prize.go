package entity

// PrizeID стабильный ключ приза в каталоге.
type PrizeID string

func (id PrizeID) String() string {
	return string(id)
}

// Prize элемент каталога. Color и Icon нужны только клиенту для отрисовки.
type Prize struct {
	ID     PrizeID `json:"id"`
	Name   string  `json:"name"`
	Symbol string  `json:"symbol"`
	Color  string  `json:"color,omitempty"`
	Icon   string  `json:"icon,omitempty"`
}
