// Данный файл должен быть сгенерирован из openapi спецификации и называться types.gen.go
package rest

// Quota Остаток спинов
type Quota struct {
	Remaining int `json:"remaining"`
	MaxSpins  int `json:"maxSpins"`

	// RecoveryDeadline Момент восстановления, epoch-ms. Только при remaining == 0
	RecoveryDeadline *int64 `json:"recoveryDeadline"`

	// RecoveryRemainingMs Сколько осталось до восстановления
	RecoveryRemainingMs int64 `json:"recoveryRemainingMs"`

	// Countdown Обратный отсчёт в формате m:ss
	Countdown string `json:"countdown"`
}

// Plan Траектория анимации
type Plan struct {
	SectorIndex    int     `json:"sectorIndex"`
	Turns          int     `json:"turns"`
	StartRotation  float64 `json:"startRotation"`
	TargetRotation float64 `json:"targetRotation"`
	DurationMs     int64   `json:"durationMs"`
}

// Outcome Выигрыш
type Outcome struct {
	PrizeID string `json:"prizeId"`
	Symbol  string `json:"symbol"`
	Amount  string `json:"amount"`
}

// Wheel Состояние колеса пользователя
type Wheel struct {
	State       string   `json:"state"`
	SpinID      string   `json:"spinId,omitempty"`
	Rotation    float64  `json:"rotation"`
	Quota       Quota    `json:"quota"`
	Plan        *Plan    `json:"plan,omitempty"`
	LastOutcome *Outcome `json:"lastOutcome,omitempty"`
	LastError   string   `json:"lastError,omitempty"`
}

// Spin Принятый спин
type Spin struct {
	SpinID string `json:"spinId"`
	State  string `json:"state"`
	Plan   Plan   `json:"plan"`
}

// Sector Элемент каталога с углом сектора
type Sector struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Symbol      string  `json:"symbol"`
	Color       string  `json:"color,omitempty"`
	Icon        string  `json:"icon,omitempty"`
	SectorAngle float64 `json:"sectorAngle"`
}

// Catalog Каталог призов
type Catalog struct {
	Sectors    []Sector `json:"sectors"`
	SectorStep float64  `json:"sectorStep"`
}

// Balance Баланс по символу
type Balance struct {
	Symbol string `json:"symbol"`
	Amount string `json:"amount"`
}

// Wallet Снимок кошелька
type Wallet struct {
	Balances []Balance `json:"balances"`
}

// QuotaState Остаток спинов в событии
type QuotaState struct {
	Remaining        int    `json:"remaining"`
	RecoveryDeadline *int64 `json:"recoveryDeadline"`
}

// Event Сообщение потока событий
type Event struct {
	Type    string     `json:"type"`
	SpinID  string     `json:"spinId,omitempty"`
	State   string     `json:"state"`
	Quota   QuotaState `json:"quota"`
	Plan    *Plan      `json:"plan,omitempty"`
	Outcome *Outcome   `json:"outcome,omitempty"`
	Error   string     `json:"error,omitempty"`
}

// Error Модель ошибок
type Error struct {
	// Code Код ошибки
	Code ErrorCode `json:"code"`

	// Message Сообщение об ошибке (для отображения в UI в будущем)
	Message string `json:"message"`

	// SupportID Идентификатор запроса для поддержки
	SupportID string `json:"supportId"`
}

// ErrorCode Код ошибки
type ErrorCode string
