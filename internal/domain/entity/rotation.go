package entity

import "time"

// RotationPlan конечное положение колеса для одного спина.
// Рендерер обязан довести колесо до TargetRotation ровно за Duration.
type RotationPlan struct {
	SectorIndex    int           `json:"sectorIndex"`
	Turns          int           `json:"turns"`
	StartRotation  float64       `json:"startRotation"`
	TargetRotation float64       `json:"targetRotation"`
	Duration       time.Duration `json:"-"`
}

func (p RotationPlan) DurationMs() int64 {
	return p.Duration.Milliseconds()
}

// MarshalJSON добавляет durationMs, контракт для рендерера.
func (p RotationPlan) MarshalJSON() ([]byte, error) {
	type plain RotationPlan

	return json.Marshal(struct {
		plain
		DurationMs int64 `json:"durationMs"`
	}{
		plain:      plain(p),
		DurationMs: p.DurationMs(),
	})
}
