package entity

// SpinState состояние автомата спина.
type SpinState int

const (
	SpinStateIdle SpinState = iota
	SpinStateRequesting
	SpinStateAnimating
	SpinStateRevealed
	SpinStateFailed
)

func (s SpinState) String() string {
	switch s {
	case SpinStateIdle:
		return "idle"
	case SpinStateRequesting:
		return "requesting"
	case SpinStateAnimating:
		return "animating"
	case SpinStateRevealed:
		return "revealed"
	case SpinStateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

func (s SpinState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
