package model

// Action is a human-friendly storage mode for an hour.
// Keep these values stable; they are part of the API output.
type Action string

const (
	ActionCharging    Action = "CHARGING"
	ActionIdle        Action = "IDLE"
	ActionDischarging Action = "DISCHARGING"
)

// ActionFromStorageSupplied maps the signed storage flow of an hour to a mode.
// Positive flow is delivered from storage, negative flow is absorbed by it.
func ActionFromStorageSupplied(mwh float64) Action {
	switch {
	case mwh < 0:
		return ActionCharging
	case mwh > 0:
		return ActionDischarging
	default:
		return ActionIdle
	}
}
