package core

// Action is a steering command for the car.
// Values are dense from zero so they index Q-value vectors directly.
type Action int

const (
	ActionLeft  Action = iota // move the car left by one step
	ActionRight               // move the car right by one step
)

// ActionCount is the size of the action set and of every Q-value vector.
const ActionCount = 2

// Actions lists every action in index order.
var Actions = [ActionCount]Action{ActionLeft, ActionRight}

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionLeft:
		return "LEFT"
	case ActionRight:
		return "RIGHT"
	default:
		return "Unknown"
	}
}

// Valid reports whether a is one of the defined actions.
func (a Action) Valid() bool {
	return a >= 0 && int(a) < ActionCount
}
