package rotation

import (
	"fmt"
)

// State is the lifecycle state of a Controller.
type State int

// States of a Controller.
const (
	// StateIdle means there is at most one page; no timer runs and navigation
	// is a no-op.
	StateIdle State = iota

	// StateArmed means the controller accepts navigation. The auto-advance
	// timer is running if auto-advance is enabled.
	StateArmed

	// StateTransitioning means a navigation was accepted and the settle delay
	// is pending. Further navigation is rejected.
	StateTransitioning

	// StateSettled is passed through when the settle delay elapses, right
	// before the controller becomes Armed or Idle again.
	StateSettled
)

var stateNames = map[State]string{
	StateIdle:          "idle",
	StateArmed:         "armed",
	StateTransitioning: "transitioning",
	StateSettled:       "settled",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}

	return fmt.Sprintf("State(%d)", int(s))
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a state name.
func (s *State) UnmarshalText(b []byte) error {
	for state, name := range stateNames {
		if name == string(b) {
			*s = state
			return nil
		}
	}

	return fmt.Errorf("rotation: unknown state %q", b)
}

// Direction tells the view which way to animate the current transition.
type Direction int

// Directions.
const (
	DirectionNone Direction = iota
	DirectionForward
	DirectionBackward
)

func (d Direction) String() string {
	switch d {
	case DirectionForward:
		return "forward"
	case DirectionBackward:
		return "backward"
	default:
		return "none"
	}
}

// MarshalText encodes the direction by name.
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText decodes a direction name.
func (d *Direction) UnmarshalText(b []byte) error {
	for _, dir := range []Direction{DirectionNone, DirectionForward, DirectionBackward} {
		if dir.String() == string(b) {
			*d = dir
			return nil
		}
	}

	return fmt.Errorf("rotation: unknown direction %q", b)
}

// Action is what started a transition.
type Action int

// Actions.
const (
	ActionAuto Action = iota
	ActionNext
	ActionPrev
	ActionGoTo
)

func (a Action) String() string {
	switch a {
	case ActionAuto:
		return "auto"
	case ActionNext:
		return "next"
	case ActionPrev:
		return "prev"
	case ActionGoTo:
		return "goto"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// MarshalText encodes the action by name.
func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText decodes an action name.
func (a *Action) UnmarshalText(b []byte) error {
	for _, action := range []Action{ActionAuto, ActionNext, ActionPrev, ActionGoTo} {
		if action.String() == string(b) {
			*a = action
			return nil
		}
	}

	return fmt.Errorf("rotation: unknown action %q", b)
}

// Cadence selects what the auto-advance interval is measured from.
type Cadence int

// Cadences.
const (
	// CadenceSettleToSettle restarts the interval when a transition settles.
	CadenceSettleToSettle Cadence = iota

	// CadenceExpiryToExpiry restarts the interval when the timer expires, so
	// the settle delay eats into the next interval.
	CadenceExpiryToExpiry
)

func (c Cadence) String() string {
	if c == CadenceExpiryToExpiry {
		return "expiry"
	}

	return "settle"
}

// ParseCadence parses "settle" or "expiry".
func ParseCadence(s string) (Cadence, error) {
	switch s {
	case "", "settle":
		return CadenceSettleToSettle, nil
	case "expiry":
		return CadenceExpiryToExpiry, nil
	default:
		return CadenceSettleToSettle, fmt.Errorf("rotation: unknown cadence %q", s)
	}
}
