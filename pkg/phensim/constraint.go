package phensim

import (
	"strings"

	perrors "github.com/pathwaylab/pathsim/pkg/errors"
)

// Direction is the expected change of a constrained node.
type Direction int

const (
	Unchanged Direction = iota
	Up
	Down
)

var directionNames = map[Direction]string{
	Unchanged: "UNCHANGED",
	Up:        "UP",
	Down:      "DOWN",
}

// String returns the uppercase name of the direction.
func (d Direction) String() string {
	if s, ok := directionNames[d]; ok {
		return s
	}
	return "UNCHANGED"
}

// Sign returns +1 for Up, -1 for Down and 0 otherwise.
func (d Direction) Sign() float64 {
	switch d {
	case Up:
		return 1
	case Down:
		return -1
	default:
		return 0
	}
}

// ParseDirection accepts UP, DOWN and UNCHANGED in any case, and the short
// forms "+", "-" and "0".
func ParseDirection(s string) (Direction, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "UP", "+", "OVEREXPRESSION":
		return Up, nil
	case "DOWN", "-", "UNDEREXPRESSION":
		return Down, nil
	case "UNCHANGED", "0", "NONE":
		return Unchanged, nil
	}
	return Unchanged, perrors.New(perrors.ErrCodeInvalidInput, "unknown direction %q (want UP, DOWN or UNCHANGED)", s)
}

// Constraint fixes the direction and, optionally, the magnitude of a node's
// simulated expression. A zero Value lets the distribution pick a default
// magnitude.
type Constraint struct {
	Direction Direction `json:"direction"`
	Value     float64   `json:"value,omitempty"`
}

// State is the classification of a simulated value.
type State int

const (
	Active State = iota
	Inhibited
	Otherwise
)

// Classify maps v to Active when v > eps, Inhibited when v < -eps and
// Otherwise in between.
func Classify(v, eps float64) State {
	switch {
	case v > eps:
		return Active
	case v < -eps:
		return Inhibited
	default:
		return Otherwise
	}
}

// String returns the uppercase name of the state.
func (s State) String() string {
	switch s {
	case Active:
		return "ACTIVE"
	case Inhibited:
		return "INHIBITED"
	default:
		return "OTHERWISE"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *State) UnmarshalText(b []byte) error {
	switch strings.ToUpper(string(b)) {
	case "ACTIVE":
		*s = Active
	case "INHIBITED":
		*s = Inhibited
	case "OTHERWISE":
		*s = Otherwise
	default:
		return perrors.New(perrors.ErrCodeInvalidFormat, "unknown state %q", b)
	}
	return nil
}
