package booking

import (
	"fmt"
	"strings"
)

// State represents where a booking sits in its lifecycle.
type State string

const (
	StateWaiting     State = "waiting"
	StateApproved    State = "approved"
	StateDisapproved State = "disapproved"
	StateCompleted   State = "completed"
	StateCancelled   State = "cancelled"
)

// legacyStates maps the spellings older clients still send.
var legacyStates = map[string]State{
	"waite":       StateWaiting,
	"approve":     StateApproved,
	"disapproval": StateDisapproved,
	"complete":    StateCompleted,
	"cancel":      StateCancelled,
}

// IsValid returns true if the state is one of the known booking states.
func (s State) IsValid() bool {
	switch s {
	case StateWaiting, StateApproved, StateDisapproved, StateCompleted, StateCancelled:
		return true
	}
	return false
}

// IsActive reports whether the booking still holds its room.
func (s State) IsActive() bool {
	return s == StateWaiting || s == StateApproved
}

// String returns the string representation of the state.
func (s State) String() string {
	return string(s)
}

// ParseState converts user input to a State, accepting legacy spellings.
func ParseState(s string) (State, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	if st := State(normalized); st.IsValid() {
		return st, nil
	}
	if st, ok := legacyStates[normalized]; ok {
		return st, nil
	}
	return "", fmt.Errorf("invalid booking state: %q", s)
}
