package session

import (
	"errors"
	"time"

	"github.com/vietddude/availability/internal/core/domain"
)

// State is an alias for domain.SessionState for internal use.
type State = domain.SessionState

// ErrInvalidTransition is returned when an invalid state transition is attempted.
var ErrInvalidTransition = errors.New("invalid state transition")

// ValidTransitions defines allowed state transitions.
// Key is the current state, value is the list of valid next states.
var ValidTransitions = map[State][]State{
	domain.SessionStateIdle: {
		domain.SessionStateChecking,
		domain.SessionStateResolving,
		domain.SessionStateClosed,
	},
	domain.SessionStateChecking: {
		domain.SessionStateAvailable,
		domain.SessionStateUnavailable,
		domain.SessionStateFailed,
		domain.SessionStateIdle,
		domain.SessionStateClosed,
	},
	domain.SessionStateResolving: {
		domain.SessionStateAvailable,
		domain.SessionStateUnavailable,
		domain.SessionStateFailed,
		domain.SessionStateIdle,
		domain.SessionStateClosed,
	},
	domain.SessionStateAvailable: {
		domain.SessionStateChecking,
		domain.SessionStateResolving,
		domain.SessionStateClosed,
	},
	domain.SessionStateUnavailable: {
		domain.SessionStateChecking,
		domain.SessionStateResolving,
		domain.SessionStateClosed,
	},
	domain.SessionStateFailed: {
		domain.SessionStateChecking,
		domain.SessionStateResolving,
		domain.SessionStateClosed,
	},
}

// CanTransition checks if a transition from one state to another is valid.
func CanTransition(from, to State) bool {
	for _, target := range ValidTransitions[from] {
		if target == to {
			return true
		}
	}
	return false
}

// Transition represents a state change with metadata.
type Transition struct {
	From      State     `json:"from"`
	To        State     `json:"to"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

// NewTransition creates a new transition record.
func NewTransition(from, to State, reason string) Transition {
	return Transition{
		From:      from,
		To:        to,
		Reason:    reason,
		Timestamp: time.Now(),
	}
}

// IsValid returns true if this transition is allowed by the state machine.
func (t Transition) IsValid() bool {
	return CanTransition(t.From, t.To)
}

// busy reports whether a pass is running in this state.
func busy(s State) bool {
	return s == domain.SessionStateChecking || s == domain.SessionStateResolving
}
