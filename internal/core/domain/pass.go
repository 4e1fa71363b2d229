package domain

import "time"

// PassResult is the final state of one check or resolution pass.
type PassResult string

const (
	PassResultAvailable   PassResult = "available"
	PassResultUnavailable PassResult = "unavailable"
	PassResultFault       PassResult = "fault"
	PassResultCancelled   PassResult = "cancelled"
)

// PassMode distinguishes a plain probe from a probe followed by resolution.
type PassMode string

const (
	PassModeCheck   PassMode = "check"
	PassModeResolve PassMode = "resolve"
)

// PassRecord is the persisted summary of a pass.
type PassRecord struct {
	ID         string        `json:"id"`
	SessionID  string        `json:"session_id"`
	Mode       PassMode      `json:"mode"`
	Result     PassResult    `json:"result"`
	Detected   []FailureKind `json:"detected"`
	Remaining  []FailureKind `json:"remaining"`
	Strategies []string      `json:"strategies"`
	Error      string        `json:"error,omitempty"`
	StartedAt  time.Time     `json:"started_at"`
	Duration   time.Duration `json:"duration"`
}
