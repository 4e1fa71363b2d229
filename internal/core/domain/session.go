package domain

// SessionState is the availability state of a session.
type SessionState string

const (
	SessionStateIdle        SessionState = "idle"
	SessionStateChecking    SessionState = "checking"
	SessionStateResolving   SessionState = "resolving"
	SessionStateAvailable   SessionState = "available"
	SessionStateUnavailable SessionState = "unavailable"
	SessionStateFailed      SessionState = "failed"
	SessionStateClosed      SessionState = "closed"
)
