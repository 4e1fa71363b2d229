package recovery

import (
	"errors"

	"github.com/vietddude/availability/internal/resolution"
	"github.com/vietddude/availability/internal/session"
)

// ErrStillUnavailable means a pass finished with failures nobody resolved.
var ErrStillUnavailable = errors.New("still unavailable")

// FailureCategory tells the retrier whether another pass can help.
type FailureCategory int

const (
	// CategoryTransient errors may clear on a later pass.
	CategoryTransient FailureCategory = iota
	// CategoryPermanent errors stop the retry loop.
	CategoryPermanent
)

func (c FailureCategory) String() string {
	if c == CategoryPermanent {
		return "permanent"
	}
	return "transient"
}

// Classifier maps a pass error to a category.
type Classifier func(err error) FailureCategory

// DefaultClassifier retries unresolved remainders and probe errors. Strategy
// faults, cancellation and closed sessions are permanent.
func DefaultClassifier(err error) FailureCategory {
	switch {
	case errors.Is(err, ErrStillUnavailable):
		return CategoryTransient
	case resolution.IsFault(err),
		resolution.IsCancelled(err),
		errors.Is(err, session.ErrSessionClosed):
		return CategoryPermanent
	default:
		return CategoryTransient
	}
}
