package resolution

import (
	"context"
	"errors"
	"fmt"

	"github.com/vietddude/availability/internal/core/domain"
)

// ErrPassCancelled is returned when a pass is cancelled through its handle.
var ErrPassCancelled = errors.New("resolution pass cancelled")

// FaultError reports that a strategy failed unexpectedly while resolving.
type FaultError struct {
	Strategy string
	Failure  domain.Failure
	Err      error
}

func (e *FaultError) Error() string {
	return fmt.Sprintf("strategy %s faulted on %s: %v", e.Strategy, e.Failure.Kind, e.Err)
}

func (e *FaultError) Unwrap() error {
	return e.Err
}

// IsFault reports whether err carries a strategy fault.
func IsFault(err error) bool {
	var fe *FaultError
	return errors.As(err, &fe)
}

// IsCancelled reports whether err means the pass stopped without a result.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrPassCancelled) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}
