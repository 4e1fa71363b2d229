package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// FailureKind tags the reason an availability probe did not succeed.
type FailureKind string

const (
	FailureKindPermissionDenied   FailureKind = "permission_denied"
	FailureKindServiceUnavailable FailureKind = "service_unavailable"
	FailureKindResolvableAPI      FailureKind = "resolvable_api"
	FailureKindAPIUnresolvable    FailureKind = "api_unresolvable"
)

// KnownFailureKinds lists every kind a probe may report.
var KnownFailureKinds = []FailureKind{
	FailureKindPermissionDenied,
	FailureKindServiceUnavailable,
	FailureKindResolvableAPI,
	FailureKindAPIUnresolvable,
}

// ParseFailureKind converts a string into a known FailureKind.
func ParseFailureKind(s string) (FailureKind, error) {
	for _, k := range KnownFailureKinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown failure kind: %q", s)
}

// Failure represents a single reason availability is missing.
// ID is the identity of the failure inside a set.
type Failure struct {
	ID          string      `json:"id"`
	Kind        FailureKind `json:"kind"`
	Message     string      `json:"message"`
	Resolvable  bool        `json:"resolvable"`
	Setting     string      `json:"setting,omitempty"`
	Permissions []string    `json:"permissions,omitempty"`
}

// NewFailure creates a failure with a fresh ID.
func NewFailure(kind FailureKind, message string) Failure {
	return Failure{
		ID:      uuid.New().String(),
		Kind:    kind,
		Message: message,
	}
}

func (f Failure) Error() string {
	if f.Message == "" {
		return string(f.Kind)
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

// CompositeFailure bundles every failure produced by one probe attempt.
type CompositeFailure struct {
	Failures []Failure
}

// NewCompositeFailure returns nil when there are no failures so callers can
// return it directly as an error.
func NewCompositeFailure(failures []Failure) error {
	if len(failures) == 0 {
		return nil
	}
	out := make([]Failure, len(failures))
	copy(out, failures)
	return &CompositeFailure{Failures: out}
}

func (c *CompositeFailure) Error() string {
	parts := make([]string, 0, len(c.Failures))
	for _, f := range c.Failures {
		parts = append(parts, f.Error())
	}
	return fmt.Sprintf("%d failure(s): %s", len(c.Failures), strings.Join(parts, "; "))
}

// Unwrap exposes each failure to errors.Is / errors.As.
func (c *CompositeFailure) Unwrap() []error {
	errs := make([]error, 0, len(c.Failures))
	for _, f := range c.Failures {
		errs = append(errs, f)
	}
	return errs
}

// Kinds returns the kinds of the given failures in order.
func Kinds(failures []Failure) []FailureKind {
	kinds := make([]FailureKind, 0, len(failures))
	for _, f := range failures {
		kinds = append(kinds, f.Kind)
	}
	return kinds
}
