package domain

import (
	"errors"
	"testing"
)

func TestNewCompositeFailure_Empty(t *testing.T) {
	if err := NewCompositeFailure(nil); err != nil {
		t.Errorf("expected nil error for no failures, got %v", err)
	}
}

func TestCompositeFailure_Unwrap(t *testing.T) {
	denied := NewFailure(FailureKindPermissionDenied, "location")
	err := NewCompositeFailure([]Failure{denied, NewFailure(FailureKindAPIUnresolvable, "")})

	var composite *CompositeFailure
	if !errors.As(err, &composite) {
		t.Fatalf("expected *CompositeFailure, got %T", err)
	}
	if len(composite.Failures) != 2 {
		t.Fatalf("expected 2 failures, got %d", len(composite.Failures))
	}

	var f Failure
	if !errors.As(err, &f) || f.ID != denied.ID {
		t.Errorf("expected first failure via errors.As, got %+v", f)
	}
	if got := err.Error(); got != "2 failure(s): permission_denied: location; api_unresolvable" {
		t.Errorf("unexpected message: %q", got)
	}
}

func TestNewFailure_UniqueIDs(t *testing.T) {
	a := NewFailure(FailureKindResolvableAPI, "")
	b := NewFailure(FailureKindResolvableAPI, "")
	if a.ID == "" || a.ID == b.ID {
		t.Errorf("expected distinct ids, got %q and %q", a.ID, b.ID)
	}
}

func TestParseFailureKind(t *testing.T) {
	for _, k := range KnownFailureKinds {
		got, err := ParseFailureKind(string(k))
		if err != nil || got != k {
			t.Errorf("ParseFailureKind(%q) = %q, %v", k, got, err)
		}
	}
	if _, err := ParseFailureKind("bogus"); err == nil {
		t.Error("expected error for unknown kind")
	}
}
