package cli

import (
	"testing"

	"github.com/vietddude/availability/internal/core/domain"
)

func TestJoinKinds(t *testing.T) {
	if got := joinKinds(nil); got != "-" {
		t.Errorf("expected -, got %q", got)
	}
	got := joinKinds([]domain.FailureKind{domain.FailureKindPermissionDenied, domain.FailureKindResolvableAPI})
	if got != "permission_denied,resolvable_api" {
		t.Errorf("unexpected join: %q", got)
	}
}

func TestCommandsRegistered(t *testing.T) {
	for _, name := range []string{"history", "revoke"} {
		cmd, _, err := rootCmd.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("expected %s command, got %v (%v)", name, cmd, err)
		}
	}
}
