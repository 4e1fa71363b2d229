// Package strategy holds the concrete resolution strategies.
package strategy

import (
	"context"
	"errors"

	"github.com/vietddude/availability/internal/core/domain"
	"github.com/vietddude/availability/internal/permission"
	"github.com/vietddude/availability/internal/resolution"
)

// PermissionRequester asks the user for permissions.
type PermissionRequester interface {
	Request(ctx context.Context, req permission.Request) (bool, error)
}

// PermissionStrategy resolves permission_denied failures by prompting for the
// missing permissions.
type PermissionStrategy struct {
	perms       PermissionRequester
	code        int
	permissions []string
	rationale   string
}

// NewPermissionStrategy creates a strategy that prompts with the given request
// code. permissions are used when a failure does not list its own.
func NewPermissionStrategy(perms PermissionRequester, code int, permissions []string, rationale string) *PermissionStrategy {
	return &PermissionStrategy{
		perms:       perms,
		code:        code,
		permissions: permissions,
		rationale:   rationale,
	}
}

func (s *PermissionStrategy) Name() string { return "no_permission" }

func (s *PermissionStrategy) CanHandle(f domain.Failure) bool {
	return f.Kind == domain.FailureKindPermissionDenied
}

func (s *PermissionStrategy) Resolve(ctx context.Context, f domain.Failure) (resolution.Outcome, error) {
	perms := f.Permissions
	if len(perms) == 0 {
		perms = s.permissions
	}

	granted, err := s.perms.Request(ctx, permission.Request{
		Code:        s.code,
		Permissions: perms,
		Rationale:   s.rationale,
	})
	if errors.Is(err, permission.ErrRequestReplaced) {
		return resolution.OutcomeStillFailing, nil
	}
	if err != nil {
		return resolution.OutcomeStillFailing, err
	}
	if !granted {
		return resolution.OutcomeStillFailing, nil
	}
	return resolution.OutcomeResolved, nil
}
