package strategy

import (
	"github.com/vietddude/availability/internal/core/domain"
	"github.com/vietddude/availability/internal/resolution"
)

// Deps are the collaborators the built-in strategies need.
type Deps struct {
	Permissions        PermissionRequester
	PermissionCode     int
	DefaultPermissions []string
	Rationale          string
	Launcher           Launcher
	Applier            Applier
}

// NewCatalog builds one instance of every built-in strategy, keyed by the
// failure kind it handles.
func NewCatalog(deps Deps) map[domain.FailureKind]resolution.Strategy {
	if deps.Rationale == "" {
		deps.Rationale = "Location access is required"
	}
	return map[domain.FailureKind]resolution.Strategy{
		domain.FailureKindPermissionDenied: NewPermissionStrategy(
			deps.Permissions,
			deps.PermissionCode,
			deps.DefaultPermissions,
			deps.Rationale,
		),
		domain.FailureKindServiceUnavailable: NewServiceUnavailableStrategy(deps.Launcher, deps.Applier),
		domain.FailureKindResolvableAPI:      NewResolvableAPIStrategy(deps.Launcher, deps.Applier),
	}
}
