package strategy

import (
	"context"
	"fmt"

	"github.com/vietddude/availability/internal/core/domain"
	"github.com/vietddude/availability/internal/flow"
	"github.com/vietddude/availability/internal/resolution"
)

// Launcher starts a corrective flow and waits for its result.
type Launcher interface {
	Launch(ctx context.Context, action flow.Action) (flow.Result, error)
}

// Applier makes the effect of a completed flow visible to the next probe.
type Applier interface {
	Apply(ctx context.Context, action flow.Action) error
}

// FlowStrategy resolves user-resolvable failures of one kind by launching a
// corrective flow.
type FlowStrategy struct {
	name     string
	kind     domain.FailureKind
	action   flow.Action
	launcher Launcher
	applier  Applier
}

// NewFlowStrategy creates a flow strategy. applier may be nil.
func NewFlowStrategy(
	name string,
	kind domain.FailureKind,
	action flow.Action,
	launcher Launcher,
	applier Applier,
) *FlowStrategy {
	return &FlowStrategy{
		name:     name,
		kind:     kind,
		action:   action,
		launcher: launcher,
		applier:  applier,
	}
}

// NewServiceUnavailableStrategy offers to install or update missing platform
// services.
func NewServiceUnavailableStrategy(launcher Launcher, applier Applier) *FlowStrategy {
	return NewFlowStrategy(
		"services_unavailable",
		domain.FailureKindServiceUnavailable,
		flow.Action{
			Kind:        flow.ActionUpdateServices,
			Description: "Install or update platform services",
		},
		launcher,
		applier,
	)
}

// NewResolvableAPIStrategy asks the user to change the setting behind a
// resolvable API error.
func NewResolvableAPIStrategy(launcher Launcher, applier Applier) *FlowStrategy {
	return NewFlowStrategy(
		"resolvable_api",
		domain.FailureKindResolvableAPI,
		flow.Action{
			Kind:        flow.ActionEnableSetting,
			Description: "Change device settings",
		},
		launcher,
		applier,
	)
}

func (s *FlowStrategy) Name() string { return s.name }

// CanHandle only claims failures that carry a corrective flow.
func (s *FlowStrategy) CanHandle(f domain.Failure) bool {
	return f.Kind == s.kind && f.Resolvable
}

func (s *FlowStrategy) Resolve(ctx context.Context, f domain.Failure) (resolution.Outcome, error) {
	action := s.action
	if f.Setting != "" {
		action.Setting = f.Setting
	}
	if f.Message != "" {
		action.Description = fmt.Sprintf("%s: %s", action.Description, f.Message)
	}

	result, err := s.launcher.Launch(ctx, action)
	if err != nil {
		return resolution.OutcomeStillFailing, err
	}
	if result != flow.ResultCompleted {
		return resolution.OutcomeStillFailing, nil
	}

	if s.applier != nil {
		if err := s.applier.Apply(ctx, action); err != nil {
			return resolution.OutcomeStillFailing, fmt.Errorf("failed to apply %s: %w", action.Kind, err)
		}
	}
	return resolution.OutcomeResolved, nil
}
