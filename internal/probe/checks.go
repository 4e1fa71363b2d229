package probe

import (
	"context"

	"github.com/vietddude/availability/internal/core/domain"
	"github.com/vietddude/availability/internal/permission"
)

// PermissionChecker reports whether a permission request is already granted.
type PermissionChecker interface {
	Check(ctx context.Context, req permission.Request) (bool, error)
}

// PermissionCheck fails with permission_denied while req is not granted.
func PermissionCheck(perms PermissionChecker, req permission.Request) Check {
	return CheckFunc(func(ctx context.Context) (*domain.Failure, error) {
		granted, err := perms.Check(ctx, req)
		if err != nil {
			return nil, err
		}
		if granted {
			return nil, nil
		}
		f := domain.NewFailure(domain.FailureKindPermissionDenied, "permission not granted")
		f.Permissions = append([]string(nil), req.Permissions...)
		return &f, nil
	})
}

// SettingCheck fails with the given kind while setting is off.
// resolvable reports whether the user can turn the setting on through a flow.
func SettingCheck(settings *Settings, setting string, kind domain.FailureKind, resolvable bool) Check {
	return CheckFunc(func(ctx context.Context) (*domain.Failure, error) {
		if settings.Enabled(setting) {
			return nil, nil
		}
		f := domain.NewFailure(kind, setting+" is off")
		f.Setting = setting
		f.Resolvable = resolvable
		return &f, nil
	})
}
