package authz

import (
	"context"

	"github.com/samber/lo"

	"github.com/facturio/facturio/internal/contexts"
	"github.com/facturio/facturio/internal/log"
	"github.com/facturio/facturio/internal/scopes"
)

// Has evaluates a permission requirement against the carrier's permission
// set. An empty requirement passes trivially; that is almost always a
// caller mistake, so it is logged.
func Has(ctx context.Context, requirement Requirement) bool {
	if len(requirement.Permissions) == 0 {
		log.Warn(ctx, "authz: empty permission requirement, passing trivially")
		return true
	}

	held, ok := contexts.GetPermissions(ctx)
	if !ok {
		return false
	}

	if requirement.Mode == ModeAll {
		return held.ContainsAll(requirement.Permissions)
	}

	return held.ContainsAny(requirement.Permissions)
}

// Require enforces a permission requirement, returning PermissionDeniedError
// on failure. Checks are pure functions over the carrier's already-fetched
// permission set and are safe under concurrency.
func Require(ctx context.Context, requirement Requirement) error {
	allowed := Has(ctx, requirement)

	carrier, _ := contexts.GetCarrier(ctx)
	log.Debug(ctx, "authz: permission decision",
		log.String("carrier", carrier.String()),
		log.String("mode", requirement.Mode.String()),
		log.Any("permissions", requirement.Permissions),
		log.String("decision", lo.Ternary(allowed, "allow", "deny")),
	)

	if allowed {
		return nil
	}

	return &PermissionDeniedError{
		Required: requirement.Permissions,
		Mode:     requirement.Mode,
		Message:  requirement.Message,
	}
}

// HasRole evaluates a minimum-role requirement against the carrier's role.
// A zero requirement defaults to the lowest role in the hierarchy.
func HasRole(ctx context.Context, requirement RoleRequirement) bool {
	required := requirement.Role
	if !required.Known() {
		required = scopes.RoleViewer
	}

	role, ok := contexts.GetRole(ctx)
	if !ok {
		return false
	}

	return role.HasAtLeast(required)
}

// RequireRole enforces a minimum-role requirement.
func RequireRole(ctx context.Context, requirement RoleRequirement) error {
	if HasRole(ctx, requirement) {
		return nil
	}

	required := requirement.Role
	if !required.Known() {
		required = scopes.RoleViewer
	}

	return &RoleDeniedError{
		Required: required,
		Message:  requirement.Message,
	}
}

// RunWithRequirement enforces the requirement, then runs fn. This is the
// wrapper form used to guard a protected operation at its entry.
func RunWithRequirement[T any](ctx context.Context, requirement Requirement, fn func(ctx context.Context) (T, error)) (T, error) {
	if err := Require(ctx, requirement); err != nil {
		var zero T
		return zero, err
	}

	return fn(ctx)
}

// RunWithRole enforces the role requirement, then runs fn.
func RunWithRole[T any](ctx context.Context, requirement RoleRequirement, fn func(ctx context.Context) (T, error)) (T, error) {
	if err := RequireRole(ctx, requirement); err != nil {
		var zero T
		return zero, err
	}

	return fn(ctx)
}
