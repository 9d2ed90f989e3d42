package authz

import (
	"strings"

	"github.com/facturio/facturio/internal/scopes"
)

// PermissionDeniedError reports a failed requirement check. The message
// enumerates required permissions only; it never describes resources of
// other tenants.
type PermissionDeniedError struct {
	Required []scopes.Permission
	Mode     Mode
	Message  string
}

func (e *PermissionDeniedError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	separator := " OR "
	if e.Mode == ModeAll {
		separator = " AND "
	}

	names := make([]string, len(e.Required))
	for i, p := range e.Required {
		names[i] = scopes.Describe(p)
	}

	return "permission denied: requires " + strings.Join(names, separator)
}

// RoleDeniedError reports a failed minimum-role check.
type RoleDeniedError struct {
	Required scopes.Role
	Message  string
}

func (e *RoleDeniedError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	return "permission denied: requires role " + string(e.Required) + " or above"
}
