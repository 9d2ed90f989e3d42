package authz

import "github.com/facturio/facturio/internal/scopes"

// Mode selects how a permission requirement combines its permissions.
type Mode int

const (
	// ModeAny passes when at least one listed permission is held. Default.
	ModeAny Mode = iota
	// ModeAll passes only when every listed permission is held.
	ModeAll
)

// String returns string representation of Mode.
func (m Mode) String() string {
	if m == ModeAll {
		return "ALL"
	}

	return "ANY"
}

// Requirement declares the permissions a protected operation needs.
// Attach it to an operation and enforce it with Require or
// RunWithRequirement at the operation's entry.
type Requirement struct {
	Permissions []scopes.Permission
	Mode        Mode

	// Message overrides the auto-generated denial message.
	Message string
}

// RequireAll builds an ALL-mode requirement.
func RequireAll(permissions ...scopes.Permission) Requirement {
	return Requirement{Permissions: permissions, Mode: ModeAll}
}

// RequireAny builds an ANY-mode requirement.
func RequireAny(permissions ...scopes.Permission) Requirement {
	return Requirement{Permissions: permissions, Mode: ModeAny}
}

// RoleRequirement declares the minimum role a protected operation needs.
type RoleRequirement struct {
	Role scopes.Role

	// Message overrides the auto-generated denial message.
	Message string
}

// MinimumRole builds a role requirement. The zero requirement defaults to
// the lowest role in the hierarchy.
func MinimumRole(role scopes.Role) RoleRequirement {
	return RoleRequirement{Role: role}
}
