package scopes

import "fmt"

// Role is a coarse-grained authority level. Roles form a total order by
// level; exactly one role applies per (user, organization) membership.
type Role string

// Available roles, in ascending order of authority.
const (
	RoleViewer     Role = "viewer"
	RoleMember     Role = "member"
	RoleManager    Role = "manager"
	RoleSeller     Role = "seller"
	RoleAccountant Role = "accountant"
	RoleAdmin      Role = "admin"
	RoleAdminOrg   Role = "admin_org"
	RoleOwner      Role = "owner"
)

// roleLevels assigns each role its numeric authority level.
// Levels strictly increase with authority.
var roleLevels = map[Role]int{
	RoleViewer:     20,
	RoleMember:     40,
	RoleManager:    60,
	RoleSeller:     65,
	RoleAccountant: 70,
	RoleAdmin:      80,
	RoleAdminOrg:   90,
	RoleOwner:      100,
}

// Level returns the numeric authority level of the role, or 0 for an
// unknown role.
func (r Role) Level() int {
	return roleLevels[r]
}

// Known reports whether the role is part of the hierarchy.
func (r Role) Known() bool {
	_, ok := roleLevels[r]
	return ok
}

// HasAtLeast reports whether the role's level is greater than or equal to
// the required role's level. An unknown role never satisfies a known one.
func (r Role) HasAtLeast(required Role) bool {
	if !r.Known() {
		return false
	}

	return r.Level() >= required.Level()
}

// ParseRole validates a role string.
func ParseRole(s string) (Role, error) {
	role := Role(s)
	if !role.Known() {
		return "", fmt.Errorf("scopes: unknown role %q", s)
	}

	return role, nil
}

// AllRoles returns the roles in ascending order of authority.
func AllRoles() []Role {
	return []Role{
		RoleViewer,
		RoleMember,
		RoleManager,
		RoleSeller,
		RoleAccountant,
		RoleAdmin,
		RoleAdminOrg,
		RoleOwner,
	}
}

// roleGrants lists the permissions each role adds on top of the previous
// role in the hierarchy. Defaults are cumulative so that role authority
// and permission breadth stay consistent.
var roleGrants = map[Role][]Permission{
	RoleViewer: {
		PermissionReadOrganization,
		PermissionReadMembers,
		PermissionReadClients,
		PermissionReadInvoices,
		PermissionReadQuotes,
		PermissionReadSuppliers,
		PermissionReadPayments,
	},
	RoleMember: {
		PermissionWriteClients,
		PermissionWriteQuotes,
	},
	RoleManager: {
		PermissionWriteSuppliers,
		PermissionDeleteClients,
	},
	RoleSeller: {
		PermissionWriteInvoices,
	},
	RoleAccountant: {
		PermissionWritePayments,
		PermissionDeleteInvoices,
	},
	RoleAdmin: {
		PermissionWriteMembers,
	},
	RoleAdminOrg: {
		PermissionWriteOrganization,
	},
	RoleOwner: {
		PermissionDeleteOrganization,
	},
}

// DefaultPermissions returns the default permission set for a role: the
// union of the grants of every role up to and including it.
func DefaultPermissions(role Role) PermissionSet {
	set := NewPermissionSet()

	for _, r := range AllRoles() {
		if r.Level() > role.Level() {
			break
		}

		for _, p := range roleGrants[r] {
			set[p] = struct{}{}
		}
	}

	return set
}
