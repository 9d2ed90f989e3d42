package scopes

import (
	"slices"
	"sort"
)

// Permission represents a fine-grained capability held by a membership.
// Permissions are independent of roles: a membership starts with its role's
// default set and may have individual permissions granted or revoked.
type Permission string

// Available permissions in the system.
const (
	// PermissionReadOrganization read the current organization profile.
	PermissionReadOrganization Permission = "read_organization"
	// PermissionWriteOrganization manage the current organization profile.
	PermissionWriteOrganization Permission = "write_organization"
	// PermissionDeleteOrganization soft-delete the current organization.
	PermissionDeleteOrganization Permission = "delete_organization"

	// PermissionReadMembers read the memberships of the organization.
	PermissionReadMembers Permission = "read_members"
	// PermissionWriteMembers manage the memberships of the organization.
	PermissionWriteMembers Permission = "write_members"

	// PermissionReadClients read the clients of the organization.
	PermissionReadClients Permission = "read_clients"
	// PermissionWriteClients manage the clients of the organization.
	PermissionWriteClients Permission = "write_clients"
	// PermissionDeleteClients delete the clients of the organization.
	PermissionDeleteClients Permission = "delete_clients"

	// PermissionReadInvoices read the invoices of the organization.
	PermissionReadInvoices Permission = "read_invoices"
	// PermissionWriteInvoices manage the invoices of the organization.
	PermissionWriteInvoices Permission = "write_invoices"
	// PermissionDeleteInvoices delete the invoices of the organization.
	PermissionDeleteInvoices Permission = "delete_invoices"

	// PermissionReadQuotes read the quotes of the organization.
	PermissionReadQuotes Permission = "read_quotes"
	// PermissionWriteQuotes manage the quotes of the organization.
	PermissionWriteQuotes Permission = "write_quotes"

	// PermissionReadSuppliers read the suppliers of the organization.
	PermissionReadSuppliers Permission = "read_suppliers"
	// PermissionWriteSuppliers manage the suppliers of the organization.
	PermissionWriteSuppliers Permission = "write_suppliers"

	// PermissionReadPayments read the payments of the organization.
	PermissionReadPayments Permission = "read_payments"
	// PermissionWritePayments record and manage payments.
	PermissionWritePayments Permission = "write_payments"
)

// Spec describes a permission for display and validation purposes.
type Spec struct {
	Slug        Permission
	Description string
}

// permissionConfigs defines all available permissions with their configurations.
var permissionConfigs = []Spec{
	{Slug: PermissionReadOrganization, Description: "View organization profile"},
	{Slug: PermissionWriteOrganization, Description: "Manage organization profile"},
	{Slug: PermissionDeleteOrganization, Description: "Delete organization"},
	{Slug: PermissionReadMembers, Description: "View organization members"},
	{Slug: PermissionWriteMembers, Description: "Manage organization members"},
	{Slug: PermissionReadClients, Description: "View clients"},
	{Slug: PermissionWriteClients, Description: "Manage clients (create, edit)"},
	{Slug: PermissionDeleteClients, Description: "Delete clients"},
	{Slug: PermissionReadInvoices, Description: "View invoices"},
	{Slug: PermissionWriteInvoices, Description: "Manage invoices (create, edit)"},
	{Slug: PermissionDeleteInvoices, Description: "Delete invoices"},
	{Slug: PermissionReadQuotes, Description: "View quotes"},
	{Slug: PermissionWriteQuotes, Description: "Manage quotes (create, edit)"},
	{Slug: PermissionReadSuppliers, Description: "View suppliers"},
	{Slug: PermissionWriteSuppliers, Description: "Manage suppliers (create, edit)"},
	{Slug: PermissionReadPayments, Description: "View payments"},
	{Slug: PermissionWritePayments, Description: "Record and manage payments"},
}

// AllPermissions returns all available permissions.
func AllPermissions() []Spec {
	return permissionConfigs
}

// IsValidPermission checks if a permission slug is valid.
func IsValidPermission(permission string) bool {
	for _, spec := range permissionConfigs {
		if string(spec.Slug) == permission {
			return true
		}
	}

	return false
}

// Describe returns the display name for a permission, falling back to the
// slug for permissions not present in the catalog.
func Describe(permission Permission) string {
	for _, spec := range permissionConfigs {
		if spec.Slug == permission {
			return spec.Description
		}
	}

	return string(permission)
}

// PermissionSet is an unordered set of permissions.
type PermissionSet map[Permission]struct{}

// NewPermissionSet builds a set from the given permissions.
func NewPermissionSet(permissions ...Permission) PermissionSet {
	set := make(PermissionSet, len(permissions))
	for _, p := range permissions {
		set[p] = struct{}{}
	}

	return set
}

// Has reports whether the set contains the permission.
func (s PermissionSet) Has(permission Permission) bool {
	_, ok := s[permission]
	return ok
}

// ContainsAll reports whether every listed permission is present.
func (s PermissionSet) ContainsAll(permissions []Permission) bool {
	for _, p := range permissions {
		if !s.Has(p) {
			return false
		}
	}

	return true
}

// ContainsAny reports whether at least one listed permission is present.
// An empty list yields false: there is nothing to intersect with.
func (s PermissionSet) ContainsAny(permissions []Permission) bool {
	return slices.ContainsFunc(permissions, s.Has)
}

// Union returns a new set containing the permissions of both sets.
func (s PermissionSet) Union(other PermissionSet) PermissionSet {
	merged := make(PermissionSet, len(s)+len(other))
	for p := range s {
		merged[p] = struct{}{}
	}

	for p := range other {
		merged[p] = struct{}{}
	}

	return merged
}

// Without returns a new set with the given permissions removed.
func (s PermissionSet) Without(permissions ...Permission) PermissionSet {
	remaining := make(PermissionSet, len(s))
	for p := range s {
		remaining[p] = struct{}{}
	}

	for _, p := range permissions {
		delete(remaining, p)
	}

	return remaining
}

// List returns the permissions in slug order.
func (s PermissionSet) List() []Permission {
	list := make([]Permission, 0, len(s))
	for p := range s {
		list = append(list, p)
	}

	sort.Slice(list, func(i, j int) bool { return list[i] < list[j] })

	return list
}
