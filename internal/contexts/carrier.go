// Package contexts carries per-request tenant identity through
// context.Context. The carrier is an immutable value attached to the
// request context; it follows the logical call graph across goroutines and
// suspension points, so no mutable goroutine-local state exists anywhere.
package contexts

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/facturio/facturio/internal/scopes"
)

// ErrContextMissing is returned when the current organization is requested
// and none was established for this execution. It is a typed, recoverable
// condition: callers can distinguish "never set" from a zero value.
var ErrContextMissing = errors.New("contexts: no organization in context")

// Carrier is the immutable per-request tenant bundle. A new carrier must be
// built for each logical request; changing organization mid-request is
// forbidden and rejected by WithCarrier.
type Carrier struct {
	// OrganizationID scopes every data access of the request.
	OrganizationID uuid.UUID

	// UserID identifies the authenticated user, if any.
	UserID *uuid.UUID

	// Role is the user's role within the organization, if resolved.
	Role scopes.Role

	// Permissions is the effective permission set of the membership,
	// if resolved.
	Permissions scopes.PermissionSet
}

// Equal compares two carriers by identity fields.
func (c Carrier) Equal(other Carrier) bool {
	if c.OrganizationID != other.OrganizationID {
		return false
	}

	return uuidPtrEqual(c.UserID, other.UserID)
}

// String returns a representation suitable for audit logs.
func (c Carrier) String() string {
	if c.UserID != nil {
		return fmt.Sprintf("org:%s user:%s", c.OrganizationID, *c.UserID)
	}

	return fmt.Sprintf("org:%s", c.OrganizationID)
}

func uuidPtrEqual(a, b *uuid.UUID) bool {
	if a == nil && b == nil {
		return true
	}

	if a == nil || b == nil {
		return false
	}

	return *a == *b
}
