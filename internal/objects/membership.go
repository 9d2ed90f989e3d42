package objects

import (
	"time"

	"github.com/google/uuid"

	"github.com/facturio/facturio/internal/scopes"
)

// Membership is the (user, organization) relationship carrying the role
// and the individually granted or revoked permissions. Memberships are
// deactivated rather than deleted to preserve audit history.
type Membership struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"user_id"`
	OrganizationID uuid.UUID `json:"organization_id"`

	Role scopes.Role `json:"role"`

	// Granted are permissions added on top of the role defaults.
	Granted []scopes.Permission `json:"granted,omitempty"`
	// Revoked are permissions removed from the role defaults.
	Revoked []scopes.Permission `json:"revoked,omitempty"`

	// IsDefault marks the fallback organization used when a request names
	// none. At most one default membership exists per user.
	IsDefault bool      `json:"is_default"`
	IsActive  bool      `json:"is_active"`
	JoinedAt  time.Time `json:"joined_at"`
}

// EffectivePermissions computes the membership's permission set:
// role defaults, plus granted, minus revoked.
func (m Membership) EffectivePermissions() scopes.PermissionSet {
	set := scopes.DefaultPermissions(m.Role).Union(scopes.NewPermissionSet(m.Granted...))
	return set.Without(m.Revoked...)
}
