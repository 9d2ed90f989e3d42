package objects

import "github.com/google/uuid"

// OrganizationScoped is implemented by every business entity carrying an
// organization id. Once persisted, the organization id is immutable; the
// scoping injector populates it on writes and the stores filter every read
// by it.
type OrganizationScoped interface {
	GetOrganizationID() uuid.UUID
	SetOrganizationID(orgID uuid.UUID)
}
