// Package scoping stamps the current organization onto entities before
// persistence and asserts that loaded entities belong to the current
// tenant. Query-time filtering is owned by the stores, which AND an
// organization predicate onto every read of a scoped entity; this package
// covers the write path and the defense-in-depth check on loads.
package scoping

import (
	"context"
	"errors"
	"fmt"

	"github.com/facturio/facturio/internal/contexts"
	"github.com/facturio/facturio/internal/log"
	"github.com/facturio/facturio/internal/objects"
)

// ErrCrossTenantAccess signals that a loaded entity belongs to a different
// organization than the carrier's. It indicates a store filter bypass or a
// forged identifier, and must never be swallowed.
var ErrCrossTenantAccess = errors.New("scoping: cross-tenant access")

// Stamp sets the entity's organization id from the carrier. It fails with
// contexts.ErrContextMissing when no organization is established; use it
// for every authorization-critical write.
func Stamp(ctx context.Context, entity objects.OrganizationScoped) error {
	orgID, err := contexts.RequireOrganizationID(ctx)
	if err != nil {
		return err
	}

	entity.SetOrganizationID(orgID)

	return nil
}

// StampLenient sets the entity's organization id if a carrier is present
// and leaves the entity unchanged otherwise. Only for best-effort audit
// population; a security-sensitive write stamped leniently would silently
// produce an unscoped entity.
func StampLenient(ctx context.Context, entity objects.OrganizationScoped) {
	orgID, ok := contexts.GetOrganizationID(ctx)
	if !ok {
		return
	}

	entity.SetOrganizationID(orgID)
}

// AssertSameOrganization validates that a loaded entity carries the
// carrier's organization id. A mismatch is fatal and logged at error
// severity before being returned.
func AssertSameOrganization(ctx context.Context, entity objects.OrganizationScoped) error {
	orgID, err := contexts.RequireOrganizationID(ctx)
	if err != nil {
		return err
	}

	if entity.GetOrganizationID() == orgID {
		return nil
	}

	log.Error(ctx, "cross-tenant access detected",
		log.String("carrier_organization_id", orgID.String()),
		log.String("entity_organization_id", entity.GetOrganizationID().String()),
	)

	return fmt.Errorf("%w: entity belongs to organization %s, carrier is %s",
		ErrCrossTenantAccess, entity.GetOrganizationID(), orgID)
}
