package biz

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/fx"

	"github.com/facturio/facturio/internal/authz"
	"github.com/facturio/facturio/internal/contexts"
	"github.com/facturio/facturio/internal/log"
	"github.com/facturio/facturio/internal/objects"
	"github.com/facturio/facturio/internal/scopes"
	"github.com/facturio/facturio/internal/scoping"
	"github.com/facturio/facturio/internal/store"
)

type OrganizationServiceParams struct {
	fx.In

	Store store.Store
}

// OrganizationService orchestrates the organization lifecycle: creation
// with the owning membership, partial updates, soft deletion and the
// user's organization listing.
type OrganizationService struct {
	store store.Store
}

func NewOrganizationService(params OrganizationServiceParams) *OrganizationService {
	return &OrganizationService{store: params.Store}
}

// CreateOrganization creates a new organization. When a creator is given,
// the owning membership (role owner, active) is created in the same
// transaction: either both persist or neither does. The membership becomes
// the creator's default when they have none yet.
func (s *OrganizationService) CreateOrganization(
	ctx context.Context,
	org objects.Organization,
	creatorUserID *uuid.UUID,
) (*objects.Organization, error) {
	if org.Code == "" {
		return nil, fmt.Errorf("organization code is required")
	}

	_, err := s.store.GetOrganizationByCode(ctx, org.Code)
	if err == nil {
		return nil, ErrDuplicateOrganizationCode
	}

	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("failed to check organization code: %w", err)
	}

	if org.ID == uuid.Nil {
		org.ID = uuid.New()
	}

	now := time.Now().UTC()
	org.IsActive = true
	org.CreatedAt = now
	org.UpdatedAt = now
	org.DeletedAt = nil

	err = s.store.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := s.store.CreateOrganization(txCtx, &org); err != nil {
			if errors.Is(err, store.ErrConflict) {
				return ErrDuplicateOrganizationCode
			}

			return fmt.Errorf("failed to create organization: %w", err)
		}

		if creatorUserID == nil {
			return nil
		}

		creator, err := s.store.GetUser(txCtx, *creatorUserID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrUserNotFound
			}

			return fmt.Errorf("failed to resolve creator: %w", err)
		}

		isDefault := true
		if _, err := s.store.FindDefaultMembership(txCtx, creator.ID); err == nil {
			isDefault = false
		}

		membership := objects.Membership{
			ID:             uuid.New(),
			UserID:         creator.ID,
			OrganizationID: org.ID,
			Role:           scopes.RoleOwner,
			IsDefault:      isDefault,
			IsActive:       true,
			JoinedAt:       now,
		}

		if err := s.store.CreateMembership(txCtx, &membership); err != nil {
			return fmt.Errorf("failed to create owner membership: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info(ctx, "organization created",
		log.String("organization_id", org.ID.String()),
		log.String("code", org.Code),
	)

	return &org, nil
}

// UpdateOrganization merges the mutable display and contact fields into
// the organization. Code and id are immutable.
func (s *OrganizationService) UpdateOrganization(
	ctx context.Context,
	id uuid.UUID,
	patch objects.OrganizationPatch,
) (*objects.Organization, error) {
	if err := authz.Require(ctx, authz.RequireAny(scopes.PermissionWriteOrganization)); err != nil {
		return nil, err
	}

	if err := s.assertCurrentOrganization(ctx, id); err != nil {
		return nil, err
	}

	org, err := s.loadOrganization(ctx, id)
	if err != nil {
		return nil, err
	}

	patch.Apply(org)
	org.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateOrganization(ctx, org); err != nil {
		return nil, fmt.Errorf("failed to update organization: %w", err)
	}

	return org, nil
}

// DeleteOrganization soft-deletes the organization: the deletion timestamp
// is set and the organization deactivated, but the row remains for the
// scoped entities that reference it.
func (s *OrganizationService) DeleteOrganization(ctx context.Context, id uuid.UUID) error {
	if err := authz.Require(ctx, authz.RequireAny(scopes.PermissionDeleteOrganization)); err != nil {
		return err
	}

	if err := s.assertCurrentOrganization(ctx, id); err != nil {
		return err
	}

	org, err := s.loadOrganization(ctx, id)
	if err != nil {
		return err
	}

	if org.Deleted() {
		return nil
	}

	now := time.Now().UTC()
	org.DeletedAt = &now
	org.IsActive = false
	org.UpdatedAt = now

	if err := s.store.UpdateOrganization(ctx, org); err != nil {
		return fmt.Errorf("failed to delete organization: %w", err)
	}

	log.Info(ctx, "organization soft-deleted", log.String("organization_id", id.String()))

	return nil
}

// GetOrganizationByID loads an organization, including soft-deleted ones;
// historical references stay retrievable by id.
func (s *OrganizationService) GetOrganizationByID(ctx context.Context, id uuid.UUID) (*objects.Organization, error) {
	return s.loadOrganization(ctx, id)
}

// GetUserOrganizations returns the organizations reachable through the
// user's active memberships.
func (s *OrganizationService) GetUserOrganizations(ctx context.Context, userID uuid.UUID) ([]*objects.Organization, error) {
	memberships, err := s.store.FindActiveMemberships(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}

	ids := make([]uuid.UUID, len(memberships))
	for i, membership := range memberships {
		ids[i] = membership.OrganizationID
	}

	organizations, err := s.store.ListOrganizationsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}

	return organizations, nil
}

func (s *OrganizationService) loadOrganization(ctx context.Context, id uuid.UUID) (*objects.Organization, error) {
	org, err := s.store.GetOrganization(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrOrganizationNotFound
		}

		return nil, fmt.Errorf("failed to load organization: %w", err)
	}

	return org, nil
}

// assertCurrentOrganization rejects mutations of an organization other
// than the carrier's.
func (s *OrganizationService) assertCurrentOrganization(ctx context.Context, id uuid.UUID) error {
	orgID, ok := contexts.GetOrganizationID(ctx)
	if !ok {
		return contexts.ErrContextMissing
	}

	if orgID != id {
		log.Error(ctx, "attempt to mutate another organization",
			log.String("target_organization_id", id.String()),
		)

		return fmt.Errorf("%w: organization %s is not the current organization", scoping.ErrCrossTenantAccess, id)
	}

	return nil
}
