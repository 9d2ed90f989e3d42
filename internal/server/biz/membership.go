package biz

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/fx"

	"github.com/facturio/facturio/internal/contexts"
	"github.com/facturio/facturio/internal/objects"
	"github.com/facturio/facturio/internal/store"
)

type MembershipServiceParams struct {
	fx.In

	Store store.Store
}

// MembershipService resolves the tenant carrier for authenticated
// requests from the membership store.
type MembershipService struct {
	store store.Store
}

func NewMembershipService(params MembershipServiceParams) *MembershipService {
	return &MembershipService{store: params.Store}
}

// ResolveCarrier builds the carrier for a (user, organization) pair:
// membership role plus effective permissions. Fails with
// ErrMembershipNotFound when the user has no active membership in the
// organization.
func (s *MembershipService) ResolveCarrier(
	ctx context.Context,
	userID, organizationID uuid.UUID,
) (contexts.Carrier, error) {
	membership, err := s.store.FindMembership(ctx, userID, organizationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return contexts.Carrier{}, ErrMembershipNotFound
		}

		return contexts.Carrier{}, fmt.Errorf("failed to resolve membership: %w", err)
	}

	if !membership.IsActive {
		return contexts.Carrier{}, ErrMembershipNotFound
	}

	return contexts.Carrier{
		OrganizationID: organizationID,
		UserID:         &userID,
		Role:           membership.Role,
		Permissions:    membership.EffectivePermissions(),
	}, nil
}

// DefaultOrganization returns the user's fallback organization, taken
// from their default membership.
func (s *MembershipService) DefaultOrganization(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	membership, err := s.store.FindDefaultMembership(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return uuid.Nil, ErrMembershipNotFound
		}

		return uuid.Nil, fmt.Errorf("failed to resolve default membership: %w", err)
	}

	return membership.OrganizationID, nil
}

// FindMembership exposes the raw membership lookup.
func (s *MembershipService) FindMembership(
	ctx context.Context,
	userID, organizationID uuid.UUID,
) (*objects.Membership, error) {
	return s.store.FindMembership(ctx, userID, organizationID)
}
