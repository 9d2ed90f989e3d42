package biz

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facturio/facturio/internal/authz"
	"github.com/facturio/facturio/internal/contexts"
	"github.com/facturio/facturio/internal/objects"
	"github.com/facturio/facturio/internal/scopes"
	"github.com/facturio/facturio/internal/scoping"
	"github.com/facturio/facturio/internal/store"
	"github.com/facturio/facturio/internal/store/memory"
)

func newOrganizationService(t *testing.T) (*OrganizationService, *memory.Store) {
	t.Helper()

	s := memory.New()

	return NewOrganizationService(OrganizationServiceParams{Store: s}), s
}

func seedUser(t *testing.T, s store.Store, email string) *objects.User {
	t.Helper()

	user := &objects.User{
		ID:        uuid.New(),
		Email:     email,
		Name:      email,
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, s.CreateUser(context.Background(), user))

	return user
}

func memberContext(t *testing.T, orgID, userID uuid.UUID, role scopes.Role) context.Context {
	t.Helper()

	ctx, err := contexts.WithCarrier(context.Background(), contexts.Carrier{
		OrganizationID: orgID,
		UserID:         &userID,
		Role:           role,
		Permissions:    scopes.DefaultPermissions(role),
	})
	require.NoError(t, err)

	return ctx
}

func TestCreateOrganization(t *testing.T) {
	t.Run("creates the owning membership atomically", func(t *testing.T) {
		svc, s := newOrganizationService(t)
		user := seedUser(t, s, "owner@acme.io")

		org, err := svc.CreateOrganization(context.Background(), objects.Organization{
			Code: "ACME",
			Name: "ACME Corp",
		}, &user.ID)
		require.NoError(t, err)
		require.NotEqual(t, uuid.Nil, org.ID)
		assert.True(t, org.IsActive)

		membership, err := s.FindMembership(context.Background(), user.ID, org.ID)
		require.NoError(t, err)
		assert.Equal(t, scopes.RoleOwner, membership.Role)
		assert.True(t, membership.IsActive)
		assert.True(t, membership.IsDefault)
	})

	t.Run("second organization is not the default", func(t *testing.T) {
		svc, s := newOrganizationService(t)
		user := seedUser(t, s, "owner@acme.io")

		first, err := svc.CreateOrganization(context.Background(), objects.Organization{Code: "ONE", Name: "One"}, &user.ID)
		require.NoError(t, err)

		second, err := svc.CreateOrganization(context.Background(), objects.Organization{Code: "TWO", Name: "Two"}, &user.ID)
		require.NoError(t, err)

		defaultMembership, err := s.FindDefaultMembership(context.Background(), user.ID)
		require.NoError(t, err)
		assert.Equal(t, first.ID, defaultMembership.OrganizationID)

		membership, err := s.FindMembership(context.Background(), user.ID, second.ID)
		require.NoError(t, err)
		assert.False(t, membership.IsDefault)
	})

	t.Run("duplicate code leaves no membership behind", func(t *testing.T) {
		svc, s := newOrganizationService(t)
		first := seedUser(t, s, "first@acme.io")
		second := seedUser(t, s, "second@acme.io")

		_, err := svc.CreateOrganization(context.Background(), objects.Organization{Code: "ACME", Name: "First"}, &first.ID)
		require.NoError(t, err)

		_, err = svc.CreateOrganization(context.Background(), objects.Organization{Code: "ACME", Name: "Second"}, &second.ID)
		assert.ErrorIs(t, err, ErrDuplicateOrganizationCode)

		memberships, err := s.FindActiveMemberships(context.Background(), second.ID)
		require.NoError(t, err)
		assert.Empty(t, memberships)
	})

	t.Run("unknown creator rolls the organization back", func(t *testing.T) {
		svc, s := newOrganizationService(t)
		ghost := uuid.New()

		_, err := svc.CreateOrganization(context.Background(), objects.Organization{Code: "GHOST", Name: "Ghost"}, &ghost)
		assert.ErrorIs(t, err, ErrUserNotFound)

		_, err = s.GetOrganizationByCode(context.Background(), "GHOST")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("code is required", func(t *testing.T) {
		svc, _ := newOrganizationService(t)

		_, err := svc.CreateOrganization(context.Background(), objects.Organization{Name: "No code"}, nil)
		assert.Error(t, err)
	})
}

func TestUpdateOrganization(t *testing.T) {
	svc, s := newOrganizationService(t)
	user := seedUser(t, s, "owner@acme.io")

	org, err := svc.CreateOrganization(context.Background(), objects.Organization{Code: "ACME", Name: "ACME"}, &user.ID)
	require.NoError(t, err)

	t.Run("merges mutable fields", func(t *testing.T) {
		ctx := memberContext(t, org.ID, user.ID, scopes.RoleOwner)

		name := "ACME International"
		city := "Paris"

		updated, err := svc.UpdateOrganization(ctx, org.ID, objects.OrganizationPatch{
			Name: &name,
			City: &city,
		})
		require.NoError(t, err)
		assert.Equal(t, "ACME International", updated.Name)
		assert.Equal(t, "Paris", updated.City)
		assert.Equal(t, "ACME", updated.Code)
	})

	t.Run("requires the write permission", func(t *testing.T) {
		ctx := memberContext(t, org.ID, user.ID, scopes.RoleViewer)

		name := "blocked"

		_, err := svc.UpdateOrganization(ctx, org.ID, objects.OrganizationPatch{Name: &name})

		var denied *authz.PermissionDeniedError
		assert.ErrorAs(t, err, &denied)
	})

	t.Run("rejects mutating another organization", func(t *testing.T) {
		ctx := memberContext(t, uuid.New(), user.ID, scopes.RoleOwner)

		name := "hijack"

		_, err := svc.UpdateOrganization(ctx, org.ID, objects.OrganizationPatch{Name: &name})
		assert.ErrorIs(t, err, scoping.ErrCrossTenantAccess)
	})

	t.Run("requires a carrier", func(t *testing.T) {
		name := "nobody"

		_, err := svc.UpdateOrganization(context.Background(), org.ID, objects.OrganizationPatch{Name: &name})
		assert.Error(t, err)
	})
}

func TestDeleteOrganization(t *testing.T) {
	svc, s := newOrganizationService(t)
	user := seedUser(t, s, "owner@acme.io")

	org, err := svc.CreateOrganization(context.Background(), objects.Organization{Code: "ACME", Name: "ACME"}, &user.ID)
	require.NoError(t, err)

	ctx := memberContext(t, org.ID, user.ID, scopes.RoleOwner)

	t.Run("soft-deletes", func(t *testing.T) {
		require.NoError(t, svc.DeleteOrganization(ctx, org.ID))

		got, err := svc.GetOrganizationByID(ctx, org.ID)
		require.NoError(t, err)
		assert.True(t, got.Deleted())
		assert.False(t, got.IsActive)
	})

	t.Run("deleting again is a no-op", func(t *testing.T) {
		before, err := svc.GetOrganizationByID(ctx, org.ID)
		require.NoError(t, err)

		require.NoError(t, svc.DeleteOrganization(ctx, org.ID))

		after, err := svc.GetOrganizationByID(ctx, org.ID)
		require.NoError(t, err)
		assert.Equal(t, before.DeletedAt, after.DeletedAt)
	})

	t.Run("only the delete permission may delete", func(t *testing.T) {
		adminCtx := memberContext(t, org.ID, user.ID, scopes.RoleAdminOrg)

		err := svc.DeleteOrganization(adminCtx, org.ID)

		var denied *authz.PermissionDeniedError
		assert.ErrorAs(t, err, &denied)
	})
}

func TestGetUserOrganizations(t *testing.T) {
	svc, s := newOrganizationService(t)
	user := seedUser(t, s, "owner@acme.io")

	first, err := svc.CreateOrganization(context.Background(), objects.Organization{Code: "ONE", Name: "One"}, &user.ID)
	require.NoError(t, err)

	second, err := svc.CreateOrganization(context.Background(), objects.Organization{Code: "TWO", Name: "Two"}, &user.ID)
	require.NoError(t, err)

	organizations, err := svc.GetUserOrganizations(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, organizations, 2)
	assert.Equal(t, first.ID, organizations[0].ID)
	assert.Equal(t, second.ID, organizations[1].ID)
}
