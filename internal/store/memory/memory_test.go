package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facturio/facturio/internal/contexts"
	"github.com/facturio/facturio/internal/objects"
	"github.com/facturio/facturio/internal/scopes"
	"github.com/facturio/facturio/internal/scoping"
	"github.com/facturio/facturio/internal/store"
)

func orgContext(t *testing.T, orgID uuid.UUID) context.Context {
	t.Helper()

	ctx, err := contexts.WithOrganizationID(context.Background(), orgID)
	require.NoError(t, err)

	return ctx
}

func seedClient(t *testing.T, s *Store, orgID uuid.UUID, name string) *objects.Client {
	t.Helper()

	client := &objects.Client{
		ID:             uuid.New(),
		OrganizationID: orgID,
		Name:           name,
		CreatedAt:      time.Now().UTC(),
	}
	require.NoError(t, s.CreateClient(orgContext(t, orgID), client))

	return client
}

func TestOrganizationCodeUniqueness(t *testing.T) {
	s := New()
	ctx := context.Background()

	first := &objects.Organization{ID: uuid.New(), Code: "ORG1", Name: "First"}
	require.NoError(t, s.CreateOrganization(ctx, first))

	second := &objects.Organization{ID: uuid.New(), Code: "ORG1", Name: "Second"}
	err := s.CreateOrganization(ctx, second)
	assert.ErrorIs(t, err, store.ErrConflict)

	got, err := s.GetOrganizationByCode(ctx, "ORG1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
}

func TestUserEmailUniqueness(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, &objects.User{ID: uuid.New(), Email: "a@b.c"}))

	err := s.CreateUser(ctx, &objects.User{ID: uuid.New(), Email: "a@b.c"})
	assert.ErrorIs(t, err, store.ErrConflict)
}

func TestMembershipUniquePair(t *testing.T) {
	s := New()
	ctx := context.Background()

	userID := uuid.New()
	orgID := uuid.New()

	require.NoError(t, s.CreateMembership(ctx, &objects.Membership{
		ID: uuid.New(), UserID: userID, OrganizationID: orgID, Role: scopes.RoleOwner, IsActive: true,
	}))

	err := s.CreateMembership(ctx, &objects.Membership{
		ID: uuid.New(), UserID: userID, OrganizationID: orgID, Role: scopes.RoleMember, IsActive: true,
	})
	assert.ErrorIs(t, err, store.ErrConflict)
}

func TestTenantIsolation(t *testing.T) {
	s := New()

	orgA := uuid.New()
	orgB := uuid.New()

	clientA := seedClient(t, s, orgA, "A client")
	clientB := seedClient(t, s, orgB, "B client")

	t.Run("list returns only the carrier's rows", func(t *testing.T) {
		clients, err := s.ListClients(orgContext(t, orgA))
		require.NoError(t, err)
		require.Len(t, clients, 1)
		assert.Equal(t, clientA.ID, clients[0].ID)
	})

	t.Run("foreign id reads as not found", func(t *testing.T) {
		_, err := s.GetClient(orgContext(t, orgA), clientB.ID)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("foreign id cannot be deleted", func(t *testing.T) {
		err := s.DeleteClient(orgContext(t, orgA), clientB.ID)
		assert.ErrorIs(t, err, store.ErrNotFound)

		_, err = s.GetClient(orgContext(t, orgB), clientB.ID)
		assert.NoError(t, err)
	})

	t.Run("unscoped context is rejected", func(t *testing.T) {
		_, err := s.ListClients(context.Background())
		assert.ErrorIs(t, err, contexts.ErrContextMissing)
	})

	t.Run("write with a foreign stamp is fatal", func(t *testing.T) {
		client := &objects.Client{ID: uuid.New(), OrganizationID: orgB, Name: "smuggled"}

		err := s.CreateClient(orgContext(t, orgA), client)
		assert.ErrorIs(t, err, scoping.ErrCrossTenantAccess)
	})
}

func TestInvoiceIsolation(t *testing.T) {
	s := New()

	orgA := uuid.New()
	orgB := uuid.New()

	invoice := &objects.Invoice{
		ID:             uuid.New(),
		OrganizationID: orgA,
		ClientID:       uuid.New(),
		Status:         objects.InvoiceStatusDraft,
		CreatedAt:      time.Now().UTC(),
	}
	require.NoError(t, s.CreateInvoice(orgContext(t, orgA), invoice))

	_, err := s.GetInvoice(orgContext(t, orgB), invoice.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	invoices, err := s.ListInvoices(orgContext(t, orgB))
	require.NoError(t, err)
	assert.Empty(t, invoices)
}

func TestDefaultMembership(t *testing.T) {
	s := New()
	ctx := context.Background()

	userID := uuid.New()

	require.NoError(t, s.CreateMembership(ctx, &objects.Membership{
		ID: uuid.New(), UserID: userID, OrganizationID: uuid.New(),
		Role: scopes.RoleOwner, IsDefault: true, IsActive: true, JoinedAt: time.Now(),
	}))
	require.NoError(t, s.CreateMembership(ctx, &objects.Membership{
		ID: uuid.New(), UserID: userID, OrganizationID: uuid.New(),
		Role: scopes.RoleMember, IsActive: true, JoinedAt: time.Now().Add(time.Second),
	}))

	membership, err := s.FindDefaultMembership(ctx, userID)
	require.NoError(t, err)
	assert.True(t, membership.IsDefault)
	assert.Equal(t, scopes.RoleOwner, membership.Role)

	memberships, err := s.FindActiveMemberships(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, memberships, 2)
}

func TestRunInTransactionRollsBack(t *testing.T) {
	s := New()
	ctx := context.Background()

	boom := errors.New("boom")

	err := s.RunInTransaction(ctx, func(txCtx context.Context) error {
		org := &objects.Organization{ID: uuid.New(), Code: "TX1", Name: "Tx"}
		if err := s.CreateOrganization(txCtx, org); err != nil {
			return err
		}

		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = s.GetOrganizationByCode(ctx, "TX1")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
