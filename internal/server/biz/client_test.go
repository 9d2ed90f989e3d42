package biz

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facturio/facturio/internal/authz"
	"github.com/facturio/facturio/internal/objects"
	"github.com/facturio/facturio/internal/scopes"
	"github.com/facturio/facturio/internal/store"
	"github.com/facturio/facturio/internal/store/memory"
)

func TestClientService(t *testing.T) {
	s := memory.New()
	svc := NewClientService(ClientServiceParams{Store: s})

	orgA := uuid.New()
	orgB := uuid.New()
	userID := uuid.New()

	ctxA := memberContext(t, orgA, userID, scopes.RoleMember)
	ctxB := memberContext(t, orgB, userID, scopes.RoleMember)

	t.Run("create stamps the carrier organization", func(t *testing.T) {
		client, err := svc.CreateClient(ctxA, objects.Client{
			Name: "ACME",
			// A forged organization id is overwritten by the stamp.
			OrganizationID: orgB,
		})
		require.NoError(t, err)
		assert.Equal(t, orgA, client.OrganizationID)
		assert.Equal(t, userID, client.CreatedBy)
	})

	t.Run("create requires write permission", func(t *testing.T) {
		viewerCtx := memberContext(t, orgA, uuid.New(), scopes.RoleViewer)

		_, err := svc.CreateClient(viewerCtx, objects.Client{Name: "Denied"})

		var denied *authz.PermissionDeniedError
		assert.ErrorAs(t, err, &denied)
	})

	t.Run("name is required", func(t *testing.T) {
		_, err := svc.CreateClient(ctxA, objects.Client{})
		assert.Error(t, err)
	})

	t.Run("list is tenant-scoped", func(t *testing.T) {
		clients, err := svc.ListClients(ctxA)
		require.NoError(t, err)
		require.Len(t, clients, 1)

		clients, err = svc.ListClients(ctxB)
		require.NoError(t, err)
		assert.Empty(t, clients)
	})

	t.Run("foreign client reads as not found", func(t *testing.T) {
		clients, err := svc.ListClients(ctxA)
		require.NoError(t, err)
		require.Len(t, clients, 1)

		_, err = svc.GetClient(ctxB, clients[0].ID)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("delete requires delete permission", func(t *testing.T) {
		clients, err := svc.ListClients(ctxA)
		require.NoError(t, err)
		require.Len(t, clients, 1)

		err = svc.DeleteClient(ctxA, clients[0].ID)

		var denied *authz.PermissionDeniedError
		assert.ErrorAs(t, err, &denied)

		managerCtx := memberContext(t, orgA, userID, scopes.RoleManager)
		assert.NoError(t, svc.DeleteClient(managerCtx, clients[0].ID))
	})
}
