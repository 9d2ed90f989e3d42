package contexts

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facturio/facturio/internal/scopes"
)

func TestWithCarrier(t *testing.T) {
	orgID := uuid.New()
	userID := uuid.New()

	carrier := Carrier{
		OrganizationID: orgID,
		UserID:         &userID,
		Role:           scopes.RoleMember,
		Permissions:    scopes.DefaultPermissions(scopes.RoleMember),
	}

	t.Run("attach and read back", func(t *testing.T) {
		ctx, err := WithCarrier(context.Background(), carrier)
		require.NoError(t, err)

		got, ok := GetCarrier(ctx)
		require.True(t, ok)
		assert.Equal(t, orgID, got.OrganizationID)
		assert.Equal(t, userID, *got.UserID)
		assert.Equal(t, scopes.RoleMember, got.Role)
	})

	t.Run("re-attaching the same carrier is idempotent", func(t *testing.T) {
		ctx, err := WithCarrier(context.Background(), carrier)
		require.NoError(t, err)

		same := Carrier{OrganizationID: orgID, UserID: &userID, Role: scopes.RoleOwner}
		_, err = WithCarrier(ctx, same)
		assert.NoError(t, err)
	})

	t.Run("attaching a different carrier is a conflict", func(t *testing.T) {
		ctx, err := WithCarrier(context.Background(), carrier)
		require.NoError(t, err)

		other := Carrier{OrganizationID: uuid.New(), UserID: &userID}
		_, err = WithCarrier(ctx, other)
		assert.Error(t, err)

		// The original carrier is untouched.
		got, ok := GetCarrier(ctx)
		require.True(t, ok)
		assert.Equal(t, orgID, got.OrganizationID)
	})
}

func TestOrganizationID(t *testing.T) {
	t.Run("missing carrier", func(t *testing.T) {
		_, ok := GetOrganizationID(context.Background())
		assert.False(t, ok)

		_, err := RequireOrganizationID(context.Background())
		assert.ErrorIs(t, err, ErrContextMissing)
	})

	t.Run("with organization id only", func(t *testing.T) {
		orgID := uuid.New()

		ctx, err := WithOrganizationID(context.Background(), orgID)
		require.NoError(t, err)

		got, err := RequireOrganizationID(ctx)
		require.NoError(t, err)
		assert.Equal(t, orgID, got)

		_, ok := GetUserID(ctx)
		assert.False(t, ok)
		_, ok = GetRole(ctx)
		assert.False(t, ok)
	})
}

func TestCarrierCrossesGoroutines(t *testing.T) {
	orgID := uuid.New()

	ctx, err := WithOrganizationID(context.Background(), orgID)
	require.NoError(t, err)

	done := make(chan uuid.UUID, 1)

	go func(ctx context.Context) {
		got, _ := GetOrganizationID(ctx)
		done <- got
	}(ctx)

	assert.Equal(t, orgID, <-done)
}

func TestGetPermissions(t *testing.T) {
	ctx, err := WithCarrier(context.Background(), Carrier{
		OrganizationID: uuid.New(),
		Permissions:    scopes.NewPermissionSet(scopes.PermissionReadClients),
	})
	require.NoError(t, err)

	permissions, ok := GetPermissions(ctx)
	require.True(t, ok)
	assert.True(t, permissions.Has(scopes.PermissionReadClients))
	assert.False(t, permissions.Has(scopes.PermissionWriteClients))
}

func TestRequestID(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-42")

	requestID, ok := GetRequestID(ctx)
	require.True(t, ok)
	assert.Equal(t, "req-42", requestID)

	_, ok = GetRequestID(context.Background())
	assert.False(t, ok)
}

func TestAuthentication(t *testing.T) {
	userID := uuid.New()
	orgID := uuid.New()

	ctx := WithAuthentication(context.Background(), Authentication{
		UserID:         userID,
		OrganizationID: &orgID,
	})

	auth, ok := GetAuthentication(ctx)
	require.True(t, ok)
	assert.Equal(t, userID, auth.UserID)
	assert.Equal(t, orgID, *auth.OrganizationID)

	_, ok = GetAuthentication(context.Background())
	assert.False(t, ok)
}
