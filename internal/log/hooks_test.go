package log

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facturio/facturio/internal/contexts"
)

func TestTenantFieldsHook(t *testing.T) {
	hook := HookFunc(tenantFields)

	t.Run("with organization", func(t *testing.T) {
		orgID := uuid.New()

		ctx, err := contexts.WithOrganizationID(context.Background(), orgID)
		require.NoError(t, err)

		fields := hook.Apply(ctx, "test message")
		require.Len(t, fields, 1)
		assert.Equal(t, "organization_id", fields[0].Key)
		assert.Equal(t, orgID.String(), fields[0].String)
	})

	t.Run("with organization and user", func(t *testing.T) {
		orgID := uuid.New()
		userID := uuid.New()

		ctx, err := contexts.WithCarrier(context.Background(), contexts.Carrier{
			OrganizationID: orgID,
			UserID:         &userID,
		})
		require.NoError(t, err)

		fields := hook.Apply(ctx, "test message")
		require.Len(t, fields, 2)
		assert.Equal(t, "organization_id", fields[0].Key)
		assert.Equal(t, "user_id", fields[1].Key)
		assert.Equal(t, userID.String(), fields[1].String)
	})

	t.Run("with request id", func(t *testing.T) {
		ctx := contexts.WithRequestID(context.Background(), "req-1")

		fields := hook.Apply(ctx, "test message")
		require.Len(t, fields, 1)
		assert.Equal(t, "request_id", fields[0].Key)
		assert.Equal(t, "req-1", fields[0].String)
	})

	t.Run("without tenant context", func(t *testing.T) {
		fields := hook.Apply(context.Background(), "test message")
		assert.Empty(t, fields)
	})

	t.Run("with nil context", func(t *testing.T) {
		fields := hook.Apply(nil, "test message")
		assert.Empty(t, fields)
	})
}
