package authz

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zhenzou/executors"

	"github.com/facturio/facturio/internal/contexts"
	"github.com/facturio/facturio/internal/scopes"
)

func newTestExecutor(t *testing.T) executors.ScheduledExecutor {
	t.Helper()

	executor := executors.NewPoolScheduleExecutor(
		executors.WithMaxConcurrent(2),
		executors.WithMaxBlockingTasks(16),
	)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = executor.Shutdown(ctx)
	})

	return executor
}

func TestExecuteGuarded(t *testing.T) {
	executor := newTestExecutor(t)

	t.Run("evaluates against the submission tenant", func(t *testing.T) {
		orgID := uuid.New()
		userID := uuid.New()

		ctx, err := contexts.WithCarrier(context.Background(), contexts.Carrier{
			OrganizationID: orgID,
			UserID:         &userID,
			Role:           scopes.RoleAccountant,
			Permissions:    scopes.DefaultPermissions(scopes.RoleAccountant),
		})
		require.NoError(t, err)

		results, err := ExecuteGuarded(executor, ctx, RequireAny(scopes.PermissionReadInvoices),
			func(ctx context.Context) (uuid.UUID, error) {
				got, err := contexts.RequireOrganizationID(ctx)
				return got, err
			})
		require.NoError(t, err)

		result := <-results
		require.NoError(t, result.Err)
		assert.Equal(t, orgID, result.Value)
	})

	t.Run("denies without the permission", func(t *testing.T) {
		ctx, err := contexts.WithCarrier(context.Background(), contexts.Carrier{
			OrganizationID: uuid.New(),
			Role:           scopes.RoleViewer,
			Permissions:    scopes.DefaultPermissions(scopes.RoleViewer),
		})
		require.NoError(t, err)

		ran := false

		results, err := ExecuteGuarded(executor, ctx, RequireAny(scopes.PermissionDeleteInvoices),
			func(ctx context.Context) (struct{}, error) {
				ran = true
				return struct{}{}, nil
			})
		require.NoError(t, err)

		result := <-results

		var denied *PermissionDeniedError
		require.ErrorAs(t, result.Err, &denied)
		assert.False(t, ran)
	})

	t.Run("survives cancellation of the request context", func(t *testing.T) {
		orgID := uuid.New()

		base, err := contexts.WithOrganizationID(context.Background(), orgID)
		require.NoError(t, err)

		reqCtx, cancel := context.WithCancel(base)

		results, err := ExecuteGuarded(executor, reqCtx, Requirement{Permissions: nil},
			func(ctx context.Context) (uuid.UUID, error) {
				// The captured context is detached: cancellation of the
				// request must not abort the task.
				select {
				case <-ctx.Done():
					return uuid.Nil, ctx.Err()
				default:
				}

				return contexts.RequireOrganizationID(ctx)
			})
		require.NoError(t, err)

		cancel()

		result := <-results
		require.NoError(t, result.Err)
		assert.Equal(t, orgID, result.Value)
	})
}
