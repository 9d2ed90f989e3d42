package log

import (
	"context"

	"github.com/facturio/facturio/internal/contexts"
)

// Hook derives additional fields from the context of a log call.
type Hook interface {
	Apply(ctx context.Context, message string) []Field
}

// HookFunc adapts a function to the Hook interface.
type HookFunc func(ctx context.Context, message string) []Field

func (f HookFunc) Apply(ctx context.Context, message string) []Field {
	return f(ctx, message)
}

// defaultHooks are applied by every logger built with New.
var defaultHooks = []Hook{HookFunc(tenantFields)}

// tenantFields extracts the tenant identity of the request.
func tenantFields(ctx context.Context, _ string) []Field {
	if ctx == nil {
		return nil
	}

	var fields []Field

	if orgID, ok := contexts.GetOrganizationID(ctx); ok {
		fields = append(fields, String("organization_id", orgID.String()))
	}

	if userID, ok := contexts.GetUserID(ctx); ok {
		fields = append(fields, String("user_id", userID.String()))
	}

	if requestID, ok := contexts.GetRequestID(ctx); ok {
		fields = append(fields, String("request_id", requestID))
	}

	return fields
}
