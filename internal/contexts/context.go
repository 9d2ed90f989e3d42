package contexts

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/facturio/facturio/internal/scopes"
)

// carrierKey is an unexported key type to prevent external forgery.
type carrierKey struct{}

// requestIDKey stores the request id independently of the carrier so it is
// available before tenant resolution.
type requestIDKey struct{}

// WithCarrier attaches the carrier to the context with set-once semantics.
// Attaching the same carrier again is idempotent; attaching a different one
// is a conflict, since a logical request has exactly one tenant identity.
func WithCarrier(ctx context.Context, carrier Carrier) (context.Context, error) {
	if existing, ok := GetCarrier(ctx); ok {
		if !existing.Equal(carrier) {
			return ctx, fmt.Errorf("contexts: carrier conflict: existing=%s, new=%s", existing, carrier)
		}

		return ctx, nil
	}

	return context.WithValue(ctx, carrierKey{}, carrier), nil
}

// GetCarrier retrieves the carrier from the context.
func GetCarrier(ctx context.Context) (Carrier, bool) {
	carrier, ok := ctx.Value(carrierKey{}).(Carrier)
	return carrier, ok
}

// WithOrganizationID attaches a carrier holding only the organization id.
// Used at the request boundary before the membership is resolved, and by
// internal jobs acting on behalf of an organization.
func WithOrganizationID(ctx context.Context, orgID uuid.UUID) (context.Context, error) {
	return WithCarrier(ctx, Carrier{OrganizationID: orgID})
}

// GetOrganizationID retrieves the current organization id.
func GetOrganizationID(ctx context.Context) (uuid.UUID, bool) {
	carrier, ok := GetCarrier(ctx)
	if !ok || carrier.OrganizationID == uuid.Nil {
		return uuid.Nil, false
	}

	return carrier.OrganizationID, true
}

// RequireOrganizationID retrieves the current organization id, failing with
// ErrContextMissing when none was established.
func RequireOrganizationID(ctx context.Context) (uuid.UUID, error) {
	orgID, ok := GetOrganizationID(ctx)
	if !ok {
		return uuid.Nil, ErrContextMissing
	}

	return orgID, nil
}

// GetUserID retrieves the current authenticated user id.
func GetUserID(ctx context.Context) (uuid.UUID, bool) {
	carrier, ok := GetCarrier(ctx)
	if !ok || carrier.UserID == nil {
		return uuid.Nil, false
	}

	return *carrier.UserID, true
}

// GetRole retrieves the current membership role.
func GetRole(ctx context.Context) (scopes.Role, bool) {
	carrier, ok := GetCarrier(ctx)
	if !ok || !carrier.Role.Known() {
		return "", false
	}

	return carrier.Role, true
}

// GetPermissions retrieves the current membership permission set.
func GetPermissions(ctx context.Context) (scopes.PermissionSet, bool) {
	carrier, ok := GetCarrier(ctx)
	if !ok || carrier.Permissions == nil {
		return nil, false
	}

	return carrier.Permissions, true
}

// WithRequestID stores the request id in the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// GetRequestID retrieves the request id from the context.
func GetRequestID(ctx context.Context) (string, bool) {
	requestID, ok := ctx.Value(requestIDKey{}).(string)
	return requestID, ok
}
