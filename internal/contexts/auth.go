package contexts

import (
	"context"

	"github.com/google/uuid"
)

// authenticationKey is an unexported key type to prevent external forgery.
type authenticationKey struct{}

// Authentication is the identity proven by the credential, before any
// tenant resolution. OrganizationID is set when the token carries an
// organization claim.
type Authentication struct {
	UserID         uuid.UUID
	OrganizationID *uuid.UUID
}

// WithAuthentication stores the authenticated identity in the context.
func WithAuthentication(ctx context.Context, auth Authentication) context.Context {
	return context.WithValue(ctx, authenticationKey{}, auth)
}

// GetAuthentication retrieves the authenticated identity from the context.
func GetAuthentication(ctx context.Context) (Authentication, bool) {
	auth, ok := ctx.Value(authenticationKey{}).(Authentication)
	return auth, ok
}
