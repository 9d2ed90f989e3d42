package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/facturio/facturio/internal/contexts"
	"github.com/facturio/facturio/internal/server/biz"
)

// ExtractBearerToken extracts the token from the Authorization header.
func ExtractBearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", errors.New("Authorization header is required")
	}

	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", errors.New("Authorization header must start with 'Bearer '")
	}

	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	if token == "" {
		return "", errors.New("token is required")
	}

	return token, nil
}

// WithJWTAuth validates the bearer token and stores the authenticated
// identity in the request context. Tenant resolution happens later, in
// WithOrganization.
func WithJWTAuth(auth *biz.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := ExtractBearerToken(c.Request)
		if err != nil {
			AbortWithError(c, http.StatusUnauthorized, err)
			return
		}

		claims, err := auth.AuthenticateJWTToken(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, biz.ErrInvalidJWT) {
				AbortWithError(c, http.StatusUnauthorized, errors.New("Invalid token"))
			} else {
				AbortWithError(c, http.StatusInternalServerError, errors.New("Failed to validate token"))
			}

			return
		}

		ctx := contexts.WithAuthentication(c.Request.Context(), contexts.Authentication{
			UserID:         claims.UserID,
			OrganizationID: claims.OrganizationID,
		})
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
