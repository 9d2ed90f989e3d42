package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/facturio/facturio/internal/contexts"
	"github.com/facturio/facturio/internal/server/biz"
)

var (
	ErrMissingOrganizationHeader = errors.New("missing X-Organization-ID header")
	ErrInvalidOrganizationHeader = errors.New("invalid X-Organization-ID header")
)

// OrganizationHeader is the header carrying the tenant selection.
const OrganizationHeader = "X-Organization-ID"

// OrganizationConfig configures the tenant resolution boundary.
type OrganizationConfig struct {
	// Header overrides the organization header name.
	Header string `conf:"header" yaml:"header" json:"header"`

	// ExemptPrefixes are path prefixes that skip tenant resolution:
	// health checks, sign-in, organization bootstrap.
	ExemptPrefixes []string `conf:"exempt_prefixes" yaml:"exempt_prefixes" json:"exempt_prefixes"`
}

// WithOrganization resolves the tenant for the request and attaches the
// carrier to the request context. The organization is taken from the
// header, falling back to the token's organization claim and then to the
// user's default membership. Authenticated requests must hold an active
// membership in the resolved organization; the carrier then holds the
// membership's role and effective permissions.
func WithOrganization(memberships *biz.MembershipService, config OrganizationConfig) gin.HandlerFunc {
	header := config.Header
	if header == "" {
		header = OrganizationHeader
	}

	return func(c *gin.Context) {
		for _, prefix := range config.ExemptPrefixes {
			if strings.HasPrefix(c.Request.URL.Path, prefix) {
				c.Next()
				return
			}
		}

		ctx := c.Request.Context()
		auth, authenticated := contexts.GetAuthentication(ctx)

		var orgID uuid.UUID

		raw := strings.TrimSpace(c.GetHeader(header))

		switch {
		case raw != "":
			parsed, err := uuid.Parse(raw)
			if err != nil || parsed == uuid.Nil {
				AbortWithError(c, http.StatusBadRequest, ErrInvalidOrganizationHeader)
				return
			}

			orgID = parsed

		case authenticated && auth.OrganizationID != nil:
			orgID = *auth.OrganizationID

		case authenticated:
			fallback, err := memberships.DefaultOrganization(ctx, auth.UserID)
			if err != nil {
				AbortWithError(c, http.StatusBadRequest, ErrMissingOrganizationHeader)
				return
			}

			orgID = fallback

		default:
			AbortWithError(c, http.StatusBadRequest, ErrMissingOrganizationHeader)
			return
		}

		if authenticated {
			carrier, err := memberships.ResolveCarrier(ctx, auth.UserID, orgID)
			if err != nil {
				if errors.Is(err, biz.ErrMembershipNotFound) {
					AbortWithError(c, http.StatusForbidden, biz.ErrMembershipNotFound)
				} else {
					AbortWithError(c, http.StatusInternalServerError, biz.ErrInternal)
				}

				return
			}

			ctx, err = contexts.WithCarrier(ctx, carrier)
			if err != nil {
				AbortWithError(c, http.StatusInternalServerError, err)
				return
			}
		} else {
			var err error

			ctx, err = contexts.WithOrganizationID(ctx, orgID)
			if err != nil {
				AbortWithError(c, http.StatusInternalServerError, err)
				return
			}
		}

		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
