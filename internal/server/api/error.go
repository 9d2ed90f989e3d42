package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/facturio/facturio/internal/authz"
	"github.com/facturio/facturio/internal/contexts"
	"github.com/facturio/facturio/internal/objects"
	"github.com/facturio/facturio/internal/scoping"
	"github.com/facturio/facturio/internal/server/biz"
	"github.com/facturio/facturio/internal/store"
)

// JSONError returns a JSON error response and adds the error to gin context for access logging.
func JSONError(c *gin.Context, status int, err error) {
	_ = c.Error(err)
	c.JSON(status, objects.ErrorResponse{
		Error: objects.Error{
			Type:    http.StatusText(status),
			Message: err.Error(),
		},
	})
}

// HandleServiceError maps service errors onto HTTP statuses. Unrecognized
// errors respond with a generic 500 so internals never leak.
func HandleServiceError(c *gin.Context, err error) {
	var (
		permissionDenied *authz.PermissionDeniedError
		roleDenied       *authz.RoleDeniedError
	)

	switch {
	case errors.As(err, &permissionDenied), errors.As(err, &roleDenied):
		JSONError(c, http.StatusForbidden, err)
	case errors.Is(err, scoping.ErrCrossTenantAccess):
		JSONError(c, http.StatusForbidden, err)
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, biz.ErrOrganizationNotFound),
		errors.Is(err, biz.ErrUserNotFound),
		errors.Is(err, biz.ErrMembershipNotFound):
		JSONError(c, http.StatusNotFound, err)
	case errors.Is(err, biz.ErrDuplicateOrganizationCode):
		JSONError(c, http.StatusConflict, err)
	case errors.Is(err, contexts.ErrContextMissing):
		JSONError(c, http.StatusBadRequest, err)
	default:
		_ = c.Error(err)
		JSONError(c, http.StatusInternalServerError, biz.ErrInternal)
	}
}
