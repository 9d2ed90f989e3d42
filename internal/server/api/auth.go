package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/fx"

	"github.com/facturio/facturio/internal/objects"
	"github.com/facturio/facturio/internal/server/biz"
)

type AuthHandlersParams struct {
	fx.In

	AuthService       *biz.AuthService
	MembershipService *biz.MembershipService
}

func NewAuthHandlers(params AuthHandlersParams) *AuthHandlers {
	return &AuthHandlers{
		AuthService:       params.AuthService,
		MembershipService: params.MembershipService,
	}
}

type AuthHandlers struct {
	AuthService       *biz.AuthService
	MembershipService *biz.MembershipService
}

type SignInRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`

	// OrganizationID is optionally embedded in the token, letting the
	// client omit the organization header afterwards.
	OrganizationID *uuid.UUID `json:"organization_id,omitempty"`
}

type SignInResponse struct {
	User  *objects.User `json:"user"`
	Token string        `json:"token"`
}

// SignIn handles user authentication.
func (h *AuthHandlers) SignIn(c *gin.Context) {
	var (
		ctx = c.Request.Context()
		req SignInRequest
	)

	err := c.ShouldBindJSON(&req)
	if err != nil {
		JSONError(c, http.StatusBadRequest, errors.New("Invalid request format"))
		return
	}

	user, err := h.AuthService.AuthenticateUser(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, biz.ErrInvalidPassword) {
			JSONError(c, http.StatusUnauthorized, errors.New("Invalid email or password"))
			return
		}

		JSONError(c, http.StatusInternalServerError, biz.ErrInternal)

		return
	}

	organizationID := req.OrganizationID
	if organizationID == nil {
		// Fall back to the default membership when the user has one.
		if orgID, err := h.MembershipService.DefaultOrganization(ctx, user.ID); err == nil {
			organizationID = &orgID
		}
	}

	if organizationID != nil {
		if _, err := h.MembershipService.ResolveCarrier(ctx, user.ID, *organizationID); err != nil {
			if errors.Is(err, biz.ErrMembershipNotFound) {
				JSONError(c, http.StatusForbidden, biz.ErrMembershipNotFound)
				return
			}

			JSONError(c, http.StatusInternalServerError, biz.ErrInternal)

			return
		}
	}

	token, err := h.AuthService.GenerateJWTToken(ctx, user, organizationID)
	if err != nil {
		JSONError(c, http.StatusInternalServerError, biz.ErrInternal)
		return
	}

	c.JSON(http.StatusOK, SignInResponse{
		User:  user,
		Token: token,
	})
}

type SignUpRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Name     string `json:"name"     binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

// SignUp registers a new user account.
func (h *AuthHandlers) SignUp(c *gin.Context) {
	var (
		ctx = c.Request.Context()
		req SignUpRequest
	)

	err := c.ShouldBindJSON(&req)
	if err != nil {
		JSONError(c, http.StatusBadRequest, errors.New("Invalid request format"))
		return
	}

	user, err := h.AuthService.RegisterUser(ctx, req.Email, req.Name, req.Password)
	if err != nil {
		JSONError(c, http.StatusBadRequest, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}
