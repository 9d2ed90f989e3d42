package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/fx"

	"github.com/facturio/facturio/internal/contexts"
	"github.com/facturio/facturio/internal/objects"
	"github.com/facturio/facturio/internal/server/biz"
)

type OrganizationHandlersParams struct {
	fx.In

	OrganizationService *biz.OrganizationService
}

func NewOrganizationHandlers(params OrganizationHandlersParams) *OrganizationHandlers {
	return &OrganizationHandlers{
		OrganizationService: params.OrganizationService,
	}
}

type OrganizationHandlers struct {
	OrganizationService *biz.OrganizationService
}

type CreateOrganizationRequest struct {
	Code      string `json:"code" binding:"required"`
	Name      string `json:"name" binding:"required"`
	LegalName string `json:"legal_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	Country   string `json:"country"`
}

// Create creates an organization owned by the authenticated user.
func (h *OrganizationHandlers) Create(c *gin.Context) {
	var (
		ctx = c.Request.Context()
		req CreateOrganizationRequest
	)

	err := c.ShouldBindJSON(&req)
	if err != nil {
		JSONError(c, http.StatusBadRequest, errors.New("Invalid request format"))
		return
	}

	auth, ok := contexts.GetAuthentication(ctx)
	if !ok {
		JSONError(c, http.StatusUnauthorized, errors.New("Authentication required"))
		return
	}

	org, err := h.OrganizationService.CreateOrganization(ctx, objects.Organization{
		Code:      req.Code,
		Name:      req.Name,
		LegalName: req.LegalName,
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   req.Address,
		City:      req.City,
		Country:   req.Country,
	}, &auth.UserID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, org)
}

// ListMine lists the organizations the authenticated user belongs to.
func (h *OrganizationHandlers) ListMine(c *gin.Context) {
	ctx := c.Request.Context()

	auth, ok := contexts.GetAuthentication(ctx)
	if !ok {
		JSONError(c, http.StatusUnauthorized, errors.New("Authentication required"))
		return
	}

	organizations, err := h.OrganizationService.GetUserOrganizations(ctx, auth.UserID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, organizations)
}

// GetCurrent returns the organization of the current carrier.
func (h *OrganizationHandlers) GetCurrent(c *gin.Context) {
	ctx := c.Request.Context()

	orgID, err := contexts.RequireOrganizationID(ctx)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	org, err := h.OrganizationService.GetOrganizationByID(ctx, orgID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, org)
}

// Update applies a partial update to the organization.
func (h *OrganizationHandlers) Update(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		JSONError(c, http.StatusBadRequest, errors.New("Invalid organization ID"))
		return
	}

	var patch objects.OrganizationPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		JSONError(c, http.StatusBadRequest, errors.New("Invalid request format"))
		return
	}

	org, err := h.OrganizationService.UpdateOrganization(ctx, id, patch)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, org)
}

// Delete soft-deletes the organization.
func (h *OrganizationHandlers) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		JSONError(c, http.StatusBadRequest, errors.New("Invalid organization ID"))
		return
	}

	if err := h.OrganizationService.DeleteOrganization(ctx, id); err != nil {
		HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
