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

type ClientHandlersParams struct {
	fx.In

	ClientService *biz.ClientService
}

func NewClientHandlers(params ClientHandlersParams) *ClientHandlers {
	return &ClientHandlers{
		ClientService: params.ClientService,
	}
}

type ClientHandlers struct {
	ClientService *biz.ClientService
}

type CreateClientRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
	Country string `json:"country"`
}

// Create creates a client in the current organization.
func (h *ClientHandlers) Create(c *gin.Context) {
	var (
		ctx = c.Request.Context()
		req CreateClientRequest
	)

	err := c.ShouldBindJSON(&req)
	if err != nil {
		JSONError(c, http.StatusBadRequest, errors.New("Invalid request format"))
		return
	}

	client, err := h.ClientService.CreateClient(ctx, objects.Client{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
		City:    req.City,
		Country: req.Country,
	})
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, client)
}

// List lists the current organization's clients.
func (h *ClientHandlers) List(c *gin.Context) {
	clients, err := h.ClientService.ListClients(c.Request.Context())
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, clients)
}

// Get loads one client.
func (h *ClientHandlers) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		JSONError(c, http.StatusBadRequest, errors.New("Invalid client ID"))
		return
	}

	client, err := h.ClientService.GetClient(c.Request.Context(), id)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, client)
}

// Delete removes a client.
func (h *ClientHandlers) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		JSONError(c, http.StatusBadRequest, errors.New("Invalid client ID"))
		return
	}

	if err := h.ClientService.DeleteClient(c.Request.Context(), id); err != nil {
		HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
