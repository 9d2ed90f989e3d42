package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/fx"

	"github.com/facturio/facturio/internal/objects"
	"github.com/facturio/facturio/internal/server/biz"
)

type InvoiceHandlersParams struct {
	fx.In

	InvoiceService *biz.InvoiceService
}

func NewInvoiceHandlers(params InvoiceHandlersParams) *InvoiceHandlers {
	return &InvoiceHandlers{
		InvoiceService: params.InvoiceService,
	}
}

type InvoiceHandlers struct {
	InvoiceService *biz.InvoiceService
}

type CreateInvoiceRequest struct {
	ClientID    uuid.UUID  `json:"client_id" binding:"required"`
	Number      string     `json:"number"`
	TotalCents  int64      `json:"total_cents"`
	Currency    string     `json:"currency"`
	DueAt       *time.Time `json:"due_at"`
	Description string     `json:"description"`
}

// Create creates a draft invoice in the current organization.
func (h *InvoiceHandlers) Create(c *gin.Context) {
	var (
		ctx = c.Request.Context()
		req CreateInvoiceRequest
	)

	err := c.ShouldBindJSON(&req)
	if err != nil {
		JSONError(c, http.StatusBadRequest, errors.New("Invalid request format"))
		return
	}

	invoice, err := h.InvoiceService.CreateDraftInvoice(ctx, objects.Invoice{
		ClientID:    req.ClientID,
		Number:      req.Number,
		TotalCents:  req.TotalCents,
		Currency:    req.Currency,
		DueAt:       req.DueAt,
		Description: req.Description,
	})
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, invoice)
}

// List lists the current organization's invoices.
func (h *InvoiceHandlers) List(c *gin.Context) {
	invoices, err := h.InvoiceService.ListInvoices(c.Request.Context())
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, invoices)
}

// Get loads one invoice.
func (h *InvoiceHandlers) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		JSONError(c, http.StatusBadRequest, errors.New("Invalid invoice ID"))
		return
	}

	invoice, err := h.InvoiceService.GetInvoice(c.Request.Context(), id)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, invoice)
}

// Export builds the export on the worker pool and waits for the result.
func (h *InvoiceHandlers) Export(c *gin.Context) {
	ctx := c.Request.Context()

	results, err := h.InvoiceService.ExportInvoices(ctx)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	select {
	case result := <-results:
		if result.Err != nil {
			HandleServiceError(c, result.Err)
			return
		}

		c.JSON(http.StatusOK, result.Value)
	case <-ctx.Done():
		JSONError(c, http.StatusGatewayTimeout, errors.New("Export timed out"))
	}
}
