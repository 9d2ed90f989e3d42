package biz

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/zhenzou/executors"
	"go.uber.org/fx"

	"github.com/facturio/facturio/internal/authz"
	"github.com/facturio/facturio/internal/contexts"
	"github.com/facturio/facturio/internal/log"
	"github.com/facturio/facturio/internal/objects"
	"github.com/facturio/facturio/internal/scopes"
	"github.com/facturio/facturio/internal/scoping"
	"github.com/facturio/facturio/internal/store"
)

type InvoiceServiceParams struct {
	fx.In

	Store    store.Store
	Executor executors.ScheduledExecutor
}

// InvoiceService manages the organization's invoices, including the
// asynchronous export that runs on the shared worker pool.
type InvoiceService struct {
	store    store.Store
	executor executors.ScheduledExecutor
}

func NewInvoiceService(params InvoiceServiceParams) *InvoiceService {
	return &InvoiceService{
		store:    params.Store,
		executor: params.Executor,
	}
}

// CreateDraftInvoice creates a draft invoice for a client of the current
// organization. The client is loaded through the scoped store, so a
// foreign client id fails as not found before anything is written.
func (s *InvoiceService) CreateDraftInvoice(ctx context.Context, invoice objects.Invoice) (*objects.Invoice, error) {
	if err := authz.Require(ctx, authz.RequireAny(scopes.PermissionWriteInvoices)); err != nil {
		return nil, err
	}

	if invoice.ClientID == uuid.Nil {
		return nil, fmt.Errorf("invoice client is required")
	}

	if _, err := s.store.GetClient(ctx, invoice.ClientID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, store.ErrNotFound
		}

		return nil, fmt.Errorf("failed to load client: %w", err)
	}

	if err := scoping.Stamp(ctx, &invoice); err != nil {
		return nil, err
	}

	if invoice.ID == uuid.Nil {
		invoice.ID = uuid.New()
	}

	invoice.Status = objects.InvoiceStatusDraft
	if invoice.Currency == "" {
		invoice.Currency = "EUR"
	}

	if userID, ok := contexts.GetUserID(ctx); ok {
		invoice.CreatedBy = userID
	}

	now := time.Now().UTC()
	invoice.CreatedAt = now
	invoice.UpdatedAt = now

	if err := s.store.CreateInvoice(ctx, &invoice); err != nil {
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}

	return &invoice, nil
}

// GetInvoice loads an invoice of the current organization.
func (s *InvoiceService) GetInvoice(ctx context.Context, id uuid.UUID) (*objects.Invoice, error) {
	if err := authz.Require(ctx, authz.RequireAny(scopes.PermissionReadInvoices)); err != nil {
		return nil, err
	}

	invoice, err := s.store.GetInvoice(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, store.ErrNotFound
		}

		return nil, fmt.Errorf("failed to load invoice: %w", err)
	}

	return invoice, nil
}

// ListInvoices returns the current organization's invoices.
func (s *InvoiceService) ListInvoices(ctx context.Context) ([]*objects.Invoice, error) {
	if err := authz.Require(ctx, authz.RequireAny(scopes.PermissionReadInvoices)); err != nil {
		return nil, err
	}

	invoices, err := s.store.ListInvoices(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}

	return invoices, nil
}

// InvoiceExport is the aggregate produced by ExportInvoices.
type InvoiceExport struct {
	OrganizationID uuid.UUID          `json:"organization_id"`
	GeneratedAt    time.Time          `json:"generated_at"`
	Count          int                `json:"count"`
	TotalCents     int64              `json:"total_cents"`
	Invoices       []*objects.Invoice `json:"invoices"`
}

// ExportInvoices builds an export of the organization's invoices on the
// worker pool. The permission check runs on the worker against the
// tenant captured at submission, not against whatever tenant the worker
// happens to serve when the task is picked up.
func (s *InvoiceService) ExportInvoices(ctx context.Context) (<-chan authz.Result[*InvoiceExport], error) {
	return authz.ExecuteGuarded(s.executor, ctx, authz.RequireAny(scopes.PermissionReadInvoices),
		func(ctx context.Context) (*InvoiceExport, error) {
			orgID, err := contexts.RequireOrganizationID(ctx)
			if err != nil {
				return nil, err
			}

			invoices, err := s.store.ListInvoices(ctx)
			if err != nil {
				return nil, fmt.Errorf("failed to list invoices: %w", err)
			}

			export := &InvoiceExport{
				OrganizationID: orgID,
				GeneratedAt:    time.Now().UTC(),
				Count:          len(invoices),
				TotalCents: lo.SumBy(invoices, func(invoice *objects.Invoice) int64 {
					return invoice.TotalCents
				}),
				Invoices: invoices,
			}

			log.Info(ctx, "invoice export generated",
				log.Int("count", export.Count),
				log.Int64("total_cents", export.TotalCents),
			)

			return export, nil
		})
}
