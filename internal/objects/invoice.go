package objects

import (
	"time"

	"github.com/google/uuid"
)

// InvoiceStatus is the lifecycle state of an invoice.
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusIssued    InvoiceStatus = "issued"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

// Invoice is a billing document issued to a client. Amount semantics
// (totals, taxes, discounts) are owned by a separate calculation service;
// the core only scopes and stores them.
type Invoice struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	ClientID       uuid.UUID `json:"client_id"`

	Number      string        `json:"number,omitempty"`
	Status      InvoiceStatus `json:"status"`
	TotalCents  int64         `json:"total_cents"`
	Currency    string        `json:"currency"`
	IssuedAt    *time.Time    `json:"issued_at,omitempty"`
	DueAt       *time.Time    `json:"due_at,omitempty"`
	Description string        `json:"description,omitempty"`

	CreatedBy uuid.UUID `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (i *Invoice) GetOrganizationID() uuid.UUID { return i.OrganizationID }

func (i *Invoice) SetOrganizationID(orgID uuid.UUID) { i.OrganizationID = orgID }
