// Package store defines the persistence interfaces consumed by the
// services. Implementations must apply the tenancy contract: every read or
// mutation of an organization-scoped entity (clients, invoices) is
// filtered by the carrier's organization id taken from the context, and
// fails with contexts.ErrContextMissing when no carrier is established.
// Lookups scoped to another tenant report ErrNotFound, never the other
// tenant's data.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/facturio/facturio/internal/objects"
)

var (
	// ErrNotFound is returned when no row matches within the current scope.
	ErrNotFound = errors.New("store: not found")
	// ErrConflict is returned when a uniqueness constraint is violated.
	ErrConflict = errors.New("store: conflict")
)

// OrganizationStore persists organizations. Organizations are the tenancy
// root and are not themselves organization-scoped.
type OrganizationStore interface {
	CreateOrganization(ctx context.Context, org *objects.Organization) error
	GetOrganization(ctx context.Context, id uuid.UUID) (*objects.Organization, error)
	GetOrganizationByCode(ctx context.Context, code string) (*objects.Organization, error)
	UpdateOrganization(ctx context.Context, org *objects.Organization) error
	ListOrganizationsByIDs(ctx context.Context, ids []uuid.UUID) ([]*objects.Organization, error)
}

// UserStore persists user accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user *objects.User) error
	GetUser(ctx context.Context, id uuid.UUID) (*objects.User, error)
	GetUserByEmail(ctx context.Context, email string) (*objects.User, error)
}

// MembershipStore answers which organizations a user belongs to and with
// what role and permissions.
type MembershipStore interface {
	CreateMembership(ctx context.Context, membership *objects.Membership) error
	FindMembership(ctx context.Context, userID, organizationID uuid.UUID) (*objects.Membership, error)
	FindActiveMemberships(ctx context.Context, userID uuid.UUID) ([]*objects.Membership, error)
	FindDefaultMembership(ctx context.Context, userID uuid.UUID) (*objects.Membership, error)
}

// ClientStore persists clients. Organization-scoped.
type ClientStore interface {
	CreateClient(ctx context.Context, client *objects.Client) error
	GetClient(ctx context.Context, id uuid.UUID) (*objects.Client, error)
	ListClients(ctx context.Context) ([]*objects.Client, error)
	DeleteClient(ctx context.Context, id uuid.UUID) error
}

// InvoiceStore persists invoices. Organization-scoped.
type InvoiceStore interface {
	CreateInvoice(ctx context.Context, invoice *objects.Invoice) error
	GetInvoice(ctx context.Context, id uuid.UUID) (*objects.Invoice, error)
	ListInvoices(ctx context.Context) ([]*objects.Invoice, error)
}

// Transactor runs fn atomically: either every write made through the
// context-bound store persists, or none does.
type Transactor interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Store aggregates the persistence interfaces.
type Store interface {
	OrganizationStore
	UserStore
	MembershipStore
	ClientStore
	InvoiceStore
	Transactor

	Close() error
}
