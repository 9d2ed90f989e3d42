package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/facturio/facturio/internal/objects"
	"github.com/facturio/facturio/internal/store"
)

func (s *Store) CreateClient(ctx context.Context, client *objects.Client) error {
	if err := assertStamped(ctx, client); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.clients[client.ID] = *client

	return nil
}

func (s *Store) GetClient(ctx context.Context, id uuid.UUID) (*objects.Client, error) {
	orgID, err := scopedOrgID(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	client, ok := s.clients[id]
	if !ok || client.OrganizationID != orgID {
		// A foreign tenant's row is indistinguishable from a missing one.
		return nil, store.ErrNotFound
	}

	return &client, nil
}

func (s *Store) ListClients(ctx context.Context) ([]*objects.Client, error) {
	orgID, err := scopedOrgID(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var clients []*objects.Client

	for _, client := range s.clients {
		if client.OrganizationID == orgID {
			result := client
			clients = append(clients, &result)
		}
	}

	sort.Slice(clients, func(i, j int) bool {
		return clients[i].CreatedAt.Before(clients[j].CreatedAt)
	})

	return clients, nil
}

func (s *Store) DeleteClient(ctx context.Context, id uuid.UUID) error {
	orgID, err := scopedOrgID(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	client, ok := s.clients[id]
	if !ok || client.OrganizationID != orgID {
		return store.ErrNotFound
	}

	delete(s.clients, id)

	return nil
}

func (s *Store) CreateInvoice(ctx context.Context, invoice *objects.Invoice) error {
	if err := assertStamped(ctx, invoice); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.invoices[invoice.ID] = *invoice

	return nil
}

func (s *Store) GetInvoice(ctx context.Context, id uuid.UUID) (*objects.Invoice, error) {
	orgID, err := scopedOrgID(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	invoice, ok := s.invoices[id]
	if !ok || invoice.OrganizationID != orgID {
		return nil, store.ErrNotFound
	}

	return &invoice, nil
}

func (s *Store) ListInvoices(ctx context.Context) ([]*objects.Invoice, error) {
	orgID, err := scopedOrgID(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var invoices []*objects.Invoice

	for _, invoice := range s.invoices {
		if invoice.OrganizationID == orgID {
			result := invoice
			invoices = append(invoices, &result)
		}
	}

	sort.Slice(invoices, func(i, j int) bool {
		return invoices[i].CreatedAt.Before(invoices[j].CreatedAt)
	})

	return invoices, nil
}
