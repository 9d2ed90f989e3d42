package biz

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/fx"

	"github.com/facturio/facturio/internal/authz"
	"github.com/facturio/facturio/internal/contexts"
	"github.com/facturio/facturio/internal/objects"
	"github.com/facturio/facturio/internal/scopes"
	"github.com/facturio/facturio/internal/scoping"
	"github.com/facturio/facturio/internal/store"
)

type ClientServiceParams struct {
	fx.In

	Store store.Store
}

// ClientService manages the organization's clients. Every operation runs
// against the carrier's organization; the id in the entity is never
// trusted from the caller.
type ClientService struct {
	store store.Store
}

func NewClientService(params ClientServiceParams) *ClientService {
	return &ClientService{store: params.Store}
}

// CreateClient creates a client in the current organization. The
// organization id is stamped from the carrier, overwriting whatever the
// caller supplied.
func (s *ClientService) CreateClient(ctx context.Context, client objects.Client) (*objects.Client, error) {
	if err := authz.Require(ctx, authz.RequireAny(scopes.PermissionWriteClients)); err != nil {
		return nil, err
	}

	if client.Name == "" {
		return nil, fmt.Errorf("client name is required")
	}

	if err := scoping.Stamp(ctx, &client); err != nil {
		return nil, err
	}

	if client.ID == uuid.Nil {
		client.ID = uuid.New()
	}

	if userID, ok := contexts.GetUserID(ctx); ok {
		client.CreatedBy = userID
	}

	now := time.Now().UTC()
	client.CreatedAt = now
	client.UpdatedAt = now

	if err := s.store.CreateClient(ctx, &client); err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return &client, nil
}

// GetClient loads a client of the current organization. A client of
// another organization is reported as not found.
func (s *ClientService) GetClient(ctx context.Context, id uuid.UUID) (*objects.Client, error) {
	if err := authz.Require(ctx, authz.RequireAny(scopes.PermissionReadClients)); err != nil {
		return nil, err
	}

	client, err := s.store.GetClient(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, store.ErrNotFound
		}

		return nil, fmt.Errorf("failed to load client: %w", err)
	}

	return client, nil
}

// ListClients returns the current organization's clients.
func (s *ClientService) ListClients(ctx context.Context) ([]*objects.Client, error) {
	if err := authz.Require(ctx, authz.RequireAny(scopes.PermissionReadClients)); err != nil {
		return nil, err
	}

	clients, err := s.store.ListClients(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}

	return clients, nil
}

// DeleteClient deletes a client of the current organization.
func (s *ClientService) DeleteClient(ctx context.Context, id uuid.UUID) error {
	if err := authz.Require(ctx, authz.RequireAny(scopes.PermissionDeleteClients)); err != nil {
		return err
	}

	if err := s.store.DeleteClient(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.ErrNotFound
		}

		return fmt.Errorf("failed to delete client: %w", err)
	}

	return nil
}
