// Package memory is an in-memory store implementation used by tests and
// single-process development mode. It applies the same tenancy contract as
// the SQL implementation: scoped reads are filtered by the carrier's
// organization id, and scoped writes are rejected when the entity's stamp
// does not match the carrier.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/facturio/facturio/internal/contexts"
	"github.com/facturio/facturio/internal/objects"
	"github.com/facturio/facturio/internal/scoping"
	"github.com/facturio/facturio/internal/store"
)

// Store keeps all entities in maps guarded by a single RW mutex.
type Store struct {
	mu sync.RWMutex

	// txMu serializes transactions; rollback restores a snapshot.
	txMu sync.Mutex

	organizations map[uuid.UUID]objects.Organization
	users         map[uuid.UUID]objects.User
	memberships   map[uuid.UUID]objects.Membership
	clients       map[uuid.UUID]objects.Client
	invoices      map[uuid.UUID]objects.Invoice
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		organizations: map[uuid.UUID]objects.Organization{},
		users:         map[uuid.UUID]objects.User{},
		memberships:   map[uuid.UUID]objects.Membership{},
		clients:       map[uuid.UUID]objects.Client{},
		invoices:      map[uuid.UUID]objects.Invoice{},
	}
}

func (s *Store) Close() error { return nil }

// CreateOrganization persists a new organization, enforcing code
// uniqueness.
func (s *Store) CreateOrganization(_ context.Context, org *objects.Organization) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.organizations {
		if existing.Code == org.Code {
			return store.ErrConflict
		}
	}

	s.organizations[org.ID] = *org

	return nil
}

func (s *Store) GetOrganization(_ context.Context, id uuid.UUID) (*objects.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	org, ok := s.organizations[id]
	if !ok {
		return nil, store.ErrNotFound
	}

	return &org, nil
}

func (s *Store) GetOrganizationByCode(_ context.Context, code string) (*objects.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, org := range s.organizations {
		if org.Code == code {
			result := org
			return &result, nil
		}
	}

	return nil, store.ErrNotFound
}

func (s *Store) UpdateOrganization(_ context.Context, org *objects.Organization) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.organizations[org.ID]; !ok {
		return store.ErrNotFound
	}

	s.organizations[org.ID] = *org

	return nil
}

func (s *Store) ListOrganizationsByIDs(_ context.Context, ids []uuid.UUID) ([]*objects.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	organizations := make([]*objects.Organization, 0, len(ids))

	for _, id := range ids {
		if org, ok := s.organizations[id]; ok {
			result := org
			organizations = append(organizations, &result)
		}
	}

	return organizations, nil
}

func (s *Store) CreateUser(_ context.Context, user *objects.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == user.Email {
			return store.ErrConflict
		}
	}

	s.users[user.ID] = *user

	return nil
}

func (s *Store) GetUser(_ context.Context, id uuid.UUID) (*objects.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}

	return &user, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*objects.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Email == email {
			result := user
			return &result, nil
		}
	}

	return nil, store.ErrNotFound
}

func (s *Store) CreateMembership(_ context.Context, membership *objects.Membership) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.memberships {
		if existing.UserID == membership.UserID && existing.OrganizationID == membership.OrganizationID {
			return store.ErrConflict
		}
	}

	s.memberships[membership.ID] = *membership

	return nil
}

func (s *Store) FindMembership(_ context.Context, userID, organizationID uuid.UUID) (*objects.Membership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, membership := range s.memberships {
		if membership.UserID == userID && membership.OrganizationID == organizationID {
			result := membership
			return &result, nil
		}
	}

	return nil, store.ErrNotFound
}

func (s *Store) FindActiveMemberships(_ context.Context, userID uuid.UUID) ([]*objects.Membership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var memberships []*objects.Membership

	for _, membership := range s.memberships {
		if membership.UserID == userID && membership.IsActive {
			result := membership
			memberships = append(memberships, &result)
		}
	}

	sort.Slice(memberships, func(i, j int) bool {
		return memberships[i].JoinedAt.Before(memberships[j].JoinedAt)
	})

	return memberships, nil
}

func (s *Store) FindDefaultMembership(_ context.Context, userID uuid.UUID) (*objects.Membership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, membership := range s.memberships {
		if membership.UserID == userID && membership.IsDefault && membership.IsActive {
			result := membership
			return &result, nil
		}
	}

	return nil, store.ErrNotFound
}

// RunInTransaction serializes transactions and restores a snapshot of the
// whole store when fn fails.
func (s *Store) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	snapshot := s.snapshot()

	if err := fn(ctx); err != nil {
		s.restore(snapshot)
		return err
	}

	return nil
}

type snapshot struct {
	organizations map[uuid.UUID]objects.Organization
	users         map[uuid.UUID]objects.User
	memberships   map[uuid.UUID]objects.Membership
	clients       map[uuid.UUID]objects.Client
	invoices      map[uuid.UUID]objects.Invoice
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return snapshot{
		organizations: cloneMap(s.organizations),
		users:         cloneMap(s.users),
		memberships:   cloneMap(s.memberships),
		clients:       cloneMap(s.clients),
		invoices:      cloneMap(s.invoices),
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.organizations = snap.organizations
	s.users = snap.users
	s.memberships = snap.memberships
	s.clients = snap.clients
	s.invoices = snap.invoices
}

func cloneMap[V any](src map[uuid.UUID]V) map[uuid.UUID]V {
	dst := make(map[uuid.UUID]V, len(src))
	for k, v := range src {
		dst[k] = v
	}

	return dst
}

// scopedOrgID is the mandatory predicate applied to every scoped
// operation.
func scopedOrgID(ctx context.Context) (uuid.UUID, error) {
	return contexts.RequireOrganizationID(ctx)
}

// assertStamped rejects writes whose entity stamp does not match the
// carrier.
func assertStamped(ctx context.Context, entity objects.OrganizationScoped) error {
	return scoping.AssertSameOrganization(ctx, entity)
}
