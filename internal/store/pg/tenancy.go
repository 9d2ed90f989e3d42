package pg

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/google/uuid"

	"github.com/facturio/facturio/internal/objects"
	"github.com/facturio/facturio/internal/scopes"
	"github.com/facturio/facturio/internal/store"
)

func (s *Store) CreateOrganization(ctx context.Context, org *objects.Organization) error {
	_, err := s.q(ctx).ExecContext(ctx, `
		insert into organizations
			(id, code, name, legal_name, email, phone, address, city, country, is_active, created_at, updated_at)
		values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`, org.ID, org.Code, org.Name, org.LegalName, org.Email, org.Phone,
		org.Address, org.City, org.Country, org.IsActive, org.CreatedAt, org.UpdatedAt)

	return mapError(err)
}

const organizationColumns = `
	id, code, name, legal_name, email, phone, address, city, country,
	is_active, created_at, updated_at, deleted_at`

func scanOrganization(row interface{ Scan(...any) error }) (*objects.Organization, error) {
	var (
		org       objects.Organization
		deletedAt sql.NullTime
	)

	err := row.Scan(&org.ID, &org.Code, &org.Name, &org.LegalName, &org.Email,
		&org.Phone, &org.Address, &org.City, &org.Country,
		&org.IsActive, &org.CreatedAt, &org.UpdatedAt, &deletedAt)
	if err != nil {
		return nil, mapError(err)
	}

	if deletedAt.Valid {
		org.DeletedAt = &deletedAt.Time
	}

	return &org, nil
}

func (s *Store) GetOrganization(ctx context.Context, id uuid.UUID) (*objects.Organization, error) {
	row := s.q(ctx).QueryRowContext(ctx,
		`select `+organizationColumns+` from organizations where id = $1`, id)

	return scanOrganization(row)
}

func (s *Store) GetOrganizationByCode(ctx context.Context, code string) (*objects.Organization, error) {
	row := s.q(ctx).QueryRowContext(ctx,
		`select `+organizationColumns+` from organizations where code = $1`, code)

	return scanOrganization(row)
}

func (s *Store) UpdateOrganization(ctx context.Context, org *objects.Organization) error {
	result, err := s.q(ctx).ExecContext(ctx, `
		update organizations
		set name = $2, legal_name = $3, email = $4, phone = $5, address = $6,
			city = $7, country = $8, is_active = $9, updated_at = $10, deleted_at = $11
		where id = $1
	`, org.ID, org.Name, org.LegalName, org.Email, org.Phone, org.Address,
		org.City, org.Country, org.IsActive, org.UpdatedAt, org.DeletedAt)
	if err != nil {
		return mapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if affected == 0 {
		return store.ErrNotFound
	}

	return nil
}

func (s *Store) ListOrganizationsByIDs(ctx context.Context, ids []uuid.UUID) ([]*objects.Organization, error) {
	organizations := make([]*objects.Organization, 0, len(ids))

	for _, id := range ids {
		org, err := s.GetOrganization(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				continue
			}

			return nil, err
		}

		organizations = append(organizations, org)
	}

	return organizations, nil
}

func (s *Store) CreateUser(ctx context.Context, user *objects.User) error {
	_, err := s.q(ctx).ExecContext(ctx, `
		insert into users (id, email, name, password_hash, is_active, created_at)
		values ($1,$2,$3,$4,$5,$6)
	`, user.ID, user.Email, user.Name, user.PasswordHash, user.IsActive, user.CreatedAt)

	return mapError(err)
}

func (s *Store) GetUser(ctx context.Context, id uuid.UUID) (*objects.User, error) {
	var user objects.User

	err := s.q(ctx).QueryRowContext(ctx, `
		select id, email, name, password_hash, is_active, created_at
		from users where id = $1
	`, id).Scan(&user.ID, &user.Email, &user.Name, &user.PasswordHash, &user.IsActive, &user.CreatedAt)
	if err != nil {
		return nil, mapError(err)
	}

	return &user, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*objects.User, error) {
	var user objects.User

	err := s.q(ctx).QueryRowContext(ctx, `
		select id, email, name, password_hash, is_active, created_at
		from users where email = $1
	`, email).Scan(&user.ID, &user.Email, &user.Name, &user.PasswordHash, &user.IsActive, &user.CreatedAt)
	if err != nil {
		return nil, mapError(err)
	}

	return &user, nil
}

func (s *Store) CreateMembership(ctx context.Context, membership *objects.Membership) error {
	granted, err := json.Marshal(membership.Granted)
	if err != nil {
		return err
	}

	revoked, err := json.Marshal(membership.Revoked)
	if err != nil {
		return err
	}

	_, err = s.q(ctx).ExecContext(ctx, `
		insert into memberships
			(id, user_id, organization_id, role, granted, revoked, is_default, is_active, joined_at)
		values ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, membership.ID, membership.UserID, membership.OrganizationID, string(membership.Role),
		granted, revoked, membership.IsDefault, membership.IsActive, membership.JoinedAt)

	return mapError(err)
}

const membershipColumns = `
	id, user_id, organization_id, role, granted, revoked, is_default, is_active, joined_at`

func scanMembership(row interface{ Scan(...any) error }) (*objects.Membership, error) {
	var (
		membership objects.Membership
		role       string
		granted    []byte
		revoked    []byte
	)

	err := row.Scan(&membership.ID, &membership.UserID, &membership.OrganizationID,
		&role, &granted, &revoked, &membership.IsDefault, &membership.IsActive, &membership.JoinedAt)
	if err != nil {
		return nil, mapError(err)
	}

	membership.Role = scopes.Role(role)

	if err := json.Unmarshal(granted, &membership.Granted); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(revoked, &membership.Revoked); err != nil {
		return nil, err
	}

	return &membership, nil
}

func (s *Store) FindMembership(ctx context.Context, userID, organizationID uuid.UUID) (*objects.Membership, error) {
	row := s.q(ctx).QueryRowContext(ctx,
		`select `+membershipColumns+` from memberships where user_id = $1 and organization_id = $2`,
		userID, organizationID)

	return scanMembership(row)
}

func (s *Store) FindActiveMemberships(ctx context.Context, userID uuid.UUID) ([]*objects.Membership, error) {
	rows, err := s.q(ctx).QueryContext(ctx,
		`select `+membershipColumns+` from memberships where user_id = $1 and is_active order by joined_at`,
		userID)
	if err != nil {
		return nil, mapError(err)
	}

	defer rows.Close()

	var memberships []*objects.Membership

	for rows.Next() {
		membership, err := scanMembership(rows)
		if err != nil {
			return nil, err
		}

		memberships = append(memberships, membership)
	}

	return memberships, rows.Err()
}

func (s *Store) FindDefaultMembership(ctx context.Context, userID uuid.UUID) (*objects.Membership, error) {
	row := s.q(ctx).QueryRowContext(ctx,
		`select `+membershipColumns+` from memberships where user_id = $1 and is_default and is_active`,
		userID)

	return scanMembership(row)
}
