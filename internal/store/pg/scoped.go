package pg

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/facturio/facturio/internal/objects"
	"github.com/facturio/facturio/internal/scoping"
	"github.com/facturio/facturio/internal/store"
)

func (s *Store) CreateClient(ctx context.Context, client *objects.Client) error {
	if err := scoping.AssertSameOrganization(ctx, client); err != nil {
		return err
	}

	_, err := s.q(ctx).ExecContext(ctx, `
		insert into clients
			(id, organization_id, name, email, phone, address, city, country, created_by, created_at, updated_at)
		values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`, client.ID, client.OrganizationID, client.Name, client.Email, client.Phone,
		client.Address, client.City, client.Country, client.CreatedBy, client.CreatedAt, client.UpdatedAt)

	return mapError(err)
}

const clientColumns = `
	id, organization_id, name, email, phone, address, city, country,
	created_by, created_at, updated_at`

func scanClient(row interface{ Scan(...any) error }) (*objects.Client, error) {
	var client objects.Client

	err := row.Scan(&client.ID, &client.OrganizationID, &client.Name, &client.Email,
		&client.Phone, &client.Address, &client.City, &client.Country,
		&client.CreatedBy, &client.CreatedAt, &client.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}

	return &client, nil
}

func (s *Store) GetClient(ctx context.Context, id uuid.UUID) (*objects.Client, error) {
	orgID, err := scopedOrgID(ctx)
	if err != nil {
		return nil, err
	}

	row := s.q(ctx).QueryRowContext(ctx,
		`select `+clientColumns+` from clients where id = $1 and organization_id = $2`,
		id, orgID)

	return scanClient(row)
}

func (s *Store) ListClients(ctx context.Context) ([]*objects.Client, error) {
	orgID, err := scopedOrgID(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := s.q(ctx).QueryContext(ctx,
		`select `+clientColumns+` from clients where organization_id = $1 order by created_at`,
		orgID)
	if err != nil {
		return nil, mapError(err)
	}

	defer rows.Close()

	var clients []*objects.Client

	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, err
		}

		clients = append(clients, client)
	}

	return clients, rows.Err()
}

func (s *Store) DeleteClient(ctx context.Context, id uuid.UUID) error {
	orgID, err := scopedOrgID(ctx)
	if err != nil {
		return err
	}

	result, err := s.q(ctx).ExecContext(ctx,
		`delete from clients where id = $1 and organization_id = $2`, id, orgID)
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

func (s *Store) CreateInvoice(ctx context.Context, invoice *objects.Invoice) error {
	if err := scoping.AssertSameOrganization(ctx, invoice); err != nil {
		return err
	}

	_, err := s.q(ctx).ExecContext(ctx, `
		insert into invoices
			(id, organization_id, client_id, number, status, total_cents, currency,
			 issued_at, due_at, description, created_by, created_at, updated_at)
		values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`, invoice.ID, invoice.OrganizationID, invoice.ClientID, invoice.Number,
		string(invoice.Status), invoice.TotalCents, invoice.Currency,
		invoice.IssuedAt, invoice.DueAt, invoice.Description,
		invoice.CreatedBy, invoice.CreatedAt, invoice.UpdatedAt)

	return mapError(err)
}

const invoiceColumns = `
	id, organization_id, client_id, number, status, total_cents, currency,
	issued_at, due_at, description, created_by, created_at, updated_at`

func scanInvoice(row interface{ Scan(...any) error }) (*objects.Invoice, error) {
	var (
		invoice  objects.Invoice
		status   string
		issuedAt sql.NullTime
		dueAt    sql.NullTime
	)

	err := row.Scan(&invoice.ID, &invoice.OrganizationID, &invoice.ClientID, &invoice.Number,
		&status, &invoice.TotalCents, &invoice.Currency,
		&issuedAt, &dueAt, &invoice.Description,
		&invoice.CreatedBy, &invoice.CreatedAt, &invoice.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}

	invoice.Status = objects.InvoiceStatus(status)

	if issuedAt.Valid {
		invoice.IssuedAt = &issuedAt.Time
	}

	if dueAt.Valid {
		invoice.DueAt = &dueAt.Time
	}

	return &invoice, nil
}

func (s *Store) GetInvoice(ctx context.Context, id uuid.UUID) (*objects.Invoice, error) {
	orgID, err := scopedOrgID(ctx)
	if err != nil {
		return nil, err
	}

	row := s.q(ctx).QueryRowContext(ctx,
		`select `+invoiceColumns+` from invoices where id = $1 and organization_id = $2`,
		id, orgID)

	return scanInvoice(row)
}

func (s *Store) ListInvoices(ctx context.Context) ([]*objects.Invoice, error) {
	orgID, err := scopedOrgID(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := s.q(ctx).QueryContext(ctx,
		`select `+invoiceColumns+` from invoices where organization_id = $1 order by created_at`,
		orgID)
	if err != nil {
		return nil, mapError(err)
	}

	defer rows.Close()

	var invoices []*objects.Invoice

	for rows.Next() {
		invoice, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}

		invoices = append(invoices, invoice)
	}

	return invoices, rows.Err()
}
