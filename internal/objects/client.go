package objects

import (
	"time"

	"github.com/google/uuid"
)

// Client is a customer of the organization, the entity invoices and quotes
// are issued to.
type Client struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organization_id"`

	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	Country string `json:"country,omitempty"`

	CreatedBy uuid.UUID `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Client) GetOrganizationID() uuid.UUID { return c.OrganizationID }

func (c *Client) SetOrganizationID(orgID uuid.UUID) { c.OrganizationID = orgID }
