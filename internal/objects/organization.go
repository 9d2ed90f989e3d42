package objects

import (
	"time"

	"github.com/google/uuid"
)

// Organization is the isolation boundary of the system. All business data
// belongs to exactly one organization.
type Organization struct {
	ID uuid.UUID `json:"id"`

	// Code is the unique short identifier of the organization.
	// Immutable once assigned.
	Code string `json:"code"`

	Name      string `json:"name"`
	LegalName string `json:"legal_name,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
	City      string `json:"city,omitempty"`
	Country   string `json:"country,omitempty"`

	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// Deleted reports whether the organization was soft-deleted.
func (o Organization) Deleted() bool {
	return o.DeletedAt != nil
}

// OrganizationPatch carries the mutable display and contact fields of an
// organization. Code and id are immutable and deliberately absent.
type OrganizationPatch struct {
	Name      *string `json:"name,omitempty"`
	LegalName *string `json:"legal_name,omitempty"`
	Email     *string `json:"email,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Address   *string `json:"address,omitempty"`
	City      *string `json:"city,omitempty"`
	Country   *string `json:"country,omitempty"`
}

// Apply merges the non-nil patch fields into the organization.
func (p OrganizationPatch) Apply(org *Organization) {
	if p.Name != nil {
		org.Name = *p.Name
	}

	if p.LegalName != nil {
		org.LegalName = *p.LegalName
	}

	if p.Email != nil {
		org.Email = *p.Email
	}

	if p.Phone != nil {
		org.Phone = *p.Phone
	}

	if p.Address != nil {
		org.Address = *p.Address
	}

	if p.City != nil {
		org.City = *p.City
	}

	if p.Country != nil {
		org.Country = *p.Country
	}
}
