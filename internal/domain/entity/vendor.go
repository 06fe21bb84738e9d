// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Vendor represents a supplier known to accounts payable.
type Vendor struct {
	ID                  uuid.UUID
	ExternalID          string // e.g. "V001", unique
	Name                string
	Category            string
	Address             *string
	DefaultPaymentTerms *string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// NewVendor creates a new Vendor entity.
func NewVendor(externalID, name, category string, address, defaultPaymentTerms *string) *Vendor {
	now := time.Now().UTC()
	return &Vendor{
		ID:                  uuid.New(),
		ExternalID:          externalID,
		Name:                name,
		Category:            category,
		Address:             address,
		DefaultPaymentTerms: defaultPaymentTerms,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}
