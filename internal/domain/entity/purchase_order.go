package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// POStatus represents the lifecycle status of a purchase order.
type POStatus string

const (
	POStatusActive POStatus = "active"
	POStatusClosed POStatus = "closed"
)

// IsValid reports whether the status is a known value.
func (s POStatus) IsValid() bool {
	return s == POStatusActive || s == POStatusClosed
}

// DefaultPOTolerance is the fraction an invoice may deviate from the PO amount.
var DefaultPOTolerance = decimal.NewFromFloat(0.10)

// PurchaseOrder represents an authorization to buy from a vendor.
type PurchaseOrder struct {
	ID             uuid.UUID
	PONumber       string
	VendorID       uuid.UUID
	Vendor         *Vendor // populated by store lookups
	Description    *string
	ExpectedAmount decimal.Decimal
	Tolerance      decimal.Decimal // fraction in [0, 1]
	Status         POStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewPurchaseOrder creates a new active PurchaseOrder.
func NewPurchaseOrder(poNumber string, vendorID uuid.UUID, expected, tolerance decimal.Decimal, description *string) *PurchaseOrder {
	now := time.Now().UTC()
	return &PurchaseOrder{
		ID:             uuid.New(),
		PONumber:       poNumber,
		VendorID:       vendorID,
		Description:    description,
		ExpectedAmount: expected,
		Tolerance:      tolerance,
		Status:         POStatusActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// IsClosed reports whether the PO no longer accepts invoices.
func (p *PurchaseOrder) IsClosed() bool {
	return p.Status == POStatusClosed
}

// ToleranceAmount returns expected * tolerance.
func (p *PurchaseOrder) ToleranceAmount() decimal.Decimal {
	return p.ExpectedAmount.Mul(p.Tolerance)
}

// VendorName returns the name of the preloaded vendor, or "" when not loaded.
func (p *PurchaseOrder) VendorName() string {
	if p.Vendor == nil {
		return ""
	}
	return p.Vendor.Name
}

// ValidTolerance reports whether t lies in [0, 1].
func ValidTolerance(t decimal.Decimal) bool {
	return !t.IsNegative() && t.LessThanOrEqual(decimal.NewFromInt(1))
}
