package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents where an invoice is in the AP workflow.
type InvoiceStatus string

const (
	InvoiceStatusProcessed InvoiceStatus = "processed"
	InvoiceStatusFlagged   InvoiceStatus = "flagged"
	InvoiceStatusReview    InvoiceStatus = "review"
	InvoiceStatusApproved  InvoiceStatus = "approved"
	InvoiceStatusRejected  InvoiceStatus = "rejected"
	InvoiceStatusPaid      InvoiceStatus = "paid"
)

// IsValid reports whether the status is a known value.
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusProcessed, InvoiceStatusFlagged, InvoiceStatusReview,
		InvoiceStatusApproved, InvoiceStatusRejected, InvoiceStatusPaid:
		return true
	}
	return false
}

// InvoiceAction names a workbench action on an invoice.
type InvoiceAction string

const (
	ActionRevalidate InvoiceAction = "revalidate"
	ActionApprove    InvoiceAction = "approve"
	ActionReject     InvoiceAction = "reject"
	ActionPay        InvoiceAction = "pay"
	ActionExport     InvoiceAction = "export"
)

var allowedFrom = map[InvoiceAction][]InvoiceStatus{
	ActionRevalidate: {InvoiceStatusProcessed, InvoiceStatusFlagged, InvoiceStatusReview},
	ActionApprove:    {InvoiceStatusProcessed, InvoiceStatusFlagged, InvoiceStatusReview},
	ActionReject:     {InvoiceStatusProcessed, InvoiceStatusFlagged, InvoiceStatusReview},
	ActionPay:        {InvoiceStatusApproved},
	ActionExport:     {InvoiceStatusApproved, InvoiceStatusPaid},
}

// Invoice represents an ingested vendor invoice and its reconciliation snapshot.
type Invoice struct {
	ID                   uuid.UUID
	VendorID             *uuid.UUID
	VendorName           string // as extracted
	InvoiceNumber        *string
	InvoiceDate          *string // YYYY-MM-DD
	PONumber             *string // as extracted
	TotalAmount          decimal.Decimal
	Status               InvoiceStatus
	PaymentTerms         *string
	DueDate              *string
	DiscountDate         *string
	OptimalPaymentDate   *string
	PotentialSavings     decimal.Decimal
	DiscountCaptured     bool
	MatchType            string
	MatchMessage         string
	ApprovalRoute        string
	ExtractionConfidence *float64
	RawExtraction        []byte // JSON, written once at ingestion
	DocumentHash         *string
	SourceFilename       *string
	ReviewerID           *uuid.UUID
	ReviewNotes          *string
	ExternalBillID       *string
	Lines                []InvoiceLine
	Anomalies            []Anomaly
	PaidAt               *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// NewInvoice creates an Invoice with zero savings and the given status.
func NewInvoice(vendorName string, total decimal.Decimal, status InvoiceStatus) *Invoice {
	now := time.Now().UTC()
	return &Invoice{
		ID:               uuid.New(),
		VendorName:       vendorName,
		TotalAmount:      total,
		Status:           status,
		PotentialSavings: decimal.Zero,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// CanPerform reports whether action is allowed from the current status.
func (i *Invoice) CanPerform(action InvoiceAction) bool {
	for _, s := range allowedFrom[action] {
		if i.Status == s {
			return true
		}
	}
	return false
}

// IsOutstanding reports whether the invoice still needs to be paid.
func (i *Invoice) IsOutstanding() bool {
	return i.Status != InvoiceStatusPaid && i.Status != InvoiceStatusRejected
}

// InvoiceLine is one line item of an invoice.
type InvoiceLine struct {
	ID          uuid.UUID
	InvoiceID   uuid.UUID
	Position    int
	Description *string
	Quantity    *decimal.Decimal
	UnitPrice   *decimal.Decimal
	LineTotal   *decimal.Decimal
}

// NewInvoiceLine creates an empty line at the given 1-based position.
func NewInvoiceLine(invoiceID uuid.UUID, position int) InvoiceLine {
	return InvoiceLine{
		ID:        uuid.New(),
		InvoiceID: invoiceID,
		Position:  position,
	}
}

// InvoiceFilter narrows invoice listings.
type InvoiceFilter struct {
	Status *InvoiceStatus
	Limit  int
	Offset int
}

// InvoiceListResult represents the result of listing invoices.
type InvoiceListResult struct {
	Invoices []*Invoice
	Total    int64
}
