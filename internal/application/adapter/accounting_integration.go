package adapter

import (
	"context"

	"github.com/shopspring/decimal"
)

// BillPayload is the bill sent to an accounting system. Only VendorName and
// TotalAmount are guaranteed to be set.
type BillPayload struct {
	VendorName    string
	TotalAmount   decimal.Decimal
	InvoiceNumber string
	InvoiceDate   string
	DueDate       string
	Description   string
}

// BillResult identifies the bill created in the accounting system.
type BillResult struct {
	Provider   string
	ExternalID string
	Simulated  bool
}

// AccountingIntegration exports approved invoices as bills.
type AccountingIntegration interface {
	Name() string

	// IsConnected reports whether credentials are present and usable.
	IsConnected(ctx context.Context) bool

	// AuthURL returns the consent URL an operator visits to connect the system.
	AuthURL(state string) (string, error)

	CreateBill(ctx context.Context, bill BillPayload) (*BillResult, error)
}
