package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/ap-reconciler/backend/internal/domain/entity"
)

// InvoiceRepository defines the interface for invoice persistence operations.
type InvoiceRepository interface {
	// Create stores the invoice with its lines and anomalies in one transaction.
	Create(ctx context.Context, invoice *entity.Invoice) error

	// FindByID retrieves an invoice with lines and anomalies.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)

	// FindByDocumentHash retrieves the invoice ingested from the given document, if any.
	FindByDocumentHash(ctx context.Context, hash string) (*entity.Invoice, error)

	// List retrieves invoices newest first.
	List(ctx context.Context, filter entity.InvoiceFilter) (*entity.InvoiceListResult, error)

	// ListAll retrieves every invoice without lines, for schedules and analytics.
	ListAll(ctx context.Context) ([]*entity.Invoice, error)

	// Update saves invoice fields and replaces its anomalies. Lines and the raw
	// extraction payload are never rewritten.
	Update(ctx context.Context, invoice *entity.Invoice) error
}
