package invoice

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ap-reconciler/backend/internal/application/adapter"
	"github.com/ap-reconciler/backend/internal/domain/entity"
	domainerror "github.com/ap-reconciler/backend/internal/domain/error"
)

// GetInvoiceUseCase handles fetching one invoice with lines and anomalies.
type GetInvoiceUseCase struct {
	invoiceRepo adapter.InvoiceRepository
}

// NewGetInvoiceUseCase creates a new GetInvoiceUseCase instance.
func NewGetInvoiceUseCase(invoiceRepo adapter.InvoiceRepository) *GetInvoiceUseCase {
	return &GetInvoiceUseCase{
		invoiceRepo: invoiceRepo,
	}
}

// Execute fetches the invoice.
func (uc *GetInvoiceUseCase) Execute(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	return findInvoice(ctx, uc.invoiceRepo, id)
}

func findInvoice(ctx context.Context, repo adapter.InvoiceRepository, id uuid.UUID) (*entity.Invoice, error) {
	inv, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainerror.ErrInvoiceNotFound) {
			return nil, domainerror.NewReconciliationError(
				domainerror.ErrCodeInvoiceNotFound,
				fmt.Sprintf("invoice %s not found", id),
				domainerror.ErrInvoiceNotFound,
			)
		}
		return nil, fmt.Errorf("failed to find invoice: %w", err)
	}
	return inv, nil
}

func transitionError(inv *entity.Invoice, action entity.InvoiceAction) error {
	return domainerror.NewReconciliationError(
		domainerror.ErrCodeInvalidTransition,
		fmt.Sprintf("cannot %s an invoice in status %s", action, inv.Status),
		domainerror.ErrInvalidStatusTransition,
	)
}
