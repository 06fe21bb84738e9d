package invoice

import (
	"context"
	"fmt"

	"github.com/ap-reconciler/backend/internal/application/adapter"
	"github.com/ap-reconciler/backend/internal/domain/entity"
	domainerror "github.com/ap-reconciler/backend/internal/domain/error"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// ListInvoicesInput represents the input for listing invoices.
type ListInvoicesInput struct {
	Status *string
	Limit  int
	Offset int
}

// ListInvoicesUseCase handles listing invoices for the review workbench.
type ListInvoicesUseCase struct {
	invoiceRepo adapter.InvoiceRepository
}

// NewListInvoicesUseCase creates a new ListInvoicesUseCase instance.
func NewListInvoicesUseCase(invoiceRepo adapter.InvoiceRepository) *ListInvoicesUseCase {
	return &ListInvoicesUseCase{
		invoiceRepo: invoiceRepo,
	}
}

// Execute lists invoices newest first, optionally by status.
func (uc *ListInvoicesUseCase) Execute(ctx context.Context, input ListInvoicesInput) (*entity.InvoiceListResult, error) {
	filter := entity.InvoiceFilter{
		Limit:  input.Limit,
		Offset: input.Offset,
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	if input.Status != nil && *input.Status != "" {
		status := entity.InvoiceStatus(*input.Status)
		if !status.IsValid() {
			return nil, domainerror.NewReconciliationError(
				domainerror.ErrCodeInvalidStatus,
				fmt.Sprintf("unknown invoice status %q", *input.Status),
				nil,
			)
		}
		filter.Status = &status
	}

	result, err := uc.invoiceRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	return result, nil
}
