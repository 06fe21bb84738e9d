package invoice

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ap-reconciler/backend/internal/application/adapter"
	"github.com/ap-reconciler/backend/internal/domain/entity"
)

// MarkPaidUseCase records that an approved invoice was paid.
type MarkPaidUseCase struct {
	invoiceRepo adapter.InvoiceRepository
}

// NewMarkPaidUseCase creates a new MarkPaidUseCase instance.
func NewMarkPaidUseCase(invoiceRepo adapter.InvoiceRepository) *MarkPaidUseCase {
	return &MarkPaidUseCase{
		invoiceRepo: invoiceRepo,
	}
}

// Execute marks the invoice paid.
func (uc *MarkPaidUseCase) Execute(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	inv, err := findInvoice(ctx, uc.invoiceRepo, id)
	if err != nil {
		return nil, err
	}
	if !inv.CanPerform(entity.ActionPay) {
		return nil, transitionError(inv, entity.ActionPay)
	}

	paidAt := now()
	inv.Status = entity.InvoiceStatusPaid
	inv.PaidAt = &paidAt
	inv.UpdatedAt = paidAt

	if err := uc.invoiceRepo.Update(ctx, inv); err != nil {
		return nil, fmt.Errorf("failed to update invoice: %w", err)
	}

	slog.Info("Invoice paid", "invoice_id", inv.ID, "discount_captured", inv.DiscountCaptured)
	return inv, nil
}
