package invoice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ap-reconciler/backend/internal/application/adapter"
	"github.com/ap-reconciler/backend/internal/domain/entity"
	domainerror "github.com/ap-reconciler/backend/internal/domain/error"
)

// ExportBillOutput represents the exported invoice and the created bill.
type ExportBillOutput struct {
	Invoice *entity.Invoice
	Bill    *adapter.BillResult
}

// ExportBillUseCase creates a bill in the accounting system for an approved invoice.
type ExportBillUseCase struct {
	invoiceRepo adapter.InvoiceRepository
	accounting  adapter.AccountingIntegration
}

// NewExportBillUseCase creates a new ExportBillUseCase instance.
func NewExportBillUseCase(invoiceRepo adapter.InvoiceRepository, accounting adapter.AccountingIntegration) *ExportBillUseCase {
	return &ExportBillUseCase{
		invoiceRepo: invoiceRepo,
		accounting:  accounting,
	}
}

// Execute exports the invoice and stores the external bill id.
func (uc *ExportBillUseCase) Execute(ctx context.Context, id uuid.UUID) (*ExportBillOutput, error) {
	inv, err := findInvoice(ctx, uc.invoiceRepo, id)
	if err != nil {
		return nil, err
	}
	if !inv.CanPerform(entity.ActionExport) {
		return nil, transitionError(inv, entity.ActionExport)
	}
	if !uc.accounting.IsConnected(ctx) {
		return nil, domainerror.NewReconciliationError(
			domainerror.ErrCodeAccountingNotConnected,
			fmt.Sprintf("%s is not connected", uc.accounting.Name()),
			domainerror.ErrAccountingNotConnected,
		)
	}

	payload := adapter.BillPayload{
		VendorName:    inv.VendorName,
		TotalAmount:   inv.TotalAmount,
		InvoiceNumber: deref(inv.InvoiceNumber),
		InvoiceDate:   deref(inv.InvoiceDate),
		DueDate:       deref(inv.DueDate),
		Description:   fmt.Sprintf("Invoice %s from %s", deref(inv.InvoiceNumber), inv.VendorName),
	}

	bill, err := uc.accounting.CreateBill(ctx, payload)
	if err != nil {
		if errors.Is(err, domainerror.ErrAccountingNotConnected) {
			return nil, domainerror.NewReconciliationError(
				domainerror.ErrCodeAccountingNotConnected,
				fmt.Sprintf("%s is not connected", uc.accounting.Name()),
				err,
			)
		}
		return nil, domainerror.NewReconciliationError(
			domainerror.ErrCodeAccountingExportFailed,
			fmt.Sprintf("%s rejected the bill", uc.accounting.Name()),
			errors.Join(domainerror.ErrAccountingExportFailed, err),
		)
	}

	externalID := bill.ExternalID
	inv.ExternalBillID = &externalID
	inv.UpdatedAt = now()
	if err := uc.invoiceRepo.Update(ctx, inv); err != nil {
		return nil, fmt.Errorf("failed to update invoice: %w", err)
	}

	slog.Info("Invoice exported",
		"invoice_id", inv.ID,
		"provider", bill.Provider,
		"external_id", bill.ExternalID,
		"simulated", bill.Simulated,
	)

	return &ExportBillOutput{
		Invoice: inv,
		Bill:    bill,
	}, nil
}
