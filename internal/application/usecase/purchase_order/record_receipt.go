package purchaseorder

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ap-reconciler/backend/internal/application/adapter"
	"github.com/ap-reconciler/backend/internal/domain/entity"
	domainerror "github.com/ap-reconciler/backend/internal/domain/error"
	"github.com/ap-reconciler/backend/internal/domain/valueobject"
)

// RecordReceiptInput represents the input for recording goods received.
type RecordReceiptInput struct {
	PONumber      string
	ReceiptNumber string
	ReceivedDate  string
	Amount        decimal.Decimal
	Notes         *string
}

// RecordReceiptUseCase records a goods receipt against a PO.
type RecordReceiptUseCase struct {
	poRepo adapter.PurchaseOrderRepository
}

// NewRecordReceiptUseCase creates a new RecordReceiptUseCase instance.
func NewRecordReceiptUseCase(poRepo adapter.PurchaseOrderRepository) *RecordReceiptUseCase {
	return &RecordReceiptUseCase{
		poRepo: poRepo,
	}
}

// Execute validates and stores the receipt.
func (uc *RecordReceiptUseCase) Execute(ctx context.Context, input RecordReceiptInput) (*entity.GoodsReceipt, error) {
	receiptNumber := strings.TrimSpace(input.ReceiptNumber)
	if receiptNumber == "" {
		return nil, domainerror.NewReconciliationError(
			domainerror.ErrCodeMissingFields,
			"receipt_number is required",
			nil,
		)
	}
	if !valueobject.IsValidDate(input.ReceivedDate) {
		return nil, domainerror.NewReconciliationError(
			domainerror.ErrCodeInvalidInvoiceDate,
			fmt.Sprintf("invalid received date %q, use YYYY-MM-DD", input.ReceivedDate),
			domainerror.ErrInvalidInvoiceDate,
		)
	}
	if input.Amount.IsNegative() {
		return nil, domainerror.NewReconciliationError(
			domainerror.ErrCodeInvalidAmount,
			"amount must not be negative",
			domainerror.ErrInvalidAmount,
		)
	}

	po, err := findPO(ctx, uc.poRepo, input.PONumber)
	if err != nil {
		return nil, err
	}

	receipt := entity.NewGoodsReceipt(receiptNumber, po.ID, input.ReceivedDate, input.Amount, input.Notes)
	if err := uc.poRepo.CreateReceipt(ctx, receipt); err != nil {
		if errors.Is(err, domainerror.ErrGoodsReceiptAlreadyExists) {
			return nil, domainerror.NewReconciliationError(
				domainerror.ErrCodeGoodsReceiptExists,
				fmt.Sprintf("goods receipt %s already exists", receiptNumber),
				domainerror.ErrGoodsReceiptAlreadyExists,
			)
		}
		return nil, fmt.Errorf("failed to record goods receipt: %w", err)
	}

	return receipt, nil
}

// ListReceiptsUseCase lists the receipts of a PO.
type ListReceiptsUseCase struct {
	poRepo adapter.PurchaseOrderRepository
}

// NewListReceiptsUseCase creates a new ListReceiptsUseCase instance.
func NewListReceiptsUseCase(poRepo adapter.PurchaseOrderRepository) *ListReceiptsUseCase {
	return &ListReceiptsUseCase{
		poRepo: poRepo,
	}
}

// Execute lists receipts ordered by received date.
func (uc *ListReceiptsUseCase) Execute(ctx context.Context, poNumber string) ([]*entity.GoodsReceipt, error) {
	po, err := findPO(ctx, uc.poRepo, poNumber)
	if err != nil {
		return nil, err
	}
	receipts, err := uc.poRepo.ListReceipts(ctx, po.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list goods receipts: %w", err)
	}
	return receipts, nil
}
