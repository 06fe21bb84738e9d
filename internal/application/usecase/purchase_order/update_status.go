package purchaseorder

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ap-reconciler/backend/internal/application/adapter"
	"github.com/ap-reconciler/backend/internal/domain/entity"
	domainerror "github.com/ap-reconciler/backend/internal/domain/error"
)

// UpdateStatusInput represents the input for a PO status change.
type UpdateStatusInput struct {
	PONumber string
	Status   entity.POStatus
}

// UpdateStatusUseCase opens or closes a PO.
type UpdateStatusUseCase struct {
	poRepo adapter.PurchaseOrderRepository
}

// NewUpdateStatusUseCase creates a new UpdateStatusUseCase instance.
func NewUpdateStatusUseCase(poRepo adapter.PurchaseOrderRepository) *UpdateStatusUseCase {
	return &UpdateStatusUseCase{
		poRepo: poRepo,
	}
}

// Execute applies the status change.
func (uc *UpdateStatusUseCase) Execute(ctx context.Context, input UpdateStatusInput) (*entity.PurchaseOrder, error) {
	if !input.Status.IsValid() {
		return nil, domainerror.NewReconciliationError(
			domainerror.ErrCodeInvalidStatus,
			fmt.Sprintf("status must be %q or %q", entity.POStatusActive, entity.POStatusClosed),
			nil,
		)
	}

	po, err := findPO(ctx, uc.poRepo, input.PONumber)
	if err != nil {
		return nil, err
	}
	if po.Status == input.Status {
		return po, nil
	}

	if err := uc.poRepo.UpdateStatus(ctx, po.ID, input.Status); err != nil {
		return nil, fmt.Errorf("failed to update purchase order status: %w", err)
	}
	slog.Info("Purchase order status changed", "po_number", po.PONumber, "from", po.Status, "to", input.Status)
	po.Status = input.Status

	return po, nil
}
