// Package purchaseorder contains purchase order and goods receipt use cases.
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
)

// CreatePurchaseOrderInput represents the input for PO creation.
type CreatePurchaseOrderInput struct {
	PONumber         string
	VendorExternalID string
	ExpectedAmount   decimal.Decimal
	Tolerance        *decimal.Decimal // Optional, defaults to 0.10
	Description      *string
}

// CreatePurchaseOrderOutput represents the output of PO creation.
type CreatePurchaseOrderOutput struct {
	PurchaseOrder *entity.PurchaseOrder
}

// CreatePurchaseOrderUseCase handles PO creation logic.
type CreatePurchaseOrderUseCase struct {
	poRepo     adapter.PurchaseOrderRepository
	vendorRepo adapter.VendorRepository
}

// NewCreatePurchaseOrderUseCase creates a new CreatePurchaseOrderUseCase instance.
func NewCreatePurchaseOrderUseCase(poRepo adapter.PurchaseOrderRepository, vendorRepo adapter.VendorRepository) *CreatePurchaseOrderUseCase {
	return &CreatePurchaseOrderUseCase{
		poRepo:     poRepo,
		vendorRepo: vendorRepo,
	}
}

// Execute performs the PO creation.
func (uc *CreatePurchaseOrderUseCase) Execute(ctx context.Context, input CreatePurchaseOrderInput) (*CreatePurchaseOrderOutput, error) {
	poNumber := strings.ToUpper(strings.TrimSpace(input.PONumber))
	if poNumber == "" || strings.TrimSpace(input.VendorExternalID) == "" {
		return nil, domainerror.NewReconciliationError(
			domainerror.ErrCodeMissingFields,
			"po_number and vendor_id are required",
			nil,
		)
	}

	if input.ExpectedAmount.IsNegative() {
		return nil, domainerror.NewReconciliationError(
			domainerror.ErrCodeInvalidAmount,
			"expected_amount must not be negative",
			domainerror.ErrInvalidAmount,
		)
	}

	tolerance := entity.DefaultPOTolerance
	if input.Tolerance != nil {
		tolerance = *input.Tolerance
	}
	if !entity.ValidTolerance(tolerance) {
		return nil, domainerror.NewReconciliationError(
			domainerror.ErrCodeInvalidTolerance,
			fmt.Sprintf("tolerance %s must be between 0 and 1", tolerance.String()),
			domainerror.ErrInvalidTolerance,
		)
	}

	vendor, err := uc.vendorRepo.FindByExternalID(ctx, strings.TrimSpace(input.VendorExternalID))
	if err != nil {
		if errors.Is(err, domainerror.ErrVendorNotFound) {
			return nil, domainerror.NewReconciliationError(
				domainerror.ErrCodeVendorNotFound,
				fmt.Sprintf("vendor %s not found", input.VendorExternalID),
				domainerror.ErrVendorNotFound,
			)
		}
		return nil, fmt.Errorf("failed to find vendor: %w", err)
	}

	existing, err := uc.poRepo.FindByNumber(ctx, poNumber)
	if err != nil && !errors.Is(err, domainerror.ErrPurchaseOrderNotFound) {
		return nil, fmt.Errorf("failed to check purchase order: %w", err)
	}
	if existing != nil {
		return nil, domainerror.NewReconciliationError(
			domainerror.ErrCodePurchaseOrderExists,
			fmt.Sprintf("purchase order %s already exists", poNumber),
			domainerror.ErrPurchaseOrderAlreadyExists,
		)
	}

	po := entity.NewPurchaseOrder(poNumber, vendor.ID, input.ExpectedAmount, tolerance, input.Description)
	if err := uc.poRepo.Create(ctx, po); err != nil {
		return nil, fmt.Errorf("failed to create purchase order: %w", err)
	}
	po.Vendor = vendor

	return &CreatePurchaseOrderOutput{PurchaseOrder: po}, nil
}

func notFound(poNumber string) error {
	return domainerror.NewReconciliationError(
		domainerror.ErrCodePurchaseOrderNotFound,
		fmt.Sprintf("purchase order %s not found", poNumber),
		domainerror.ErrPurchaseOrderNotFound,
	)
}

// findPO maps the repository miss to a typed not-found error.
func findPO(ctx context.Context, repo adapter.PurchaseOrderRepository, poNumber string) (*entity.PurchaseOrder, error) {
	po, err := repo.FindByNumber(ctx, strings.TrimSpace(poNumber))
	if err != nil {
		if errors.Is(err, domainerror.ErrPurchaseOrderNotFound) {
			return nil, notFound(poNumber)
		}
		return nil, fmt.Errorf("failed to find purchase order: %w", err)
	}
	return po, nil
}
