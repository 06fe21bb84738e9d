package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ap-reconciler/backend/internal/application/adapter"
	"github.com/ap-reconciler/backend/internal/domain/entity"
	domainerror "github.com/ap-reconciler/backend/internal/domain/error"
	"github.com/ap-reconciler/backend/internal/integration/persistence/model"
)

// reconciliationStore implements the adapter.ReconciliationStore interface.
// Misses are (nil, nil); every error is a store failure.
type reconciliationStore struct {
	db *gorm.DB
}

// NewReconciliationStore creates a new reconciliation store instance.
func NewReconciliationStore(db *gorm.DB) adapter.ReconciliationStore {
	return &reconciliationStore{
		db: db,
	}
}

// FindVendorByName finds a vendor by trimmed name, ignoring case.
func (s *reconciliationStore) FindVendorByName(ctx context.Context, name string) (*entity.Vendor, error) {
	var vendorModel model.VendorModel
	result := s.db.WithContext(ctx).
		Where("LOWER(TRIM(name)) = ?", strings.ToLower(strings.TrimSpace(name))).
		Order(vendorOrder).
		First(&vendorModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, domainerror.NewStoreError("find vendor by name", result.Error)
	}
	return vendorModel.ToEntity(), nil
}

// ListVendors returns all vendors in store order.
func (s *reconciliationStore) ListVendors(ctx context.Context) ([]*entity.Vendor, error) {
	var models []model.VendorModel
	if err := s.db.WithContext(ctx).Order(vendorOrder).Find(&models).Error; err != nil {
		return nil, domainerror.NewStoreError("list vendors", err)
	}

	vendors := make([]*entity.Vendor, len(models))
	for i := range models {
		vendors[i] = models[i].ToEntity()
	}
	return vendors, nil
}

// FindPOByNumber finds a PO by trimmed number, ignoring case, with its vendor.
func (s *reconciliationStore) FindPOByNumber(ctx context.Context, poNumber string) (*entity.PurchaseOrder, error) {
	var poModel model.PurchaseOrderModel
	result := s.db.WithContext(ctx).
		Preload("Vendor").
		Where("LOWER(po_number) = ?", strings.ToLower(strings.TrimSpace(poNumber))).
		First(&poModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, domainerror.NewStoreError("find purchase order", result.Error)
	}
	return poModel.ToEntity(), nil
}

// SumReceiptsForPO sums receipt amounts in decimal. SQL SUM is avoided because
// sqlite returns it as a float.
func (s *reconciliationStore) SumReceiptsForPO(ctx context.Context, purchaseOrderID uuid.UUID) (decimal.Decimal, int, error) {
	var amounts []decimal.Decimal
	if err := s.db.WithContext(ctx).
		Model(&model.GoodsReceiptModel{}).
		Where("purchase_order_id = ?", purchaseOrderID).
		Pluck("amount", &amounts).Error; err != nil {
		return decimal.Zero, 0, domainerror.NewStoreError("sum goods receipts", err)
	}

	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total, len(amounts), nil
}
