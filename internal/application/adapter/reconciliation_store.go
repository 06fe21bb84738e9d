// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ap-reconciler/backend/internal/domain/entity"
)

// ReconciliationStore is the read side the reconciliation engine depends on.
// Lookups that find nothing return (nil, nil). Any returned error is a storage
// failure and wraps domainerror.ErrStoreUnavailable.
type ReconciliationStore interface {
	// FindVendorByName returns the vendor whose trimmed name equals name, ignoring case.
	FindVendorByName(ctx context.Context, name string) (*entity.Vendor, error)

	// ListVendors returns all vendors ordered by created_at, then external_id.
	ListVendors(ctx context.Context) ([]*entity.Vendor, error)

	// FindPOByNumber returns the PO with its vendor preloaded. Matching ignores case.
	FindPOByNumber(ctx context.Context, poNumber string) (*entity.PurchaseOrder, error)

	// SumReceiptsForPO returns the sum of receipt amounts and the receipt count.
	SumReceiptsForPO(ctx context.Context, purchaseOrderID uuid.UUID) (decimal.Decimal, int, error)
}
