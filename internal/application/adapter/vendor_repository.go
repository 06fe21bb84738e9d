package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/ap-reconciler/backend/internal/domain/entity"
)

// VendorRepository defines the interface for vendor administration.
type VendorRepository interface {
	Create(ctx context.Context, vendor *entity.Vendor) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Vendor, error)
	FindByExternalID(ctx context.Context, externalID string) (*entity.Vendor, error)
	List(ctx context.Context) ([]*entity.Vendor, error)
	Update(ctx context.Context, vendor *entity.Vendor) error

	// ExistsByExternalIDOrName reports a clash on external id or on name, ignoring case.
	// excludeID skips the vendor being updated.
	ExistsByExternalIDOrName(ctx context.Context, externalID, name string, excludeID *uuid.UUID) (bool, error)
}
