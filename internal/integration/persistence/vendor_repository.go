package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ap-reconciler/backend/internal/application/adapter"
	"github.com/ap-reconciler/backend/internal/domain/entity"
	domainerror "github.com/ap-reconciler/backend/internal/domain/error"
	"github.com/ap-reconciler/backend/internal/integration/persistence/model"
)

// vendorOrder is the deterministic store order fuzzy resolution depends on.
const vendorOrder = "created_at ASC, external_id ASC"

// vendorRepository implements the adapter.VendorRepository interface.
type vendorRepository struct {
	db *gorm.DB
}

// NewVendorRepository creates a new vendor repository instance.
func NewVendorRepository(db *gorm.DB) adapter.VendorRepository {
	return &vendorRepository{
		db: db,
	}
}

// Create creates a new vendor in the database.
func (r *vendorRepository) Create(ctx context.Context, vendor *entity.Vendor) error {
	result := r.db.WithContext(ctx).Create(model.VendorModelFromEntity(vendor))
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return domainerror.ErrVendorAlreadyExists
		}
		return result.Error
	}
	return nil
}

// FindByID retrieves a vendor by ID.
func (r *vendorRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Vendor, error) {
	var vendorModel model.VendorModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&vendorModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrVendorNotFound
		}
		return nil, result.Error
	}
	return vendorModel.ToEntity(), nil
}

// FindByExternalID retrieves a vendor by its external id, e.g. "V001".
func (r *vendorRepository) FindByExternalID(ctx context.Context, externalID string) (*entity.Vendor, error) {
	var vendorModel model.VendorModel
	result := r.db.WithContext(ctx).Where("external_id = ?", externalID).First(&vendorModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrVendorNotFound
		}
		return nil, result.Error
	}
	return vendorModel.ToEntity(), nil
}

// List retrieves all vendors in store order.
func (r *vendorRepository) List(ctx context.Context) ([]*entity.Vendor, error) {
	var models []model.VendorModel
	if err := r.db.WithContext(ctx).Order(vendorOrder).Find(&models).Error; err != nil {
		return nil, err
	}

	vendors := make([]*entity.Vendor, len(models))
	for i := range models {
		vendors[i] = models[i].ToEntity()
	}
	return vendors, nil
}

// Update saves vendor fields. The external id is immutable.
func (r *vendorRepository) Update(ctx context.Context, vendor *entity.Vendor) error {
	result := r.db.WithContext(ctx).
		Model(&model.VendorModel{}).
		Where("id = ?", vendor.ID).
		Updates(map[string]any{
			"name":                  vendor.Name,
			"category":              vendor.Category,
			"address":               vendor.Address,
			"default_payment_terms": vendor.DefaultPaymentTerms,
			"updated_at":            vendor.UpdatedAt,
		})
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return domainerror.ErrVendorAlreadyExists
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrVendorNotFound
	}
	return nil
}

// ExistsByExternalIDOrName checks for a clash on external id or case-insensitive name.
func (r *vendorRepository) ExistsByExternalIDOrName(ctx context.Context, externalID, name string, excludeID *uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).Model(&model.VendorModel{})
	lowered := strings.ToLower(strings.TrimSpace(name))
	if externalID != "" {
		query = query.Where("(external_id = ? OR LOWER(TRIM(name)) = ?)", externalID, lowered)
	} else {
		query = query.Where("LOWER(TRIM(name)) = ?", lowered)
	}
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
