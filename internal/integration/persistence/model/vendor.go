package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/ap-reconciler/backend/internal/domain/entity"
)

// VendorModel represents the vendors table in the database.
type VendorModel struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey"`
	ExternalID          string    `gorm:"type:varchar(50);uniqueIndex;not null"`
	Name                string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Category            string    `gorm:"type:varchar(100)"`
	Address             *string   `gorm:"type:text"`
	DefaultPaymentTerms *string   `gorm:"type:varchar(100)"`
	CreatedAt           time.Time `gorm:"not null;index"`
	UpdatedAt           time.Time `gorm:"not null"`
}

// TableName returns the table name for the VendorModel.
func (VendorModel) TableName() string {
	return "vendors"
}

// ToEntity converts a VendorModel to a domain Vendor entity.
func (m *VendorModel) ToEntity() *entity.Vendor {
	return &entity.Vendor{
		ID:                  m.ID,
		ExternalID:          m.ExternalID,
		Name:                m.Name,
		Category:            m.Category,
		Address:             m.Address,
		DefaultPaymentTerms: m.DefaultPaymentTerms,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
}

// VendorModelFromEntity creates a VendorModel from a domain Vendor entity.
func VendorModelFromEntity(v *entity.Vendor) *VendorModel {
	return &VendorModel{
		ID:                  v.ID,
		ExternalID:          v.ExternalID,
		Name:                v.Name,
		Category:            v.Category,
		Address:             v.Address,
		DefaultPaymentTerms: v.DefaultPaymentTerms,
		CreatedAt:           v.CreatedAt,
		UpdatedAt:           v.UpdatedAt,
	}
}
