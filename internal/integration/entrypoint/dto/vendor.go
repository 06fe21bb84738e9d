package dto

import (
	"time"

	"github.com/ap-reconciler/backend/internal/domain/entity"
	"github.com/ap-reconciler/backend/internal/domain/valueobject"
)

// CreateVendorRequest represents the request body for creating a vendor.
type CreateVendorRequest struct {
	ExternalID          string  `json:"vendor_id" binding:"required,max=50"`
	Name                string  `json:"name" binding:"required,max=200"`
	Category            string  `json:"category" binding:"max=100"`
	Address             *string `json:"address"`
	DefaultPaymentTerms *string `json:"default_payment_terms" binding:"omitempty,max=50"`
}

// UpdateVendorRequest represents the request body for editing a vendor. Nil fields are left unchanged.
type UpdateVendorRequest struct {
	Name                *string `json:"name" binding:"omitempty,min=1,max=200"`
	Category            *string `json:"category" binding:"omitempty,max=100"`
	Address             *string `json:"address"`
	DefaultPaymentTerms *string `json:"default_payment_terms" binding:"omitempty,max=50"`
}

// ResolveVendorRequest represents the request body for resolving a vendor name.
type ResolveVendorRequest struct {
	VendorName string `json:"vendor_name"`
}

// VendorResponse represents a vendor in API responses.
type VendorResponse struct {
	ID                  string    `json:"id"`
	ExternalID          string    `json:"vendor_id"`
	Name                string    `json:"name"`
	Category            string    `json:"category"`
	Address             *string   `json:"address,omitempty"`
	DefaultPaymentTerms *string   `json:"default_payment_terms,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// VendorListResponse represents the response for listing vendors.
type VendorListResponse struct {
	Vendors []VendorResponse `json:"vendors"`
}

// VendorMatchResponse is the outcome of vendor resolution.
type VendorMatchResponse struct {
	Valid       bool    `json:"valid"`
	VendorID    *string `json:"vendor_id"`
	VendorName  *string `json:"vendor_name,omitempty"`
	Category    *string `json:"category"`
	PaymentTerm *string `json:"payment_terms,omitempty"`
	Fuzzy       bool    `json:"fuzzy,omitempty"`
	Message     string  `json:"message"`
}

// ToVendorResponse converts a domain Vendor entity to a VendorResponse DTO.
func ToVendorResponse(v *entity.Vendor) VendorResponse {
	return VendorResponse{
		ID:                  v.ID.String(),
		ExternalID:          v.ExternalID,
		Name:                v.Name,
		Category:            v.Category,
		Address:             v.Address,
		DefaultPaymentTerms: v.DefaultPaymentTerms,
		CreatedAt:           v.CreatedAt,
		UpdatedAt:           v.UpdatedAt,
	}
}

// ToVendorListResponse converts vendors to a VendorListResponse DTO.
func ToVendorListResponse(vendors []*entity.Vendor) VendorListResponse {
	out := VendorListResponse{Vendors: make([]VendorResponse, 0, len(vendors))}
	for _, v := range vendors {
		out.Vendors = append(out.Vendors, ToVendorResponse(v))
	}
	return out
}

// ToVendorMatchResponse converts a VendorMatch value object.
func ToVendorMatchResponse(m *valueobject.VendorMatch) VendorMatchResponse {
	return VendorMatchResponse{
		Valid:       m.Valid,
		VendorID:    m.VendorID,
		VendorName:  m.VendorName,
		Category:    m.Category,
		PaymentTerm: m.PaymentTerm,
		Fuzzy:       m.Fuzzy,
		Message:     m.Message,
	}
}
