package reconciliation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ap-reconciler/backend/internal/domain/entity"
	"github.com/ap-reconciler/backend/internal/domain/valueobject"
)

// ResolveVendor maps an invoice vendor name to a stored vendor. An exact
// case-insensitive match wins; otherwise the first vendor, in store order, whose
// name contains or is contained in the input is a fuzzy match.
func (e *Engine) ResolveVendor(ctx context.Context, name string) (*valueobject.VendorMatch, error) {
	clean := strings.TrimSpace(name)
	if clean == "" {
		return &valueobject.VendorMatch{Message: "no vendor name provided"}, nil
	}

	vendor, err := e.store.FindVendorByName(ctx, clean)
	if err != nil {
		return nil, storeError("look up vendor", err)
	}
	if vendor != nil {
		return matchedVendor(vendor, false, fmt.Sprintf("Vendor '%s' found in database", clean)), nil
	}

	vendors, err := e.store.ListVendors(ctx)
	if err != nil {
		return nil, storeError("list vendors", err)
	}
	for _, v := range vendors {
		if e.config.NamesContain(clean, v.Name) {
			slog.Debug("Vendor resolved by containment", "input", clean, "vendor", v.Name)
			return matchedVendor(v, true,
				fmt.Sprintf("Vendor '%s' matched to '%s' in database (fuzzy match)", clean, v.Name)), nil
		}
	}

	return &valueobject.VendorMatch{
		Message: fmt.Sprintf("Vendor '%s' not found in database", clean),
	}, nil
}

func matchedVendor(v *entity.Vendor, fuzzy bool, message string) *valueobject.VendorMatch {
	id := v.ID
	externalID := v.ExternalID
	name := v.Name
	category := v.Category
	return &valueobject.VendorMatch{
		Valid:       true,
		VendorID:    &externalID,
		VendorRef:   &id,
		VendorName:  &name,
		Category:    &category,
		PaymentTerm: v.DefaultPaymentTerms,
		Fuzzy:       fuzzy,
		Message:     message,
	}
}
