package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/ap-reconciler/backend/config"
	purchaseorder "github.com/ap-reconciler/backend/internal/application/usecase/purchase_order"
	"github.com/ap-reconciler/backend/internal/application/usecase/vendor"
	domainerror "github.com/ap-reconciler/backend/internal/domain/error"
	"github.com/ap-reconciler/backend/internal/integration/persistence"
)

type seedVendor struct {
	id, name, category, terms string
}

type seedPO struct {
	number, vendorID string
	amount, tolerance float64
}

var seedVendors = []seedVendor{
	{"V001", "Acme Corp", "supplies", "Net 30"},
	{"V002", "Tech Solutions Inc", "software", "Net 45"},
	{"V003", "Office Depot", "supplies", "Net 30"},
	{"V004", "AWS", "cloud services", "monthly"},
	{"V005", "Microsoft", "software", "monthly"},
	{"V006", "FedEx", "shipping", "Net 15"},
	{"V007", "USPS", "shipping", "monthly"},
	{"V008", "UPS", "shipping", "Net 15"},
	{"V009", "Dell", "hardware", "Net 30"},
	{"V010", "HP", "hardware", "Net 30"},
	{"V011", "Cisco", "networking", "Net 45"},
	{"V012", "Salesforce", "software", "monthly"},
	{"V013", "Slack", "software", "monthly"},
	{"V014", "Stripe", "payment processing", "monthly"},
	{"V015", "Twilio", "communications", "monthly"},
}

var seedPOs = []seedPO{
	{"PO-2024-001", "V001", 5000, 0.10},
	{"PO-2024-002", "V002", 15000, 0.10},
	{"PO-2024-003", "V003", 2500, 0.10},
	{"PO-2024-004", "V004", 8500, 0.15},
}

func newSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the sample vendors and purchase orders",
		Long:  "Load the sample vendors and purchase orders. Records that already exist are left untouched.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			database, err := openStore(config.Load())
			if err != nil {
				return err
			}
			defer closeStore(database)

			vendorRepo := persistence.NewVendorRepository(database.DB())
			poRepo := persistence.NewPurchaseOrderRepository(database.DB())

			result, err := seed(cmd.Context(),
				vendor.NewCreateVendorUseCase(vendorRepo),
				purchaseorder.NewCreatePurchaseOrderUseCase(poRepo, vendorRepo),
			)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "seeded %d vendors and %d purchase orders (%d already present)\n",
				result.vendors, result.purchaseOrders, result.skipped)
			return err
		},
	}
}

type seedResult struct {
	vendors, purchaseOrders, skipped int
}

func seed(ctx context.Context, createVendor *vendor.CreateVendorUseCase, createPO *purchaseorder.CreatePurchaseOrderUseCase) (seedResult, error) {
	var result seedResult

	for _, v := range seedVendors {
		terms := v.terms
		_, err := createVendor.Execute(ctx, vendor.CreateVendorInput{
			ExternalID:          v.id,
			Name:                v.name,
			Category:            v.category,
			DefaultPaymentTerms: &terms,
		})
		switch {
		case errors.Is(err, domainerror.ErrVendorAlreadyExists):
			result.skipped++
		case err != nil:
			return result, fmt.Errorf("failed to seed vendor %s: %w", v.id, err)
		default:
			result.vendors++
		}
	}

	for _, po := range seedPOs {
		tolerance := decimal.NewFromFloat(po.tolerance)
		_, err := createPO.Execute(ctx, purchaseorder.CreatePurchaseOrderInput{
			PONumber:         po.number,
			VendorExternalID: po.vendorID,
			ExpectedAmount:   decimal.NewFromFloat(po.amount),
			Tolerance:        &tolerance,
		})
		switch {
		case errors.Is(err, domainerror.ErrPurchaseOrderAlreadyExists):
			result.skipped++
		case err != nil:
			return result, fmt.Errorf("failed to seed purchase order %s: %w", po.number, err)
		default:
			result.purchaseOrders++
		}
	}

	slog.Debug("Seed complete", "vendors", result.vendors, "purchase_orders", result.purchaseOrders, "skipped", result.skipped)
	return result, nil
}
