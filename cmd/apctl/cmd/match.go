package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ap-reconciler/backend/config"
	"github.com/ap-reconciler/backend/internal/application/usecase/reconciliation"
	"github.com/ap-reconciler/backend/internal/infra/dependency"
	"github.com/ap-reconciler/backend/internal/integration/entrypoint/dto"
	"github.com/ap-reconciler/backend/internal/integration/persistence"
)

func newMatchCommand() *cobra.Command {
	var vendorName, poNumber, amount, terms, date string

	c := &cobra.Command{
		Use:   "match",
		Short: "Reconcile invoice fields against the vendor and PO registry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			value, err := parseAmount(amount)
			if err != nil {
				return err
			}

			cfg := config.Load()
			database, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer closeStore(database)

			store := persistence.NewReconciliationStore(database.DB())
			engine := reconciliation.NewEngine(store, dependency.NewMatchingConfig(cfg.Matching))

			out, err := reconciliation.NewReconcileInvoiceUseCase(engine).Execute(cmd.Context(), reconciliation.ReconcileInvoiceInput{
				VendorName:   vendorName,
				PONumber:     poNumber,
				Amount:       value,
				PaymentTerms: terms,
				InvoiceDate:  date,
			})
			if err != nil {
				return err
			}

			return printJSON(cmd.OutOrStdout(), dto.ToMatchResponse(out))
		},
	}

	c.Flags().StringVar(&vendorName, "vendor", "", "vendor name as printed on the invoice")
	c.Flags().StringVar(&poNumber, "po", "", "PO number")
	c.Flags().StringVar(&amount, "amount", "0", "invoice total")
	c.Flags().StringVar(&terms, "terms", "", "payment terms")
	c.Flags().StringVar(&date, "date", "", "invoice date (YYYY-MM-DD)")

	return c
}
