package cmd

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/ap-reconciler/backend/internal/application/usecase/payment"
	"github.com/ap-reconciler/backend/internal/integration/entrypoint/dto"
)

func newOptimizeCommand() *cobra.Command {
	var terms, date, amount string

	c := &cobra.Command{
		Use:   "optimize",
		Short: "Compute the optimal payment date for an invoice",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			value, err := parseAmount(amount)
			if err != nil {
				return err
			}

			out, err := payment.NewOptimizePaymentUseCase().Execute(cmd.Context(), payment.OptimizePaymentInput{
				PaymentTerms: terms,
				InvoiceDate:  date,
				Amount:       value,
			})
			if err != nil {
				return err
			}

			return printJSON(cmd.OutOrStdout(), dto.ToPaymentPlanResponse(out.Plan))
		},
	}

	c.Flags().StringVar(&terms, "terms", "", `payment terms, e.g. "2/10 Net 30"`)
	c.Flags().StringVar(&date, "date", "", "invoice date (YYYY-MM-DD)")
	c.Flags().StringVar(&amount, "amount", "0", "invoice total")
	_ = c.MarkFlagRequired("date")

	return c
}

func parseAmount(s string) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return value, nil
}
