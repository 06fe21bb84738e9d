package payment

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/ap-reconciler/backend/internal/application/adapter"
	"github.com/ap-reconciler/backend/internal/domain/entity"
)

// ScheduledPayment is one row of the cash-flow forecast.
type ScheduledPayment struct {
	Invoice *entity.Invoice
	// TakeDiscount is true when paying on the optimal date captures the discount.
	TakeDiscount bool
}

// GetScheduleOutput summarizes outstanding payables.
type GetScheduleOutput struct {
	TotalOutstanding decimal.Decimal
	PotentialSavings decimal.Decimal
	OutstandingCount int
	Opportunities    []*entity.Invoice
	Forecast         []ScheduledPayment
}

// GetScheduleUseCase builds the payment schedule from outstanding invoices.
type GetScheduleUseCase struct {
	invoiceRepo adapter.InvoiceRepository
}

// NewGetScheduleUseCase creates a new GetScheduleUseCase instance.
func NewGetScheduleUseCase(invoiceRepo adapter.InvoiceRepository) *GetScheduleUseCase {
	return &GetScheduleUseCase{
		invoiceRepo: invoiceRepo,
	}
}

// Execute returns totals, discount opportunities and the forecast sorted by
// optimal payment date. Invoices without a date sort last.
func (uc *GetScheduleUseCase) Execute(ctx context.Context) (*GetScheduleOutput, error) {
	invoices, err := uc.invoiceRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}

	output := &GetScheduleOutput{
		TotalOutstanding: decimal.Zero,
		PotentialSavings: decimal.Zero,
	}

	for _, inv := range invoices {
		if !inv.IsOutstanding() {
			continue
		}
		output.OutstandingCount++
		output.TotalOutstanding = output.TotalOutstanding.Add(inv.TotalAmount)

		capture := inv.DiscountCaptured && inv.PotentialSavings.IsPositive()
		if capture {
			output.PotentialSavings = output.PotentialSavings.Add(inv.PotentialSavings)
			output.Opportunities = append(output.Opportunities, inv)
		}
		output.Forecast = append(output.Forecast, ScheduledPayment{Invoice: inv, TakeDiscount: capture})
	}

	sort.SliceStable(output.Forecast, func(i, j int) bool {
		return lessDate(output.Forecast[i].Invoice.OptimalPaymentDate, output.Forecast[j].Invoice.OptimalPaymentDate)
	})
	sort.SliceStable(output.Opportunities, func(i, j int) bool {
		return lessDate(output.Opportunities[i].DiscountDate, output.Opportunities[j].DiscountDate)
	})

	return output, nil
}

// lessDate orders YYYY-MM-DD strings with missing dates last.
func lessDate(a, b *string) bool {
	switch {
	case a == nil || *a == "":
		return false
	case b == nil || *b == "":
		return true
	default:
		return *a < *b
	}
}
