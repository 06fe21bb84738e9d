package payment

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ap-reconciler/backend/internal/domain/entity"
	domainerror "github.com/ap-reconciler/backend/internal/domain/error"
)

type listOnlyInvoiceRepo struct {
	invoices []*entity.Invoice
}

func (r *listOnlyInvoiceRepo) Create(context.Context, *entity.Invoice) error { return nil }
func (r *listOnlyInvoiceRepo) FindByID(context.Context, uuid.UUID) (*entity.Invoice, error) {
	return nil, domainerror.ErrInvoiceNotFound
}
func (r *listOnlyInvoiceRepo) FindByDocumentHash(context.Context, string) (*entity.Invoice, error) {
	return nil, nil
}
func (r *listOnlyInvoiceRepo) List(context.Context, entity.InvoiceFilter) (*entity.InvoiceListResult, error) {
	return &entity.InvoiceListResult{}, nil
}
func (r *listOnlyInvoiceRepo) ListAll(context.Context) ([]*entity.Invoice, error) {
	return r.invoices, nil
}
func (r *listOnlyInvoiceRepo) Update(context.Context, *entity.Invoice) error { return nil }

func strPtr(s string) *string { return &s }

func invoice(amount string, status entity.InvoiceStatus, optimal, discount *string, savings string, captured bool) *entity.Invoice {
	inv := entity.NewInvoice("Acme Corp", decimal.RequireFromString(amount), status)
	inv.OptimalPaymentDate = optimal
	inv.DiscountDate = discount
	inv.PotentialSavings = decimal.RequireFromString(savings)
	inv.DiscountCaptured = captured
	return inv
}

func TestGetScheduleUseCase_Execute(t *testing.T) {
	repo := &listOnlyInvoiceRepo{invoices: []*entity.Invoice{
		invoice("1000", entity.InvoiceStatusApproved, strPtr("2024-02-10"), nil, "0", false),
		invoice("5000", entity.InvoiceStatusProcessed, strPtr("2024-01-11"), strPtr("2024-01-11"), "100", true),
		invoice("750", entity.InvoiceStatusFlagged, nil, nil, "0", false),
		invoice("300", entity.InvoiceStatusReview, strPtr("2024-01-31"), strPtr("2024-01-10"), "3", false),
		invoice("9999", entity.InvoiceStatusPaid, strPtr("2024-01-01"), strPtr("2024-01-01"), "200", true),
		invoice("8888", entity.InvoiceStatusRejected, strPtr("2024-01-01"), nil, "0", false),
	}}

	out, err := NewGetScheduleUseCase(repo).Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("paid and rejected invoices are not outstanding", func(t *testing.T) {
		if out.OutstandingCount != 4 {
			t.Errorf("expected 4 outstanding, got %d", out.OutstandingCount)
		}
		if !out.TotalOutstanding.Equal(decimal.NewFromInt(7050)) {
			t.Errorf("expected 7050 outstanding, got %s", out.TotalOutstanding)
		}
	})

	t.Run("only captured discounts count as savings", func(t *testing.T) {
		if !out.PotentialSavings.Equal(decimal.NewFromInt(100)) {
			t.Errorf("expected 100 savings, got %s", out.PotentialSavings)
		}
		if len(out.Opportunities) != 1 {
			t.Errorf("expected 1 opportunity, got %d", len(out.Opportunities))
		}
	})

	t.Run("forecast is sorted by optimal date with missing dates last", func(t *testing.T) {
		want := []string{"2024-01-11", "2024-01-31", "2024-02-10", ""}
		if len(out.Forecast) != len(want) {
			t.Fatalf("expected %d rows, got %d", len(want), len(out.Forecast))
		}
		for i, row := range out.Forecast {
			got := ""
			if row.Invoice.OptimalPaymentDate != nil {
				got = *row.Invoice.OptimalPaymentDate
			}
			if got != want[i] {
				t.Errorf("row %d: expected %q, got %q", i, want[i], got)
			}
		}
		if !out.Forecast[0].TakeDiscount || out.Forecast[1].TakeDiscount {
			t.Error("only the captured discount row should take the discount")
		}
	})
}

func TestOptimizePaymentUseCase_Execute(t *testing.T) {
	uc := NewOptimizePaymentUseCase()

	t.Run("returns the plan", func(t *testing.T) {
		out, err := uc.Execute(context.Background(), OptimizePaymentInput{
			PaymentTerms: "Net 45", InvoiceDate: "2024-01-01", Amount: decimal.NewFromInt(5000),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Plan.DueDate != "2024-02-15" {
			t.Errorf("expected due 2024-02-15, got %s", out.Plan.DueDate)
		}
	})

	t.Run("rejects negative amounts", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), OptimizePaymentInput{
			PaymentTerms: "Net 30", InvoiceDate: "2024-01-01", Amount: decimal.NewFromInt(-1),
		})
		if !errors.Is(err, domainerror.ErrInvalidAmount) {
			t.Errorf("expected ErrInvalidAmount, got %v", err)
		}
	})

	t.Run("propagates invalid dates", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), OptimizePaymentInput{
			PaymentTerms: "Net 30", InvoiceDate: "Jan 1", Amount: decimal.NewFromInt(1),
		})
		if !errors.Is(err, domainerror.ErrInvalidInvoiceDate) {
			t.Errorf("expected ErrInvalidInvoiceDate, got %v", err)
		}
	})
}
