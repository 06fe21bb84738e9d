package valueobject

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	domainerror "github.com/ap-reconciler/backend/internal/domain/error"
)

func TestParsePaymentTerms(t *testing.T) {
	tests := []struct {
		name     string
		terms    string
		kind     TermsKind
		percent  string
		discDays int
		netDays  int
	}{
		{"discount net", "2/10 Net 30", TermsDiscountNet, "2", 10, 30},
		{"discount net with comma", "2/10, net 30", TermsDiscountNet, "2", 10, 30},
		{"percent sign and spaces", "1.5% / 15 NET45", TermsDiscountNet, "1.5", 15, 45},
		{"upper case", "3/5 NET 60", TermsDiscountNet, "3", 5, 60},
		{"plain net", "Net 45", TermsNet, "0", 0, 45},
		{"plain net no space", "net15", TermsNet, "0", 0, 15},
		{"garbage", "payable on receipt", TermsUnparsed, "0", 0, DefaultNetDays},
		{"empty", "", TermsUnparsed, "0", 0, DefaultNetDays},
		{"net days out of range", "2/10 net 9999999999", TermsUnparsed, "0", 0, DefaultNetDays},
		{"discount days out of range", "2/4000 net 30", TermsNet, "0", 0, 30},
		{"plain net out of range", "Net 3651", TermsUnparsed, "0", 0, DefaultNetDays},
		{"ten years is accepted", "Net 3650", TermsNet, "0", 0, MaxTermDays},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParsePaymentTerms(tt.terms)
			if got.Kind != tt.kind {
				t.Fatalf("Kind = %s, want %s", got.Kind, tt.kind)
			}
			if !got.DiscountPercent.Equal(decimal.RequireFromString(tt.percent)) {
				t.Errorf("DiscountPercent = %s, want %s", got.DiscountPercent, tt.percent)
			}
			if got.DiscountDays != tt.discDays {
				t.Errorf("DiscountDays = %d, want %d", got.DiscountDays, tt.discDays)
			}
			if got.NetDays != tt.netDays {
				t.Errorf("NetDays = %d, want %d", got.NetDays, tt.netDays)
			}
		})
	}
}

func TestOptimizePayment_DiscountAboveHurdle(t *testing.T) {
	plan, err := OptimizePayment("2/10 Net 30", "2024-01-01", decimal.NewFromInt(1000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if plan.DiscountDate == nil || *plan.DiscountDate != "2024-01-11" {
		t.Errorf("DiscountDate = %v, want 2024-01-11", plan.DiscountDate)
	}
	if plan.DueDate != "2024-01-31" {
		t.Errorf("DueDate = %s, want 2024-01-31", plan.DueDate)
	}
	if plan.PotentialSavings.StringFixed(2) != "20.00" {
		t.Errorf("PotentialSavings = %s, want 20.00", plan.PotentialSavings.StringFixed(2))
	}
	if plan.APR == nil || plan.APR.Round(4).String() != "0.3724" {
		t.Errorf("APR = %v, want 0.3724", plan.APR)
	}
	if plan.OptimalPaymentDate != "2024-01-11" || !plan.DiscountCaptured {
		t.Errorf("OptimalPaymentDate = %s captured=%v, want discount date", plan.OptimalPaymentDate, plan.DiscountCaptured)
	}
	if !strings.Contains(plan.Reasoning, "37.2%") {
		t.Errorf("Reasoning %q should report the APR", plan.Reasoning)
	}
}

func TestOptimizePayment_DiscountBelowHurdle(t *testing.T) {
	// 0.1% for paying 60 days early is roughly 0.6% APR.
	plan, err := OptimizePayment("0.1/30 net 90", "2024-01-01", decimal.NewFromInt(1000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if plan.OptimalPaymentDate != plan.DueDate {
		t.Errorf("OptimalPaymentDate = %s, want due date %s", plan.OptimalPaymentDate, plan.DueDate)
	}
	if plan.DiscountCaptured {
		t.Error("discount below hurdle should not be captured")
	}
	if plan.PotentialSavings.StringFixed(2) != "1.00" {
		t.Errorf("PotentialSavings = %s, want 1.00", plan.PotentialSavings.StringFixed(2))
	}
	if !strings.Contains(plan.Reasoning, "below") {
		t.Errorf("Reasoning %q should mention the hurdle", plan.Reasoning)
	}
}

func TestOptimizePayment_ZeroWidthWindow(t *testing.T) {
	plan, err := OptimizePayment("2/30 net 30", "2024-01-01", decimal.NewFromInt(1000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if plan.APR != nil {
		t.Errorf("APR should be skipped, got %s", plan.APR)
	}
	if plan.OptimalPaymentDate != "2024-01-31" {
		t.Errorf("OptimalPaymentDate = %s, want due date", plan.OptimalPaymentDate)
	}
	if !plan.PotentialSavings.IsZero() {
		t.Errorf("PotentialSavings = %s, want 0", plan.PotentialSavings)
	}

	t.Run("net shorter than discount window", func(t *testing.T) {
		plan, err := OptimizePayment("2/30 net 10", "2024-01-01", decimal.NewFromInt(1000))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if plan.OptimalPaymentDate != "2024-01-11" || plan.DueDate != "2024-01-11" {
			t.Errorf("OptimalPaymentDate = %s DueDate = %s, want 2024-01-11", plan.OptimalPaymentDate, plan.DueDate)
		}
		if !plan.PotentialSavings.IsZero() || plan.DiscountCaptured {
			t.Errorf("PotentialSavings = %s captured=%v, want no savings", plan.PotentialSavings, plan.DiscountCaptured)
		}
	})
}

func TestOptimizePayment_OutOfRangeDays(t *testing.T) {
	plan, err := OptimizePayment("2/10 net 9999999999", "2024-01-15", decimal.NewFromInt(1000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.Terms.Kind != TermsUnparsed || plan.DueDate != "2024-02-14" {
		t.Errorf("Kind = %s DueDate = %s, want unparsed with 2024-02-14", plan.Terms.Kind, plan.DueDate)
	}
	if !IsValidDate(plan.OptimalPaymentDate) {
		t.Errorf("OptimalPaymentDate = %s, want YYYY-MM-DD", plan.OptimalPaymentDate)
	}
}

func TestOptimizePayment_PlainNet(t *testing.T) {
	plan, err := OptimizePayment("Net 45", "2024-01-01", decimal.NewFromInt(5000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if plan.DueDate != "2024-02-15" {
		t.Errorf("DueDate = %s, want 2024-02-15", plan.DueDate)
	}
	if plan.OptimalPaymentDate != plan.DueDate {
		t.Errorf("OptimalPaymentDate = %s, want due date", plan.OptimalPaymentDate)
	}
	if !plan.PotentialSavings.IsZero() {
		t.Errorf("PotentialSavings = %s, want 0", plan.PotentialSavings)
	}
	if plan.DiscountDate != nil {
		t.Errorf("DiscountDate = %s, want nil", *plan.DiscountDate)
	}
}

func TestOptimizePayment_Fallback(t *testing.T) {
	plan, err := OptimizePayment("garbage terms", "2024-03-01", decimal.NewFromInt(100))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if plan.DueDate != "2024-03-31" {
		t.Errorf("DueDate = %s, want 2024-03-31", plan.DueDate)
	}
	if !plan.PotentialSavings.IsZero() {
		t.Errorf("PotentialSavings = %s, want 0", plan.PotentialSavings)
	}
	if !strings.Contains(plan.Reasoning, "Could not parse") {
		t.Errorf("Reasoning %q should note unparseable terms", plan.Reasoning)
	}
}

func TestOptimizePayment_InvalidDate(t *testing.T) {
	for _, date := range []string{"01/15/2024", "2024-13-01", "", "yesterday"} {
		t.Run(date, func(t *testing.T) {
			_, err := OptimizePayment("Net 30", date, decimal.NewFromInt(100))
			if err == nil {
				t.Fatal("expected an error")
			}
			var recErr *domainerror.ReconciliationError
			if !errors.As(err, &recErr) || recErr.Code != domainerror.ErrCodeInvalidInvoiceDate {
				t.Errorf("error = %v, want code %s", err, domainerror.ErrCodeInvalidInvoiceDate)
			}
			if !errors.Is(err, domainerror.ErrInvalidInvoiceDate) {
				t.Error("error should wrap ErrInvalidInvoiceDate")
			}
		})
	}
}

func TestOptimizePayment_Pure(t *testing.T) {
	a, _ := OptimizePayment("2/10 Net 30", "2024-01-01", decimal.NewFromInt(1000))
	b, _ := OptimizePayment("2/10 Net 30", "2024-01-01", decimal.NewFromInt(1000))
	if a.OptimalPaymentDate != b.OptimalPaymentDate || !a.PotentialSavings.Equal(b.PotentialSavings) || a.Reasoning != b.Reasoning {
		t.Error("identical inputs produced different plans")
	}
}
