package reconciliation

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ap-reconciler/backend/internal/domain/entity"
	domainerror "github.com/ap-reconciler/backend/internal/domain/error"
	"github.com/ap-reconciler/backend/internal/domain/valueobject"
)

// fakeStore is an in-memory ReconciliationStore.
type fakeStore struct {
	vendors  []*entity.Vendor
	pos      []*entity.PurchaseOrder
	receipts map[uuid.UUID][]decimal.Decimal
	err      error
}

func newFakeStore() *fakeStore {
	return &fakeStore{receipts: make(map[uuid.UUID][]decimal.Decimal)}
}

func (s *fakeStore) addVendor(externalID, name string) *entity.Vendor {
	v := entity.NewVendor(externalID, name, "Supplies", nil, nil)
	// Stable creation order regardless of clock resolution.
	v.CreatedAt = time.Date(2024, 1, 1, 0, 0, len(s.vendors), 0, time.UTC)
	s.vendors = append(s.vendors, v)
	return v
}

func (s *fakeStore) addPO(number string, vendor *entity.Vendor, expected, tolerance string) *entity.PurchaseOrder {
	po := entity.NewPurchaseOrder(number, vendor.ID, decimal.RequireFromString(expected), decimal.RequireFromString(tolerance), nil)
	po.Vendor = vendor
	s.pos = append(s.pos, po)
	return po
}

func (s *fakeStore) addReceipt(po *entity.PurchaseOrder, amount string) {
	s.receipts[po.ID] = append(s.receipts[po.ID], decimal.RequireFromString(amount))
}

func (s *fakeStore) FindVendorByName(_ context.Context, name string) (*entity.Vendor, error) {
	if s.err != nil {
		return nil, s.err
	}
	for _, v := range s.vendors {
		if strings.EqualFold(strings.TrimSpace(v.Name), strings.TrimSpace(name)) {
			return v, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) ListVendors(_ context.Context) ([]*entity.Vendor, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.vendors, nil
}

func (s *fakeStore) FindPOByNumber(_ context.Context, number string) (*entity.PurchaseOrder, error) {
	if s.err != nil {
		return nil, s.err
	}
	for _, po := range s.pos {
		if strings.EqualFold(po.PONumber, strings.TrimSpace(number)) {
			return po, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) SumReceiptsForPO(_ context.Context, id uuid.UUID) (decimal.Decimal, int, error) {
	if s.err != nil {
		return decimal.Zero, 0, s.err
	}
	total := decimal.Zero
	for _, a := range s.receipts[id] {
		total = total.Add(a)
	}
	return total, len(s.receipts[id]), nil
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestEngine_ResolveVendor(t *testing.T) {
	store := newFakeStore()
	store.addVendor("V001", "Acme Corporation")
	store.addVendor("V002", "Acme Corp")
	store.addVendor("V003", "Amazon Web Services")
	engine := NewEngine(store, valueobject.DefaultMatchingConfig())
	ctx := context.Background()

	t.Run("exact match ignores case and whitespace", func(t *testing.T) {
		got, err := engine.ResolveVendor(ctx, "  acme corp ")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !got.Valid || got.Fuzzy || *got.VendorID != "V002" {
			t.Errorf("expected exact match on V002, got %+v", got)
		}
		if got.Message != "Vendor 'acme corp' found in database" {
			t.Errorf("unexpected message %q", got.Message)
		}
	})

	t.Run("containment picks the first vendor in store order", func(t *testing.T) {
		got, err := engine.ResolveVendor(ctx, "Acme")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !got.Valid || !got.Fuzzy || *got.VendorID != "V001" {
			t.Errorf("expected fuzzy match on V001, got %+v", got)
		}
		if !strings.Contains(got.Message, "matched to 'Acme Corporation'") {
			t.Errorf("unexpected message %q", got.Message)
		}
	})

	t.Run("longer invoice name contains the stored name", func(t *testing.T) {
		got, _ := engine.ResolveVendor(ctx, "Amazon Web Services LLC")
		if !got.Valid || *got.VendorID != "V003" {
			t.Errorf("expected match on V003, got %+v", got)
		}
	})

	t.Run("unknown vendor is invalid with null id and category", func(t *testing.T) {
		got, err := engine.ResolveVendor(ctx, "Globex")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Valid || got.VendorID != nil || got.Category != nil {
			t.Errorf("expected invalid result, got %+v", got)
		}
		if got.Message != "Vendor 'Globex' not found in database" {
			t.Errorf("unexpected message %q", got.Message)
		}
	})

	t.Run("empty name is an input error in the result", func(t *testing.T) {
		got, err := engine.ResolveVendor(ctx, "   ")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Valid || got.Message != "no vendor name provided" {
			t.Errorf("unexpected result %+v", got)
		}
	})
}

func TestEngine_ResolveVendorStrict(t *testing.T) {
	store := newFakeStore()
	store.addVendor("V010", "Lawson Supplies")
	config := valueobject.DefaultMatchingConfig()
	config.StrictVendorMatch = true
	engine := NewEngine(store, config)

	got, err := engine.ResolveVendor(context.Background(), "AWS")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Valid {
		t.Errorf("strict mode should not match a substring inside a word, got %+v", got)
	}
}

func TestEngine_MatchPO_Tolerance(t *testing.T) {
	store := newFakeStore()
	acme := store.addVendor("V001", "Acme Corp")
	store.addPO("PO-001", acme, "5000", "0.1")
	engine := NewEngine(store, valueobject.DefaultMatchingConfig())

	tests := []struct {
		amount string
		want   valueobject.MatchType
	}{
		{"4500", valueobject.MatchTypeTwoWaySuccess},
		{"5500", valueobject.MatchTypeTwoWaySuccess},
		{"5000", valueobject.MatchTypeTwoWaySuccess},
		{"4499.99", valueobject.MatchTypeTwoWayFailure},
		{"5500.01", valueobject.MatchTypeTwoWayFailure},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			got, err := engine.MatchPO(context.Background(), "PO-001", "Acme Corp", dec(tt.amount))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.MatchType != tt.want {
				t.Errorf("expected %s, got %s (%s)", tt.want, got.MatchType, got.Message)
			}
			if got.Valid != tt.want.IsValid() {
				t.Errorf("expected valid=%v, got %v", tt.want.IsValid(), got.Valid)
			}
			if got.AmountInTolerance == nil {
				t.Fatal("expected amount check to run")
			}
		})
	}
}

func TestEngine_MatchPO_FailureDetail(t *testing.T) {
	store := newFakeStore()
	acme := store.addVendor("V001", "Acme Corp")
	store.addPO("PO-001", acme, "5000", "0.1")
	engine := NewEngine(store, valueobject.DefaultMatchingConfig())

	got, err := engine.MatchPO(context.Background(), "po-001", "Acme", dec("6000"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.MatchType != valueobject.MatchTypeTwoWayFailure {
		t.Fatalf("expected 2_way_failure, got %s", got.MatchType)
	}
	if got.Variance == nil || !got.Variance.Equal(dec("1000")) {
		t.Errorf("expected variance 1000, got %v", got.Variance)
	}
	if got.TolerancePercent == nil || !got.TolerancePercent.Equal(dec("10")) {
		t.Errorf("expected tolerance 10%%, got %v", got.TolerancePercent)
	}
	for _, want := range []string{"6000.00", "5000.00", "10%", "1000.00"} {
		if !strings.Contains(got.Message, want) {
			t.Errorf("message %q should contain %q", got.Message, want)
		}
	}
	if got.TotalReceived != nil {
		t.Error("receipts should not be aggregated after a 2-way failure")
	}
}

func TestEngine_MatchPO_TerminalStates(t *testing.T) {
	store := newFakeStore()
	acme := store.addVendor("V001", "Acme Corp")
	store.addPO("PO-001", acme, "5000", "0.1")
	engine := NewEngine(store, valueobject.DefaultMatchingConfig())
	ctx := context.Background()

	t.Run("empty PO number is no_po", func(t *testing.T) {
		got, _ := engine.MatchPO(ctx, "  ", "Acme Corp", dec("5000"))
		if got.MatchType != valueobject.MatchTypeNoPO || got.Valid || got.POFound {
			t.Errorf("unexpected result %+v", got)
		}
		if got.Message != "No PO number provided" {
			t.Errorf("unexpected message %q", got.Message)
		}
	})

	t.Run("unknown PO is po_not_found", func(t *testing.T) {
		got, _ := engine.MatchPO(ctx, "PO-404", "Acme Corp", dec("5000"))
		if got.MatchType != valueobject.MatchTypePONotFound || got.POFound {
			t.Errorf("unexpected result %+v", got)
		}
		if got.Message != "PO 'PO-404' not found in database" {
			t.Errorf("unexpected message %q", got.Message)
		}
	})

	t.Run("vendor mismatch skips the amount check", func(t *testing.T) {
		got, _ := engine.MatchPO(ctx, "PO-001", "Globex", dec("5000"))
		if got.MatchType != valueobject.MatchTypeVendorMismatch || !got.POFound || got.VendorMatch {
			t.Errorf("unexpected result %+v", got)
		}
		if got.AmountInTolerance != nil {
			t.Error("amount should not be checked after a vendor mismatch")
		}
		if !strings.Contains(got.Message, "'Globex'") || !strings.Contains(got.Message, "'Acme Corp'") {
			t.Errorf("unexpected message %q", got.Message)
		}
	})

	t.Run("empty invoice vendor never matches", func(t *testing.T) {
		got, _ := engine.MatchPO(ctx, "PO-001", "", dec("5000"))
		if got.MatchType != valueobject.MatchTypeVendorMismatch {
			t.Errorf("expected vendor_mismatch, got %s", got.MatchType)
		}
	})
}

func TestEngine_MatchPO_ThreeWay(t *testing.T) {
	store := newFakeStore()
	acme := store.addVendor("V001", "Acme Corp")
	po := store.addPO("PO-001", acme, "5000", "0.1")
	store.addReceipt(po, "3000")
	store.addReceipt(po, "1800")
	engine := NewEngine(store, valueobject.DefaultMatchingConfig())
	ctx := context.Background()

	t.Run("invoice within received plus tolerance passes", func(t *testing.T) {
		got, err := engine.MatchPO(ctx, "PO-001", "Acme", dec("5200"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.MatchType != valueobject.MatchTypeThreeWaySuccess || !got.Valid {
			t.Errorf("expected 3_way_success, got %s (%s)", got.MatchType, got.Message)
		}
		if !got.HasReceipts || got.TotalReceived == nil || !got.TotalReceived.Equal(dec("4800")) {
			t.Errorf("expected 4800 received, got %v", got.TotalReceived)
		}
	})

	t.Run("boundary at exactly received times one plus tolerance passes", func(t *testing.T) {
		got, _ := engine.MatchPO(ctx, "PO-001", "Acme", dec("5280"))
		if got.MatchType != valueobject.MatchTypeThreeWaySuccess {
			t.Errorf("expected 3_way_success, got %s", got.MatchType)
		}
	})

	t.Run("invoice above the receipt limit fails", func(t *testing.T) {
		got, _ := engine.MatchPO(ctx, "PO-001", "Acme", dec("5280.01"))
		if got.MatchType != valueobject.MatchTypeThreeWayFailure || got.Valid {
			t.Errorf("expected 3_way_failure, got %s", got.MatchType)
		}
		if !strings.Contains(got.Message, "4800.00") || !strings.Contains(got.Message, "5280.01") {
			t.Errorf("message %q should report both amounts", got.Message)
		}
	})

	t.Run("invoice below received passes", func(t *testing.T) {
		got, _ := engine.MatchPO(ctx, "PO-001", "Acme", dec("4600"))
		if got.MatchType != valueobject.MatchTypeThreeWaySuccess {
			t.Errorf("expected 3_way_success, got %s", got.MatchType)
		}
	})
}

func TestEngine_MatchPO_ClosedPO(t *testing.T) {
	store := newFakeStore()
	acme := store.addVendor("V001", "Acme Corp")
	po := store.addPO("PO-001", acme, "5000", "0.1")
	po.Status = entity.POStatusClosed
	ctx := context.Background()

	t.Run("closed PO is reported but still matched by default", func(t *testing.T) {
		engine := NewEngine(store, valueobject.DefaultMatchingConfig())
		got, _ := engine.MatchPO(ctx, "PO-001", "Acme Corp", dec("5000"))
		if got.MatchType != valueobject.MatchTypeTwoWaySuccess {
			t.Errorf("expected 2_way_success, got %s", got.MatchType)
		}
		if got.POStatus == nil || *got.POStatus != "closed" || !strings.Contains(got.Message, "closed") {
			t.Errorf("closed status should be reported, got %+v", got)
		}
	})

	t.Run("closed PO is rejected when configured", func(t *testing.T) {
		config := valueobject.DefaultMatchingConfig()
		config.RejectClosedPOs = true
		engine := NewEngine(store, config)
		got, _ := engine.MatchPO(ctx, "PO-001", "Acme Corp", dec("5000"))
		if got.MatchType != valueobject.MatchTypePOClosed || got.Valid {
			t.Errorf("expected po_closed, got %s", got.MatchType)
		}
	})
}

func TestEngine_StoreFailure(t *testing.T) {
	store := newFakeStore()
	store.err = errors.New("connection refused")
	engine := NewEngine(store, valueobject.DefaultMatchingConfig())
	ctx := context.Background()

	checks := map[string]func() error{
		"resolve vendor": func() error { _, err := engine.ResolveVendor(ctx, "Acme"); return err },
		"match po":       func() error { _, err := engine.MatchPO(ctx, "PO-001", "Acme", dec("1")); return err },
	}

	for name, check := range checks {
		t.Run(name, func(t *testing.T) {
			err := check()
			if err == nil {
				t.Fatal("expected a storage error, got nil")
			}
			if !domainerror.IsStoreUnavailable(err) {
				t.Errorf("expected ErrStoreUnavailable, got %v", err)
			}
			var recErr *domainerror.ReconciliationError
			if !errors.As(err, &recErr) || recErr.Code != domainerror.ErrCodeStoreUnavailable {
				t.Errorf("expected code %s, got %v", domainerror.ErrCodeStoreUnavailable, err)
			}
		})
	}
}

func TestReconcileInvoiceUseCase_EndToEnd(t *testing.T) {
	store := newFakeStore()
	acme := store.addVendor("V001", "Acme Corp")
	po := store.addPO("PO-001", acme, "5000", "0.1")
	store.addReceipt(po, "4800")
	uc := NewReconcileInvoiceUseCase(NewEngine(store, valueobject.DefaultMatchingConfig()))

	out, err := uc.Execute(context.Background(), ReconcileInvoiceInput{
		VendorName:   "Acme",
		PONumber:     "PO-001",
		Amount:       dec("5200"),
		PaymentTerms: "2/10 Net 30",
		InvoiceDate:  "2024-01-01",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !out.VendorMatch.Valid || !out.VendorMatch.Fuzzy {
		t.Errorf("expected fuzzy vendor match, got %+v", out.VendorMatch)
	}
	if out.POMatch.MatchType != valueobject.MatchTypeThreeWaySuccess || !out.Valid() {
		t.Errorf("expected 3_way_success, got %s", out.POMatch.MatchType)
	}
	if out.PaymentPlan == nil || out.PaymentPlan.OptimalPaymentDate != "2024-01-11" {
		t.Errorf("expected discount date as optimal, got %+v", out.PaymentPlan)
	}
	if out.PaymentPlan.PotentialSavings.StringFixed(2) != "104.00" {
		t.Errorf("expected savings 104.00, got %s", out.PaymentPlan.PotentialSavings.StringFixed(2))
	}
}

func TestReconcileInvoiceUseCase_PaymentErrors(t *testing.T) {
	store := newFakeStore()
	terms := "Net 45"
	v := store.addVendor("V001", "Acme Corp")
	v.DefaultPaymentTerms = &terms
	uc := NewReconcileInvoiceUseCase(NewEngine(store, valueobject.DefaultMatchingConfig()))
	ctx := context.Background()

	t.Run("invalid date is reported in the result", func(t *testing.T) {
		out, err := uc.Execute(ctx, ReconcileInvoiceInput{VendorName: "Acme Corp", Amount: dec("10"), InvoiceDate: "15/01/2024"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.PaymentPlan != nil || out.PaymentErrorCode != string(domainerror.ErrCodeInvalidInvoiceDate) {
			t.Errorf("expected payment error, got %+v", out)
		}
		if out.POMatch.MatchType != valueobject.MatchTypeNoPO {
			t.Errorf("expected no_po, got %s", out.POMatch.MatchType)
		}
	})

	t.Run("vendor default terms apply when the invoice has none", func(t *testing.T) {
		out, err := uc.Execute(ctx, ReconcileInvoiceInput{VendorName: "Acme Corp", Amount: dec("10"), InvoiceDate: "2024-01-01"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.PaymentPlan == nil || out.PaymentPlan.DueDate != "2024-02-15" {
			t.Errorf("expected Net 45 due date, got %+v", out.PaymentPlan)
		}
	})
}
