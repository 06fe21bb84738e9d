package valueobject

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestClassify_Priority(t *testing.T) {
	all := MatchOutcome{
		POProvided: true, POFound: true, VendorMatches: true,
		AmountInTolerance: true, HasReceipts: true, ReceiptsCover: true,
	}

	tests := []struct {
		name   string
		mutate func(*MatchOutcome)
		want   MatchType
	}{
		{"all pass", func(o *MatchOutcome) {}, MatchTypeThreeWaySuccess},
		{"no receipts", func(o *MatchOutcome) { o.HasReceipts = false; o.ReceiptsCover = false }, MatchTypeTwoWaySuccess},
		{"receipts short", func(o *MatchOutcome) { o.ReceiptsCover = false }, MatchTypeThreeWayFailure},
		{"amount out", func(o *MatchOutcome) { o.AmountInTolerance = false; o.ReceiptsCover = false }, MatchTypeTwoWayFailure},
		{"vendor mismatch beats amount", func(o *MatchOutcome) { o.VendorMatches = false; o.AmountInTolerance = false }, MatchTypeVendorMismatch},
		{"closed rejected beats vendor", func(o *MatchOutcome) { o.POClosedRejected = true; o.VendorMatches = false }, MatchTypePOClosed},
		{"not found beats everything after", func(o *MatchOutcome) { o.POFound = false; o.VendorMatches = false }, MatchTypePONotFound},
		{"no po first", func(o *MatchOutcome) { o.POProvided = false; o.POFound = false }, MatchTypeNoPO},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := all
			tt.mutate(&o)
			if got := Classify(o); got != tt.want {
				t.Errorf("Classify = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestMatchType_IsValid(t *testing.T) {
	valid := map[MatchType]bool{
		MatchTypeNoPO:            false,
		MatchTypePONotFound:      false,
		MatchTypePOClosed:        false,
		MatchTypeVendorMismatch:  false,
		MatchTypeTwoWayFailure:   false,
		MatchTypeThreeWayFailure: false,
		MatchTypeTwoWaySuccess:   true,
		MatchTypeThreeWaySuccess: true,
	}
	for mt, want := range valid {
		if mt.IsValid() != want {
			t.Errorf("%s.IsValid() = %v, want %v", mt, mt.IsValid(), want)
		}
	}
}

func TestNamesContain(t *testing.T) {
	loose := DefaultMatchingConfig()
	strict := DefaultMatchingConfig()
	strict.StrictVendorMatch = true

	tests := []struct {
		a, b      string
		wantLoose bool
		wantStrct bool
	}{
		{"Acme Corp", "acme corp", true, true},
		{"Acme Corporation", "Acme Corp", true, false},
		{"Amazon Web Services", "amazon web services inc", true, true},
		{"AWS", "Lawson Supplies", true, false},
		{"  Staples  ", "staples", true, true},
		{"", "Acme Corp", false, false},
		{"Dell", "Acme Corp", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.a+"|"+tt.b, func(t *testing.T) {
			if got := loose.NamesContain(tt.a, tt.b); got != tt.wantLoose {
				t.Errorf("loose = %v, want %v", got, tt.wantLoose)
			}
			if got := strict.NamesContain(tt.a, tt.b); got != tt.wantStrct {
				t.Errorf("strict = %v, want %v", got, tt.wantStrct)
			}
		})
	}
}

func TestRouteForApproval(t *testing.T) {
	d := decimal.NewFromFloat
	tests := []struct {
		name       string
		confidence float64
		amount     float64
		issues     bool
		want       ApprovalRoute
	}{
		{"clean small", 0.97, 1200, false, RouteAutoApprove},
		{"clean mid", 0.97, 7500, false, RouteManager},
		{"clean large", 0.97, 25000, false, RouteDirector},
		{"clean huge", 0.97, 75000, false, RouteExecutive},
		{"issues small", 0.90, 1200, true, RouteManual},
		{"issues mid", 0.90, 7500, true, RouteManager},
		{"issues low confidence", 0.5, 100, true, RouteExecutive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RouteForApproval(d(tt.confidence), d(tt.amount), tt.issues); got != tt.want {
				t.Errorf("RouteForApproval = %s, want %s", got, tt.want)
			}
		})
	}
}
