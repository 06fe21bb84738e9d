package accounting

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ap-reconciler/backend/internal/application/adapter"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		wantType  string
		wantError bool
	}{
		{"simulated quickbooks", Config{Provider: "quickbooks", Mode: "simulated"}, "*accounting.Simulated", false},
		{"netsuite is always simulated", Config{Provider: "NetSuite", Mode: "live"}, "*accounting.Simulated", false},
		{"live quickbooks", Config{Provider: "quickbooks", Mode: "live"}, "*accounting.QuickBooks", false},
		{"live xero", Config{Provider: "xero", Mode: "live"}, "*accounting.Xero", false},
		{"unknown provider", Config{Provider: "sage", Mode: "live"}, "", true},
		{"unknown mode", Config{Provider: "xero", Mode: "batch"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := New(tt.cfg)
			if tt.wantError {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			var typeName string
			switch got.(type) {
			case *Simulated:
				typeName = "*accounting.Simulated"
			case *QuickBooks:
				typeName = "*accounting.QuickBooks"
			case *Xero:
				typeName = "*accounting.Xero"
			}
			if typeName != tt.wantType {
				t.Errorf("expected %s, got %T", tt.wantType, got)
			}
		})
	}
}

func TestSimulated(t *testing.T) {
	ctx := context.Background()
	sim := NewSimulated(ProviderXero)

	if !sim.IsConnected(ctx) {
		t.Error("expected simulated integration to be connected")
	}

	first, err := sim.CreateBill(ctx, adapter.BillPayload{VendorName: "Acme Corp", TotalAmount: decimal.NewFromInt(5000)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, _ := sim.CreateBill(ctx, adapter.BillPayload{VendorName: "Acme Corp", TotalAmount: decimal.NewFromInt(5000)})
	if !strings.HasPrefix(first.ExternalID, "X-BILL-") || !first.Simulated {
		t.Errorf("expected simulated X-BILL id, got %+v", first)
	}
	if first.ExternalID == second.ExternalID {
		t.Errorf("expected distinct ids, got %s twice", first.ExternalID)
	}

	if _, err := sim.CreateBill(ctx, adapter.BillPayload{TotalAmount: decimal.NewFromInt(1)}); err == nil {
		t.Error("expected error without vendor name")
	}

	authURL, err := sim.AuthURL("xyz")
	if err != nil || !strings.Contains(authURL, "login.xero.com") || !strings.Contains(authURL, "state=xyz") {
		t.Errorf("unexpected auth url %q (%v)", authURL, err)
	}
}

func TestQuickBooksCreateBill(t *testing.T) {
	var posted qbBill
	var createdVendor bool

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/v3/company/123/") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "/query"):
			q := r.URL.Query().Get("query")
			if strings.Contains(q, "from Vendor") {
				if !strings.Contains(q, `O\'Brien`) {
					t.Errorf("expected escaped vendor name, got %s", q)
				}
				_, _ = io.WriteString(w, `{"QueryResponse":{}}`)
				return
			}
			_, _ = io.WriteString(w, `{"QueryResponse":{"Account":[{"Id":"7","Name":"Purchases"}]}}`)
		case strings.HasSuffix(r.URL.Path, "/vendor"):
			createdVendor = true
			_, _ = io.WriteString(w, `{"Vendor":{"Id":"55","DisplayName":"O'Brien Supply"}}`)
		case strings.HasSuffix(r.URL.Path, "/bill"):
			if err := json.NewDecoder(r.Body).Decode(&posted); err != nil {
				t.Errorf("failed to decode bill: %v", err)
			}
			_, _ = io.WriteString(w, `{"Bill":{"Id":"QB-1"}}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	qb := NewQuickBooks(Config{
		ClientID:     "client",
		RefreshToken: "refresh",
		RealmID:      "123",
		BaseURL:      srv.URL,
	}, srv.Client())

	result, err := qb.CreateBill(context.Background(), adapter.BillPayload{
		VendorName:    "O'Brien Supply",
		TotalAmount:   decimal.RequireFromString("5000"),
		InvoiceNumber: "INV-1",
		DueDate:       "2024-02-14",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ExternalID != "QB-1" || result.Simulated {
		t.Errorf("expected live bill QB-1, got %+v", result)
	}
	if !createdVendor {
		t.Error("expected vendor to be created")
	}
	if posted.VendorRef.Value != "55" || len(posted.Line) != 1 {
		t.Fatalf("unexpected bill payload %+v", posted)
	}
	if posted.Line[0].Amount != "5000.00" || posted.Line[0].AccountBasedExpenseLineDetail.AccountRef.Value != "7" {
		t.Errorf("unexpected bill line %+v", posted.Line[0])
	}
}

func TestQuickBooksErrors(t *testing.T) {
	t.Run("not connected", func(t *testing.T) {
		qb := NewQuickBooks(Config{ClientID: "client"}, http.DefaultClient)
		if _, err := qb.CreateBill(context.Background(), adapter.BillPayload{VendorName: "Acme"}); !errors.Is(err, ErrNotConnected) {
			t.Errorf("expected ErrNotConnected, got %v", err)
		}
	})

	t.Run("api failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"Fault":{"type":"AUTHENTICATION"}}`, http.StatusUnauthorized)
		}))
		defer srv.Close()

		qb := NewQuickBooks(Config{ClientID: "c", RefreshToken: "r", RealmID: "1", ExpenseAccountID: "7", BaseURL: srv.URL}, srv.Client())
		_, err := qb.CreateBill(context.Background(), adapter.BillPayload{VendorName: "Acme"})
		var httpErr *httpError
		if !errors.As(err, &httpErr) || httpErr.Status != http.StatusUnauthorized {
			t.Errorf("expected 401 http error, got %v", err)
		}
	})

	t.Run("auth url", func(t *testing.T) {
		qb := NewQuickBooks(Config{ClientID: "client", RedirectURI: "http://localhost/cb"}, http.DefaultClient)
		got, err := qb.AuthURL("state-1")
		if err != nil || !strings.HasPrefix(got, quickBooksEndpoint.AuthURL) || !strings.Contains(got, "state=state-1") {
			t.Errorf("unexpected auth url %q (%v)", got, err)
		}
	})
}

func TestXeroCreateBill(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/Invoices" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Xero-tenant-id") != "tenant" {
			t.Errorf("expected tenant header, got %q", r.Header.Get("Xero-tenant-id"))
		}
		var body struct {
			Invoices []xeroInvoice `json:"Invoices"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("failed to decode body: %v", err)
		}
		if len(body.Invoices) != 1 || body.Invoices[0].Type != "ACCPAY" || body.Invoices[0].LineItems[0].UnitAmount != "1250.50" {
			t.Errorf("unexpected invoice payload %+v", body)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"Invoices":[{"InvoiceID":"b9f1","Type":"ACCPAY","Status":"DRAFT"}]}`)
	}))
	defer srv.Close()

	xero := NewXero(Config{ClientID: "c", RefreshToken: "r", TenantID: "tenant", BaseURL: srv.URL}, srv.Client())
	result, err := xero.CreateBill(context.Background(), adapter.BillPayload{
		VendorName:  "Globex",
		TotalAmount: decimal.RequireFromString("1250.5"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ExternalID != "b9f1" || result.Provider != ProviderXero {
		t.Errorf("expected xero bill b9f1, got %+v", result)
	}
}
