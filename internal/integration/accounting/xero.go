package accounting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/oauth2"

	"github.com/ap-reconciler/backend/internal/application/adapter"
)

const xeroBaseURL = "https://api.xero.com/api.xro/2.0"

var xeroEndpoint = oauth2.Endpoint{
	AuthURL:  "https://login.xero.com/identity/connect/authorize",
	TokenURL: "https://identity.xero.com/connect/token",
}

var xeroScopes = []string{"offline_access", "accounting.transactions", "accounting.contacts"}

// Xero creates bills as ACCPAY invoices through the Xero accounting API.
type Xero struct {
	oauth      *oauth2.Config
	cfg        Config
	baseURL    string
	httpClient *http.Client
}

// NewXero creates a live Xero integration. A nil httpClient uses an oauth2 client
// that refreshes the configured token.
func NewXero(cfg Config, httpClient *http.Client) *Xero {
	oauthCfg := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURI,
		Scopes:       xeroScopes,
		Endpoint:     withTokenURL(xeroEndpoint, cfg),
	}
	if httpClient == nil {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, &http.Client{Timeout: httpTimeout})
		httpClient = oauthCfg.Client(ctx, &oauth2.Token{RefreshToken: cfg.RefreshToken})
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = xeroBaseURL
	}
	return &Xero{
		oauth:      oauthCfg,
		cfg:        cfg,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
	}
}

// Name returns the provider name.
func (x *Xero) Name() string { return ProviderXero }

// IsConnected reports whether a tenant and refresh token are configured.
func (x *Xero) IsConnected(_ context.Context) bool {
	return x.cfg.ClientID != "" && x.cfg.RefreshToken != "" && x.cfg.TenantID != ""
}

// AuthURL returns the Xero consent URL.
func (x *Xero) AuthURL(state string) (string, error) {
	if x.cfg.ClientID == "" {
		return "", fmt.Errorf("xero client id is not configured")
	}
	return x.oauth.AuthCodeURL(state), nil
}

type xeroLineItem struct {
	Description string      `json:"Description"`
	Quantity    json.Number `json:"Quantity"`
	UnitAmount  json.Number `json:"UnitAmount"`
	AccountCode string      `json:"AccountCode,omitempty"`
}

type xeroInvoice struct {
	InvoiceID     string         `json:"InvoiceID,omitempty"`
	Type          string         `json:"Type"`
	Contact       xeroContact    `json:"Contact"`
	LineItems     []xeroLineItem `json:"LineItems"`
	InvoiceNumber string         `json:"InvoiceNumber,omitempty"`
	Date          string         `json:"Date,omitempty"`
	DueDate       string         `json:"DueDate,omitempty"`
	Status        string         `json:"Status"`
}

type xeroContact struct {
	Name string `json:"Name"`
}

// CreateBill posts a draft ACCPAY invoice with one line for the total.
func (x *Xero) CreateBill(ctx context.Context, bill adapter.BillPayload) (*adapter.BillResult, error) {
	if !x.IsConnected(ctx) {
		return nil, ErrNotConnected
	}

	description := bill.Description
	if description == "" {
		description = "Invoice from " + bill.VendorName
	}
	payload := struct {
		Invoices []xeroInvoice `json:"Invoices"`
	}{
		Invoices: []xeroInvoice{{
			Type:    "ACCPAY",
			Contact: xeroContact{Name: bill.VendorName},
			LineItems: []xeroLineItem{{
				Description: description,
				Quantity:    "1",
				UnitAmount:  json.Number(bill.TotalAmount.StringFixed(2)),
				AccountCode: x.cfg.ExpenseAccountID,
			}},
			InvoiceNumber: bill.InvoiceNumber,
			Date:          bill.InvoiceDate,
			DueDate:       bill.DueDate,
			Status:        "DRAFT",
		}},
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode xero invoice: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, x.baseURL+"/Invoices", bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Xero-tenant-id", x.cfg.TenantID)

	resp, err := x.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to create xero bill: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if err := checkStatus(ProviderXero, resp, body); err != nil {
		return nil, fmt.Errorf("failed to create xero bill: %w", err)
	}

	var out struct {
		Invoices []xeroInvoice `json:"Invoices"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(out.Invoices) == 0 || out.Invoices[0].InvoiceID == "" {
		return nil, fmt.Errorf("xero response has no invoice id")
	}

	slog.InfoContext(ctx, "xero bill created", "bill_id", out.Invoices[0].InvoiceID, "vendor", bill.VendorName)
	return &adapter.BillResult{
		Provider:   ProviderXero,
		ExternalID: out.Invoices[0].InvoiceID,
	}, nil
}
