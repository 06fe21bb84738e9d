package accounting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"

	"github.com/ap-reconciler/backend/internal/application/adapter"
)

const (
	quickBooksBaseURL  = "https://quickbooks.api.intuit.com"
	quickBooksScope    = "com.intuit.quickbooks.accounting"
	quickBooksMinorVer = "70"
)

var quickBooksEndpoint = oauth2.Endpoint{
	AuthURL:  "https://appcenter.intuit.com/connect/oauth2",
	TokenURL: "https://oauth.platform.intuit.com/oauth2/v1/tokens/bearer",
}

// QuickBooks creates bills through the QuickBooks Online accounting API.
type QuickBooks struct {
	oauth      *oauth2.Config
	cfg        Config
	baseURL    string
	httpClient *http.Client
}

// NewQuickBooks creates a live QuickBooks integration. A nil httpClient uses an
// oauth2 client that refreshes the configured token.
func NewQuickBooks(cfg Config, httpClient *http.Client) *QuickBooks {
	oauthCfg := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURI,
		Scopes:       []string{quickBooksScope},
		Endpoint:     withTokenURL(quickBooksEndpoint, cfg),
	}
	if httpClient == nil {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, &http.Client{Timeout: httpTimeout})
		httpClient = oauthCfg.Client(ctx, &oauth2.Token{RefreshToken: cfg.RefreshToken})
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = quickBooksBaseURL
	}
	return &QuickBooks{
		oauth:      oauthCfg,
		cfg:        cfg,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
	}
}

// Name returns the provider name.
func (q *QuickBooks) Name() string { return ProviderQuickBooks }

// IsConnected reports whether a company and refresh token are configured.
func (q *QuickBooks) IsConnected(_ context.Context) bool {
	return q.cfg.ClientID != "" && q.cfg.RefreshToken != "" && q.cfg.RealmID != ""
}

// AuthURL returns the Intuit consent URL.
func (q *QuickBooks) AuthURL(state string) (string, error) {
	if q.cfg.ClientID == "" {
		return "", fmt.Errorf("quickbooks client id is not configured")
	}
	return q.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline), nil
}

type qbRef struct {
	Value string `json:"value"`
	Name  string `json:"name,omitempty"`
}

type qbVendor struct {
	ID          string `json:"Id"`
	DisplayName string `json:"DisplayName"`
}

type qbAccount struct {
	ID   string `json:"Id"`
	Name string `json:"Name"`
}

type qbLine struct {
	DetailType                    string          `json:"DetailType"`
	Amount                        json.Number     `json:"Amount"`
	Description                   string          `json:"Description,omitempty"`
	AccountBasedExpenseLineDetail qbExpenseDetail `json:"AccountBasedExpenseLineDetail"`
}

type qbExpenseDetail struct {
	AccountRef qbRef `json:"AccountRef"`
}

type qbBill struct {
	ID        string   `json:"Id,omitempty"`
	VendorRef qbRef    `json:"VendorRef"`
	Line      []qbLine `json:"Line"`
	DocNumber string   `json:"DocNumber,omitempty"`
	TxnDate   string   `json:"TxnDate,omitempty"`
	DueDate   string   `json:"DueDate,omitempty"`
}

// CreateBill finds or creates the vendor, then posts a single-line bill against
// the expense account.
func (q *QuickBooks) CreateBill(ctx context.Context, bill adapter.BillPayload) (*adapter.BillResult, error) {
	if !q.IsConnected(ctx) {
		return nil, ErrNotConnected
	}

	vendor, err := q.findOrCreateVendor(ctx, bill.VendorName)
	if err != nil {
		return nil, err
	}
	accountID, err := q.expenseAccount(ctx)
	if err != nil {
		return nil, err
	}

	payload := qbBill{
		VendorRef: qbRef{Value: vendor.ID, Name: vendor.DisplayName},
		Line: []qbLine{{
			DetailType:  "AccountBasedExpenseLineDetail",
			Amount:      json.Number(bill.TotalAmount.StringFixed(2)),
			Description: bill.Description,
			AccountBasedExpenseLineDetail: qbExpenseDetail{
				AccountRef: qbRef{Value: accountID},
			},
		}},
		DocNumber: bill.InvoiceNumber,
		TxnDate:   bill.InvoiceDate,
		DueDate:   bill.DueDate,
	}

	var out struct {
		Bill qbBill `json:"Bill"`
	}
	if err := q.do(ctx, http.MethodPost, "bill", nil, payload, &out); err != nil {
		return nil, fmt.Errorf("failed to create quickbooks bill: %w", err)
	}

	slog.InfoContext(ctx, "quickbooks bill created", "bill_id", out.Bill.ID, "vendor", vendor.DisplayName)
	return &adapter.BillResult{
		Provider:   ProviderQuickBooks,
		ExternalID: out.Bill.ID,
	}, nil
}

func (q *QuickBooks) findOrCreateVendor(ctx context.Context, name string) (*qbVendor, error) {
	var found struct {
		QueryResponse struct {
			Vendor []qbVendor `json:"Vendor"`
		} `json:"QueryResponse"`
	}
	stmt := fmt.Sprintf("select * from Vendor where DisplayName = '%s'", escapeQBO(name))
	if err := q.query(ctx, stmt, &found); err != nil {
		return nil, fmt.Errorf("failed to look up quickbooks vendor: %w", err)
	}
	if len(found.QueryResponse.Vendor) > 0 {
		return &found.QueryResponse.Vendor[0], nil
	}

	var created struct {
		Vendor qbVendor `json:"Vendor"`
	}
	if err := q.do(ctx, http.MethodPost, "vendor", nil, qbVendor{DisplayName: name}, &created); err != nil {
		return nil, fmt.Errorf("failed to create quickbooks vendor: %w", err)
	}
	return &created.Vendor, nil
}

func (q *QuickBooks) expenseAccount(ctx context.Context) (string, error) {
	if q.cfg.ExpenseAccountID != "" {
		return q.cfg.ExpenseAccountID, nil
	}
	var found struct {
		QueryResponse struct {
			Account []qbAccount `json:"Account"`
		} `json:"QueryResponse"`
	}
	if err := q.query(ctx, "select * from Account where AccountType = 'Expense'", &found); err != nil {
		return "", fmt.Errorf("failed to look up expense account: %w", err)
	}
	if len(found.QueryResponse.Account) == 0 {
		return "", fmt.Errorf("no expense account found in quickbooks")
	}
	return found.QueryResponse.Account[0].ID, nil
}

func (q *QuickBooks) query(ctx context.Context, stmt string, out any) error {
	return q.do(ctx, http.MethodGet, "query", url.Values{"query": {stmt}}, nil, out)
}

func (q *QuickBooks) do(ctx context.Context, method, resource string, params url.Values, in, out any) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("minorversion", quickBooksMinorVer)
	endpoint := fmt.Sprintf("%s/v3/company/%s/%s?%s", q.baseURL, url.PathEscape(q.cfg.RealmID), resource, params.Encode())

	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := q.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if err := checkStatus(ProviderQuickBooks, resp, raw); err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// escapeQBO escapes a literal for the QuickBooks query language.
func escapeQBO(s string) string {
	return strings.ReplaceAll(s, "'", `\'`)
}
