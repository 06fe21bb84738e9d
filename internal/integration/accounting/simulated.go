package accounting

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/ap-reconciler/backend/internal/application/adapter"
)

var simulatedPrefixes = map[string]string{
	ProviderQuickBooks: "QB-SIM-",
	ProviderXero:       "X-BILL-",
	ProviderNetSuite:   "NS-",
}

var simulatedAuthURLs = map[string]string{
	ProviderQuickBooks: quickBooksEndpoint.AuthURL,
	ProviderXero:       xeroEndpoint.AuthURL,
	ProviderNetSuite:   "https://system.netsuite.com/app/login/oauth2/authorize.nl",
}

// Simulated accepts every bill and returns a generated id. It never calls out.
type Simulated struct {
	provider string
	seq      atomic.Int64
}

// NewSimulated creates a simulated integration for provider.
func NewSimulated(provider string) *Simulated {
	return &Simulated{provider: provider}
}

// Name returns the provider name.
func (s *Simulated) Name() string { return s.provider }

// IsConnected is always true.
func (s *Simulated) IsConnected(_ context.Context) bool { return true }

// AuthURL returns a consent URL with a mock client id.
func (s *Simulated) AuthURL(state string) (string, error) {
	q := url.Values{
		"response_type": {"code"},
		"client_id":     {"mock"},
		"redirect_uri":  {"mock"},
		"state":         {state},
	}
	return simulatedAuthURLs[s.provider] + "?" + q.Encode(), nil
}

// CreateBill returns a generated provider-style bill id.
func (s *Simulated) CreateBill(ctx context.Context, bill adapter.BillPayload) (*adapter.BillResult, error) {
	if strings.TrimSpace(bill.VendorName) == "" {
		return nil, fmt.Errorf("vendor name is required")
	}
	n := s.seq.Add(1)
	id := fmt.Sprintf("%s%d-%d", simulatedPrefixes[s.provider], time.Now().Unix(), n)

	slog.InfoContext(ctx, "simulated bill created",
		"provider", s.provider,
		"bill_id", id,
		"vendor", bill.VendorName,
		"amount", bill.TotalAmount.StringFixed(2),
	)
	return &adapter.BillResult{
		Provider:   s.provider,
		ExternalID: id,
		Simulated:  true,
	}, nil
}
