// Package accounting exports approved invoices as bills to accounting systems.
package accounting

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/ap-reconciler/backend/internal/application/adapter"
)

// Provider names.
const (
	ProviderQuickBooks = "quickbooks"
	ProviderXero       = "xero"
	ProviderNetSuite   = "netsuite"
)

// Modes.
const (
	ModeLive      = "live"
	ModeSimulated = "simulated"
)

const httpTimeout = 30 * time.Second

// ErrNotConnected is returned by CreateBill when credentials are missing.
var ErrNotConnected = errors.New("accounting integration is not connected")

// Config holds the credentials and switches for one accounting integration.
type Config struct {
	Provider         string
	Mode             string
	ClientID         string
	ClientSecret     string
	RedirectURI      string
	RefreshToken     string
	RealmID          string
	TenantID         string
	ExpenseAccountID string
	// BaseURL overrides the provider API root.
	BaseURL string
	// TokenURL overrides the provider OAuth token endpoint.
	TokenURL string
}

// New returns the integration for cfg. Simulated mode works for every provider;
// NetSuite is always simulated.
func New(cfg Config) (adapter.AccountingIntegration, error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	mode := strings.ToLower(strings.TrimSpace(cfg.Mode))

	switch provider {
	case ProviderQuickBooks, ProviderXero, ProviderNetSuite:
	default:
		return nil, fmt.Errorf("unknown accounting provider %q", cfg.Provider)
	}

	if mode == ModeSimulated || mode == "" || provider == ProviderNetSuite {
		return NewSimulated(provider), nil
	}
	if mode != ModeLive {
		return nil, fmt.Errorf("unknown accounting mode %q", cfg.Mode)
	}

	if provider == ProviderQuickBooks {
		return NewQuickBooks(cfg, nil), nil
	}
	return NewXero(cfg, nil), nil
}

// httpError reports a non-2xx response from a provider API.
type httpError struct {
	Provider string
	Status   int
	Body     string
}

func (e *httpError) Error() string {
	return fmt.Sprintf("%s api returned %d: %s", e.Provider, e.Status, e.Body)
}

func checkStatus(provider string, resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	text := strings.TrimSpace(string(body))
	if len(text) > 512 {
		text = text[:512]
	}
	return &httpError{Provider: provider, Status: resp.StatusCode, Body: text}
}

// withTokenURL returns endpoint with the configured token URL override applied.
func withTokenURL(endpoint oauth2.Endpoint, cfg Config) oauth2.Endpoint {
	if cfg.TokenURL != "" {
		endpoint.TokenURL = cfg.TokenURL
	}
	return endpoint
}
