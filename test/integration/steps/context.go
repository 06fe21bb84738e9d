// Package steps provides step definitions for BDD integration tests.
package steps

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/cucumber/godog"
	"github.com/gin-gonic/gin"

	"github.com/ap-reconciler/backend/config"
	"github.com/ap-reconciler/backend/internal/infra/dependency"
	"github.com/ap-reconciler/backend/test/integration/mock"
)

const (
	testJWTSecret = "test-jwt-secret-key-for-testing-purposes"
	testRealmID   = "9130"
)

// Shared suite resources, created once in BeforeSuite.
var (
	server      *httptest.Server
	testDB      *mock.Db
	testRedis   *mock.Redis
	accountsAPI *mock.ApiMock
)

// TestContext holds the test state for each scenario.
type TestContext struct {
	client   *http.Client
	headers  map[string]string
	response *response

	// Auth
	accessToken string

	// Placeholders captured from earlier steps, e.g. {{invoice_id}}
	vars map[string]string
}

type response struct {
	status int
	body   any
}

// InitializeTestSuite sets up resources before any scenarios run.
func InitializeTestSuite(ctx *godog.TestSuiteContext) {
	ctx.BeforeSuite(func() {
		gin.SetMode(gin.TestMode)

		testDB = mock.NewDb()
		testRedis = mock.NewRedis()
		accountsAPI = mock.NewApiServer()
		accountsAPI.Start()

		injector, err := dependency.NewInjector(testConfig(accountsAPI.GetUrl()), testDB.DbConn, testRedis.Client)
		if err != nil {
			panic(fmt.Sprintf("failed to wire dependencies: %v", err))
		}
		server = httptest.NewServer(injector.Router.Setup("test"))
	})

	ctx.AfterSuite(func() {
		if server != nil {
			server.Close()
		}
		if accountsAPI != nil {
			accountsAPI.Close()
		}
	})
}

// testConfig runs every integration against local fakes: sqlite, miniredis and
// a QuickBooks API mock in live mode.
func testConfig(accountingURL string) *config.Config {
	cfg := config.Load()
	cfg.Server.Environment = "test"
	cfg.JWT.Secret = testJWTSecret
	cfg.JWT.AccessTokenExpiry = time.Hour
	cfg.Redis.LoginMaxAttempts = 3
	cfg.Redis.LoginWindow = time.Minute
	cfg.Extraction.Provider = "none"
	cfg.Email.ReviewerEmails = []string{"ap-team@example.com"}
	cfg.Accounting = config.AccountingConfig{
		Provider:         "quickbooks",
		Mode:             "live",
		ClientID:         "client-id",
		ClientSecret:     "client-secret",
		RedirectURI:      "http://localhost/callback",
		RefreshToken:     "refresh-token",
		RealmID:          testRealmID,
		ExpenseAccountID: "7",
		BaseURL:          accountingURL,
		TokenURL:         accountingURL + "/oauth2/token",
	}
	return cfg
}

// InitializeScenario registers all step definitions.
func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &TestContext{
		client: &http.Client{Timeout: 10 * time.Second},
	}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		if err := testDB.ClearDB(); err != nil {
			return ctx, err
		}
		if err := testRedis.Clear(); err != nil {
			return ctx, err
		}
		accountsAPI.Reset()
		return ctx, nil
	})

	// Background steps
	ctx.Given(`^the API server is running$`, tc.theAPIServerIsRunning)

	// Fixture steps
	ctx.Given(`^a reviewer exists with email "([^"]*)" and password "([^"]*)"$`, tc.aReviewerExistsWithEmailAndPassword)
	ctx.Given(`^I am logged in as reviewer "([^"]*)"$`, tc.iAmLoggedInAsReviewer)
	ctx.Given(`^the sample vendors and purchase orders exist$`, tc.theSampleVendorsAndPurchaseOrdersExist)
	ctx.Given(`^an? "([^"]*)" invoice from "([^"]*)" for "([^"]*)" exists$`, tc.anInvoiceExists)
	ctx.Given(`^the accounting API responds to "([^"]*)" "([^"]*)" with status (\d+) and body:$`, tc.theAccountingAPIRespondsWith)

	// Header steps
	ctx.Given(`^the header is empty$`, tc.theHeaderIsEmpty)
	ctx.Given(`^the header contains the key "([^"]*)" with "([^"]*)"$`, tc.theHeaderContainsTheKeyWith)

	// Request steps
	ctx.When(`^I send a "([^"]*)" request to "([^"]*)"$`, tc.iSendARequestTo)
	ctx.Step(`^I send a "([^"]*)" request to "([^"]*)" with body:$`, tc.iSendARequestToWithBody)
	ctx.When(`^I send (\d+) "([^"]*)" requests to "([^"]*)" with body:$`, tc.iSendRequestsToWithBody)

	// Response assertion steps
	ctx.Then(`^the response status should be (\d+)$`, tc.theResponseStatusShouldBe)
	ctx.Then(`^the response should be JSON$`, tc.theResponseShouldBeJSON)
	ctx.Then(`^the response should contain "([^"]*)"$`, tc.theResponseShouldContain)
	ctx.Then(`^the response field "([^"]*)" should be "([^"]*)"$`, tc.theResponseFieldShouldBe)
	ctx.Then(`^the response field "([^"]*)" should exist$`, tc.theResponseFieldShouldExist)
	ctx.Then(`^the response field "([^"]*)" should have (\d+) items?$`, tc.theResponseFieldShouldHaveItems)

	// Database assertion steps
	ctx.Then(`^the db should contain (\d+) objects in the "([^"]*)" table$`, tc.theDbShouldContainObjectsInTheTable)
	ctx.Then(`^the db should contain (\d+) objects in "([^"]*)" with the values$`, tc.theDbShouldContainObjectsInWithTheValues)

	// External API assertion steps
	ctx.Then(`^the accounting API should have received (\d+) "([^"]*)" requests? to "([^"]*)"$`, tc.theAccountingAPIShouldHaveReceived)
	ctx.Then(`^the last accounting "([^"]*)" request to "([^"]*)" should have header "([^"]*)" with "([^"]*)"$`, tc.theLastAccountingRequestShouldHaveHeader)
}

func (t *TestContext) reset() {
	t.headers = make(map[string]string)
	t.response = nil
	t.accessToken = ""
	t.vars = map[string]string{"realm_id": testRealmID}
}

func (t *TestContext) theAPIServerIsRunning() error {
	if server == nil {
		return fmt.Errorf("test server is not running")
	}
	resp, err := t.client.Get(server.URL + "/health")
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned %d", resp.StatusCode)
	}
	return nil
}
