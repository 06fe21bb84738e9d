// Package dependency provides dependency injection for the application.
package dependency

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ap-reconciler/backend/config"
	"github.com/ap-reconciler/backend/internal/application/adapter"
	"github.com/ap-reconciler/backend/internal/application/usecase/analytics"
	"github.com/ap-reconciler/backend/internal/application/usecase/auth"
	"github.com/ap-reconciler/backend/internal/application/usecase/invoice"
	"github.com/ap-reconciler/backend/internal/application/usecase/payment"
	purchaseorder "github.com/ap-reconciler/backend/internal/application/usecase/purchase_order"
	"github.com/ap-reconciler/backend/internal/application/usecase/reconciliation"
	"github.com/ap-reconciler/backend/internal/application/usecase/vendor"
	"github.com/ap-reconciler/backend/internal/domain/valueobject"
	"github.com/ap-reconciler/backend/internal/infra/cache"
	"github.com/ap-reconciler/backend/internal/infra/server/router"
	"github.com/ap-reconciler/backend/internal/integration/accounting"
	"github.com/ap-reconciler/backend/internal/integration/adapters"
	"github.com/ap-reconciler/backend/internal/integration/email"
	"github.com/ap-reconciler/backend/internal/integration/email/templates"
	"github.com/ap-reconciler/backend/internal/integration/entrypoint/controller"
	"github.com/ap-reconciler/backend/internal/integration/entrypoint/middleware"
	"github.com/ap-reconciler/backend/internal/integration/persistence"
)

// Injector holds all application dependencies.
type Injector struct {
	Config      *config.Config
	DB          *gorm.DB
	Redis       *redis.Client
	Router      *router.Router
	EmailWorker *email.Worker
}

// NewInjector creates a new dependency injector with all dependencies wired.
// redisClient may be nil, which disables deduplication and login rate limiting.
func NewInjector(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Injector, error) {
	// Create repositories
	vendorRepo := persistence.NewVendorRepository(db)
	poRepo := persistence.NewPurchaseOrderRepository(db)
	invoiceRepo := persistence.NewInvoiceRepository(db)
	reviewerRepo := persistence.NewReviewerRepository(db)
	emailQueueRepo := persistence.NewEmailQueueRepository(db)
	store := persistence.NewReconciliationStore(db)

	// Create reconciliation engine
	engine := reconciliation.NewEngine(store, NewMatchingConfig(cfg.Matching))

	// Create adapters/services
	passwordService := adapters.NewPasswordService()
	tokenService := adapters.NewTokenService(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)
	extractor := newExtractor(&cfg.Extraction)
	preprocessor := adapters.NewImagePreprocessor(cfg.Extraction.MaxImageDimension)

	var dedup adapter.DocumentDeduplicator
	if redisClient != nil {
		dedup = adapters.NewRedisDeduplicator(redisClient, cfg.Redis.DedupTTL)
	}

	accountingIntegration, err := accounting.New(accounting.Config{
		Provider:         cfg.Accounting.Provider,
		Mode:             cfg.Accounting.Mode,
		ClientID:         cfg.Accounting.ClientID,
		ClientSecret:     cfg.Accounting.ClientSecret,
		RedirectURI:      cfg.Accounting.RedirectURI,
		RefreshToken:     cfg.Accounting.RefreshToken,
		RealmID:          cfg.Accounting.RealmID,
		TenantID:         cfg.Accounting.TenantID,
		ExpenseAccountID: cfg.Accounting.ExpenseAccountID,
		BaseURL:          cfg.Accounting.BaseURL,
		TokenURL:         cfg.Accounting.TokenURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create accounting integration: %w", err)
	}

	// Create email service and worker
	emailService := email.NewService(emailQueueRepo, cfg.Email.ReviewerEmails, cfg.Email.AppBaseURL)
	renderer, err := templates.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to load email templates: %w", err)
	}
	emailSender := email.NewSender(cfg.Email.ResendAPIKey, cfg.Email.FromName, cfg.Email.FromEmail)
	emailWorker := email.NewWorker(emailQueueRepo, emailSender, renderer, email.WorkerConfig{
		PollInterval:  cfg.Email.PollInterval,
		BatchSize:     cfg.Email.BatchSize,
		RetentionDays: cfg.Email.RetentionDays,
	})

	// Create auth use cases
	loginUseCase := auth.NewLoginReviewerUseCase(reviewerRepo, passwordService, tokenService)

	// Create vendor use cases
	createVendorUseCase := vendor.NewCreateVendorUseCase(vendorRepo)
	listVendorsUseCase := vendor.NewListVendorsUseCase(vendorRepo)
	updateVendorUseCase := vendor.NewUpdateVendorUseCase(vendorRepo)

	// Create purchase order use cases
	createPOUseCase := purchaseorder.NewCreatePurchaseOrderUseCase(poRepo, vendorRepo)
	getPOUseCase := purchaseorder.NewGetPurchaseOrderUseCase(poRepo)
	listPOsUseCase := purchaseorder.NewListPurchaseOrdersUseCase(poRepo)
	updatePOStatusUseCase := purchaseorder.NewUpdateStatusUseCase(poRepo)
	recordReceiptUseCase := purchaseorder.NewRecordReceiptUseCase(poRepo)
	listReceiptsUseCase := purchaseorder.NewListReceiptsUseCase(poRepo)

	// Create reconciliation and payment use cases
	reconcileUseCase := reconciliation.NewReconcileInvoiceUseCase(engine)
	optimizeUseCase := payment.NewOptimizePaymentUseCase()
	scheduleUseCase := payment.NewGetScheduleUseCase(invoiceRepo)
	spendUseCase := analytics.NewGetSpendSummaryUseCase(invoiceRepo)

	// Create invoice use cases
	ingestUseCase := invoice.NewIngestDocumentUseCase(invoiceRepo, engine, extractor, preprocessor, dedup, emailService)
	getInvoiceUseCase := invoice.NewGetInvoiceUseCase(invoiceRepo)
	listInvoicesUseCase := invoice.NewListInvoicesUseCase(invoiceRepo)
	revalidateUseCase := invoice.NewRevalidateInvoiceUseCase(invoiceRepo, engine)
	approveUseCase := invoice.NewApproveInvoiceUseCase(invoiceRepo)
	rejectUseCase := invoice.NewRejectInvoiceUseCase(invoiceRepo)
	markPaidUseCase := invoice.NewMarkPaidUseCase(invoiceRepo)
	exportUseCase := invoice.NewExportBillUseCase(invoiceRepo, accountingIntegration)

	// Create controllers
	extractorName := "none"
	if extractor != nil {
		extractorName = extractor.Name()
	}
	dbHealthChecker := func(ctx context.Context) bool {
		sqlDB, err := db.DB()
		if err != nil {
			return false
		}
		return sqlDB.PingContext(ctx) == nil
	}
	var redisHealthChecker controller.HealthChecker
	if redisClient != nil {
		redisHealthChecker = cache.HealthCheck(redisClient)
	}
	healthController := controller.NewHealthController(dbHealthChecker, redisHealthChecker, extractorName, accountingIntegration.Name())

	controllers := router.Controllers{
		Health: healthController,
		Auth:   controller.NewAuthController(loginUseCase),
		Vendor: controller.NewVendorController(
			createVendorUseCase,
			listVendorsUseCase,
			updateVendorUseCase,
			engine,
		),
		PurchaseOrder: controller.NewPurchaseOrderController(
			createPOUseCase,
			getPOUseCase,
			listPOsUseCase,
			updatePOStatusUseCase,
			recordReceiptUseCase,
			listReceiptsUseCase,
		),
		Reconciliation: controller.NewReconciliationController(reconcileUseCase),
		Payment:        controller.NewPaymentController(optimizeUseCase, scheduleUseCase, spendUseCase),
		Invoice: controller.NewInvoiceController(
			ingestUseCase,
			getInvoiceUseCase,
			listInvoicesUseCase,
			revalidateUseCase,
			approveUseCase,
			rejectUseCase,
			markPaidUseCase,
			exportUseCase,
			cfg.Server.MaxUploadBytes,
		),
		Accounting: controller.NewAccountingController(accountingIntegration),
	}

	// Create middleware
	var loginRateLimiter *middleware.RateLimiter
	if redisClient != nil {
		loginRateLimiter = middleware.NewRateLimiterWithConfig(redisClient, "login", cfg.Redis.LoginMaxAttempts, cfg.Redis.LoginWindow)
	}
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	// Create router
	r := router.NewRouter(controllers, loginRateLimiter, authMiddleware)

	slog.Info("Dependencies wired",
		"extractor", extractorName,
		"accounting", accountingIntegration.Name(),
		"dedup_enabled", dedup != nil,
	)

	return &Injector{
		Config:      cfg,
		DB:          db,
		Redis:       redisClient,
		Router:      r,
		EmailWorker: emailWorker,
	}, nil
}

// NewMatchingConfig applies the configured switches over the default matching configuration.
func NewMatchingConfig(cfg config.MatchingConfig) valueobject.MatchingConfig {
	matching := valueobject.DefaultMatchingConfig()
	matching.StrictVendorMatch = cfg.StrictVendorMatch
	matching.RejectClosedPOs = cfg.RejectClosedPOs
	if cfg.ReviewConfidenceMin > 0 {
		matching.ReviewConfidence = decimal.NewFromFloat(cfg.ReviewConfidenceMin)
	}
	return matching
}

// newExtractor returns the configured extraction provider, or nil when extraction is disabled.
func newExtractor(cfg *config.ExtractionConfig) adapter.DocumentExtractor {
	switch cfg.Provider {
	case "gemini":
		return adapters.NewGeminiExtractor(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.MaxIterations)
	case "documentai":
		return adapters.NewDocumentAIExtractor(
			cfg.DocumentAI.ProjectID,
			cfg.DocumentAI.Location,
			cfg.DocumentAI.ProcessorID,
			cfg.DocumentAI.CredentialsFile,
		)
	default:
		slog.Warn("Document extraction disabled", "provider", cfg.Provider)
		return nil
	}
}
