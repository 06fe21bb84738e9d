// Package router sets up the HTTP routing for the application.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/ap-reconciler/backend/internal/integration/entrypoint/controller"
	"github.com/ap-reconciler/backend/internal/integration/entrypoint/middleware"
)

// Router holds the Gin engine and controller dependencies.
type Router struct {
	engine                   *gin.Engine
	healthController         *controller.HealthController
	authController           *controller.AuthController
	vendorController         *controller.VendorController
	purchaseOrderController  *controller.PurchaseOrderController
	reconciliationController *controller.ReconciliationController
	paymentController        *controller.PaymentController
	invoiceController        *controller.InvoiceController
	accountingController     *controller.AccountingController
	loginRateLimiter         *middleware.RateLimiter
	authMiddleware           *middleware.AuthMiddleware
}

// Controllers groups the controllers served by the router. Nil controllers are not routed.
type Controllers struct {
	Health         *controller.HealthController
	Auth           *controller.AuthController
	Vendor         *controller.VendorController
	PurchaseOrder  *controller.PurchaseOrderController
	Reconciliation *controller.ReconciliationController
	Payment        *controller.PaymentController
	Invoice        *controller.InvoiceController
	Accounting     *controller.AccountingController
}

// NewRouter creates a new router instance with all dependencies.
func NewRouter(
	controllers Controllers,
	loginRateLimiter *middleware.RateLimiter,
	authMiddleware *middleware.AuthMiddleware,
) *Router {
	return &Router{
		healthController:         controllers.Health,
		authController:           controllers.Auth,
		vendorController:         controllers.Vendor,
		purchaseOrderController:  controllers.PurchaseOrder,
		reconciliationController: controllers.Reconciliation,
		paymentController:        controllers.Payment,
		invoiceController:        controllers.Invoice,
		accountingController:     controllers.Accounting,
		loginRateLimiter:         loginRateLimiter,
		authMiddleware:           authMiddleware,
	}
}

// Setup configures and returns the Gin engine with all routes.
func (r *Router) Setup(environment string) *gin.Engine {
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if environment == "test" {
		gin.SetMode(gin.TestMode)
	}

	// Create router with default middleware (logger and recovery)
	r.engine = gin.Default()

	r.setupHealthRoutes()
	r.setupAPIRoutes()

	return r.engine
}

// setupHealthRoutes configures health check endpoints.
func (r *Router) setupHealthRoutes() {
	if r.healthController != nil {
		r.engine.GET("/health", r.healthController.Check)
	}
}

// setupAPIRoutes configures the main API routes.
func (r *Router) setupAPIRoutes() {
	v1 := r.engine.Group("/api/v1")

	if r.authController != nil {
		auth := v1.Group("/auth")
		if r.loginRateLimiter != nil {
			auth.Use(r.loginRateLimiter.Middleware())
		}
		auth.POST("/login", r.authController.Login)
	}

	// Everything below requires a reviewer token
	if r.authMiddleware == nil {
		return
	}
	protected := v1.Group("")
	protected.Use(r.authMiddleware.Authenticate())

	if r.vendorController != nil {
		vendors := protected.Group("/vendors")
		{
			vendors.GET("", r.vendorController.List)
			vendors.POST("", r.vendorController.Create)
			vendors.POST("/resolve", r.vendorController.Resolve)
			vendors.PATCH("/:id", r.vendorController.Update)
		}
	}

	if r.purchaseOrderController != nil {
		pos := protected.Group("/purchase-orders")
		{
			pos.GET("", r.purchaseOrderController.List)
			pos.POST("", r.purchaseOrderController.Create)
			pos.GET("/:number", r.purchaseOrderController.Get)
			pos.PATCH("/:number/status", r.purchaseOrderController.UpdateStatus)
			pos.GET("/:number/receipts", r.purchaseOrderController.ListReceipts)
			pos.POST("/:number/receipts", r.purchaseOrderController.RecordReceipt)
		}
	}

	if r.reconciliationController != nil {
		protected.POST("/reconciliation/match", r.reconciliationController.Match)
	}

	if r.paymentController != nil {
		payments := protected.Group("/payments")
		{
			payments.POST("/optimize", r.paymentController.Optimize)
			payments.GET("/schedule", r.paymentController.Schedule)
		}
		protected.GET("/analytics/spend", r.paymentController.Spend)
	}

	if r.invoiceController != nil {
		invoices := protected.Group("/invoices")
		{
			invoices.POST("/ingest", r.invoiceController.Ingest)
			invoices.GET("", r.invoiceController.List)
			invoices.GET("/:id", r.invoiceController.Get)
			invoices.POST("/:id/revalidate", r.invoiceController.Revalidate)
			invoices.POST("/:id/approve", r.invoiceController.Approve)
			invoices.POST("/:id/reject", r.invoiceController.Reject)
			invoices.POST("/:id/pay", r.invoiceController.Pay)
			invoices.POST("/:id/export", r.invoiceController.Export)
		}
	}

	if r.accountingController != nil {
		acct := protected.Group("/accounting")
		{
			acct.GET("/status", r.accountingController.Status)
			acct.GET("/auth-url", r.accountingController.AuthURL)
		}
	}
}
