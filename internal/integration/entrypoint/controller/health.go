package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthChecker reports whether a dependency is reachable.
type HealthChecker func(ctx context.Context) bool

// HealthController handles health check endpoints.
type HealthController struct {
	dbHealthChecker    HealthChecker
	redisHealthChecker HealthChecker
	extractor          string
	accounting         string
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status     string `json:"status"`
	Database   string `json:"database"`
	Redis      string `json:"redis"`
	Extractor  string `json:"extractor"`
	Accounting string `json:"accounting"`
	Timestamp  string `json:"timestamp"`
}

// NewHealthController creates a new health controller instance.
func NewHealthController(dbHealthChecker, redisHealthChecker HealthChecker, extractor, accounting string) *HealthController {
	return &HealthController{
		dbHealthChecker:    dbHealthChecker,
		redisHealthChecker: redisHealthChecker,
		extractor:          extractor,
		accounting:         accounting,
	}
}

// Check handles GET /health requests.
// The status is degraded when the database is unreachable.
func (h *HealthController) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	response := HealthResponse{
		Status:     "ok",
		Database:   probe(ctx, h.dbHealthChecker),
		Redis:      probe(ctx, h.redisHealthChecker),
		Extractor:  h.extractor,
		Accounting: h.accounting,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	}
	if response.Database != "connected" {
		response.Status = "degraded"
	}

	c.JSON(http.StatusOK, response)
}

func probe(ctx context.Context, check HealthChecker) string {
	if check != nil && check(ctx) {
		return "connected"
	}
	return "disconnected"
}
