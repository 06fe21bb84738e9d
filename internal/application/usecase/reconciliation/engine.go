// Package reconciliation contains vendor resolution and two- and three-way invoice matching.
package reconciliation

import (
	"github.com/shopspring/decimal"

	"github.com/ap-reconciler/backend/internal/application/adapter"
	domainerror "github.com/ap-reconciler/backend/internal/domain/error"
	"github.com/ap-reconciler/backend/internal/domain/valueobject"
)

var one = decimal.NewFromInt(1)

// Engine matches invoices against vendors, purchase orders and goods receipts.
// It is stateless: every call reads current store state.
type Engine struct {
	store  adapter.ReconciliationStore
	config valueobject.MatchingConfig
}

// NewEngine creates a new Engine instance.
func NewEngine(store adapter.ReconciliationStore, config valueobject.MatchingConfig) *Engine {
	return &Engine{
		store:  store,
		config: config,
	}
}

// Config returns the matching configuration the engine runs with.
func (e *Engine) Config() valueobject.MatchingConfig {
	return e.config
}

// storeError keeps storage failures distinguishable from lookup misses.
func storeError(operation string, err error) error {
	if domainerror.IsStoreUnavailable(err) {
		return err
	}
	return domainerror.NewStoreError(operation, err)
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
