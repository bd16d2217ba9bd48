package persistence

import (
	"context"

	"github.com/retifica/backend/internal/application/approval"
	"github.com/retifica/backend/internal/domain/budget"
	"github.com/retifica/backend/internal/domain/order"
	"gorm.io/gorm"
)

// GormTransitionScope implements approval.TransitionScope using GORM transactions.
// The budget and order status changes commit or roll back together.
type GormTransitionScope struct {
	db *gorm.DB
}

// NewGormTransitionScope creates a new GormTransitionScope.
func NewGormTransitionScope(db *gorm.DB) *GormTransitionScope {
	return &GormTransitionScope{db: db}
}

// Execute runs fn within a database transaction.
// If fn returns an error, the transaction is rolled back.
func (s *GormTransitionScope) Execute(ctx context.Context, fn func(repos approval.TransitionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransitionalRepositories{tx: tx})
	})
}

// gormTransitionalRepositories provides repositories bound to the current transaction.
type gormTransitionalRepositories struct {
	tx *gorm.DB
}

// BudgetRepo returns the budget repository scoped to the current transaction.
func (r *gormTransitionalRepositories) BudgetRepo() budget.BudgetRepository {
	return NewGormBudgetRepository(r.tx)
}

// OrderRepo returns the order repository scoped to the current transaction.
func (r *gormTransitionalRepositories) OrderRepo() order.Repository {
	return NewGormOrderRepository(r.tx)
}

var (
	_ approval.TransitionScope          = (*GormTransitionScope)(nil)
	_ approval.TransitionalRepositories = (*gormTransitionalRepositories)(nil)
)
