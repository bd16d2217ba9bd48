package approval

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/retifica/backend/internal/domain/budget"
	"github.com/retifica/backend/internal/domain/finance"
	"github.com/retifica/backend/internal/domain/inventory"
	"github.com/retifica/backend/internal/domain/notification"
	"github.com/retifica/backend/internal/domain/order"
	"github.com/retifica/backend/internal/domain/purchasing"
	"github.com/retifica/backend/internal/infrastructure/telemetry"
)

// Repositories bundles the stores the reconciler reads and writes outside
// of the transition transaction.
type Repositories struct {
	Budgets       budget.BudgetRepository
	Approvals     budget.ApprovalRepository
	Orders        order.Repository
	History       order.StatusHistoryRepository
	Stock         inventory.StockRepository
	StockAlerts   inventory.StockAlertRepository
	Reservations  inventory.ReservationRepository
	Movements     inventory.MovementRepository
	PurchaseNeeds purchasing.PurchaseNeedRepository
	Alerts        notification.AlertRepository
	Receivables   finance.AccountReceivableRepository
}

// TransitionScope runs the budget and order status transitions atomically.
// If fn returns an error, both transitions are rolled back.
type TransitionScope interface {
	Execute(ctx context.Context, fn func(repos TransitionalRepositories) error) error
}

// TransitionalRepositories exposes the repositories bound to the transition transaction
type TransitionalRepositories interface {
	BudgetRepo() budget.BudgetRepository
	OrderRepo() order.Repository
}

// NoOpTransitionScope runs the transitions without a transaction.
// It is used by tests and by stores without transaction support.
type NoOpTransitionScope struct {
	budgets budget.BudgetRepository
	orders  order.Repository
}

// NewNoOpTransitionScope creates a NoOpTransitionScope over the given repositories
func NewNoOpTransitionScope(budgets budget.BudgetRepository, orders order.Repository) *NoOpTransitionScope {
	return &NoOpTransitionScope{budgets: budgets, orders: orders}
}

// Execute runs fn directly
func (s *NoOpTransitionScope) Execute(_ context.Context, fn func(repos TransitionalRepositories) error) error {
	return fn(s)
}

// BudgetRepo returns the budget repository
func (s *NoOpTransitionScope) BudgetRepo() budget.BudgetRepository {
	return s.budgets
}

// OrderRepo returns the order repository
func (s *NoOpTransitionScope) OrderRepo() order.Repository {
	return s.orders
}

var _ TransitionScope = (*NoOpTransitionScope)(nil)
var _ TransitionalRepositories = (*NoOpTransitionScope)(nil)

// WorkflowTrigger creates the production workflow of an order from its engine type
type WorkflowTrigger interface {
	CreateFromEngineType(ctx context.Context, orderID uuid.UUID) error
}

var (
	// ErrLockNotObtained is returned by a Locker when the key is held elsewhere
	ErrLockNotObtained = errors.New("approval lock not obtained")
	// ErrLockLost is returned by Lease.Refresh once the lease expired or changed hands
	ErrLockLost = errors.New("approval lock lost")
)

// Lease is a held approval lock
type Lease interface {
	// Refresh extends the lease to ttl from now
	Refresh(ctx context.Context, ttl time.Duration) error
	// Release frees the lock. Releasing an expired lease is not an error.
	Release(ctx context.Context) error
}

// Locker serializes approvals of the same budget
type Locker interface {
	Lock(ctx context.Context, key string, ttl time.Duration) (Lease, error)
}

// LockKey returns the lock key of a budget approval
func LockKey(budgetID uuid.UUID) string {
	return "budget-approval:" + budgetID.String()
}

// MetricsRecorder receives the outcome of every Approve call
type MetricsRecorder interface {
	RecordApproval(ctx context.Context, o telemetry.ApprovalOutcome)
}
