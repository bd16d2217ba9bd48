package budget

import (
	"context"

	"github.com/google/uuid"
)

// BudgetRepository defines persistence operations for budgets
type BudgetRepository interface {
	// FindByID finds a budget by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Budget, error)

	// UpdateStatus sets the budget status, returning shared.ErrNotFound when no row matched
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
}

// ApprovalRepository defines persistence operations for budget approvals
type ApprovalRepository interface {
	// FindByBudget finds the approval record of a budget
	FindByBudget(ctx context.Context, budgetID uuid.UUID) (*BudgetApproval, error)

	// Save creates or updates an approval record
	Save(ctx context.Context, approval *BudgetApproval) error
}
