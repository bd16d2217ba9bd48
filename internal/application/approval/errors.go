package approval

import "github.com/retifica/backend/internal/domain/shared"

var (
	ErrBudgetNotFound     = shared.ErrNotFound.WithMessage("Budget not found")
	ErrOrderNotFound      = shared.ErrNotFound.WithMessage("Order not found")
	ErrApprovalInProgress = shared.ErrConflict.WithMessage("Budget approval already in progress")
	// ErrTransitionFailed marks a failed budget or order status transition
	ErrTransitionFailed = shared.NewDomainError("TRANSITION_FAILED", "Failed to approve budget")
	// ErrReceivableFailed is returned when strict receivables are enabled and the upsert fails
	ErrReceivableFailed = shared.NewDomainError("RECEIVABLE_FAILED", "Failed to create account receivable")
)
