package finance

import (
	"context"

	"github.com/google/uuid"
)

// AccountReceivableRepository defines persistence operations for receivables
type AccountReceivableRepository interface {
	// Upsert inserts the receivable or updates the one already keyed by (order, budget)
	Upsert(ctx context.Context, receivable *AccountReceivable) error

	// FindByBudget finds the receivable of an (order, budget) pair, or shared.ErrNotFound
	FindByBudget(ctx context.Context, orderID, budgetID uuid.UUID) (*AccountReceivable, error)
}
