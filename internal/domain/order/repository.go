package order

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines persistence operations for orders
type Repository interface {
	// FindByID finds an order by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// UpdateStatus sets the order status, returning shared.ErrNotFound when no row matched
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
}

// StatusHistoryRepository is the append-only store of status changes
type StatusHistoryRepository interface {
	Append(ctx context.Context, entry *StatusHistory) error
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]StatusHistory, error)
}
