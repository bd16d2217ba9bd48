package purchasing

import (
	"context"

	"github.com/google/uuid"
)

// PurchaseNeedRepository defines persistence operations for purchase needs
type PurchaseNeedRepository interface {
	// FindPending finds the pending need of a part, or shared.ErrNotFound
	FindPending(ctx context.Context, tenantID uuid.UUID, partCode string) (*PurchaseNeed, error)

	// Save creates or updates a purchase need
	Save(ctx context.Context, need *PurchaseNeed) error
}
