package notification

import (
	"context"

	"github.com/google/uuid"
)

// AlertRepository defines persistence operations for alerts
type AlertRepository interface {
	// FindActiveByPurchaseNeed finds the active alert of a purchase need, or shared.ErrNotFound
	FindActiveByPurchaseNeed(ctx context.Context, tenantID, purchaseNeedID uuid.UUID) (*Alert, error)

	// Save creates or updates an alert
	Save(ctx context.Context, alert *Alert) error
}
