package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/retifica/backend/internal/domain/notification"
	"github.com/retifica/backend/internal/domain/shared"
	"github.com/retifica/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAlertRepository implements notification.AlertRepository using GORM
type GormAlertRepository struct {
	db *gorm.DB
}

// NewGormAlertRepository creates a new GormAlertRepository
func NewGormAlertRepository(db *gorm.DB) *GormAlertRepository {
	return &GormAlertRepository{db: db}
}

// FindActiveByPurchaseNeed returns the active alert mirroring a purchase need
func (r *GormAlertRepository) FindActiveByPurchaseNeed(ctx context.Context, tenantID, purchaseNeedID uuid.UUID) (*notification.Alert, error) {
	var model models.AlertModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND alert_type = ? AND purchase_need_id = ? AND is_active = ?",
			tenantID, notification.AlertTypePurchaseNeed, purchaseNeedID, true).
		Take(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save inserts or updates the alert
func (r *GormAlertRepository) Save(ctx context.Context, alert *notification.Alert) error {
	model := &models.AlertModel{}
	model.FromDomain(alert)
	return r.db.WithContext(ctx).Save(model).Error
}

var _ notification.AlertRepository = (*GormAlertRepository)(nil)
