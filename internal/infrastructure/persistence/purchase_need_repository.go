package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/retifica/backend/internal/domain/purchasing"
	"github.com/retifica/backend/internal/domain/shared"
	"github.com/retifica/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPurchaseNeedRepository implements purchasing.PurchaseNeedRepository using GORM
type GormPurchaseNeedRepository struct {
	db *gorm.DB
}

// NewGormPurchaseNeedRepository creates a new GormPurchaseNeedRepository
func NewGormPurchaseNeedRepository(db *gorm.DB) *GormPurchaseNeedRepository {
	return &GormPurchaseNeedRepository{db: db}
}

// FindPending returns the pending need for the part code
func (r *GormPurchaseNeedRepository) FindPending(ctx context.Context, tenantID uuid.UUID, partCode string) (*purchasing.PurchaseNeed, error) {
	var model models.PurchaseNeedModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND part_code = ? AND status = ?", tenantID, partCode, string(purchasing.NeedStatusPending)).
		Order("created_at ASC").
		Take(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save inserts or updates the need
func (r *GormPurchaseNeedRepository) Save(ctx context.Context, need *purchasing.PurchaseNeed) error {
	model := &models.PurchaseNeedModel{}
	model.FromDomain(need)
	return r.db.WithContext(ctx).Save(model).Error
}

var _ purchasing.PurchaseNeedRepository = (*GormPurchaseNeedRepository)(nil)
