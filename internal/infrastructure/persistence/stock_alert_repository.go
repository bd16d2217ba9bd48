package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/retifica/backend/internal/domain/inventory"
	"github.com/retifica/backend/internal/domain/shared"
	"github.com/retifica/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStockAlertRepository implements inventory.StockAlertRepository using GORM
type GormStockAlertRepository struct {
	db *gorm.DB
}

// NewGormStockAlertRepository creates a new GormStockAlertRepository
func NewGormStockAlertRepository(db *gorm.DB) *GormStockAlertRepository {
	return &GormStockAlertRepository{db: db}
}

// Upsert inserts the alert or refreshes the existing one for (tenant_id, part_code)
func (r *GormStockAlertRepository) Upsert(ctx context.Context, alert *inventory.StockAlert) error {
	model := &models.StockAlertModel{}
	model.FromDomain(alert)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "tenant_id"}, {Name: "part_code"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"part_name", "current_stock", "minimum_stock", "alert_level",
				"alert_type", "message", "is_active", "updated_at",
			}),
		}).
		Create(model).Error
}

// FindByPartCode returns the alert for a part code
func (r *GormStockAlertRepository) FindByPartCode(ctx context.Context, tenantID uuid.UUID, partCode string) (*inventory.StockAlert, error) {
	var model models.StockAlertModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND part_code = ?", tenantID, partCode).
		Take(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

var _ inventory.StockAlertRepository = (*GormStockAlertRepository)(nil)
