package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/retifica/backend/internal/domain/inventory"
	"github.com/retifica/backend/internal/domain/shared"
	"github.com/retifica/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormPartStockRepository implements inventory.StockRepository using GORM
type GormPartStockRepository struct {
	db *gorm.DB
}

// NewGormPartStockRepository creates a new GormPartStockRepository
func NewGormPartStockRepository(db *gorm.DB) *GormPartStockRepository {
	return &GormPartStockRepository{db: db}
}

// FindRepresentative returns the oldest inventory row for the part code.
// Its id and unit cost stand for the part in reservations and movements.
func (r *GormPartStockRepository) FindRepresentative(ctx context.Context, tenantID uuid.UUID, partCode string) (*inventory.PartStock, error) {
	var model models.PartStockModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND part_code = ?", tenantID, partCode).
		Order("created_at ASC").
		Take(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// SumAvailable sums on-hand quantity across every row of the part code.
// Unknown parts sum to zero.
func (r *GormPartStockRepository) SumAvailable(ctx context.Context, tenantID uuid.UUID, partCode string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).
		Model(&models.PartStockModel{}).
		Select("COALESCE(SUM(quantity), 0)").
		Where("tenant_id = ? AND part_code = ?", tenantID, partCode).
		Row().
		Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

var _ inventory.StockRepository = (*GormPartStockRepository)(nil)
