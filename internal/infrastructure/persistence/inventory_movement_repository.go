package persistence

import (
	"context"

	"github.com/retifica/backend/internal/domain/inventory"
	"github.com/retifica/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormInventoryMovementRepository implements inventory.MovementRepository using GORM
type GormInventoryMovementRepository struct {
	db *gorm.DB
}

// NewGormInventoryMovementRepository creates a new GormInventoryMovementRepository
func NewGormInventoryMovementRepository(db *gorm.DB) *GormInventoryMovementRepository {
	return &GormInventoryMovementRepository{db: db}
}

// Append inserts a movement
func (r *GormInventoryMovementRepository) Append(ctx context.Context, movement *inventory.InventoryMovement) error {
	model := &models.InventoryMovementModel{}
	model.FromDomain(movement)
	return r.db.WithContext(ctx).Create(model).Error
}

var _ inventory.MovementRepository = (*GormInventoryMovementRepository)(nil)
