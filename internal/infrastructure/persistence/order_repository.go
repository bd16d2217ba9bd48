package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/retifica/backend/internal/domain/order"
	"github.com/retifica/backend/internal/domain/shared"
	"github.com/retifica/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormOrderRepository implements order.Repository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order by its ID
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// UpdateStatus sets the order status
func (r *GormOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status order.Status) error {
	result := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("id = ?", id).
		Update("status", string(status))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GormOrderStatusHistoryRepository implements order.StatusHistoryRepository using GORM
type GormOrderStatusHistoryRepository struct {
	db *gorm.DB
}

// NewGormOrderStatusHistoryRepository creates a new GormOrderStatusHistoryRepository
func NewGormOrderStatusHistoryRepository(db *gorm.DB) *GormOrderStatusHistoryRepository {
	return &GormOrderStatusHistoryRepository{db: db}
}

// Append inserts a history entry
func (r *GormOrderStatusHistoryRepository) Append(ctx context.Context, entry *order.StatusHistory) error {
	model := &models.OrderStatusHistoryModel{}
	model.FromDomain(entry)
	return r.db.WithContext(ctx).Create(model).Error
}

// ListByOrder returns the history of an order, oldest first
func (r *GormOrderStatusHistoryRepository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]order.StatusHistory, error) {
	var rows []models.OrderStatusHistoryModel
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("changed_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	history := make([]order.StatusHistory, len(rows))
	for i := range rows {
		history[i] = *rows[i].ToDomain()
	}
	return history, nil
}

var (
	_ order.Repository              = (*GormOrderRepository)(nil)
	_ order.StatusHistoryRepository = (*GormOrderStatusHistoryRepository)(nil)
)
