package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/retifica/backend/internal/domain/inventory"
	"github.com/retifica/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPartsReservationRepository implements inventory.ReservationRepository using GORM
type GormPartsReservationRepository struct {
	db *gorm.DB
}

// NewGormPartsReservationRepository creates a new GormPartsReservationRepository
func NewGormPartsReservationRepository(db *gorm.DB) *GormPartsReservationRepository {
	return &GormPartsReservationRepository{db: db}
}

// Exists reports whether a reservation already exists for the key
func (r *GormPartsReservationRepository) Exists(ctx context.Context, key inventory.ReservationKey) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.PartsReservationModel{}).
		Where("budget_id = ? AND order_id = ? AND part_code = ?", key.BudgetID, key.OrderID, key.PartCode).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts a reservation
func (r *GormPartsReservationRepository) Create(ctx context.Context, reservation *inventory.PartsReservation) error {
	model := &models.PartsReservationModel{}
	model.FromDomain(reservation)
	return r.db.WithContext(ctx).Create(model).Error
}

// ListByBudget returns every reservation of a budget
func (r *GormPartsReservationRepository) ListByBudget(ctx context.Context, budgetID uuid.UUID) ([]inventory.PartsReservation, error) {
	var rows []models.PartsReservationModel
	if err := r.db.WithContext(ctx).
		Where("budget_id = ?", budgetID).
		Order("part_code ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	reservations := make([]inventory.PartsReservation, len(rows))
	for i := range rows {
		reservations[i] = *rows[i].ToDomain()
	}
	return reservations, nil
}

var _ inventory.ReservationRepository = (*GormPartsReservationRepository)(nil)
