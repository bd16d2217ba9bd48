package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/retifica/backend/internal/domain/finance"
	"github.com/retifica/backend/internal/domain/shared"
	"github.com/retifica/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormAccountReceivableRepository implements finance.AccountReceivableRepository using GORM
type GormAccountReceivableRepository struct {
	db *gorm.DB
}

// NewGormAccountReceivableRepository creates a new GormAccountReceivableRepository
func NewGormAccountReceivableRepository(db *gorm.DB) *GormAccountReceivableRepository {
	return &GormAccountReceivableRepository{db: db}
}

// Upsert inserts the receivable or refreshes amount, due date and status of
// the existing one for (order_id, budget_id)
func (r *GormAccountReceivableRepository) Upsert(ctx context.Context, receivable *finance.AccountReceivable) error {
	model := &models.AccountReceivableModel{}
	model.FromDomain(receivable)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "order_id"}, {Name: "budget_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"amount", "due_date", "status", "customer_id", "updated_at"}),
		}).
		Create(model).Error
}

// FindByBudget returns the receivable for (order, budget)
func (r *GormAccountReceivableRepository) FindByBudget(ctx context.Context, orderID, budgetID uuid.UUID) (*finance.AccountReceivable, error) {
	var model models.AccountReceivableModel
	if err := r.db.WithContext(ctx).
		Where("order_id = ? AND budget_id = ?", orderID, budgetID).
		Take(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

var _ finance.AccountReceivableRepository = (*GormAccountReceivableRepository)(nil)
