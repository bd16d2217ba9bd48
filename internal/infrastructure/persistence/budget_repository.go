package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/retifica/backend/internal/domain/budget"
	"github.com/retifica/backend/internal/domain/shared"
	"github.com/retifica/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormBudgetRepository implements budget.BudgetRepository using GORM
type GormBudgetRepository struct {
	db *gorm.DB
}

// NewGormBudgetRepository creates a new GormBudgetRepository
func NewGormBudgetRepository(db *gorm.DB) *GormBudgetRepository {
	return &GormBudgetRepository{db: db}
}

// FindByID finds a budget by its ID
func (r *GormBudgetRepository) FindByID(ctx context.Context, id uuid.UUID) (*budget.Budget, error) {
	var model models.BudgetModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// UpdateStatus sets the budget status. Moving to approved stamps approved_at
// once; later approvals keep the first timestamp.
func (r *GormBudgetRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status budget.Status) error {
	updates := map[string]any{"status": string(status)}
	if status == budget.StatusApproved {
		updates["approved_at"] = gorm.Expr("COALESCE(approved_at, ?)", time.Now())
	}
	result := r.db.WithContext(ctx).
		Model(&models.BudgetModel{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GormBudgetApprovalRepository implements budget.ApprovalRepository using GORM
type GormBudgetApprovalRepository struct {
	db *gorm.DB
}

// NewGormBudgetApprovalRepository creates a new GormBudgetApprovalRepository
func NewGormBudgetApprovalRepository(db *gorm.DB) *GormBudgetApprovalRepository {
	return &GormBudgetApprovalRepository{db: db}
}

// FindByBudget returns the approval record of a budget
func (r *GormBudgetApprovalRepository) FindByBudget(ctx context.Context, budgetID uuid.UUID) (*budget.BudgetApproval, error) {
	var model models.BudgetApprovalModel
	if err := r.db.WithContext(ctx).Where("budget_id = ?", budgetID).Take(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save inserts or updates the approval record
func (r *GormBudgetApprovalRepository) Save(ctx context.Context, approval *budget.BudgetApproval) error {
	return r.db.WithContext(ctx).Save(models.BudgetApprovalModelFromDomain(approval)).Error
}

var (
	_ budget.BudgetRepository   = (*GormBudgetRepository)(nil)
	_ budget.ApprovalRepository = (*GormBudgetApprovalRepository)(nil)
)
