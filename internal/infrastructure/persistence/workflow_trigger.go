package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/retifica/backend/internal/application/approval"
	"gorm.io/gorm"
)

// GormWorkflowTrigger asks the database to build the production workflow of an
// order from its engine type. The stored function is defined in migrations.
type GormWorkflowTrigger struct {
	db *gorm.DB
}

// NewGormWorkflowTrigger creates a new GormWorkflowTrigger
func NewGormWorkflowTrigger(db *gorm.DB) *GormWorkflowTrigger {
	return &GormWorkflowTrigger{db: db}
}

// CreateFromEngineType calls create_workflow_from_engine_type(order_id)
func (t *GormWorkflowTrigger) CreateFromEngineType(ctx context.Context, orderID uuid.UUID) error {
	return t.db.WithContext(ctx).Exec("SELECT create_workflow_from_engine_type(?)", orderID).Error
}

var _ approval.WorkflowTrigger = (*GormWorkflowTrigger)(nil)
