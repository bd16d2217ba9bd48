package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/retifica/backend/internal/domain/budget"
	"github.com/shopspring/decimal"
)

// BudgetModel is the persistence model for budgets.
type BudgetModel struct {
	TenantModel
	OrderID      uuid.UUID          `gorm:"type:uuid;not null;index"`
	BudgetNumber string             `gorm:"size:50"`
	Parts        budget.BudgetParts `gorm:"type:jsonb;not null"`
	TotalAmount  decimal.Decimal    `gorm:"type:decimal(18,4);not null"`
	Status       string             `gorm:"size:20;not null"`
	ApprovedAt   *time.Time
}

// TableName returns the table name for GORM
func (BudgetModel) TableName() string {
	return "budgets"
}

// ToDomain converts the persistence model to a domain Budget.
func (m *BudgetModel) ToDomain() *budget.Budget {
	parts := m.Parts
	if parts == nil {
		parts = budget.BudgetParts{}
	}
	return &budget.Budget{
		TenantEntity: m.ToDomainTenantEntity(),
		OrderID:      m.OrderID,
		BudgetNumber: m.BudgetNumber,
		Parts:        parts,
		TotalAmount:  m.TotalAmount,
		Status:       budget.Status(m.Status),
		ApprovedAt:   m.ApprovedAt,
	}
}

// FromDomain populates the persistence model from a domain Budget.
func (m *BudgetModel) FromDomain(b *budget.Budget) {
	m.FromDomainTenantEntity(b.TenantEntity)
	m.OrderID = b.OrderID
	m.BudgetNumber = b.BudgetNumber
	m.Parts = b.Parts
	m.TotalAmount = b.TotalAmount
	m.Status = string(b.Status)
	m.ApprovedAt = b.ApprovedAt
}

// BudgetModelFromDomain creates a new persistence model from a domain Budget.
func BudgetModelFromDomain(b *budget.Budget) *BudgetModel {
	m := &BudgetModel{}
	m.FromDomain(b)
	return m
}

// BudgetApprovalModel is the persistence model for budget approval records.
// At most one row exists per budget.
type BudgetApprovalModel struct {
	TenantModel
	BudgetID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_budget_approvals_budget"`
	ApprovalType   string          `gorm:"size:20;not null"`
	ApprovalMethod string          `gorm:"size:30;not null"`
	ApprovedAmount decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ApprovalNotes  string          `gorm:"type:text"`
	RegisteredBy   string          `gorm:"size:100"`
	ApprovedAt     time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (BudgetApprovalModel) TableName() string {
	return "budget_approvals"
}

// ToDomain converts the persistence model to a domain BudgetApproval.
func (m *BudgetApprovalModel) ToDomain() *budget.BudgetApproval {
	return &budget.BudgetApproval{
		TenantEntity:   m.ToDomainTenantEntity(),
		BudgetID:       m.BudgetID,
		ApprovalType:   budget.ApprovalType(m.ApprovalType),
		ApprovalMethod: budget.ApprovalMethod(m.ApprovalMethod),
		ApprovedAmount: m.ApprovedAmount,
		ApprovalNotes:  m.ApprovalNotes,
		RegisteredBy:   m.RegisteredBy,
		ApprovedAt:     m.ApprovedAt,
	}
}

// FromDomain populates the persistence model from a domain BudgetApproval.
func (m *BudgetApprovalModel) FromDomain(a *budget.BudgetApproval) {
	m.FromDomainTenantEntity(a.TenantEntity)
	m.BudgetID = a.BudgetID
	m.ApprovalType = string(a.ApprovalType)
	m.ApprovalMethod = string(a.ApprovalMethod)
	m.ApprovedAmount = a.ApprovedAmount
	m.ApprovalNotes = a.ApprovalNotes
	m.RegisteredBy = a.RegisteredBy
	m.ApprovedAt = a.ApprovedAt
}

// BudgetApprovalModelFromDomain creates a new persistence model from a domain BudgetApproval.
func BudgetApprovalModelFromDomain(a *budget.BudgetApproval) *BudgetApprovalModel {
	m := &BudgetApprovalModel{}
	m.FromDomain(a)
	return m
}
