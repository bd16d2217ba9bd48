package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/retifica/backend/internal/domain/finance"
	"github.com/shopspring/decimal"
)

// AccountReceivableModel is keyed by (order_id, budget_id).
type AccountReceivableModel struct {
	TenantModel
	OrderID           uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_accounts_receivable_order_budget,priority:1"`
	BudgetID          uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_accounts_receivable_order_budget,priority:2"`
	CustomerID        *uuid.UUID      `gorm:"type:uuid;index"`
	Amount            decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	DueDate           time.Time       `gorm:"not null"`
	Status            string          `gorm:"size:20;not null"`
	InstallmentNumber int             `gorm:"not null"`
	TotalInstallments int             `gorm:"not null"`
}

// TableName returns the table name for GORM
func (AccountReceivableModel) TableName() string {
	return "accounts_receivable"
}

// ToDomain converts the persistence model to a domain AccountReceivable.
func (m *AccountReceivableModel) ToDomain() *finance.AccountReceivable {
	return &finance.AccountReceivable{
		TenantEntity:      m.ToDomainTenantEntity(),
		OrderID:           m.OrderID,
		BudgetID:          m.BudgetID,
		CustomerID:        m.CustomerID,
		Amount:            m.Amount,
		DueDate:           m.DueDate,
		Status:            finance.ReceivableStatus(m.Status),
		InstallmentNumber: m.InstallmentNumber,
		TotalInstallments: m.TotalInstallments,
	}
}

// FromDomain populates the persistence model from a domain AccountReceivable.
func (m *AccountReceivableModel) FromDomain(r *finance.AccountReceivable) {
	m.FromDomainTenantEntity(r.TenantEntity)
	m.OrderID = r.OrderID
	m.BudgetID = r.BudgetID
	m.CustomerID = r.CustomerID
	m.Amount = r.Amount
	m.DueDate = r.DueDate
	m.Status = string(r.Status)
	m.InstallmentNumber = r.InstallmentNumber
	m.TotalInstallments = r.TotalInstallments
}
