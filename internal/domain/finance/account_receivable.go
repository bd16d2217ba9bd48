package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/retifica/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ReceivableStatus represents the status of an account receivable
type ReceivableStatus string

const (
	ReceivableStatusPending   ReceivableStatus = "pending"
	ReceivableStatusPaid      ReceivableStatus = "paid"
	ReceivableStatusOverdue   ReceivableStatus = "overdue"
	ReceivableStatusCancelled ReceivableStatus = "cancelled"
)

// IsValid checks if the status is a valid ReceivableStatus
func (s ReceivableStatus) IsValid() bool {
	switch s {
	case ReceivableStatusPending, ReceivableStatusPaid, ReceivableStatusOverdue, ReceivableStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of ReceivableStatus
func (s ReceivableStatus) String() string {
	return string(s)
}

// AccountReceivable is the amount a customer owes for an approved budget.
// There is at most one per (order, budget).
type AccountReceivable struct {
	shared.TenantEntity
	OrderID           uuid.UUID
	BudgetID          uuid.UUID
	CustomerID        *uuid.UUID
	Amount            decimal.Decimal
	DueDate           time.Time
	Status            ReceivableStatus
	InstallmentNumber int
	TotalInstallments int
}

// NewAccountReceivable creates a single-installment pending receivable
func NewAccountReceivable(tenantID, orderID, budgetID uuid.UUID, customerID *uuid.UUID, amount decimal.Decimal, dueDate, now time.Time) (*AccountReceivable, error) {
	if !amount.IsPositive() {
		return nil, shared.ErrInvalidInput.WithMessage("receivable amount must be positive")
	}
	return &AccountReceivable{
		TenantEntity:      shared.NewTenantEntity(tenantID, now),
		OrderID:           orderID,
		BudgetID:          budgetID,
		CustomerID:        customerID,
		Amount:            amount,
		DueDate:           dueDate,
		Status:            ReceivableStatusPending,
		InstallmentNumber: 1,
		TotalInstallments: 1,
	}, nil
}

// IsOverdue reports whether a pending receivable passed its due date
func (r *AccountReceivable) IsOverdue(now time.Time) bool {
	return r.Status == ReceivableStatusPending && now.After(r.DueDate)
}
