package budget

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/retifica/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ApprovalType is the kind of approval the customer gave
type ApprovalType string

const (
	ApprovalTypeTotal   ApprovalType = "total"
	ApprovalTypePartial ApprovalType = "partial"
	// ApprovalTypeParcial is the Portuguese spelling still sent by older clients
	ApprovalTypeParcial ApprovalType = "parcial"
)

// IsValid checks if the approval type is recognized
func (t ApprovalType) IsValid() bool {
	switch t {
	case ApprovalTypeTotal, ApprovalTypePartial, ApprovalTypeParcial:
		return true
	}
	return false
}

// String returns the string representation of ApprovalType
func (t ApprovalType) String() string {
	return string(t)
}

// ParseApprovalType parses a raw approval type
func ParseApprovalType(raw string) (ApprovalType, error) {
	t := ApprovalType(strings.TrimSpace(raw))
	if !t.IsValid() {
		return "", shared.ErrInvalidInput.WithMessage("approval_type must be one of total, partial, parcial")
	}
	return t, nil
}

// ApprovalMethod records how the approval reached the shop
type ApprovalMethod string

const (
	ApprovalMethodManual   ApprovalMethod = "manual"
	ApprovalMethodWhatsApp ApprovalMethod = "whatsapp"
	ApprovalMethodEmail    ApprovalMethod = "email"
	ApprovalMethodSigned   ApprovalMethod = "signed_document"
	ApprovalMethodVerbal   ApprovalMethod = "verbal"
)

// Decision carries the fields an approval request supplies
type Decision struct {
	Type         ApprovalType
	Amount       decimal.Decimal
	Notes        string
	RegisteredBy string
}

// BudgetApproval is the approval record of a budget. There is at most one per budget.
type BudgetApproval struct {
	shared.TenantEntity
	BudgetID       uuid.UUID
	ApprovalType   ApprovalType
	ApprovalMethod ApprovalMethod
	ApprovedAmount decimal.Decimal
	ApprovalNotes  string
	RegisteredBy   string
	ApprovedAt     time.Time
}

// NewBudgetApproval creates an approval record with the manual method
func NewBudgetApproval(tenantID, budgetID uuid.UUID, d Decision, now time.Time) *BudgetApproval {
	a := &BudgetApproval{
		TenantEntity:   shared.NewTenantEntity(tenantID, now),
		BudgetID:       budgetID,
		ApprovalMethod: ApprovalMethodManual,
	}
	a.ApplyDecision(d, now)
	return a
}

// ApplyDecision overwrites the decision fields and keeps the approval method
// already on record.
func (a *BudgetApproval) ApplyDecision(d Decision, now time.Time) {
	a.ApprovalType = d.Type
	a.ApprovedAmount = d.Amount
	a.ApprovalNotes = d.Notes
	a.RegisteredBy = d.RegisteredBy
	a.ApprovedAt = now
	if a.ApprovalMethod == "" {
		a.ApprovalMethod = ApprovalMethodManual
	}
	a.Touch(now)
}
