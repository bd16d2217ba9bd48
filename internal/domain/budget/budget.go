package budget

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/retifica/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Status represents the lifecycle status of a budget
type Status string

const (
	StatusDraft    Status = "draft"
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// IsValid checks if the status is a known budget status
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// BudgetPart is one costed line item of a budget
type BudgetPart struct {
	PartCode  string          `json:"part_code"`
	PartName  string          `json:"part_name"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// BudgetParts is the line item list, stored as JSONB
type BudgetParts []BudgetPart

// Value implements driver.Valuer interface for GORM to store as JSONB
func (p BudgetParts) Value() (driver.Value, error) {
	if p == nil {
		return "[]", nil
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner interface for GORM to read from JSONB
func (p *BudgetParts) Scan(value interface{}) error {
	if value == nil {
		*p = BudgetParts{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan BudgetParts: unsupported type")
	}

	if len(bytes) == 0 {
		*p = BudgetParts{}
		return nil
	}

	return json.Unmarshal(bytes, p)
}

// Budget is a costed proposal of parts for an order
type Budget struct {
	shared.TenantEntity
	OrderID      uuid.UUID
	BudgetNumber string
	Parts        BudgetParts
	TotalAmount  decimal.Decimal
	Status       Status
	ApprovedAt   *time.Time
}

// Approve moves the budget to approved and keeps the first approval time
func (b *Budget) Approve(now time.Time) {
	b.Status = StatusApproved
	if b.ApprovedAt == nil {
		b.ApprovedAt = &now
	}
	b.Touch(now)
}
