package purchasing

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/retifica/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Priority is the urgency of a purchase need
type Priority string

const (
	PriorityNormal   Priority = "normal"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// String returns the string representation of Priority
func (p Priority) String() string {
	return string(p)
}

// ClassifyPriority derives the priority of a shortage. A shortage above half
// the required quantity is high; otherwise an empty stock is critical.
func ClassifyPriority(required, available, shortage decimal.Decimal) Priority {
	if shortage.GreaterThan(required.Div(decimal.NewFromInt(2))) {
		return PriorityHigh
	}
	if available.IsZero() {
		return PriorityCritical
	}
	return PriorityNormal
}

// NeedType says where a purchase need came from
type NeedType string

const (
	NeedTypePlanned   NeedType = "planned"
	NeedTypeEmergency NeedType = "emergency"
)

// NeedStatus is the state of a purchase need
type NeedStatus string

const (
	NeedStatusPending   NeedStatus = "pending"
	NeedStatusOrdered   NeedStatus = "ordered"
	NeedStatusCompleted NeedStatus = "completed"
	NeedStatusCancelled NeedStatus = "cancelled"
)

// RelatedOrders lists the orders waiting on a need, stored as JSONB
type RelatedOrders []uuid.UUID

// Contains reports whether id is already listed
func (r RelatedOrders) Contains(id uuid.UUID) bool {
	for _, o := range r {
		if o == id {
			return true
		}
	}
	return false
}

// Value implements driver.Valuer interface for GORM to store as JSONB
func (r RelatedOrders) Value() (driver.Value, error) {
	if r == nil {
		return "[]", nil
	}
	b, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner interface for GORM to read from JSONB
func (r *RelatedOrders) Scan(value interface{}) error {
	var bytes []byte
	switch v := value.(type) {
	case nil:
		*r = RelatedOrders{}
		return nil
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan RelatedOrders: unsupported type")
	}
	if len(bytes) == 0 {
		*r = RelatedOrders{}
		return nil
	}
	return json.Unmarshal(bytes, r)
}

// Shortfall describes a missing quantity of a part for one order
type Shortfall struct {
	PartCode  string
	PartName  string
	Required  decimal.Decimal
	Available decimal.Decimal
	Shortage  decimal.Decimal
	UnitPrice decimal.Decimal
	OrderID   uuid.UUID
}

// PurchaseNeed says more of a part must be bought. There is at most one
// pending need per (tenant, part code).
type PurchaseNeed struct {
	shared.TenantEntity
	PartCode            string
	PartName            string
	RequiredQuantity    decimal.Decimal
	AvailableQuantity   decimal.Decimal
	ShortageQuantity    decimal.Decimal
	Priority            Priority
	NeedType            NeedType
	Status              NeedStatus
	RelatedOrders       RelatedOrders
	EstimatedCost       decimal.Decimal
	DeliveryUrgencyDate time.Time
}

// NewPurchaseNeed creates a pending planned need for s
func NewPurchaseNeed(tenantID uuid.UUID, s Shortfall, leadTime time.Duration, now time.Time) *PurchaseNeed {
	n := &PurchaseNeed{
		TenantEntity:  shared.NewTenantEntity(tenantID, now),
		PartCode:      s.PartCode,
		NeedType:      NeedTypePlanned,
		Status:        NeedStatusPending,
		RelatedOrders: RelatedOrders{},
	}
	n.Refresh(s, leadTime, now)
	return n
}

// Refresh rewrites quantities, priority, cost and urgency from s, and adds
// the order to the related list when it is not there yet.
func (n *PurchaseNeed) Refresh(s Shortfall, leadTime time.Duration, now time.Time) {
	if s.PartName != "" {
		n.PartName = s.PartName
	}
	n.RequiredQuantity = s.Required
	n.AvailableQuantity = s.Available
	n.ShortageQuantity = s.Shortage
	n.Priority = ClassifyPriority(s.Required, s.Available, s.Shortage)
	n.EstimatedCost = s.UnitPrice.Mul(s.Shortage)
	n.DeliveryUrgencyDate = now.Add(leadTime)
	if s.OrderID != uuid.Nil && !n.RelatedOrders.Contains(s.OrderID) {
		n.RelatedOrders = append(n.RelatedOrders, s.OrderID)
	}
	n.Touch(now)
}
