package notification

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/retifica/backend/internal/domain/purchasing"
	"github.com/retifica/backend/internal/domain/shared"
)

// Severity is the display severity of an alert
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// SeverityForPriority maps a purchase need priority to an alert severity
func SeverityForPriority(p purchasing.Priority) Severity {
	switch p {
	case purchasing.PriorityCritical:
		return SeverityError
	case purchasing.PriorityHigh:
		return SeverityWarning
	default:
		return SeverityInfo
	}
}

// AlertTypePurchaseNeed marks alerts that mirror a purchase need
const AlertTypePurchaseNeed = "purchase_need"

// Purchasing view action shown on purchase need alerts
const (
	PurchasingActionLabel = "Ver Necessidades"
	PurchasingActionURL   = "/compras?tab=necessidades"
)

// Alert is a generic dashboard notification. Purchase need alerts are unique
// per (tenant, purchase need) among active rows.
type Alert struct {
	shared.TenantEntity
	AlertType      string
	Title          string
	Message        string
	Severity       Severity
	PurchaseNeedID *uuid.UUID
	IsActive       bool
	IsDismissible  bool
	ActionLabel    string
	ActionURL      string
	ExpiresAt      *time.Time
}

// NewPurchaseNeedAlert creates the alert mirroring need
func NewPurchaseNeedAlert(need *purchasing.PurchaseNeed, expiry time.Duration, now time.Time) *Alert {
	needID := need.ID
	a := &Alert{
		TenantEntity:   shared.NewTenantEntity(need.TenantID, now),
		AlertType:      AlertTypePurchaseNeed,
		PurchaseNeedID: &needID,
		IsActive:       true,
		IsDismissible:  true,
		ActionLabel:    PurchasingActionLabel,
		ActionURL:      PurchasingActionURL,
	}
	a.MirrorPurchaseNeed(need, expiry, now)
	return a
}

// MirrorPurchaseNeed copies the display state of need into the alert
func (a *Alert) MirrorPurchaseNeed(need *purchasing.PurchaseNeed, expiry time.Duration, now time.Time) {
	a.Title = fmt.Sprintf("Necessidade de compra: %s", need.PartName)
	a.Message = fmt.Sprintf("Faltam %s unidades de %s (%s). Prioridade: %s",
		need.ShortageQuantity.String(), need.PartName, need.PartCode, need.Priority)
	a.Severity = SeverityForPriority(need.Priority)
	a.IsActive = true
	expiresAt := now.Add(expiry)
	a.ExpiresAt = &expiresAt
	a.Touch(now)
}
