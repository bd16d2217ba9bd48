package inventory

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/retifica/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AlertLevel is the urgency of a stock alert
type AlertLevel string

const (
	AlertLevelLow      AlertLevel = "low"
	AlertLevelCritical AlertLevel = "critical"
)

// AlertType classifies why a stock alert was raised
type AlertType string

const (
	AlertTypeLowStock             AlertType = "low_stock"
	AlertTypeInsufficientForOrder AlertType = "insufficient_for_order"
)

// StockAlert reports a stock problem for a part. There is at most one per
// (tenant, part code).
type StockAlert struct {
	shared.TenantEntity
	PartCode     string
	PartName     string
	CurrentStock decimal.Decimal
	MinimumStock decimal.Decimal
	Level        AlertLevel
	Type         AlertType
	Message      string
	IsActive     bool
}

// NewInsufficientStockAlert builds the alert raised when an order needs more
// of a part than is on hand.
func NewInsufficientStockAlert(tenantID uuid.UUID, partCode, partName string, available, required decimal.Decimal, now time.Time) *StockAlert {
	return &StockAlert{
		TenantEntity: shared.NewTenantEntity(tenantID, now),
		PartCode:     partCode,
		PartName:     partName,
		CurrentStock: available,
		MinimumStock: required,
		Level:        AlertLevelCritical,
		Type:         AlertTypeInsufficientForOrder,
		Message: fmt.Sprintf("Estoque insuficiente para %s: necessário %s, disponível %s",
			partName, required.String(), available.String()),
		IsActive: true,
	}
}
