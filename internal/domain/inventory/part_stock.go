package inventory

import (
	"github.com/google/uuid"
	"github.com/retifica/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PartStock is one stock row of a part. A part code can have several rows
// (one per warehouse or batch) inside the same tenant.
type PartStock struct {
	shared.TenantEntity
	PartCode    string
	PartName    string
	WarehouseID *uuid.UUID
	Quantity    decimal.Decimal
	UnitCost    decimal.Decimal
}

// Shortage is required minus available, floored at zero
func Shortage(required, available decimal.Decimal) decimal.Decimal {
	s := required.Sub(available)
	if s.IsNegative() {
		return decimal.Zero
	}
	return s
}

// ReservableQuantity is how much of required can be taken from available
func ReservableQuantity(required, available decimal.Decimal) decimal.Decimal {
	if available.IsNegative() {
		return decimal.Zero
	}
	return decimal.Min(required, available)
}
