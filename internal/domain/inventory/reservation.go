package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/retifica/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ReservationStatus is the state of a parts reservation
type ReservationStatus string

const (
	ReservationStatusReserved  ReservationStatus = "reserved"
	ReservationStatusSeparated ReservationStatus = "separated"
	ReservationStatusApplied   ReservationStatus = "applied"
	ReservationStatusCancelled ReservationStatus = "cancelled"
)

// ReservationKey identifies the single reservation a budget line may own
type ReservationKey struct {
	BudgetID uuid.UUID
	OrderID  uuid.UUID
	PartCode string
}

// PartsReservation allocates on-hand stock to an order
type PartsReservation struct {
	shared.TenantEntity
	ReservationKey
	PartID           *uuid.UUID
	PartName         string
	QuantityReserved decimal.Decimal
	UnitCost         decimal.Decimal
	TotalReserved    decimal.Decimal
	Status           ReservationStatus
	ReservedBy       string
	ReservedAt       time.Time
}

// NewPartsReservation reserves quantity units of the stock row for key
func NewPartsReservation(tenantID uuid.UUID, key ReservationKey, stock *PartStock, partName string, quantity decimal.Decimal, reservedBy string, now time.Time) *PartsReservation {
	r := &PartsReservation{
		TenantEntity:     shared.NewTenantEntity(tenantID, now),
		ReservationKey:   key,
		PartName:         partName,
		QuantityReserved: quantity,
		Status:           ReservationStatusReserved,
		ReservedBy:       reservedBy,
		ReservedAt:       now,
	}
	if stock != nil {
		id := stock.ID
		r.PartID = &id
		r.UnitCost = stock.UnitCost
		r.TotalReserved = stock.UnitCost.Mul(quantity)
	}
	return r
}
