package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockRepository reads part stock rows
type StockRepository interface {
	// FindRepresentative returns one stock row for the part, or shared.ErrNotFound
	FindRepresentative(ctx context.Context, tenantID uuid.UUID, partCode string) (*PartStock, error)

	// SumAvailable sums on-hand quantity over every row of the part
	SumAvailable(ctx context.Context, tenantID uuid.UUID, partCode string) (decimal.Decimal, error)
}

// StockAlertRepository persists stock alerts keyed by (tenant, part code)
type StockAlertRepository interface {
	Upsert(ctx context.Context, alert *StockAlert) error
	FindByPartCode(ctx context.Context, tenantID uuid.UUID, partCode string) (*StockAlert, error)
}

// ReservationRepository persists parts reservations
type ReservationRepository interface {
	Exists(ctx context.Context, key ReservationKey) (bool, error)
	Create(ctx context.Context, reservation *PartsReservation) error
	ListByBudget(ctx context.Context, budgetID uuid.UUID) ([]PartsReservation, error)
}

// MovementRepository is the append-only store of inventory movements
type MovementRepository interface {
	Append(ctx context.Context, movement *InventoryMovement) error
}
