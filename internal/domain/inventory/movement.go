package inventory

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/retifica/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// MovementType classifies an inventory movement
type MovementType string

const (
	MovementTypeEntry       MovementType = "entrada"
	MovementTypeExit        MovementType = "saida"
	MovementTypeReservation MovementType = "reserva"
	MovementTypeAdjustment  MovementType = "ajuste"
)

// MovementMetadata links a movement back to the documents that caused it
type MovementMetadata struct {
	BudgetID      *uuid.UUID `json:"budget_id,omitempty"`
	OrderID       *uuid.UUID `json:"order_id,omitempty"`
	ReservationID *uuid.UUID `json:"reservation_id,omitempty"`
	PartCode      string     `json:"part_code,omitempty"`
}

// Value implements driver.Valuer interface for GORM to store as JSONB
func (m MovementMetadata) Value() (driver.Value, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner interface for GORM to read from JSONB
func (m *MovementMetadata) Scan(value interface{}) error {
	var bytes []byte
	switch v := value.(type) {
	case nil:
		*m = MovementMetadata{}
		return nil
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan MovementMetadata: unsupported type")
	}
	if len(bytes) == 0 {
		*m = MovementMetadata{}
		return nil
	}
	return json.Unmarshal(bytes, m)
}

// InventoryMovement is an append-only audit row of a stock change
type InventoryMovement struct {
	shared.TenantEntity
	PartID           *uuid.UUID
	PartCode         string
	MovementType     MovementType
	Quantity         decimal.Decimal
	PreviousQuantity decimal.Decimal
	NewQuantity      decimal.Decimal
	Reason           string
	OrderID          *uuid.UUID
	BudgetID         *uuid.UUID
	CreatedBy        string
	Metadata         MovementMetadata
}

// NewReservationMovement records the stock taken by reservation out of
// previousQuantity free units.
func NewReservationMovement(r *PartsReservation, previousQuantity decimal.Decimal, now time.Time) *InventoryMovement {
	budgetID, orderID, reservationID := r.BudgetID, r.OrderID, r.ID
	return &InventoryMovement{
		TenantEntity:     shared.NewTenantEntity(r.TenantID, now),
		PartID:           r.PartID,
		PartCode:         r.PartCode,
		MovementType:     MovementTypeReservation,
		Quantity:         r.QuantityReserved,
		PreviousQuantity: previousQuantity,
		NewQuantity:      previousQuantity.Sub(r.QuantityReserved),
		Reason:           fmt.Sprintf("Reserva para orçamento aprovado %s", r.BudgetID),
		OrderID:          &orderID,
		BudgetID:         &budgetID,
		CreatedBy:        r.ReservedBy,
		Metadata: MovementMetadata{
			BudgetID:      &budgetID,
			OrderID:       &orderID,
			ReservationID: &reservationID,
			PartCode:      r.PartCode,
		},
	}
}
