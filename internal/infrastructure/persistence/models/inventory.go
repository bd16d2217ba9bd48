package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/retifica/backend/internal/domain/inventory"
	"github.com/retifica/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PartStockModel is one on-hand row of parts inventory. A part code may span
// several rows (one per warehouse).
type PartStockModel struct {
	TenantModel
	PartCode    string          `gorm:"size:50;not null;index:idx_parts_inventory_part_code"`
	PartName    string          `gorm:"size:200"`
	WarehouseID *uuid.UUID      `gorm:"type:uuid"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitCost    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (PartStockModel) TableName() string {
	return "parts_inventory"
}

// ToDomain converts the persistence model to a domain PartStock.
func (m *PartStockModel) ToDomain() *inventory.PartStock {
	return &inventory.PartStock{
		TenantEntity: m.ToDomainTenantEntity(),
		PartCode:     m.PartCode,
		PartName:     m.PartName,
		WarehouseID:  m.WarehouseID,
		Quantity:     m.Quantity,
		UnitCost:     m.UnitCost,
	}
}

// FromDomain populates the persistence model from a domain PartStock.
func (m *PartStockModel) FromDomain(s *inventory.PartStock) {
	m.FromDomainTenantEntity(s.TenantEntity)
	m.PartCode = s.PartCode
	m.PartName = s.PartName
	m.WarehouseID = s.WarehouseID
	m.Quantity = s.Quantity
	m.UnitCost = s.UnitCost
}

// StockAlertModel is keyed by (tenant_id, part_code).
type StockAlertModel struct {
	BaseModel
	TenantID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_alerts_tenant_part,priority:1"`
	PartCode     string          `gorm:"size:50;not null;uniqueIndex:idx_stock_alerts_tenant_part,priority:2"`
	PartName     string          `gorm:"size:200"`
	CurrentStock decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	MinimumStock decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	AlertLevel   string          `gorm:"size:20;not null"`
	AlertType    string          `gorm:"size:40;not null"`
	Message      string          `gorm:"type:text"`
	IsActive     bool            `gorm:"not null"`
}

// TableName returns the table name for GORM
func (StockAlertModel) TableName() string {
	return "stock_alerts"
}

// ToDomain converts the persistence model to a domain StockAlert.
func (m *StockAlertModel) ToDomain() *inventory.StockAlert {
	return &inventory.StockAlert{
		TenantEntity: shared.TenantEntity{
			BaseEntity: m.BaseModel.ToDomain(),
			TenantID:   m.TenantID,
		},
		PartCode:     m.PartCode,
		PartName:     m.PartName,
		CurrentStock: m.CurrentStock,
		MinimumStock: m.MinimumStock,
		Level:        inventory.AlertLevel(m.AlertLevel),
		Type:         inventory.AlertType(m.AlertType),
		Message:      m.Message,
		IsActive:     m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain StockAlert.
func (m *StockAlertModel) FromDomain(a *inventory.StockAlert) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.TenantID = a.TenantID
	m.PartCode = a.PartCode
	m.PartName = a.PartName
	m.CurrentStock = a.CurrentStock
	m.MinimumStock = a.MinimumStock
	m.AlertLevel = string(a.Level)
	m.AlertType = string(a.Type)
	m.Message = a.Message
	m.IsActive = a.IsActive
}

// PartsReservationModel holds stock reserved for a budget. At most one row
// exists per (budget_id, order_id, part_code).
type PartsReservationModel struct {
	TenantModel
	BudgetID         uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_parts_reservations_key,priority:1"`
	OrderID          uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_parts_reservations_key,priority:2"`
	PartCode         string          `gorm:"size:50;not null;uniqueIndex:idx_parts_reservations_key,priority:3"`
	PartID           *uuid.UUID      `gorm:"type:uuid"`
	PartName         string          `gorm:"size:200"`
	QuantityReserved decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitCost         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TotalReserved    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Status           string          `gorm:"column:reservation_status;size:20;not null"`
	ReservedBy       string          `gorm:"size:100"`
	ReservedAt       time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PartsReservationModel) TableName() string {
	return "parts_reservations"
}

// ToDomain converts the persistence model to a domain PartsReservation.
func (m *PartsReservationModel) ToDomain() *inventory.PartsReservation {
	return &inventory.PartsReservation{
		TenantEntity: m.ToDomainTenantEntity(),
		ReservationKey: inventory.ReservationKey{
			BudgetID: m.BudgetID,
			OrderID:  m.OrderID,
			PartCode: m.PartCode,
		},
		PartID:           m.PartID,
		PartName:         m.PartName,
		QuantityReserved: m.QuantityReserved,
		UnitCost:         m.UnitCost,
		TotalReserved:    m.TotalReserved,
		Status:           inventory.ReservationStatus(m.Status),
		ReservedBy:       m.ReservedBy,
		ReservedAt:       m.ReservedAt,
	}
}

// FromDomain populates the persistence model from a domain PartsReservation.
func (m *PartsReservationModel) FromDomain(r *inventory.PartsReservation) {
	m.FromDomainTenantEntity(r.TenantEntity)
	m.BudgetID = r.BudgetID
	m.OrderID = r.OrderID
	m.PartCode = r.PartCode
	m.PartID = r.PartID
	m.PartName = r.PartName
	m.QuantityReserved = r.QuantityReserved
	m.UnitCost = r.UnitCost
	m.TotalReserved = r.TotalReserved
	m.Status = string(r.Status)
	m.ReservedBy = r.ReservedBy
	m.ReservedAt = r.ReservedAt
}

// InventoryMovementModel is the append-only stock movement ledger.
type InventoryMovementModel struct {
	TenantModel
	PartID           *uuid.UUID                 `gorm:"type:uuid;index"`
	PartCode         string                     `gorm:"size:50;index"`
	MovementType     string                     `gorm:"size:20;not null"`
	Quantity         decimal.Decimal            `gorm:"type:decimal(18,4);not null"`
	PreviousQuantity decimal.Decimal            `gorm:"type:decimal(18,4);not null"`
	NewQuantity      decimal.Decimal            `gorm:"type:decimal(18,4);not null"`
	Reason           string                     `gorm:"type:text"`
	OrderID          *uuid.UUID                 `gorm:"type:uuid;index"`
	BudgetID         *uuid.UUID                 `gorm:"type:uuid;index"`
	CreatedBy        string                     `gorm:"size:100"`
	Metadata         inventory.MovementMetadata `gorm:"type:jsonb"`
}

// TableName returns the table name for GORM
func (InventoryMovementModel) TableName() string {
	return "inventory_movements"
}

// ToDomain converts the persistence model to a domain InventoryMovement.
func (m *InventoryMovementModel) ToDomain() *inventory.InventoryMovement {
	return &inventory.InventoryMovement{
		TenantEntity:     m.ToDomainTenantEntity(),
		PartID:           m.PartID,
		PartCode:         m.PartCode,
		MovementType:     inventory.MovementType(m.MovementType),
		Quantity:         m.Quantity,
		PreviousQuantity: m.PreviousQuantity,
		NewQuantity:      m.NewQuantity,
		Reason:           m.Reason,
		OrderID:          m.OrderID,
		BudgetID:         m.BudgetID,
		CreatedBy:        m.CreatedBy,
		Metadata:         m.Metadata,
	}
}

// FromDomain populates the persistence model from a domain InventoryMovement.
func (m *InventoryMovementModel) FromDomain(mv *inventory.InventoryMovement) {
	m.FromDomainTenantEntity(mv.TenantEntity)
	m.PartID = mv.PartID
	m.PartCode = mv.PartCode
	m.MovementType = string(mv.MovementType)
	m.Quantity = mv.Quantity
	m.PreviousQuantity = mv.PreviousQuantity
	m.NewQuantity = mv.NewQuantity
	m.Reason = mv.Reason
	m.OrderID = mv.OrderID
	m.BudgetID = mv.BudgetID
	m.CreatedBy = mv.CreatedBy
	m.Metadata = mv.Metadata
}
