package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/retifica/backend/internal/domain/order"
)

// OrderModel is the persistence model for service orders.
type OrderModel struct {
	TenantModel
	OrderNumber  string     `gorm:"size:50"`
	CustomerID   uuid.UUID  `gorm:"type:uuid;index"`
	EngineTypeID *uuid.UUID `gorm:"type:uuid"`
	Status       string     `gorm:"size:40;not null"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order.
func (m *OrderModel) ToDomain() *order.Order {
	return &order.Order{
		TenantEntity: m.ToDomainTenantEntity(),
		OrderNumber:  m.OrderNumber,
		CustomerID:   m.CustomerID,
		EngineTypeID: m.EngineTypeID,
		Status:       order.Status(m.Status),
	}
}

// FromDomain populates the persistence model from a domain Order.
func (m *OrderModel) FromDomain(o *order.Order) {
	m.FromDomainTenantEntity(o.TenantEntity)
	m.OrderNumber = o.OrderNumber
	m.CustomerID = o.CustomerID
	m.EngineTypeID = o.EngineTypeID
	m.Status = string(o.Status)
}

// OrderModelFromDomain creates a new persistence model from a domain Order.
func OrderModelFromDomain(o *order.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}

// OrderStatusHistoryModel is the append-only log of order status changes.
type OrderStatusHistoryModel struct {
	TenantModel
	OrderID        uuid.UUID `gorm:"type:uuid;not null;index"`
	PreviousStatus string    `gorm:"size:40"`
	NewStatus      string    `gorm:"size:40;not null"`
	ChangedBy      string    `gorm:"size:100"`
	Notes          string    `gorm:"type:text"`
	ChangedAt      time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderStatusHistoryModel) TableName() string {
	return "order_status_history"
}

// ToDomain converts the persistence model to a domain StatusHistory.
func (m *OrderStatusHistoryModel) ToDomain() *order.StatusHistory {
	return &order.StatusHistory{
		TenantEntity:   m.ToDomainTenantEntity(),
		OrderID:        m.OrderID,
		PreviousStatus: order.Status(m.PreviousStatus),
		NewStatus:      order.Status(m.NewStatus),
		ChangedBy:      m.ChangedBy,
		Notes:          m.Notes,
		ChangedAt:      m.ChangedAt,
	}
}

// FromDomain populates the persistence model from a domain StatusHistory.
func (m *OrderStatusHistoryModel) FromDomain(h *order.StatusHistory) {
	m.FromDomainTenantEntity(h.TenantEntity)
	m.OrderID = h.OrderID
	m.PreviousStatus = string(h.PreviousStatus)
	m.NewStatus = string(h.NewStatus)
	m.ChangedBy = h.ChangedBy
	m.Notes = h.Notes
	m.ChangedAt = h.ChangedAt
}
