package models

import (
	"time"

	"github.com/retifica/backend/internal/domain/purchasing"
	"github.com/shopspring/decimal"
)

// PurchaseNeedModel is the persistence model for purchase needs. The schema
// keeps at most one pending row per (tenant_id, part_code) through a partial
// unique index (see migrations).
type PurchaseNeedModel struct {
	TenantModel
	PartCode            string                   `gorm:"size:50;not null;index:idx_purchase_needs_part_code"`
	PartName            string                   `gorm:"size:200"`
	RequiredQuantity    decimal.Decimal          `gorm:"type:decimal(18,4);not null"`
	AvailableQuantity   decimal.Decimal          `gorm:"type:decimal(18,4);not null"`
	ShortageQuantity    decimal.Decimal          `gorm:"type:decimal(18,4);not null"`
	Priority            string                   `gorm:"column:priority_level;size:20;not null"`
	NeedType            string                   `gorm:"size:20;not null"`
	Status              string                   `gorm:"size:20;not null"`
	RelatedOrders       purchasing.RelatedOrders `gorm:"type:jsonb;not null"`
	EstimatedCost       decimal.Decimal          `gorm:"type:decimal(18,4);not null"`
	DeliveryUrgencyDate time.Time
}

// TableName returns the table name for GORM
func (PurchaseNeedModel) TableName() string {
	return "purchase_needs"
}

// ToDomain converts the persistence model to a domain PurchaseNeed.
func (m *PurchaseNeedModel) ToDomain() *purchasing.PurchaseNeed {
	related := m.RelatedOrders
	if related == nil {
		related = purchasing.RelatedOrders{}
	}
	return &purchasing.PurchaseNeed{
		TenantEntity:        m.ToDomainTenantEntity(),
		PartCode:            m.PartCode,
		PartName:            m.PartName,
		RequiredQuantity:    m.RequiredQuantity,
		AvailableQuantity:   m.AvailableQuantity,
		ShortageQuantity:    m.ShortageQuantity,
		Priority:            purchasing.Priority(m.Priority),
		NeedType:            purchasing.NeedType(m.NeedType),
		Status:              purchasing.NeedStatus(m.Status),
		RelatedOrders:       related,
		EstimatedCost:       m.EstimatedCost,
		DeliveryUrgencyDate: m.DeliveryUrgencyDate,
	}
}

// FromDomain populates the persistence model from a domain PurchaseNeed.
func (m *PurchaseNeedModel) FromDomain(n *purchasing.PurchaseNeed) {
	m.FromDomainTenantEntity(n.TenantEntity)
	m.PartCode = n.PartCode
	m.PartName = n.PartName
	m.RequiredQuantity = n.RequiredQuantity
	m.AvailableQuantity = n.AvailableQuantity
	m.ShortageQuantity = n.ShortageQuantity
	m.Priority = string(n.Priority)
	m.NeedType = string(n.NeedType)
	m.Status = string(n.Status)
	m.RelatedOrders = n.RelatedOrders
	m.EstimatedCost = n.EstimatedCost
	m.DeliveryUrgencyDate = n.DeliveryUrgencyDate
}
