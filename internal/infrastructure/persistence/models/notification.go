package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/retifica/backend/internal/domain/notification"
)

// AlertModel is a generic dashboard alert. Alerts mirroring a purchase need
// carry its id in PurchaseNeedID.
type AlertModel struct {
	TenantModel
	AlertType      string     `gorm:"size:40;not null"`
	Title          string     `gorm:"size:200;not null"`
	Message        string     `gorm:"type:text"`
	Severity       string     `gorm:"size:20;not null"`
	PurchaseNeedID *uuid.UUID `gorm:"type:uuid;index"`
	IsActive       bool       `gorm:"not null"`
	IsDismissible  bool       `gorm:"not null"`
	ActionLabel    string     `gorm:"size:100"`
	ActionURL      string     `gorm:"size:255"`
	ExpiresAt      *time.Time
}

// TableName returns the table name for GORM
func (AlertModel) TableName() string {
	return "alerts"
}

// ToDomain converts the persistence model to a domain Alert.
func (m *AlertModel) ToDomain() *notification.Alert {
	return &notification.Alert{
		TenantEntity:   m.ToDomainTenantEntity(),
		AlertType:      m.AlertType,
		Title:          m.Title,
		Message:        m.Message,
		Severity:       notification.Severity(m.Severity),
		PurchaseNeedID: m.PurchaseNeedID,
		IsActive:       m.IsActive,
		IsDismissible:  m.IsDismissible,
		ActionLabel:    m.ActionLabel,
		ActionURL:      m.ActionURL,
		ExpiresAt:      m.ExpiresAt,
	}
}

// FromDomain populates the persistence model from a domain Alert.
func (m *AlertModel) FromDomain(a *notification.Alert) {
	m.FromDomainTenantEntity(a.TenantEntity)
	m.AlertType = a.AlertType
	m.Title = a.Title
	m.Message = a.Message
	m.Severity = string(a.Severity)
	m.PurchaseNeedID = a.PurchaseNeedID
	m.IsActive = a.IsActive
	m.IsDismissible = a.IsDismissible
	m.ActionLabel = a.ActionLabel
	m.ActionURL = a.ActionURL
	m.ExpiresAt = a.ExpiresAt
}
