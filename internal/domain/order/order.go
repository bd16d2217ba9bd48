package order

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/retifica/backend/internal/domain/shared"
)

// Status is the workflow status of a service order. The workflow is
// configurable per shop, so unknown values are carried through untouched.
type Status string

const (
	StatusAwaitingBudget Status = "aguardando_orcamento"
	StatusApproved       Status = "aprovada"
	StatusInProduction   Status = "em_producao"
	StatusCompleted      Status = "concluida"
	StatusDelivered      Status = "entregue"
	StatusCancelled      Status = "cancelada"
)

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// Order is an engine rebuild job
type Order struct {
	shared.TenantEntity
	OrderNumber  string
	CustomerID   uuid.UUID
	EngineTypeID *uuid.UUID
	Status       Status
}

// TransitionTo moves the order to status and returns the previous one
func (o *Order) TransitionTo(status Status, now time.Time) Status {
	previous := o.Status
	o.Status = status
	o.Touch(now)
	return previous
}

// StatusHistory is an append-only record of a status change
type StatusHistory struct {
	shared.TenantEntity
	OrderID        uuid.UUID
	PreviousStatus Status
	NewStatus      Status
	ChangedBy      string
	Notes          string
	ChangedAt      time.Time
}

// NewStatusHistory records a transition from previous to next
func NewStatusHistory(tenantID, orderID uuid.UUID, previous, next Status, changedBy, notes string, now time.Time) *StatusHistory {
	return &StatusHistory{
		TenantEntity:   shared.NewTenantEntity(tenantID, now),
		OrderID:        orderID,
		PreviousStatus: previous,
		NewStatus:      next,
		ChangedBy:      changedBy,
		Notes:          notes,
		ChangedAt:      now,
	}
}

// ApprovalNote builds the history note for a budget approval
func ApprovalNote(approvalType, notes string) string {
	note := "Orçamento aprovado (" + approvalType + ")"
	if n := strings.TrimSpace(notes); n != "" {
		note += ": " + n
	}
	return note
}
