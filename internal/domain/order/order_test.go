package order

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestOrder_TransitionTo(t *testing.T) {
	now := time.Now()
	o := &Order{Status: StatusAwaitingBudget}

	previous := o.TransitionTo(StatusApproved, now)

	assert.Equal(t, StatusAwaitingBudget, previous)
	assert.Equal(t, StatusApproved, o.Status)
	assert.Equal(t, now, o.UpdatedAt)
}

func TestNewStatusHistory(t *testing.T) {
	tenantID, orderID := uuid.New(), uuid.New()
	now := time.Now()

	h := NewStatusHistory(tenantID, orderID, StatusAwaitingBudget, StatusApproved, "ana", "ok", now)

	assert.NotEqual(t, uuid.Nil, h.ID)
	assert.Equal(t, tenantID, h.TenantID)
	assert.Equal(t, orderID, h.OrderID)
	assert.Equal(t, StatusAwaitingBudget, h.PreviousStatus)
	assert.Equal(t, StatusApproved, h.NewStatus)
	assert.Equal(t, now, h.ChangedAt)
}

func TestApprovalNote(t *testing.T) {
	assert.Equal(t, "Orçamento aprovado (total)", ApprovalNote("total", ""))
	assert.Equal(t, "Orçamento aprovado (parcial): sem cabeçote", ApprovalNote("parcial", "  sem cabeçote "))
}
