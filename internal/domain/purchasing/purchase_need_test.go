package purchasing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyPriority(t *testing.T) {
	tests := []struct {
		name      string
		required  int64
		available int64
		want      Priority
	}{
		{"shortage above half", 10, 4, PriorityHigh},
		{"empty stock, full shortage", 10, 0, PriorityHigh},
		{"empty stock with single unit", 1, 0, PriorityHigh},
		{"small shortage", 10, 9, PriorityNormal},
		{"exactly half", 10, 5, PriorityNormal},
		{"end-to-end part B", 8, 2, PriorityHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			required := decimal.NewFromInt(tt.required)
			available := decimal.NewFromInt(tt.available)
			shortage := required.Sub(available)
			assert.Equal(t, tt.want, ClassifyPriority(required, available, shortage))
		})
	}
}

func TestClassifyPriority_ZeroAvailableWithinHalf(t *testing.T) {
	// high wins over critical, so critical needs a shortage within half the requirement.
	got := ClassifyPriority(decimal.NewFromInt(10), decimal.Zero, decimal.NewFromInt(3))
	assert.Equal(t, PriorityCritical, got)
}

func TestNewPurchaseNeed(t *testing.T) {
	now := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)
	orderID := uuid.New()
	s := Shortfall{
		PartCode:  "BRZ-9",
		PartName:  "Bronzina",
		Required:  decimal.NewFromInt(8),
		Available: decimal.NewFromInt(2),
		Shortage:  decimal.NewFromInt(6),
		UnitPrice: decimal.NewFromFloat(12.5),
		OrderID:   orderID,
	}

	n := NewPurchaseNeed(uuid.New(), s, 7*24*time.Hour, now)

	assert.Equal(t, NeedStatusPending, n.Status)
	assert.Equal(t, NeedTypePlanned, n.NeedType)
	assert.Equal(t, PriorityHigh, n.Priority)
	assert.True(t, n.EstimatedCost.Equal(decimal.NewFromInt(75)))
	assert.Equal(t, now.AddDate(0, 0, 7), n.DeliveryUrgencyDate)
	assert.Equal(t, RelatedOrders{orderID}, n.RelatedOrders)
}

func TestPurchaseNeed_RefreshAppendsOrderOnce(t *testing.T) {
	now := time.Now()
	first, second := uuid.New(), uuid.New()
	s := Shortfall{PartCode: "P", Required: decimal.NewFromInt(10), Available: decimal.NewFromInt(9), Shortage: decimal.NewFromInt(1), OrderID: first}
	n := NewPurchaseNeed(uuid.New(), s, time.Hour, now)

	n.Refresh(s, time.Hour, now)
	require.Len(t, n.RelatedOrders, 1)

	s.OrderID = second
	s.Available = decimal.Zero
	s.Shortage = decimal.NewFromInt(10)
	n.Refresh(s, time.Hour, now)
	assert.Equal(t, RelatedOrders{first, second}, n.RelatedOrders)
	assert.Equal(t, PriorityHigh, n.Priority)
}

func TestRelatedOrders_ValueAndScan(t *testing.T) {
	ids := RelatedOrders{uuid.New()}
	raw, err := ids.Value()
	require.NoError(t, err)

	var scanned RelatedOrders
	require.NoError(t, scanned.Scan(raw))
	assert.Equal(t, ids, scanned)

	require.NoError(t, scanned.Scan(nil))
	assert.Empty(t, scanned)
}
