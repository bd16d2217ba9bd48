package approval

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/retifica/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedOutcomes struct {
	outcomes []telemetry.ApprovalOutcome
}

func (r *recordedOutcomes) RecordApproval(_ context.Context, o telemetry.ApprovalOutcome) {
	r.outcomes = append(r.outcomes, o)
}

func TestApprove_RecordsApprovedOutcome(t *testing.T) {
	f := newFixture(t, part("A", 5, 100), part("B", 8, 12.5))
	f.store.addStock(f.tenantID, "A", 5, 80)
	f.store.addStock(f.tenantID, "B", 2, 10)
	rec := &recordedOutcomes{}
	f.svc.SetMetrics(rec)

	f.approve(t)

	require.Len(t, rec.outcomes, 1)
	o := rec.outcomes[0]
	assert.Equal(t, telemetry.OutcomeApproved, o.Outcome)
	assert.Equal(t, "total", o.ApprovalType)
	assert.Equal(t, 2, o.Reservations)
	assert.Equal(t, 1, o.PurchaseNeeds)
	assert.Equal(t, 1, o.Alerts)
	assert.Empty(t, o.WarningStages)
}

func TestApprove_RecordsFailureCode(t *testing.T) {
	f := newFixture(t)
	rec := &recordedOutcomes{}
	f.svc.SetMetrics(rec)

	req := f.request()
	req.BudgetID = uuid.NewString()
	_, err := f.svc.Approve(context.Background(), f.actor, req)
	require.ErrorIs(t, err, ErrBudgetNotFound)

	req.ApprovalType = "whatever"
	_, err = f.svc.Approve(context.Background(), f.actor, req)
	require.Error(t, err)

	require.Len(t, rec.outcomes, 2)
	assert.Equal(t, "not_found", rec.outcomes[0].Outcome)
	assert.Equal(t, "total", rec.outcomes[0].ApprovalType)
	assert.Equal(t, "invalid_input", rec.outcomes[1].Outcome)
	assert.Equal(t, "unknown", rec.outcomes[1].ApprovalType)
	assert.Zero(t, rec.outcomes[1].Reservations)
}
