package telemetry

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// ErrMeterNil is returned when no meter is supplied.
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

// Outcome values recorded for an approval attempt
const (
	OutcomeApproved = "approved"
	OutcomeError    = "error"
)

// ApprovalOutcome describes one finished Approve call.
type ApprovalOutcome struct {
	// Outcome is OutcomeApproved or a lower-case error code
	Outcome       string
	ApprovalType  string
	Duration      time.Duration
	Reservations  int
	PurchaseNeeds int
	Alerts        int
	WarningStages []string
}

// ApprovalMetrics records budget approval counters and latency.
type ApprovalMetrics struct {
	approvals *Counter
	records   *Counter
	warnings  *Counter
	duration  *Histogram
}

// NewApprovalMetrics registers the approval instruments on meter.
func NewApprovalMetrics(meter metric.Meter) (*ApprovalMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	var (
		m   ApprovalMetrics
		err error
	)
	m.approvals, err = NewCounter(meter,
		"retifica_budget_approval_total",
		"Budget approval attempts by outcome",
		"{approvals}",
	)
	if err != nil {
		return nil, err
	}
	m.records, err = NewCounter(meter,
		"retifica_budget_approval_records_total",
		"Reservations, purchase needs and alerts written by approvals",
		"{records}",
	)
	if err != nil {
		return nil, err
	}
	m.warnings, err = NewCounter(meter,
		"retifica_budget_approval_warnings_total",
		"Soft failures during approval by stage",
		"{warnings}",
	)
	if err != nil {
		return nil, err
	}
	m.duration, err = NewHistogram(meter, HistogramOpts{
		Name:        "retifica_budget_approval_duration_seconds",
		Description: "Duration of a budget approval",
		Unit:        "s",
		Boundaries:  ApprovalDurationBuckets,
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// RecordApproval records one finished attempt.
func (m *ApprovalMetrics) RecordApproval(ctx context.Context, o ApprovalOutcome) {
	m.approvals.Inc(ctx, AttrOutcome.String(o.Outcome), AttrApprovalType.String(o.ApprovalType))
	m.duration.RecordDuration(ctx, o.Duration, AttrOutcome.String(o.Outcome))

	if o.Outcome != OutcomeApproved {
		return
	}
	m.addRecords(ctx, "reservation", o.Reservations)
	m.addRecords(ctx, "purchase_need", o.PurchaseNeeds)
	m.addRecords(ctx, "alert", o.Alerts)
	for _, stage := range o.WarningStages {
		m.warnings.Inc(ctx, AttrWarningStage.String(stage))
	}
}

func (m *ApprovalMetrics) addRecords(ctx context.Context, kind string, n int) {
	if n > 0 {
		m.records.Add(ctx, int64(n), AttrRecordKind.String(kind))
	}
}
