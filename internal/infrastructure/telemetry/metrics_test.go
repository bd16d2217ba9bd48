package telemetry_test

import (
	"context"
	"testing"
	"time"

	"github.com/retifica/backend/internal/infrastructure/config"
	"github.com/retifica/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap/zaptest"
)

func newManualMeter(t *testing.T) (*telemetry.MeterProvider, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp, err := telemetry.NewMeterProviderWithReader(config.TelemetryConfig{ServiceName: "retifica-test"}, reader, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	return mp, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := map[string]metricdata.Metrics{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func sumFor(t *testing.T, m metricdata.Metrics, key attribute.Key, value string) int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "metric %s is not an int64 sum", m.Name)
	var total int64
	for _, dp := range sum.DataPoints {
		if v, ok := dp.Attributes.Value(key); ok && v.AsString() == value {
			total += dp.Value
		}
	}
	return total
}

func TestNewMeterProvider_Disabled(t *testing.T) {
	ctx := context.Background()
	mp, err := telemetry.NewMeterProvider(ctx, config.TelemetryConfig{ServiceName: "retifica-test"}, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.False(t, mp.IsEnabled())
	assert.NotNil(t, mp.Meter("noop"))
	assert.NoError(t, mp.ForceFlush(ctx))
	assert.NoError(t, mp.Shutdown(ctx))
}

func TestNewMeterProviderWithReader(t *testing.T) {
	mp, reader := newManualMeter(t)
	assert.True(t, mp.IsEnabled())

	counter, err := telemetry.NewCounter(mp.Meter("test"), "test_total", "test counter", "{items}")
	require.NoError(t, err)
	counter.Add(context.Background(), 3, telemetry.AttrRecordKind.String("x"))
	counter.Inc(context.Background(), telemetry.AttrRecordKind.String("x"))

	metrics := collect(t, reader)
	require.Contains(t, metrics, "test_total")
	assert.Equal(t, int64(4), sumFor(t, metrics["test_total"], telemetry.AttrRecordKind, "x"))
}

func TestNewApprovalMetrics_NilMeter(t *testing.T) {
	_, err := telemetry.NewApprovalMetrics(nil)
	assert.ErrorIs(t, err, telemetry.ErrMeterNil)
}

func TestApprovalMetrics_RecordApproval(t *testing.T) {
	mp, reader := newManualMeter(t)
	m, err := telemetry.NewApprovalMetrics(mp.Meter("approval"))
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordApproval(ctx, telemetry.ApprovalOutcome{
		Outcome:       telemetry.OutcomeApproved,
		ApprovalType:  "total",
		Duration:      120 * time.Millisecond,
		Reservations:  2,
		PurchaseNeeds: 1,
		Alerts:        1,
		WarningStages: []string{"receivable", "workflow", "receivable"},
	})
	m.RecordApproval(ctx, telemetry.ApprovalOutcome{
		Outcome:      "conflict",
		ApprovalType: "total",
		Duration:     time.Millisecond,
		Reservations: 9,
	})

	metrics := collect(t, reader)

	approvals := metrics["retifica_budget_approval_total"]
	assert.Equal(t, int64(1), sumFor(t, approvals, telemetry.AttrOutcome, "approved"))
	assert.Equal(t, int64(1), sumFor(t, approvals, telemetry.AttrOutcome, "conflict"))

	records := metrics["retifica_budget_approval_records_total"]
	assert.Equal(t, int64(2), sumFor(t, records, telemetry.AttrRecordKind, "reservation"))
	assert.Equal(t, int64(1), sumFor(t, records, telemetry.AttrRecordKind, "purchase_need"))
	assert.Equal(t, int64(1), sumFor(t, records, telemetry.AttrRecordKind, "alert"))

	warnings := metrics["retifica_budget_approval_warnings_total"]
	assert.Equal(t, int64(2), sumFor(t, warnings, telemetry.AttrWarningStage, "receivable"))
	assert.Equal(t, int64(1), sumFor(t, warnings, telemetry.AttrWarningStage, "workflow"))

	hist, ok := metrics["retifica_budget_approval_duration_seconds"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	var count uint64
	for _, dp := range hist.DataPoints {
		count += dp.Count
	}
	assert.Equal(t, uint64(2), count)
}
