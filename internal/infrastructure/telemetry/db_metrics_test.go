package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/retifica/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
)

func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := map[string]metricdata.Aggregation{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func TestDetectOperationType(t *testing.T) {
	tests := map[string]string{
		"select * from parts":        "SELECT",
		"  INSERT INTO parts":        "INSERT",
		"update parts set code = ''": "UPDATE",
		"DELETE FROM parts":          "DELETE",
		"PRAGMA foreign_keys":        "OTHER",
	}
	for query, want := range tests {
		assert.Equal(t, want, detectOperationType(query), query)
	}
}

func TestRegisterDBMetrics_DisabledProvider(t *testing.T) {
	db := setupTracedDB(t)
	mp, err := NewMeterProvider(context.Background(), config.TelemetryConfig{}, zap.NewNop())
	require.NoError(t, err)

	m, err := RegisterDBMetrics(db, mp, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestRegisterDBMetrics_RecordsQueriesAndPool(t *testing.T) {
	db := setupTracedDB(t)
	reader := sdkmetric.NewManualReader()
	mp, err := NewMeterProviderWithReader(config.TelemetryConfig{ServiceName: "retifica-test"}, reader, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := RegisterDBMetrics(db, mp, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, m)
	t.Cleanup(m.Stop)

	require.NoError(t, db.Create(&tracedPart{Code: "P-1"}).Error)
	var parts []tracedPart
	require.NoError(t, db.Find(&parts).Error)

	data := collectMetrics(t, reader)

	total, ok := data["db_query_total"].(metricdata.Sum[int64])
	require.True(t, ok)
	ops := map[string]int64{}
	for _, dp := range total.DataPoints {
		v, _ := dp.Attributes.Value(AttrDBOperation)
		ops[v.AsString()] += dp.Value
	}
	assert.Equal(t, int64(1), ops["INSERT"])
	assert.Equal(t, int64(1), ops["SELECT"])

	assert.Contains(t, data, "db_query_duration_seconds")
	assert.Contains(t, data, "db_pool_connections")
	assert.Contains(t, data, "db_pool_connections_max")
}

func TestDBMetrics_SlowQuery(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp, err := NewMeterProviderWithReader(config.TelemetryConfig{}, reader, zap.NewNop())
	require.NoError(t, err)
	m, err := NewDBMetrics(mp.Meter("db.client"), nil, 50*time.Millisecond, zap.NewNop())
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordQuery(ctx, "select", "parts_inventory", 10*time.Millisecond)
	m.RecordQuery(ctx, "update", "parts_inventory", 80*time.Millisecond)
	m.RecordQuery(ctx, "", "", 90*time.Millisecond)

	data := collectMetrics(t, reader)
	slow, ok := data["db_slow_query_total"].(metricdata.Sum[int64])
	require.True(t, ok)
	tables := map[string]int64{}
	for _, dp := range slow.DataPoints {
		v, _ := dp.Attributes.Value(AttrDBTable)
		tables[v.AsString()] += dp.Value
	}
	assert.Equal(t, map[string]int64{"parts_inventory": 1, "unknown": 1}, tables)
}

func TestRegisterDBMetrics_CountsQueriesUnderTracing(t *testing.T) {
	db := setupTracedDB(t)
	sr := installRecorder(t)
	require.NoError(t, NewDBTracingPlugin(DBTracingConfig{Enabled: true, DBSystem: "sqlite"}, zap.NewNop()).RegisterOtelGorm(db))

	reader := sdkmetric.NewManualReader()
	mp, err := NewMeterProviderWithReader(config.TelemetryConfig{ServiceName: "retifica-test"}, reader, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	m, err := RegisterDBMetrics(db, mp, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(m.Stop)

	var parts []tracedPart
	require.NoError(t, db.WithContext(context.Background()).Find(&parts).Error)

	assert.NotEmpty(t, sr.Ended())
	total, ok := collectMetrics(t, reader)["db_query_total"].(metricdata.Sum[int64])
	require.True(t, ok)
	var selects int64
	for _, dp := range total.DataPoints {
		if v, _ := dp.Attributes.Value(AttrDBOperation); v.AsString() == "SELECT" {
			selects += dp.Value
		}
	}
	assert.Equal(t, int64(1), selects)
}
