package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/retifica/backend/internal/infrastructure/config"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds configuration for database tracing.
type DBTracingConfig struct {
	Enabled         bool
	LogFullSQL      bool          // Include query variables in spans (dev only)
	SlowQueryThresh time.Duration // Queries slower than this get a slow_query event
	DBSystem        string
}

// DBTracingConfigFrom derives the database tracing settings from the telemetry section.
// Tracing only runs when both telemetry and DB tracing are switched on.
func DBTracingConfigFrom(cfg config.TelemetryConfig) DBTracingConfig {
	return DBTracingConfig{
		Enabled:         cfg.Enabled && cfg.DBTraceEnabled,
		LogFullSQL:      cfg.DBLogFullSQL,
		SlowQueryThresh: 200 * time.Millisecond,
		DBSystem:        "postgresql",
	}
}

// DBTracingPlugin wraps otelgorm with slow query detection.
type DBTracingPlugin struct {
	config DBTracingConfig
	logger *zap.Logger
}

// NewDBTracingPlugin creates a new database tracing plugin with the given configuration.
func NewDBTracingPlugin(cfg DBTracingConfig, logger *zap.Logger) *DBTracingPlugin {
	if cfg.SlowQueryThresh <= 0 {
		cfg.SlowQueryThresh = 200 * time.Millisecond
	}
	return &DBTracingPlugin{config: cfg, logger: logger}
}

type queryStartKey struct{}

// RegisterOtelGorm installs otelgorm and the timing callbacks on db.
func (p *DBTracingPlugin) RegisterOtelGorm(db *gorm.DB) error {
	if !p.config.Enabled {
		p.logger.Debug("Database tracing disabled, skipping otelgorm registration")
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(p.config.DBSystem)}
	if !p.config.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	// after hooks must run before otelgorm ends the span and restores the parent context
	cb := db.Callback()
	regs := []struct {
		op  string
		err error
	}{
		{"create", cb.Create().Before("gorm:create").Register("otel_timing:before_create", p.beforeCallback)},
		{"create", cb.Create().After("gorm:create").Before("otel:after:create").Register("otel_timing:after_create", p.afterCallback)},
		{"query", cb.Query().Before("gorm:query").Register("otel_timing:before_query", p.beforeCallback)},
		{"query", cb.Query().After("gorm:query").Before("otel:after:select").Register("otel_timing:after_query", p.afterCallback)},
		{"update", cb.Update().Before("gorm:update").Register("otel_timing:before_update", p.beforeCallback)},
		{"update", cb.Update().After("gorm:update").Before("otel:after:update").Register("otel_timing:after_update", p.afterCallback)},
		{"delete", cb.Delete().Before("gorm:delete").Register("otel_timing:before_delete", p.beforeCallback)},
		{"delete", cb.Delete().After("gorm:delete").Before("otel:after:delete").Register("otel_timing:after_delete", p.afterCallback)},
		{"row", cb.Row().Before("gorm:row").Register("otel_timing:before_row", p.beforeCallback)},
		{"row", cb.Row().After("gorm:row").Before("otel:after:row").Register("otel_timing:after_row", p.afterCallback)},
		{"raw", cb.Raw().Before("gorm:raw").Register("otel_timing:before_raw", p.beforeCallback)},
		{"raw", cb.Raw().After("gorm:raw").Before("otel:after:raw").Register("otel_timing:after_raw", p.afterCallback)},
	}
	for _, r := range regs {
		if r.err != nil {
			return fmt.Errorf("register %s timing callback: %w", r.op, r.err)
		}
	}

	p.logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", p.config.LogFullSQL),
		zap.Duration("slow_query_threshold", p.config.SlowQueryThresh),
	)
	return nil
}

func (p *DBTracingPlugin) beforeCallback(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, queryStartKey{}, time.Now())
	}
}

// afterCallback annotates the active span with table, row count, error and slowness.
func (p *DBTracingPlugin) afterCallback(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	if db.Statement.RowsAffected >= 0 {
		span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
	}
	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}
	// not-found is an expected outcome of lookups
	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		span.SetStatus(codes.Error, db.Error.Error())
		span.RecordError(db.Error)
	}

	if start, ok := ctx.Value(queryStartKey{}).(time.Time); ok {
		elapsed := time.Since(start)
		if elapsed > p.config.SlowQueryThresh {
			span.SetAttributes(
				attribute.Bool("db.slow_query", true),
				attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
			)
			span.AddEvent("slow_query_warning", trace.WithAttributes(
				attribute.Int64("duration_ms", elapsed.Milliseconds()),
				attribute.Int64("threshold_ms", p.config.SlowQueryThresh.Milliseconds()),
			))
		}
	}
}
