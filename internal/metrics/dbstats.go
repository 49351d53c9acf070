package metrics

import (
	"context"
	"database/sql"
	"fmt"

	"go.opentelemetry.io/otel/metric"
)

// DBStatser is satisfied by *sql.DB.
type DBStatser interface {
	Stats() sql.DBStats
}

// RegisterDBStats publishes connection pool gauges for db, read on every collection.
// Unregister the returned registration before closing db.
func RegisterDBStats(
	meterProvider metric.MeterProvider,
	namespace string,
	db DBStatser,
) (metric.Registration, error) {
	meter := meterProvider.Meter(namespace)

	open, err := meter.Int64ObservableGauge(
		fmt.Sprintf("%s_db_connections_open", namespace),
		metric.WithDescription("Established database connections, in use and idle"),
		metric.WithUnit("{connection}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create open connections gauge: %w", err)
	}

	inUse, err := meter.Int64ObservableGauge(
		fmt.Sprintf("%s_db_connections_in_use", namespace),
		metric.WithDescription("Database connections currently in use"),
		metric.WithUnit("{connection}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create in use connections gauge: %w", err)
	}

	waits, err := meter.Int64ObservableCounter(
		fmt.Sprintf("%s_db_connections_wait_total", namespace),
		metric.WithDescription("Times a caller waited for a free database connection"),
		metric.WithUnit("{wait}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create wait counter: %w", err)
	}

	registration, err := meter.RegisterCallback(
		func(_ context.Context, o metric.Observer) error {
			stats := db.Stats()
			o.ObserveInt64(open, int64(stats.OpenConnections))
			o.ObserveInt64(inUse, int64(stats.InUse))
			o.ObserveInt64(waits, stats.WaitCount)
			return nil
		},
		open, inUse, waits,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register db stats callback: %w", err)
	}
	return registration, nil
}
