// Package clickhouse guarda las entregas del outbox en ClickHouse para analítica.
package clickhouse

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"

	sharedDomain "github.com/LeHongMinh-ST/ca-eco/internal/shared/domain"
)

// DeliveryAnalyticsRepo implementa sharedDomain.DeliveryLog.
type DeliveryAnalyticsRepo struct {
	db *sql.DB
}

func NewDeliveryAnalyticsRepo(addr, dbName string) (*DeliveryAnalyticsRepo, error) {
	conn := clickhouse.OpenDB(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{Database: dbName},
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
	})
	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("could not ping clickhouse: %w", err)
	}
	return &DeliveryAnalyticsRepo{db: conn}, nil
}

// LogBatch inserta las entregas de un tick en un único lote.
func (r *DeliveryAnalyticsRepo) LogBatch(ctx context.Context, records []sharedDomain.DeliveryRecord) error {
	if len(records) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO outbox_deliveries (outbox_id, aggregate_id, event_type, status, handler_count, error, duration_ms, processed_at)")
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.ExecContext(ctx,
			rec.OutboxID,
			rec.AggregateID,
			rec.EventType,
			string(rec.Status),
			uint32(rec.HandlerCount),
			rec.Error,
			uint64(rec.Duration.Milliseconds()),
			rec.ProcessedAt,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to exec statement for outbox %s: %w", rec.OutboxID, err)
		}
	}
	return tx.Commit()
}

// EventTypeStats resume las entregas de un tipo de evento en una ventana.
type EventTypeStats struct {
	EventType     string
	Completed     uint64
	Failed        uint64
	AvgDurationMs float64
}

// StatsByEventType agrega las entregas entre start y end.
func (r *DeliveryAnalyticsRepo) StatsByEventType(ctx context.Context, start, end time.Time) ([]EventTypeStats, error) {
	query := `
		SELECT
			event_type,
			countIf(status = 'COMPLETED') AS completed,
			countIf(status = 'FAILED') AS failed,
			avg(duration_ms) AS avg_duration_ms
		FROM outbox_deliveries
		WHERE processed_at BETWEEN ? AND ?
		GROUP BY event_type
		ORDER BY event_type
	`
	rows, err := r.db.QueryContext(ctx, query, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []EventTypeStats
	for rows.Next() {
		var s EventTypeStats
		if err := rows.Scan(&s.EventType, &s.Completed, &s.Failed, &s.AvgDurationMs); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// InitSchema crea la tabla si no existe, particionada por mes.
func (r *DeliveryAnalyticsRepo) InitSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS outbox_deliveries (
			outbox_id     UUID,
			aggregate_id  String,
			event_type    LowCardinality(String),
			status        LowCardinality(String),
			handler_count UInt32,
			error         String,
			duration_ms   UInt64,
			processed_at  DateTime64(3)
		) ENGINE = MergeTree()
		PARTITION BY toYYYYMM(processed_at)
		ORDER BY (event_type, status, processed_at);
	`
	_, err := r.db.ExecContext(ctx, query)
	return err
}

func (r *DeliveryAnalyticsRepo) Close() error {
	return r.db.Close()
}

var _ sharedDomain.DeliveryLog = (*DeliveryAnalyticsRepo)(nil)
