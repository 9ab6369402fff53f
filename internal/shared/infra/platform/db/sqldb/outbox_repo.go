package sqldb

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/LeHongMinh-ST/ca-eco/internal/shared/domain"
)

// OutboxRepoSQL implementa domain.OutboxRepository para SQLite y PostgreSQL.
type OutboxRepoSQL struct {
	db      *sql.DB
	dialect Dialect
}

func NewOutboxRepoSQL(db *sql.DB, dialect Dialect) *OutboxRepoSQL {
	return &OutboxRepoSQL{db: db, dialect: dialect}
}

// ------------------ Helper para insertar en outbox ------------------

// InsertOutboxTx inserta una fila PENDING usando la transacción del llamador.
func InsertOutboxTx(ctx context.Context, tx DBTX, dialect Dialect, evt domain.OutboxEvent) error {
	payloadBytes, err := json.Marshal(evt.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal outbox payload: %w", err)
	}

	_, err = tx.ExecContext(ctx, dialect.Rebind(
		`INSERT INTO outbox (id, aggregate_id, event_type, payload, status, retry_count, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`),
		evt.ID.String(), evt.AggregateID, evt.EventType, string(payloadBytes),
		string(domain.OutboxPending), evt.RetryCount, evt.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert outbox event: %w", err)
	}
	return nil
}

// ------------------ Métodos del procesador ------------------

const outboxColumns = `id, aggregate_id, event_type, payload, status, retry_count, error_message, created_at, processed_at`

// FetchPending obtiene las filas PENDING más antiguas.
func (r *OutboxRepoSQL) FetchPending(ctx context.Context, limit int) ([]domain.OutboxEvent, error) {
	return r.query(ctx,
		`SELECT `+outboxColumns+` FROM outbox WHERE status = ? ORDER BY created_at, id LIMIT ?`,
		string(domain.OutboxPending), limit,
	)
}

// MarkProcessing reclama la fila sólo si sigue PENDING.
func (r *OutboxRepoSQL) MarkProcessing(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := r.db.ExecContext(ctx, r.dialect.Rebind(
		`UPDATE outbox SET status = ? WHERE id = ? AND status = ?`),
		string(domain.OutboxProcessing), id.String(), string(domain.OutboxPending),
	)
	if err != nil {
		return false, fmt.Errorf("failed to claim outbox event %s: %w", id, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get RowsAffected for outbox event %s: %w", id, err)
	}
	return rows == 1, nil
}

// MarkCompleted cierra la fila; sólo se acepta desde PROCESSING.
func (r *OutboxRepoSQL) MarkCompleted(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, r.dialect.Rebind(
		`UPDATE outbox SET status = ?, processed_at = ?, error_message = NULL WHERE id = ? AND status = ?`),
		string(domain.OutboxCompleted), time.Now().UTC(), id.String(), string(domain.OutboxProcessing),
	)
	if err != nil {
		return fmt.Errorf("failed to mark outbox event %s as completed: %w", id, err)
	}
	return ExpectOneRow(res, fmt.Errorf("outbox event %s is not processing", id))
}

// MarkFailed guarda el error e incrementa retry_count.
func (r *OutboxRepoSQL) MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error {
	res, err := r.db.ExecContext(ctx, r.dialect.Rebind(
		`UPDATE outbox SET status = ?, error_message = ?, retry_count = retry_count + 1, processed_at = ?
		 WHERE id = ? AND status = ?`),
		string(domain.OutboxFailed), errMsg, time.Now().UTC(), id.String(), string(domain.OutboxProcessing),
	)
	if err != nil {
		return fmt.Errorf("failed to mark outbox event %s as failed: %w", id, err)
	}
	return ExpectOneRow(res, fmt.Errorf("outbox event %s is not processing", id))
}

// RequeueFailed devuelve a PENDING las filas FAILED que aún tienen reintentos.
func (r *OutboxRepoSQL) RequeueFailed(ctx context.Context, maxRetries int) (int64, error) {
	res, err := r.db.ExecContext(ctx, r.dialect.Rebind(
		`UPDATE outbox SET status = ?, processed_at = NULL WHERE status = ? AND retry_count < ?`),
		string(domain.OutboxPending), string(domain.OutboxFailed), maxRetries,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to requeue failed outbox events: %w", err)
	}
	return res.RowsAffected()
}

// ------------------ Consultas de inspección ------------------

// FindByID devuelve una fila concreta.
func (r *OutboxRepoSQL) FindByID(ctx context.Context, id uuid.UUID) (*domain.OutboxEvent, error) {
	events, err := r.query(ctx, `SELECT `+outboxColumns+` FROM outbox WHERE id = ?`, id.String())
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, domain.NotFound("outbox event")
	}
	return &events[0], nil
}

// ListByStatus permite revisar a mano, por ejemplo, las filas FAILED.
func (r *OutboxRepoSQL) ListByStatus(ctx context.Context, status domain.OutboxStatus, limit int) ([]domain.OutboxEvent, error) {
	return r.query(ctx,
		`SELECT `+outboxColumns+` FROM outbox WHERE status = ? ORDER BY created_at, id LIMIT ?`,
		string(status), limit,
	)
}

// ListByAggregate devuelve el histórico de eventos de un agregado.
func (r *OutboxRepoSQL) ListByAggregate(ctx context.Context, aggregateID string) ([]domain.OutboxEvent, error) {
	return r.query(ctx,
		`SELECT `+outboxColumns+` FROM outbox WHERE aggregate_id = ? ORDER BY created_at, id`,
		aggregateID,
	)
}

func (r *OutboxRepoSQL) query(ctx context.Context, query string, args ...interface{}) ([]domain.OutboxEvent, error) {
	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.OutboxEvent
	for rows.Next() {
		var (
			idStr, status string
			payloadBytes  []byte
			errMsg        sql.NullString
			processedAt   sql.NullTime
			evt           domain.OutboxEvent
		)
		if err := rows.Scan(&idStr, &evt.AggregateID, &evt.EventType, &payloadBytes, &status,
			&evt.RetryCount, &errMsg, &evt.CreatedAt, &processedAt); err != nil {
			return nil, err
		}

		parsedID, err := uuid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("invalid UUID in outbox row: %w", err)
		}
		evt.ID = parsedID
		evt.Status = domain.OutboxStatus(status)

		if err := json.Unmarshal(payloadBytes, &evt.Payload); err != nil {
			return nil, fmt.Errorf("invalid JSON payload in outbox row %s: %w", parsedID, err)
		}
		if errMsg.Valid {
			evt.ErrorMessage = &errMsg.String
		}
		if processedAt.Valid {
			ts := processedAt.Time
			evt.ProcessedAt = &ts
		}

		events = append(events, evt)
	}
	return events, rows.Err()
}

// Verificación en tiempo de compilación.
var _ domain.OutboxRepository = (*OutboxRepoSQL)(nil)
