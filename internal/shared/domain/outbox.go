package domain

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/LeHongMinh-ST/ca-eco/internal/shared/events"
)

// OutboxStatus es el estado de entrega de una fila del outbox.
type OutboxStatus string

const (
	OutboxPending    OutboxStatus = "PENDING"
	OutboxProcessing OutboxStatus = "PROCESSING"
	OutboxCompleted  OutboxStatus = "COMPLETED"
	OutboxFailed     OutboxStatus = "FAILED"
)

// OutboxEvent representa un evento serializado pendiente de entregar a los handlers.
// Las filas nunca se borran: la tabla es también el histórico de entregas.
type OutboxEvent struct {
	ID           uuid.UUID              `json:"id"`
	AggregateID  string                 `json:"aggregate_id"`
	EventType    string                 `json:"event_type"`
	Payload      map[string]interface{} `json:"payload"`
	Status       OutboxStatus           `json:"status"`
	RetryCount   int                    `json:"retry_count"`
	ErrorMessage *string                `json:"error_message,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
	ProcessedAt  *time.Time             `json:"processed_at,omitempty"`
}

// OutboxRepository define el contrato que necesita el procesador del outbox.
// Las transiciones de estado sólo las hace el procesador.
type OutboxRepository interface {
	// FetchPending devuelve hasta limit filas PENDING ordenadas por created_at ascendente.
	FetchPending(ctx context.Context, limit int) ([]OutboxEvent, error)

	// MarkProcessing pasa la fila de PENDING a PROCESSING.
	// Devuelve false si otra ejecución ya la había reclamado.
	MarkProcessing(ctx context.Context, id uuid.UUID) (bool, error)

	// MarkCompleted es definitivo: una fila COMPLETED no vuelve a cambiar.
	MarkCompleted(ctx context.Context, id uuid.UUID) error

	// MarkFailed guarda el último error e incrementa retry_count.
	MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error

	// RequeueFailed devuelve a PENDING las filas FAILED con retry_count < maxRetries.
	RequeueFailed(ctx context.Context, maxRetries int) (int64, error)
}

// EventDispatcher inserta un evento en el outbox fuera del guardado de un agregado.
// Equivale a insertar una fila PENDING.
type EventDispatcher interface {
	Dispatch(ctx context.Context, evt events.DomainEvent) error
}

// DeliveryRecord resume el resultado de procesar una fila del outbox.
type DeliveryRecord struct {
	OutboxID     uuid.UUID     `json:"outbox_id" bson:"outboxId"`
	AggregateID  string        `json:"aggregate_id" bson:"aggregateId"`
	EventType    string        `json:"event_type" bson:"eventType"`
	Status       OutboxStatus  `json:"status" bson:"status"`
	HandlerCount int           `json:"handler_count" bson:"handlerCount"`
	Error        string        `json:"error,omitempty" bson:"error,omitempty"`
	Duration     time.Duration `json:"duration" bson:"duration"`
	ProcessedAt  time.Time     `json:"processed_at" bson:"processedAt"`
}

// DeliveryLog recibe los resultados de cada tick (analítica o auditoría).
type DeliveryLog interface {
	LogBatch(ctx context.Context, records []DeliveryRecord) error
}
