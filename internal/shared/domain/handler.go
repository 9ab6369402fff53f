package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// StoredEvent es el evento reconstruido a partir del payload guardado en el outbox:
// una bolsa de campos más eventType y occurredAt.
type StoredEvent struct {
	ID          uuid.UUID
	AggregateID string
	EventType   string
	OccurredAt  time.Time
	Payload     map[string]interface{}
}

// NewStoredEvent reconstruye el evento de una fila del outbox.
func NewStoredEvent(rec OutboxEvent) StoredEvent {
	evt := StoredEvent{
		ID:          rec.ID,
		AggregateID: rec.AggregateID,
		EventType:   rec.EventType,
		OccurredAt:  rec.CreatedAt,
		Payload:     rec.Payload,
	}
	if evt.Payload == nil {
		evt.Payload = map[string]interface{}{}
	}
	if raw, ok := evt.Payload["occurredAt"].(string); ok {
		if ts, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			evt.OccurredAt = ts
		}
	}
	return evt
}

// String devuelve el campo como string, o "" si no existe o no es string.
func (e StoredEvent) String(key string) string {
	s, _ := e.Payload[key].(string)
	return s
}

// Decode vuelca el payload en un contrato tipado (ej: *events.OrderCreated).
func (e StoredEvent) Decode(dest interface{}) error {
	data, err := json.Marshal(e.Payload)
	if err != nil {
		return fmt.Errorf("marshal payload of %s: %w", e.EventType, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("decode payload of %s: %w", e.EventType, err)
	}
	return nil
}

// EventHandler recibe eventos de cualquier tipo y debe ignorar los que no reconoce.
// Los handlers tienen que ser idempotentes: la entrega es at-least-once.
type EventHandler interface {
	Handle(ctx context.Context, evt StoredEvent) error
}

// EventHandlerFunc adapta una función a EventHandler.
type EventHandlerFunc func(ctx context.Context, evt StoredEvent) error

func (f EventHandlerFunc) Handle(ctx context.Context, evt StoredEvent) error {
	return f(ctx, evt)
}
