package outbox

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	sharedDomain "github.com/LeHongMinh-ST/ca-eco/internal/shared/domain"
	"github.com/LeHongMinh-ST/ca-eco/internal/shared/events"
)

// aggregateIDKeys en orden de prioridad.
var aggregateIDKeys = []string{"aggregateId", "orderId", "cartId", "inventoryId", "productId", "userId"}

// ExtractAggregateID devuelve el primer identificador no vacío del payload.
// Si el evento no lleva ninguno, se usa el propio tipo de evento.
func ExtractAggregateID(payload map[string]interface{}, eventType string) string {
	for _, key := range aggregateIDKeys {
		switch id := payload[key].(type) {
		case string:
			if id != "" {
				return id
			}
		case fmt.Stringer:
			if s := id.String(); s != "" {
				return s
			}
		}
	}
	return eventType
}

// NewOutboxEvent serializa el evento en una fila PENDING lista para insertar.
func NewOutboxEvent(evt events.DomainEvent) (sharedDomain.OutboxEvent, error) {
	records, err := NewOutboxEvents(evt)
	if err != nil {
		return sharedDomain.OutboxEvent{}, err
	}
	return records[0], nil
}

// NewOutboxEvents serializa un lote conservando el orden de registro.
// created_at se trunca a microsegundos (resolución de TIMESTAMPTZ) y crece
// estrictamente dentro del lote, para que FetchPending respete ese orden.
func NewOutboxEvents(evts ...events.DomainEvent) ([]sharedDomain.OutboxEvent, error) {
	records := make([]sharedDomain.OutboxEvent, 0, len(evts))
	var prev time.Time
	for _, evt := range evts {
		payload, err := Serialize(evt)
		if err != nil {
			return nil, err
		}

		createdAt := time.Now().UTC().Truncate(time.Microsecond)
		if !createdAt.After(prev) {
			createdAt = prev.Add(time.Microsecond)
		}
		prev = createdAt

		records = append(records, sharedDomain.OutboxEvent{
			ID:          uuid.New(),
			AggregateID: ExtractAggregateID(payload, evt.EventType()),
			EventType:   evt.EventType(),
			Payload:     payload,
			Status:      sharedDomain.OutboxPending,
			RetryCount:  0,
			CreatedAt:   createdAt,
		})
	}
	return records, nil
}
