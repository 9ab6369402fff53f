package events

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	sharedDomain "github.com/LeHongMinh-ST/ca-eco/internal/shared/domain"
	sharedEvents "github.com/LeHongMinh-ST/ca-eco/internal/shared/events"
	sharedBus "github.com/LeHongMinh-ST/ca-eco/internal/shared/infra/platform/bus"
)

// IntegrationForwarder es un handler del outbox que saca los eventos del proceso
// envueltos en un IntegrationEvent. Un fallo del bus deja la fila FAILED.
type IntegrationForwarder struct {
	bus   sharedBus.EventBus
	types map[string]struct{}
	log   *zap.Logger
}

// NewIntegrationForwarder reenvía los tipos indicados, o todos los conocidos si no se indica ninguno.
func NewIntegrationForwarder(bus sharedBus.EventBus, log *zap.Logger, eventTypes ...string) *IntegrationForwarder {
	if len(eventTypes) == 0 {
		eventTypes = sharedEvents.AllTypes()
	}
	types := make(map[string]struct{}, len(eventTypes))
	for _, t := range eventTypes {
		types[t] = struct{}{}
	}
	return &IntegrationForwarder{bus: bus, types: types, log: log}
}

// EventTypes devuelve los tipos que reenvía, para registrarlo en el registry.
func (f *IntegrationForwarder) EventTypes() []string {
	out := make([]string, 0, len(f.types))
	for _, t := range sharedEvents.AllTypes() {
		if _, ok := f.types[t]; ok {
			out = append(out, t)
		}
	}
	return out
}

func (f *IntegrationForwarder) Handle(ctx context.Context, evt sharedDomain.StoredEvent) error {
	if _, ok := f.types[evt.EventType]; !ok {
		return nil
	}

	data, err := json.Marshal(evt.Payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", evt.EventType, err)
	}

	msg := sharedEvents.IntegrationEvent{
		Type:        evt.EventType,
		AggregateID: evt.AggregateID,
		Timestamp:   evt.OccurredAt,
		Data:        data,
	}
	if err := f.bus.Publish(ctx, msg); err != nil {
		return fmt.Errorf("publish %s: %w", evt.EventType, err)
	}

	f.log.Debug("📤 Evento reenviado al bus",
		zap.String("event_type", evt.EventType),
		zap.String("aggregate_id", evt.AggregateID),
	)
	return nil
}

var _ sharedDomain.EventHandler = (*IntegrationForwarder)(nil)
