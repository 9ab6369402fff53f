package domain

import (
	"github.com/LeHongMinh-ST/ca-eco/internal/shared/events"
)

// AggregateRoot es lo que necesita el writer del outbox para persistir un agregado.
type AggregateRoot interface {
	AggregateID() string
	// DrainEvents devuelve los eventos pendientes en orden de registro y vacía el buffer.
	DrainEvents() []events.DomainEvent
}

// EventBuffer guarda los eventos aún no publicados de una instancia de agregado.
// Cada agregado lo tiene como campo no exportado.
type EventBuffer struct {
	pending []events.DomainEvent
}

// Record añade un evento al final del buffer.
func (b *EventBuffer) Record(evt events.DomainEvent) {
	b.pending = append(b.pending, evt)
}

// Drain es una lectura destructiva: una segunda llamada devuelve una lista vacía.
func (b *EventBuffer) Drain() []events.DomainEvent {
	drained := b.pending
	b.pending = nil
	if drained == nil {
		return []events.DomainEvent{}
	}
	return drained
}

// Len devuelve cuántos eventos quedan sin drenar.
func (b *EventBuffer) Len() int {
	return len(b.pending)
}
