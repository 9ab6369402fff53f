// Package events contiene los contratos de eventos compartidos entre contextos.
// Son esquemas planos: ningún módulo depende de los agregados de otro.
package events

import (
	"encoding/json"
	"time"
)

// DomainEvent es un hecho inmutable ocurrido dentro de un agregado.
type DomainEvent interface {
	EventType() string
	OccurredAt() time.Time
}

// Base aporta la marca temporal común a todos los eventos.
type Base struct {
	At time.Time `json:"-"`
}

func (b Base) OccurredAt() time.Time { return b.At }

// NewBase sella el evento con la hora actual en UTC.
func NewBase() Base {
	return Base{At: time.Now().UTC()}
}

// IntegrationEvent es el sobre con el que los eventos salen del proceso (Kafka, bus en memoria).
type IntegrationEvent struct {
	Type        string          `json:"type"`
	AggregateID string          `json:"aggregateId"`
	Timestamp   time.Time       `json:"timestamp"`
	Data        json.RawMessage `json:"data"`
}

// PartitionKey mantiene juntos en la misma partición los eventos de un agregado.
func (e IntegrationEvent) PartitionKey() string {
	return e.AggregateID
}

// Topic devuelve el topic del contexto que originó el evento.
func (e IntegrationEvent) Topic() string {
	return TopicFor(e.Type)
}
