// Package bus define el puerto de publicación hacia fuera del proceso.
package bus

import "context"

// Keyer lo implementan los mensajes que deben ir a una partición concreta.
type Keyer interface {
	PartitionKey() string
}

// Topicer lo implementan los mensajes que eligen su propio topic.
type Topicer interface {
	Topic() string
}

// EventBus publica mensajes de integración. Topic y formato los decide cada adapter.
type EventBus interface {
	Publish(ctx context.Context, event interface{}) error
}
