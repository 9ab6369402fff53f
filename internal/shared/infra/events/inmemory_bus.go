package events

import (
	"context"
	"encoding/json"
	"sync"

	sharedBus "github.com/LeHongMinh-ST/ca-eco/internal/shared/infra/platform/bus"
)

// InMemoryEventBus reparte cada mensaje, ya serializado a JSON, entre todos los suscriptores.
// Si el buffer de un suscriptor está lleno el mensaje se descarta para él.
type InMemoryEventBus struct {
	subscribers []chan interface{}
	mu          sync.RWMutex
	closed      bool
	once        sync.Once
}

var _ sharedBus.EventBus = (*InMemoryEventBus)(nil)

func NewInMemoryEventBus() *InMemoryEventBus {
	return &InMemoryEventBus{subscribers: make([]chan interface{}, 0)}
}

func (b *InMemoryEventBus) Publish(ctx context.Context, event interface{}) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return nil
	}
	for _, sub := range b.subscribers {
		select {
		case sub <- payload:
		default:
		}
	}
	return nil
}

// Subscribe devuelve un canal que recibe los mensajes como []byte.
func (b *InMemoryEventBus) Subscribe(bufferSize int) <-chan interface{} {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan interface{}, bufferSize)
	if b.closed {
		close(ch)
		return ch
	}
	b.subscribers = append(b.subscribers, ch)
	return ch
}

// Close cierra todos los canales de suscripción.
func (b *InMemoryEventBus) Close() {
	b.once.Do(func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.closed = true
		for _, ch := range b.subscribers {
			close(ch)
		}
		b.subscribers = nil
	})
}
