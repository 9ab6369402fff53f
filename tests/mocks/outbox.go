package mocks

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	sharedDomain "github.com/LeHongMinh-ST/ca-eco/internal/shared/domain"
	"github.com/LeHongMinh-ST/ca-eco/internal/shared/events"
)

// MockOutboxRepository simula el repositorio que usa el procesador.
type MockOutboxRepository struct {
	mock.Mock
}

func (m *MockOutboxRepository) FetchPending(ctx context.Context, limit int) ([]sharedDomain.OutboxEvent, error) {
	args := m.Called(ctx, limit)
	evts, _ := args.Get(0).([]sharedDomain.OutboxEvent)
	return evts, args.Error(1)
}

func (m *MockOutboxRepository) MarkProcessing(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockOutboxRepository) MarkCompleted(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOutboxRepository) MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error {
	args := m.Called(ctx, id, errMsg)
	return args.Error(0)
}

func (m *MockOutboxRepository) RequeueFailed(ctx context.Context, maxRetries int) (int64, error) {
	args := m.Called(ctx, maxRetries)
	return args.Get(0).(int64), args.Error(1)
}

// MockEventHandler simula un handler registrado.
type MockEventHandler struct {
	mock.Mock
}

func (m *MockEventHandler) Handle(ctx context.Context, evt sharedDomain.StoredEvent) error {
	args := m.Called(ctx, evt)
	return args.Error(0)
}

// MockDeliveryLog simula el sink de analítica/auditoría.
type MockDeliveryLog struct {
	mock.Mock
}

func (m *MockDeliveryLog) LogBatch(ctx context.Context, records []sharedDomain.DeliveryRecord) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}

// RecordingDispatcher guarda los eventos despachados en memoria.
type RecordingDispatcher struct {
	mu     sync.Mutex
	Events []events.DomainEvent
	Err    error
}

func NewRecordingDispatcher() *RecordingDispatcher {
	return &RecordingDispatcher{}
}

func (d *RecordingDispatcher) Dispatch(ctx context.Context, evt events.DomainEvent) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.Err != nil {
		return d.Err
	}
	d.Events = append(d.Events, evt)
	return nil
}

// OfType devuelve los eventos despachados de un tipo.
func (d *RecordingDispatcher) OfType(eventType string) []events.DomainEvent {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []events.DomainEvent
	for _, evt := range d.Events {
		if evt.EventType() == eventType {
			out = append(out, evt)
		}
	}
	return out
}

// Verificación estática de que los mocks cumplen las interfaces.
var (
	_ sharedDomain.OutboxRepository = (*MockOutboxRepository)(nil)
	_ sharedDomain.EventHandler     = (*MockEventHandler)(nil)
	_ sharedDomain.DeliveryLog      = (*MockDeliveryLog)(nil)
	_ sharedDomain.EventDispatcher  = (*RecordingDispatcher)(nil)
)
