package contracts

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	orderConsumer "github.com/LeHongMinh-ST/ca-eco/internal/order/infra/inbound/events"
	"github.com/LeHongMinh-ST/ca-eco/internal/shared/events"
	infraEvents "github.com/LeHongMinh-ST/ca-eco/internal/shared/infra/events"
	"github.com/LeHongMinh-ST/ca-eco/tests/mocks"
)

type evictions struct {
	mu  sync.Mutex
	ids []string
}

func (e *evictions) InvalidateView(ctx context.Context, orderID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ids = append(e.ids, orderID)
}

func (e *evictions) IDs() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.ids...)
}

// Lo que publica el forwarder tiene que poder leerlo el consumer de pedidos.
func TestForwarderContract_OrderConsumer(t *testing.T) {
	// Arrange
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	bus := infraEvents.NewInMemoryEventBus()
	defer bus.Close()

	views := &evictions{}
	orderConsumer.BackgroundConsumerChan(ctx, bus.Subscribe(10), orderConsumer.NewOrderConsumer(views, zap.NewNop()))
	forwarder := infraEvents.NewIntegrationForwarder(bus, zap.NewNop())

	confirmedID, failedID := uuid.NewString(), uuid.NewString()

	// Act
	require.NoError(t, forwarder.Handle(ctx, mocks.StoredEventFrom(events.OrderConfirmed{
		Base: events.NewBase(), OrderID: confirmedID, SourceCartID: uuid.NewString(),
	})))
	require.NoError(t, forwarder.Handle(ctx, mocks.StoredEventFrom(events.OrderFailed{
		Base: events.NewBase(), OrderID: failedID, Reason: "Insufficient stock",
	})))

	// Assert
	assert.Eventually(t, func() bool {
		return len(views.IDs()) == 2
	}, time.Second, 10*time.Millisecond)
	assert.ElementsMatch(t, []string{confirmedID, failedID}, views.IDs())
}

func TestForwarderContract_FiltersTypes(t *testing.T) {
	bus := &mocks.MockPublisher{}
	forwarder := infraEvents.NewIntegrationForwarder(bus, zap.NewNop(), events.OrderConfirmedType)

	err := forwarder.Handle(context.Background(), mocks.StoredEventFrom(events.OrderFailed{
		Base: events.NewBase(), OrderID: uuid.NewString(), Reason: "Order has no items",
	}))

	require.NoError(t, err)
	bus.AssertNotCalled(t, "Publish")
	assert.Equal(t, []string{events.OrderConfirmedType}, forwarder.EventTypes())
}
