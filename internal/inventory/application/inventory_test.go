package application

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/LeHongMinh-ST/ca-eco/internal/inventory/domain"
	sharedDomain "github.com/LeHongMinh-ST/ca-eco/internal/shared/domain"
	"github.com/LeHongMinh-ST/ca-eco/internal/shared/events"
	"github.com/LeHongMinh-ST/ca-eco/tests/mocks"
)

func seedStock(t *testing.T, repo *mocks.InMemoryInventoryRepo, quantity int) string {
	t.Helper()
	productID := uuid.NewString()
	inv, err := domain.NewInventory(uuid.NewString(), productID, quantity, domain.DefaultLowStockThreshold)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), inv))
	return productID
}

func orderCreated(orderID, cartID string, lines ...events.OrderLine) sharedDomain.StoredEvent {
	total := 0.0
	for _, l := range lines {
		total += l.ProductPrice * float64(l.Quantity)
	}
	return mocks.StoredEventFrom(events.OrderCreated{
		Base:         events.NewBase(),
		OrderID:      orderID,
		UserID:       uuid.NewString(),
		Items:        lines,
		TotalPrice:   total,
		SourceCartID: cartID,
	})
}

func line(productID string, qty int) events.OrderLine {
	return events.OrderLine{ProductID: productID, ProductName: "Producto", ProductPrice: 10, Quantity: qty}
}

func TestOrderCreatedHandler_InsufficientStock(t *testing.T) {
	// Arrange
	repo := mocks.NewInMemoryInventoryRepo()
	dispatcher := mocks.NewRecordingDispatcher()
	productID := seedStock(t, repo, 3)
	orderID := uuid.NewString()
	h := NewOrderCreatedHandler(repo, dispatcher, zap.NewNop())

	// Act
	err := h.Handle(context.Background(), orderCreated(orderID, "", line(productID, 5)))

	// Assert
	require.NoError(t, err)
	require.Len(t, dispatcher.Events, 1)
	failed := dispatcher.Events[0].(events.OrderFailed)
	assert.Equal(t, orderID, failed.OrderID)
	assert.Contains(t, failed.Reason, "Insufficient stock")
	assert.Equal(t, "Insufficient stock for product "+productID+". Required: 5, Available: 3", failed.Reason)
	assert.Equal(t, 3, repo.Quantity(productID))
}

func TestOrderCreatedHandler_TwoProductsInStock(t *testing.T) {
	// Arrange
	repo := mocks.NewInMemoryInventoryRepo()
	dispatcher := mocks.NewRecordingDispatcher()
	first := seedStock(t, repo, 20)
	second := seedStock(t, repo, 5)
	orderID, cartID := uuid.NewString(), uuid.NewString()
	h := NewOrderCreatedHandler(repo, dispatcher, zap.NewNop())

	// Act
	err := h.Handle(context.Background(), orderCreated(orderID, cartID, line(first, 2), line(second, 5)))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 18, repo.Quantity(first))
	assert.Equal(t, 0, repo.Quantity(second))
	require.Len(t, dispatcher.Events, 1)
	confirmed := dispatcher.Events[0].(events.OrderConfirmed)
	assert.Equal(t, orderID, confirmed.OrderID)
	assert.Equal(t, cartID, confirmed.SourceCartID)

	var outOfStock int
	for _, e := range repo.Outbox {
		if e.EventType() == events.InventoryOutOfStockType {
			outOfStock++
		}
	}
	assert.Equal(t, 1, outOfStock)
}

func TestOrderCreatedHandler_MissingInventory(t *testing.T) {
	repo := mocks.NewInMemoryInventoryRepo()
	dispatcher := mocks.NewRecordingDispatcher()
	withStock := seedStock(t, repo, 10)
	missing := uuid.NewString()
	h := NewOrderCreatedHandler(repo, dispatcher, zap.NewNop())

	err := h.Handle(context.Background(), orderCreated(uuid.NewString(), "", line(withStock, 1), line(missing, 1)))

	require.NoError(t, err)
	require.Len(t, dispatcher.Events, 1)
	assert.Equal(t, "Inventory not found for product "+missing, dispatcher.Events[0].(events.OrderFailed).Reason)
	assert.Equal(t, 10, repo.Quantity(withStock), "la comprobación falla antes de descontar nada")
}

func TestOrderCreatedHandler_OrderWithoutItems(t *testing.T) {
	dispatcher := mocks.NewRecordingDispatcher()
	h := NewOrderCreatedHandler(mocks.NewInMemoryInventoryRepo(), dispatcher, zap.NewNop())

	err := h.Handle(context.Background(), orderCreated(uuid.NewString(), ""))

	require.NoError(t, err)
	require.Len(t, dispatcher.Events, 1)
	assert.Equal(t, "Order has no items", dispatcher.Events[0].(events.OrderFailed).Reason)
}

func TestOrderCreatedHandler_ReserveFails(t *testing.T) {
	repo := mocks.NewInMemoryInventoryRepo()
	dispatcher := mocks.NewRecordingDispatcher()
	productID := seedStock(t, repo, 10)
	repo.ReserveErr = errors.New("connection reset")
	h := NewOrderCreatedHandler(repo, dispatcher, zap.NewNop())

	err := h.Handle(context.Background(), orderCreated(uuid.NewString(), "", line(productID, 2)))

	require.NoError(t, err)
	require.Len(t, dispatcher.OfType(events.OrderFailedType), 1)
	assert.Equal(t, "Inventory decrease failed: connection reset",
		dispatcher.Events[0].(events.OrderFailed).Reason)
	assert.Empty(t, dispatcher.OfType(events.OrderConfirmedType))
}

func TestOrderCreatedHandler_MissingOrderIDIsIgnored(t *testing.T) {
	// Arrange
	repo := mocks.NewInMemoryInventoryRepo()
	dispatcher := mocks.NewRecordingDispatcher()
	productID := seedStock(t, repo, 10)
	evt := orderCreated(uuid.NewString(), "", line(productID, 4))
	delete(evt.Payload, "orderId")
	h := NewOrderCreatedHandler(repo, dispatcher, zap.NewNop())

	// Act
	err := h.Handle(context.Background(), evt)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 10, repo.Quantity(productID))
	assert.Empty(t, dispatcher.Events)
	reserved, err := repo.IsReserved(context.Background(), "", productID)
	require.NoError(t, err)
	assert.False(t, reserved)
}

func TestOrderCreatedHandler_ConcurrentModificationIsRetried(t *testing.T) {
	// Arrange
	ctx := context.Background()
	repo := mocks.NewInMemoryInventoryRepo()
	dispatcher := mocks.NewRecordingDispatcher()
	productID := seedStock(t, repo, 10)
	orderID := uuid.NewString()
	evt := orderCreated(orderID, "", line(productID, 4))
	h := NewOrderCreatedHandler(repo, dispatcher, zap.NewNop())
	repo.ReserveErr = domain.ErrConcurrentModification

	// Act
	err := h.Handle(ctx, evt)

	// Assert: el error sube para que el procesador reintente, sin fallar el pedido.
	assert.ErrorIs(t, err, domain.ErrConcurrentModification)
	assert.Empty(t, dispatcher.Events)
	assert.Equal(t, 10, repo.Quantity(productID))

	// El reintento ya no choca y reserva.
	repo.ReserveErr = nil
	require.NoError(t, h.Handle(ctx, evt))
	assert.Equal(t, 6, repo.Quantity(productID))
	require.Len(t, dispatcher.OfType(events.OrderConfirmedType), 1)
	assert.Equal(t, orderID, dispatcher.Events[0].(events.OrderConfirmed).OrderID)
}

func TestOrderCreatedHandler_RedeliveryDoesNotDecreaseTwice(t *testing.T) {
	// Arrange
	repo := mocks.NewInMemoryInventoryRepo()
	dispatcher := mocks.NewRecordingDispatcher()
	productID := seedStock(t, repo, 10)
	evt := orderCreated(uuid.NewString(), "", line(productID, 4))
	h := NewOrderCreatedHandler(repo, dispatcher, zap.NewNop())

	// Act
	require.NoError(t, h.Handle(context.Background(), evt))
	require.NoError(t, h.Handle(context.Background(), evt))

	// Assert
	assert.Equal(t, 6, repo.Quantity(productID))
	assert.Len(t, dispatcher.OfType(events.OrderConfirmedType), 2)
}

func TestOrderCreatedHandler_DispatchErrorPropagates(t *testing.T) {
	repo := mocks.NewInMemoryInventoryRepo()
	dispatcher := mocks.NewRecordingDispatcher()
	dispatcher.Err = errors.New("outbox unavailable")
	h := NewOrderCreatedHandler(repo, dispatcher, zap.NewNop())

	err := h.Handle(context.Background(), orderCreated(uuid.NewString(), ""))

	assert.ErrorContains(t, err, "outbox unavailable")
}

func TestOrderCreatedHandler_IgnoresOtherTypes(t *testing.T) {
	dispatcher := mocks.NewRecordingDispatcher()
	h := NewOrderCreatedHandler(mocks.NewInMemoryInventoryRepo(), dispatcher, zap.NewNop())

	err := h.Handle(context.Background(), mocks.StoredEventFrom(events.CartCleared{Base: events.NewBase(), CartID: "c"}))

	assert.NoError(t, err)
	assert.Empty(t, dispatcher.Events)
}

func TestProductCreatedHandler_Idempotent(t *testing.T) {
	// Arrange
	repo := mocks.NewInMemoryInventoryRepo()
	h := NewProductCreatedHandler(NewInventoryService(repo, zap.NewNop()), zap.NewNop())
	productID := uuid.NewString()
	evt := mocks.StoredEventFrom(events.ProductCreated{Base: events.NewBase(), ProductID: productID, Name: "Té", Price: 3})

	// Act
	require.NoError(t, h.Handle(context.Background(), evt))
	require.NoError(t, h.Handle(context.Background(), evt))

	// Assert
	assert.Equal(t, 1, repo.Count())
	assert.Equal(t, 0, repo.Quantity(productID))
}

func TestInventoryService_IncreaseAndRestore(t *testing.T) {
	repo := mocks.NewInMemoryInventoryRepo()
	service := NewInventoryService(repo, zap.NewNop())
	productID := seedStock(t, repo, 1)

	inv, err := service.Increase(context.Background(), productID, 4)
	require.NoError(t, err)
	assert.Equal(t, 5, inv.Quantity())

	require.NoError(t, service.Restore(context.Background(), productID, 2))
	assert.Equal(t, 7, repo.Quantity(productID))

	_, err = service.Increase(context.Background(), productID, 0)
	assert.ErrorIs(t, err, sharedDomain.ErrValidation)

	err = service.Restore(context.Background(), uuid.NewString(), 1)
	assert.ErrorIs(t, err, domain.ErrInventoryNotFound)
}

func TestInventoryService_UpdateLowStockThreshold(t *testing.T) {
	repo := mocks.NewInMemoryInventoryRepo()
	service := NewInventoryService(repo, zap.NewNop())
	productID := seedStock(t, repo, 1)

	inv, err := service.UpdateLowStockThreshold(context.Background(), productID, 0)

	require.NoError(t, err)
	assert.Equal(t, 0, inv.LowStockThreshold())
}
