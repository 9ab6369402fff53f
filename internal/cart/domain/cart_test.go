package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sharedDomain "github.com/LeHongMinh-ST/ca-eco/internal/shared/domain"
	"github.com/LeHongMinh-ST/ca-eco/internal/shared/events"
)

func product(price float64) ProductSnapshot {
	return ProductSnapshot{ProductID: uuid.NewString(), ProductName: "Libreta", Price: price}
}

func emptyCart() *Cart {
	return ReconstituteCart(uuid.NewString(), uuid.NewString(), nil, 1, time.Now(), time.Now())
}

func TestNewCart_RecordsCreated(t *testing.T) {
	userID := uuid.NewString()

	c, err := NewCart(uuid.NewString(), userID)

	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
	evts := c.DrainEvents()
	require.Len(t, evts, 1)
	assert.Equal(t, userID, evts[0].(events.CartCreated).UserID)

	_, err = NewCart(uuid.NewString(), "anon")
	assert.ErrorIs(t, err, sharedDomain.ErrValidation)
}

func TestCart_AddItemMergesQuantities(t *testing.T) {
	// Arrange
	c := emptyCart()
	p := product(2.5)
	other := product(1)

	// Act
	require.NoError(t, c.AddItem(p, 2))
	require.NoError(t, c.AddItem(other, 1))
	require.NoError(t, c.AddItem(p, 3))

	// Assert
	items := c.Items()
	require.Len(t, items, 2)
	assert.Equal(t, p.ProductID, items[0].ProductID)
	assert.Equal(t, 5, items[0].Quantity)
	assert.Equal(t, other.ProductID, items[1].ProductID)
	assert.InDelta(t, 13.5, c.TotalPrice(), 1e-9)
	assert.Equal(t, 6, c.TotalQuantity())

	evts := c.DrainEvents()
	require.Len(t, evts, 3)
	assert.Equal(t, events.CartItemAddedType, evts[0].EventType())
	assert.Equal(t, events.CartItemAddedType, evts[1].EventType())
	updated := evts[2].(events.CartItemUpdated)
	assert.Equal(t, 2, updated.OldQuantity)
	assert.Equal(t, 5, updated.NewQuantity)
}

func TestCart_AddItemKeepsSnapshot(t *testing.T) {
	c := emptyCart()
	p := product(10)
	require.NoError(t, c.AddItem(p, 1))

	p.Price = 99
	require.NoError(t, c.AddItem(p, 1))

	assert.InDelta(t, 10.0, c.Items()[0].Price, 1e-9)
}

func TestCart_Validation(t *testing.T) {
	c := emptyCart()

	assert.EqualError(t, c.AddItem(product(1), 0), "Quantity must be a positive integer")
	assert.ErrorIs(t, c.AddItem(product(-1), 1), sharedDomain.ErrValidation)
	assert.ErrorIs(t, c.UpdateItemQuantity(uuid.NewString(), 2), sharedDomain.ErrValidation)
	assert.ErrorIs(t, c.RemoveItem(uuid.NewString()), sharedDomain.ErrValidation)
	assert.Empty(t, c.DrainEvents())
}

func TestCart_UpdateYRemove(t *testing.T) {
	c := emptyCart()
	a, b := product(1), product(2)
	require.NoError(t, c.AddItem(a, 1))
	require.NoError(t, c.AddItem(b, 1))
	c.DrainEvents()

	require.NoError(t, c.UpdateItemQuantity(a.ProductID, 4))
	require.NoError(t, c.UpdateItemQuantity(a.ProductID, 4))
	require.NoError(t, c.RemoveItem(b.ProductID))

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 4, items[0].Quantity)
	evts := c.DrainEvents()
	require.Len(t, evts, 2)
	assert.Equal(t, events.CartItemUpdatedType, evts[0].EventType())
	assert.Equal(t, b.ProductID, evts[1].(events.CartItemRemoved).ProductID)
}

func TestCart_Clear(t *testing.T) {
	c := emptyCart()

	c.Clear()
	assert.Empty(t, c.DrainEvents(), "vaciar un carrito vacío no registra nada")

	require.NoError(t, c.AddItem(product(1), 1))
	c.DrainEvents()
	c.Clear()

	assert.True(t, c.IsEmpty())
	evts := c.DrainEvents()
	require.Len(t, evts, 1)
	assert.Equal(t, events.CartClearedType, evts[0].EventType())
}

func TestReconstituteCart_NoEvents(t *testing.T) {
	items := []CartItem{{ProductSnapshot: ProductSnapshot{ProductID: uuid.NewString(), ProductName: "Té", Price: 2}, Quantity: 1}}
	c := ReconstituteCart(uuid.NewString(), uuid.NewString(), items, 1, time.Now(), time.Now())

	assert.Empty(t, c.DrainEvents())
}
