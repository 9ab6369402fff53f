package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sharedDomain "github.com/LeHongMinh-ST/ca-eco/internal/shared/domain"
	"github.com/LeHongMinh-ST/ca-eco/internal/shared/events"
)

func stock(t *testing.T, quantity, threshold int) *Inventory {
	t.Helper()
	inv := ReconstituteInventory(uuid.NewString(), uuid.NewString(), quantity, threshold, 1, time.Now(), time.Now())
	require.Empty(t, inv.DrainEvents())
	return inv
}

func eventTypes(evts []events.DomainEvent) []string {
	out := make([]string, 0, len(evts))
	for _, e := range evts {
		out = append(out, e.EventType())
	}
	return out
}

func TestNewInventory_RecordsCreated(t *testing.T) {
	// Arrange
	id, productID := uuid.NewString(), uuid.NewString()

	// Act
	inv, err := NewInventory(id, productID, 0, DefaultLowStockThreshold)

	// Assert
	require.NoError(t, err)
	evts := inv.DrainEvents()
	require.Len(t, evts, 1)
	created := evts[0].(events.InventoryCreated)
	assert.Equal(t, id, created.InventoryID)
	assert.Equal(t, productID, created.ProductID)
	assert.Empty(t, inv.DrainEvents())
	assert.Equal(t, 0, inv.Version())
}

func TestNewInventory_Validation(t *testing.T) {
	tests := []struct {
		name      string
		id        string
		productID string
		quantity  int
		threshold int
	}{
		{"id no es uuid", "inv-1", uuid.NewString(), 0, 10},
		{"producto no es uuid", uuid.NewString(), "", 0, 10},
		{"cantidad negativa", uuid.NewString(), uuid.NewString(), -1, 10},
		{"umbral negativo", uuid.NewString(), uuid.NewString(), 0, -5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewInventory(tt.id, tt.productID, tt.quantity, tt.threshold)
			assert.ErrorIs(t, err, sharedDomain.ErrValidation)
		})
	}
}

func TestInventory_Decrease(t *testing.T) {
	tests := []struct {
		name       string
		quantity   int
		threshold  int
		amount     int
		wantErr    string
		wantQty    int
		wantEvents []string
	}{
		{
			name: "cantidad cero", quantity: 5, threshold: 2, amount: 0,
			wantErr: "Decrease amount must be greater than zero", wantQty: 5,
		},
		{
			name: "cantidad negativa", quantity: 5, threshold: 2, amount: -3,
			wantErr: "Decrease amount must be greater than zero", wantQty: 5,
		},
		{
			name: "más de lo disponible", quantity: 3, threshold: 2, amount: 5,
			wantErr: "Insufficient stock. Available: 3, Requested: 5", wantQty: 3,
		},
		{
			name: "se queda por encima del umbral", quantity: 50, threshold: 10, amount: 5,
			wantQty: 45, wantEvents: []string{events.InventoryDecreasedType},
		},
		{
			name: "justo en el umbral no avisa", quantity: 15, threshold: 10, amount: 5,
			wantQty: 10, wantEvents: []string{events.InventoryDecreasedType},
		},
		{
			name: "cruza el umbral", quantity: 12, threshold: 10, amount: 5,
			wantQty: 7, wantEvents: []string{events.InventoryDecreasedType, events.InventoryLowStockType},
		},
		{
			name: "ya estaba por debajo del umbral", quantity: 8, threshold: 10, amount: 2,
			wantQty: 6, wantEvents: []string{events.InventoryDecreasedType},
		},
		{
			name: "llega a cero", quantity: 5, threshold: 10, amount: 5,
			wantQty: 0, wantEvents: []string{events.InventoryDecreasedType, events.InventoryOutOfStockType},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			inv := stock(t, tt.quantity, tt.threshold)

			// Act
			err := inv.Decrease(tt.amount)

			// Assert
			assert.Equal(t, tt.wantQty, inv.Quantity())
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.EqualError(t, err, tt.wantErr)
				assert.True(t, errors.Is(err, sharedDomain.ErrValidation))
				assert.Empty(t, inv.DrainEvents())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantEvents, eventTypes(inv.DrainEvents()))
		})
	}
}

func TestInventory_DecreaseEventData(t *testing.T) {
	inv := stock(t, 12, 10)

	require.NoError(t, inv.Decrease(5))

	evts := inv.DrainEvents()
	require.Len(t, evts, 2)
	dec := evts[0].(events.InventoryDecreased)
	assert.Equal(t, 12, dec.OldQuantity)
	assert.Equal(t, 7, dec.NewQuantity)
	assert.Equal(t, 5, dec.Amount)
	low := evts[1].(events.InventoryLowStock)
	assert.Equal(t, 7, low.CurrentQuantity)
	assert.Equal(t, 10, low.Threshold)
	assert.True(t, inv.IsLowStock())
}

func TestInventory_Increase(t *testing.T) {
	inv := stock(t, 0, 10)

	err := inv.Increase(0)
	assert.EqualError(t, err, "Increase amount must be greater than zero")

	require.NoError(t, inv.Increase(4))
	assert.Equal(t, 4, inv.Quantity())
	evts := inv.DrainEvents()
	require.Len(t, evts, 1)
	inc := evts[0].(events.InventoryIncreased)
	assert.Equal(t, 0, inc.OldQuantity)
	assert.Equal(t, 4, inc.NewQuantity)
}

func TestInventory_UpdateLowStockThreshold(t *testing.T) {
	inv := stock(t, 5, 10)

	assert.ErrorIs(t, inv.UpdateLowStockThreshold(-1), sharedDomain.ErrValidation)
	require.NoError(t, inv.UpdateLowStockThreshold(3))

	assert.Equal(t, 3, inv.LowStockThreshold())
	assert.False(t, inv.IsLowStock())
	assert.Empty(t, inv.DrainEvents())
}

func TestReconstituteInventory_NoEvents(t *testing.T) {
	inv := ReconstituteInventory(uuid.NewString(), uuid.NewString(), 0, 10, 3, time.Now(), time.Now())

	assert.Empty(t, inv.DrainEvents())
	assert.True(t, inv.IsOutOfStock())
	assert.Equal(t, 3, inv.Version())
	inv.MarkSaved()
	assert.Equal(t, 4, inv.Version())
}
