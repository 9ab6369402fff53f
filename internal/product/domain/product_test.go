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

func TestNewProduct(t *testing.T) {
	p, err := NewProduct(uuid.NewString(), "  Cuaderno  ", 3.2, "")

	require.NoError(t, err)
	assert.Equal(t, "Cuaderno", p.Name())
	evts := p.DrainEvents()
	require.Len(t, evts, 1)
	created := evts[0].(events.ProductCreated)
	assert.Equal(t, p.ID(), created.ProductID)
	assert.InDelta(t, 3.2, created.Price, 1e-9)
}

func TestNewProduct_Validation(t *testing.T) {
	tests := []struct {
		name  string
		id    string
		pname string
		price float64
	}{
		{"id inválido", "p-1", "Cuaderno", 1},
		{"sin nombre", uuid.NewString(), " ", 1},
		{"precio cero", uuid.NewString(), "Cuaderno", 0},
		{"precio negativo", uuid.NewString(), "Cuaderno", -4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProduct(tt.id, tt.pname, tt.price, "")
			assert.ErrorIs(t, err, sharedDomain.ErrValidation)
		})
	}
}

func TestProduct_UpdatePrice(t *testing.T) {
	p := ReconstituteProduct(uuid.NewString(), "Cuaderno", 3, "", time.Now(), time.Now())

	require.NoError(t, p.UpdatePrice(3))
	assert.Empty(t, p.DrainEvents())

	require.NoError(t, p.UpdatePrice(4))
	evts := p.DrainEvents()
	require.Len(t, evts, 1)
	changed := evts[0].(events.ProductPriceUpdated)
	assert.InDelta(t, 3.0, changed.OldPrice, 1e-9)
	assert.InDelta(t, 4.0, changed.NewPrice, 1e-9)

	assert.ErrorIs(t, p.UpdatePrice(0), sharedDomain.ErrValidation)
	assert.ErrorIs(t, p.Rename(""), sharedDomain.ErrValidation)
	require.NoError(t, p.Rename("Libreta"))
	assert.Equal(t, "Libreta", p.Name())
}

func TestReconstituteProduct_NoEvents(t *testing.T) {
	p := ReconstituteProduct(uuid.NewString(), "Taza", 4.5, "", time.Now(), time.Now())

	assert.Empty(t, p.DrainEvents())
}
