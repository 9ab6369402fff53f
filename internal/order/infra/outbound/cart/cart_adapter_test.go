package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	cartApp "github.com/LeHongMinh-ST/ca-eco/internal/cart/application"
	cartDomain "github.com/LeHongMinh-ST/ca-eco/internal/cart/domain"
	orderDomain "github.com/LeHongMinh-ST/ca-eco/internal/order/domain"
	"github.com/LeHongMinh-ST/ca-eco/tests/mocks"
)

func TestCartAdapter_GetAndClear(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mug := cartDomain.ProductSnapshot{ProductID: uuid.NewString(), ProductName: "Taza", Price: 4.5}
	carts := cartApp.NewCartService(mocks.NewInMemoryCartRepo(), mocks.NewStaticCatalog(mug), zap.NewNop())
	c, err := carts.CreateCart(ctx, uuid.NewString())
	require.NoError(t, err)
	_, err = carts.AddItem(ctx, c.ID(), mug.ProductID, 2)
	require.NoError(t, err)
	adapter := NewCartAdapter(carts)

	// Act
	snap, err := adapter.GetCart(ctx, c.ID())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, c.UserID(), snap.UserID)
	assert.Equal(t, []orderDomain.CartLine{{
		ProductID: mug.ProductID, ProductName: "Taza", ProductPrice: 4.5, Quantity: 2,
	}}, snap.Items)

	require.NoError(t, adapter.ClearCart(ctx, c.ID()))
	snap, err = adapter.GetCart(ctx, c.ID())
	require.NoError(t, err)
	assert.Empty(t, snap.Items)
}

func TestCartAdapter_TranslatesNotFound(t *testing.T) {
	carts := cartApp.NewCartService(mocks.NewInMemoryCartRepo(), mocks.NewStaticCatalog(), zap.NewNop())
	adapter := NewCartAdapter(carts)

	_, err := adapter.GetCart(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, orderDomain.ErrCartNotFound)

	err = adapter.ClearCart(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, orderDomain.ErrCartNotFound)
}
