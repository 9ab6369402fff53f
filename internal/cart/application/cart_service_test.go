package application

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/LeHongMinh-ST/ca-eco/internal/cart/domain"
	productDomain "github.com/LeHongMinh-ST/ca-eco/internal/product/domain"
	sharedDomain "github.com/LeHongMinh-ST/ca-eco/internal/shared/domain"
	"github.com/LeHongMinh-ST/ca-eco/internal/shared/events"
	"github.com/LeHongMinh-ST/ca-eco/tests/mocks"
)

func product(name string, price float64) domain.ProductSnapshot {
	return domain.ProductSnapshot{ProductID: uuid.NewString(), ProductName: name, Price: price}
}

func newService(products ...domain.ProductSnapshot) (*CartService, *mocks.InMemoryCartRepo) {
	repo := mocks.NewInMemoryCartRepo()
	return NewCartService(repo, mocks.NewStaticCatalog(products...), zap.NewNop()), repo
}

func TestCartService_CreateCart(t *testing.T) {
	service, repo := newService()
	userID := uuid.NewString()

	cart, err := service.CreateCart(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, userID, cart.UserID())
	assert.Equal(t, 1, cart.Version())

	_, err = service.CreateCart(context.Background(), userID)
	assert.ErrorIs(t, err, domain.ErrCartAlreadyExists)
	assert.ErrorIs(t, err, sharedDomain.ErrConflict)
	assert.Equal(t, 1, repo.Count())
}

func TestCartService_EnsureCartForUser(t *testing.T) {
	service, repo := newService()
	userID := uuid.NewString()

	first, created, err := service.EnsureCartForUser(context.Background(), userID)
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := service.EnsureCartForUser(context.Background(), userID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID(), second.ID())
	assert.Equal(t, 1, repo.Count())
}

func TestCartService_AddUpdateRemove(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mug := product("Taza", 4.5)
	pen := product("Bolígrafo", 1)
	service, repo := newService(mug, pen)
	cart, err := service.CreateCart(ctx, uuid.NewString())
	require.NoError(t, err)

	// Act
	_, err = service.AddItem(ctx, cart.ID(), mug.ProductID, 2)
	require.NoError(t, err)
	_, err = service.AddItem(ctx, cart.ID(), mug.ProductID, 1)
	require.NoError(t, err)
	_, err = service.AddItem(ctx, cart.ID(), pen.ProductID, 4)
	require.NoError(t, err)
	_, err = service.UpdateItemQuantity(ctx, cart.ID(), pen.ProductID, 2)
	require.NoError(t, err)
	updated, err := service.RemoveItem(ctx, cart.ID(), pen.ProductID)
	require.NoError(t, err)

	// Assert
	require.Len(t, updated.Items(), 1)
	assert.Equal(t, 3, updated.Items()[0].Quantity)
	assert.InDelta(t, 13.5, updated.TotalPrice(), 1e-9)
	assert.Equal(t, []string{
		events.CartCreatedType,
		events.CartItemAddedType,
		events.CartItemUpdatedType,
		events.CartItemAddedType,
		events.CartItemUpdatedType,
		events.CartItemRemovedType,
	}, repo.OutboxTypes())
}

func TestCartService_AddItemErrors(t *testing.T) {
	ctx := context.Background()
	mug := product("Taza", 4.5)
	service, _ := newService(mug)
	cart, err := service.CreateCart(ctx, uuid.NewString())
	require.NoError(t, err)

	_, err = service.AddItem(ctx, cart.ID(), uuid.NewString(), 1)
	assert.ErrorIs(t, err, productDomain.ErrProductNotFound)

	_, err = service.AddItem(ctx, cart.ID(), mug.ProductID, 0)
	assert.ErrorIs(t, err, sharedDomain.ErrValidation)

	_, err = service.AddItem(ctx, uuid.NewString(), mug.ProductID, 1)
	assert.ErrorIs(t, err, domain.ErrCartNotFound)

	_, err = service.RemoveItem(ctx, cart.ID(), mug.ProductID)
	assert.ErrorIs(t, err, sharedDomain.ErrValidation)
}

func TestCartService_ClearEmptyCartDoesNotSave(t *testing.T) {
	ctx := context.Background()
	service, repo := newService()
	cart, err := service.CreateCart(ctx, uuid.NewString())
	require.NoError(t, err)

	cleared, err := service.ClearCart(ctx, cart.ID())

	require.NoError(t, err)
	assert.True(t, cleared.IsEmpty())
	assert.Equal(t, 1, cleared.Version())
	assert.Equal(t, []string{events.CartCreatedType}, repo.OutboxTypes())
}
