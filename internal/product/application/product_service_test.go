package application

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/LeHongMinh-ST/ca-eco/internal/product/domain"
	sharedDomain "github.com/LeHongMinh-ST/ca-eco/internal/shared/domain"
	"github.com/LeHongMinh-ST/ca-eco/internal/shared/events"
	"github.com/LeHongMinh-ST/ca-eco/tests/mocks"
)

func TestProductService_CreateAndUpdatePrice(t *testing.T) {
	// Arrange
	repo := mocks.NewInMemoryProductRepo()
	service := NewProductService(repo, zap.NewNop())
	ctx := context.Background()

	// Act
	p, err := service.CreateProduct(ctx, "Lámpara", 40, "")
	require.NoError(t, err)
	_, err = service.UpdatePrice(ctx, p.ID(), 35)
	require.NoError(t, err)

	// Assert
	found, err := service.GetProduct(ctx, p.ID())
	require.NoError(t, err)
	assert.InDelta(t, 35.0, found.Price(), 1e-9)
	require.Len(t, repo.Outbox, 2)
	assert.Equal(t, events.ProductCreatedType, repo.Outbox[0].EventType())
	assert.Equal(t, events.ProductPriceUpdatedType, repo.Outbox[1].EventType())
}

func TestProductService_Errors(t *testing.T) {
	service := NewProductService(mocks.NewInMemoryProductRepo(), zap.NewNop())
	ctx := context.Background()

	_, err := service.CreateProduct(ctx, "Lámpara", 0, "")
	assert.ErrorIs(t, err, sharedDomain.ErrValidation)

	_, err = service.GetProduct(ctx, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	_, err = service.UpdatePrice(ctx, "nope", 3)
	assert.ErrorIs(t, err, sharedDomain.ErrValidation)
}

func TestProductService_ListProducts(t *testing.T) {
	service := NewProductService(mocks.NewInMemoryProductRepo(), zap.NewNop())
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := service.CreateProduct(ctx, "Producto", 1, "")
		require.NoError(t, err)
	}

	page, err := service.ListProducts(ctx, 2, 0)
	require.NoError(t, err)
	assert.Len(t, page, 2)

	all, err := service.ListProducts(ctx, 0, -1)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
