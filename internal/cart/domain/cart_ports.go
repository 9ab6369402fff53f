package domain

import (
	"context"

	sharedDomain "github.com/LeHongMinh-ST/ca-eco/internal/shared/domain"
)

var (
	ErrCartNotFound           = sharedDomain.NotFound("cart")
	ErrCartAlreadyExists      = sharedDomain.Conflict("user already has a cart")
	ErrConcurrentModification = sharedDomain.Conflict("cart was modified concurrently")
)

type CartRepository interface {
	FindByID(ctx context.Context, id string) (*Cart, error)
	FindByUserID(ctx context.Context, userID string) (*Cart, error)
	Save(ctx context.Context, cart *Cart) error
}

// ProductCatalog da la foto actual de un producto para añadirlo al carrito.
type ProductCatalog interface {
	Snapshot(ctx context.Context, productID string) (ProductSnapshot, error)
}
