package domain

import (
	"context"

	sharedDomain "github.com/LeHongMinh-ST/ca-eco/internal/shared/domain"
)

var (
	ErrOrderNotFound          = sharedDomain.NotFound("order")
	ErrCartNotFound           = sharedDomain.NotFound("cart")
	ErrConcurrentModification = sharedDomain.Conflict("order was modified concurrently")
)

// OrderRepository guarda el pedido junto con sus eventos pendientes.
type OrderRepository interface {
	FindByID(ctx context.Context, id string) (*Order, error)
	FindByUserID(ctx context.Context, userID string) ([]*Order, error)
	Save(ctx context.Context, order *Order) error
}

// CartLine y CartSnapshot son lo que el pedido necesita saber del carrito.
type CartLine struct {
	ProductID    string
	ProductName  string
	ProductPrice float64
	Quantity     int
}

type CartSnapshot struct {
	ID     string
	UserID string
	Items  []CartLine
}

// CartPort es la vista del módulo de carritos desde pedidos.
type CartPort interface {
	// GetCart devuelve ErrCartNotFound si no existe.
	GetCart(ctx context.Context, cartID string) (*CartSnapshot, error)
	ClearCart(ctx context.Context, cartID string) error
}

// InventoryPort devuelve stock cuando se cancela un pedido que ya lo había reservado.
type InventoryPort interface {
	Restore(ctx context.Context, productID string, quantity int) error
}

// CacheKeyByID es la clave de caché de la vista de un pedido.
func CacheKeyByID(id string) string {
	return "order:" + id
}
