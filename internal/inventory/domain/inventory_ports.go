package domain

import (
	"context"

	sharedDomain "github.com/LeHongMinh-ST/ca-eco/internal/shared/domain"
)

// ---------- Errores de dominio ----------
var (
	ErrInventoryNotFound      = sharedDomain.NotFound("inventory")
	ErrInventoryAlreadyExists = sharedDomain.Conflict("inventory already exists for product")
	ErrConcurrentModification = sharedDomain.Conflict("inventory was modified concurrently")
	ErrAlreadyReserved        = sharedDomain.Conflict("stock already reserved for order")
)

// ---------- Interfaces (Ports) ----------

// InventoryRepository persiste el stock junto con sus eventos en el outbox.
type InventoryRepository interface {
	// Debe devolver ErrInventoryNotFound si no existe.
	FindByID(ctx context.Context, id string) (*Inventory, error)

	// Debe devolver ErrInventoryNotFound si el producto no tiene stock registrado.
	FindByProductID(ctx context.Context, productID string) (*Inventory, error)

	// Save inserta (versión 0) o actualiza comprobando la versión leída.
	// Devuelve ErrInventoryAlreadyExists o ErrConcurrentModification.
	Save(ctx context.Context, inv *Inventory) error

	// Reserve guarda el stock ya decrementado y apunta la reserva del pedido en la misma transacción.
	// Devuelve ErrAlreadyReserved si esa línea del pedido ya se reservó.
	Reserve(ctx context.Context, inv *Inventory, orderID string, quantity int) error

	// IsReserved indica si la línea del pedido ya descontó stock.
	IsReserved(ctx context.Context, orderID, productID string) (bool, error)
}
