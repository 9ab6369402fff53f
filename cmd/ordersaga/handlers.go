package main

import (
	"go.uber.org/zap"

	cartApp "github.com/LeHongMinh-ST/ca-eco/internal/cart/application"
	inventoryApp "github.com/LeHongMinh-ST/ca-eco/internal/inventory/application"
	inventoryDomain "github.com/LeHongMinh-ST/ca-eco/internal/inventory/domain"
	orderApp "github.com/LeHongMinh-ST/ca-eco/internal/order/application"
	orderDomain "github.com/LeHongMinh-ST/ca-eco/internal/order/domain"
	sharedDomain "github.com/LeHongMinh-ST/ca-eco/internal/shared/domain"
	sharedEvents "github.com/LeHongMinh-ST/ca-eco/internal/shared/events"
	"github.com/LeHongMinh-ST/ca-eco/internal/shared/infra/relayer"
)

// sagaDeps es lo que necesitan los handlers del outbox.
type sagaDeps struct {
	orders     orderDomain.OrderRepository
	inventory  inventoryDomain.InventoryRepository
	dispatcher sharedDomain.EventDispatcher
	stock      *inventoryApp.InventoryService
	carts      *cartApp.CartService

	// forwarder, si no es nil, recibe todos los tipos después de los handlers locales.
	forwarder interface {
		sharedDomain.EventHandler
		EventTypes() []string
	}
}

// buildRegistry registra los participantes de la saga. El orden importa: en
// OrderConfirmed el pedido se confirma antes de vaciar el carrito de origen.
func buildRegistry(deps sagaDeps, log *zap.Logger) *relayer.Registry {
	b := relayer.NewRegistryBuilder().
		Register(sharedEvents.UserCreatedType,
			cartApp.NewUserCreatedHandler(deps.carts, log)).
		Register(sharedEvents.ProductCreatedType,
			inventoryApp.NewProductCreatedHandler(deps.stock, log)).
		Register(sharedEvents.OrderCreatedType,
			inventoryApp.NewOrderCreatedHandler(deps.inventory, deps.dispatcher, log)).
		Register(sharedEvents.OrderConfirmedType,
			orderApp.NewOrderConfirmedHandler(deps.orders, log),
			cartApp.NewOrderConfirmedHandler(deps.carts, log)).
		Register(sharedEvents.OrderFailedType,
			orderApp.NewOrderFailedHandler(deps.orders, log))

	if deps.forwarder != nil {
		for _, t := range deps.forwarder.EventTypes() {
			b.Register(t, deps.forwarder)
		}
	}
	return b.Build()
}
