package events

import "strings"

// Topics por contexto acotado.
const (
	UserTopic      = "users"
	ProductTopic   = "products"
	CartTopic      = "carts"
	OrderTopic     = "orders"
	InventoryTopic = "inventory"
)

// TopicFor resuelve el topic a partir del prefijo del tipo de evento.
func TopicFor(eventType string) string {
	switch {
	case strings.HasPrefix(eventType, "User"):
		return UserTopic
	case strings.HasPrefix(eventType, "Product"):
		return ProductTopic
	case strings.HasPrefix(eventType, "Cart"):
		return CartTopic
	case strings.HasPrefix(eventType, "Order"):
		return OrderTopic
	case strings.HasPrefix(eventType, "Inventory"):
		return InventoryTopic
	default:
		return "events"
	}
}

// AllTypes lista todos los tipos de evento conocidos.
func AllTypes() []string {
	return []string{
		UserCreatedType, UserEmailChangedType,
		ProductCreatedType, ProductPriceUpdatedType,
		CartCreatedType, CartItemAddedType, CartItemUpdatedType, CartItemRemovedType, CartClearedType,
		OrderCreatedType, OrderConfirmedType, OrderFailedType, OrderCancelledType, OrderStatusChangedType,
		InventoryCreatedType, InventoryIncreasedType, InventoryDecreasedType, InventoryLowStockType, InventoryOutOfStockType,
	}
}
