// Package domain modela el pedido y su ciclo de vida.
package domain

import (
	"fmt"
	"strings"
	"time"

	sharedDomain "github.com/LeHongMinh-ST/ca-eco/internal/shared/domain"
	"github.com/LeHongMinh-ST/ca-eco/internal/shared/events"
)

// OrderItem es la foto de un producto en el momento de pedirlo.
type OrderItem struct {
	ProductID    string
	ProductName  string
	PriceAtOrder float64
	Quantity     int
}

// NewOrderItem valida una línea de pedido.
func NewOrderItem(productID, productName string, price float64, quantity int) (OrderItem, error) {
	if err := sharedDomain.ValidateID("productId", productID); err != nil {
		return OrderItem{}, err
	}
	if strings.TrimSpace(productName) == "" {
		return OrderItem{}, sharedDomain.NewValidationError("Product name is required", "productName", productName)
	}
	if len(productName) > 255 {
		return OrderItem{}, sharedDomain.NewValidationError("Product name must not exceed 255 characters", "productName", productName)
	}
	if price < 0 {
		return OrderItem{}, sharedDomain.NewValidationError("Product price must be a non-negative number", "productPrice", price)
	}
	if quantity <= 0 {
		return OrderItem{}, sharedDomain.NewValidationError("Quantity must be a positive integer", "quantity", quantity)
	}
	return OrderItem{ProductID: productID, ProductName: productName, PriceAtOrder: price, Quantity: quantity}, nil
}

func (i OrderItem) LineTotal() float64 {
	return i.PriceAtOrder * float64(i.Quantity)
}

type Order struct {
	id           string
	userID       string
	items        []OrderItem
	status       OrderStatus
	totalPrice   float64
	sourceCartID string
	version      int
	createdAt    time.Time
	updatedAt    time.Time

	events sharedDomain.EventBuffer
}

// NewOrder crea un pedido PENDING y registra OrderCreated con la foto completa de las líneas.
func NewOrder(id, userID string, items []OrderItem, sourceCartID string) (*Order, error) {
	if err := sharedDomain.ValidateID("orderId", id); err != nil {
		return nil, err
	}
	if err := sharedDomain.ValidateID("userId", userID); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, sharedDomain.NewValidationError("Order must have at least one item", "items", items)
	}

	var total float64
	lines := make([]events.OrderLine, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if _, err := NewOrderItem(item.ProductID, item.ProductName, item.PriceAtOrder, item.Quantity); err != nil {
			return nil, err
		}
		// La reserva de stock se registra por (pedido, producto).
		if _, dup := seen[item.ProductID]; dup {
			return nil, sharedDomain.NewValidationError("Duplicate product in order: "+item.ProductID, "items", item.ProductID)
		}
		seen[item.ProductID] = struct{}{}
		total += item.LineTotal()
		lines = append(lines, events.OrderLine{
			ProductID:    item.ProductID,
			ProductName:  item.ProductName,
			ProductPrice: item.PriceAtOrder,
			Quantity:     item.Quantity,
		})
	}

	now := time.Now().UTC()
	o := &Order{
		id:           id,
		userID:       userID,
		items:        append([]OrderItem(nil), items...),
		status:       StatusPending,
		totalPrice:   total,
		sourceCartID: sourceCartID,
		createdAt:    now,
		updatedAt:    now,
	}
	o.events.Record(events.OrderCreated{
		Base:         events.NewBase(),
		OrderID:      id,
		UserID:       userID,
		Items:        lines,
		TotalPrice:   total,
		SourceCartID: sourceCartID,
	})
	return o, nil
}

// ReconstituteOrder rehidrata el pedido desde almacenamiento, sin eventos.
func ReconstituteOrder(id, userID string, items []OrderItem, status OrderStatus, totalPrice float64,
	sourceCartID string, version int, createdAt, updatedAt time.Time) *Order {
	return &Order{
		id:           id,
		userID:       userID,
		items:        items,
		status:       status,
		totalPrice:   totalPrice,
		sourceCartID: sourceCartID,
		version:      version,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

func (o *Order) ID() string           { return o.id }
func (o *Order) AggregateID() string  { return o.id }
func (o *Order) UserID() string       { return o.userID }
func (o *Order) Status() OrderStatus  { return o.status }
func (o *Order) TotalPrice() float64  { return o.totalPrice }
func (o *Order) SourceCartID() string { return o.sourceCartID }
func (o *Order) CreatedAt() time.Time { return o.createdAt }
func (o *Order) UpdatedAt() time.Time { return o.updatedAt }
func (o *Order) Version() int         { return o.version }
func (o *Order) MarkSaved()           { o.version++ }

func (o *Order) Items() []OrderItem {
	return append([]OrderItem(nil), o.items...)
}

func (o *Order) DrainEvents() []events.DomainEvent {
	return o.events.Drain()
}

// UpdateStatus aplica un cambio de estado genérico según la tabla de transiciones.
// Mismo estado: no hace nada.
func (o *Order) UpdateStatus(next OrderStatus) error {
	if o.status == next {
		return nil
	}
	if !o.status.CanTransitionTo(next) {
		return sharedDomain.NewValidationError(
			fmt.Sprintf("Invalid status transition from %s to %s", o.status, next), "status", next)
	}
	o.changeStatus(next)
	return nil
}

// Confirm lo dispara la reserva de stock correcta.
func (o *Order) Confirm() error {
	if o.status != StatusPending {
		return sharedDomain.NewValidationError(
			fmt.Sprintf("Cannot confirm order with status: %s", o.status), "status", o.status)
	}
	o.events.Record(events.OrderConfirmed{Base: events.NewBase(), OrderID: o.id, SourceCartID: o.sourceCartID})
	o.changeStatus(StatusConfirmed)
	return nil
}

func (o *Order) MarkAsFailed(reason string) error {
	if o.status != StatusPending {
		return sharedDomain.NewValidationError(
			fmt.Sprintf("Cannot mark order as failed with status: %s", o.status), "status", o.status)
	}
	o.events.Record(events.OrderFailed{Base: events.NewBase(), OrderID: o.id, Reason: reason})
	o.changeStatus(StatusFailed)
	return nil
}

// Cancel sólo es posible mientras el pedido no esté entregado, cancelado o fallido.
func (o *Order) Cancel() error {
	if !o.status.CanTransitionTo(StatusCancelled) {
		return sharedDomain.NewValidationError(
			fmt.Sprintf("Cannot cancel order with status: %s", o.status), "status", o.status)
	}
	o.events.Record(events.OrderCancelled{Base: events.NewBase(), OrderID: o.id})
	o.changeStatus(StatusCancelled)
	return nil
}

func (o *Order) changeStatus(next OrderStatus) {
	old := o.status
	o.status = next
	o.updatedAt = time.Now().UTC()
	o.events.Record(events.OrderStatusChanged{
		Base:      events.NewBase(),
		OrderID:   o.id,
		OldStatus: old.String(),
		NewStatus: next.String(),
	})
}
