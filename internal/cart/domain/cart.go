// Package domain modela el carrito de compra de un usuario.
package domain

import (
	"fmt"
	"strings"
	"time"

	sharedDomain "github.com/LeHongMinh-ST/ca-eco/internal/shared/domain"
	"github.com/LeHongMinh-ST/ca-eco/internal/shared/events"
)

// ProductSnapshot es la copia del producto en el momento de añadirlo al carrito.
// Cambios posteriores de precio no afectan a las líneas ya añadidas.
type ProductSnapshot struct {
	ProductID   string
	ProductName string
	Price       float64
	ImageURL    string
}

func (p ProductSnapshot) validate() error {
	if err := sharedDomain.ValidateID("productId", p.ProductID); err != nil {
		return err
	}
	if strings.TrimSpace(p.ProductName) == "" {
		return sharedDomain.NewValidationError("Product name is required", "productName", p.ProductName)
	}
	if p.Price < 0 {
		return sharedDomain.NewValidationError("Product price must be a non-negative number", "price", p.Price)
	}
	return nil
}

type CartItem struct {
	ProductSnapshot
	Quantity int
}

func (i CartItem) LineTotal() float64 {
	return i.Price * float64(i.Quantity)
}

type Cart struct {
	id        string
	userID    string
	items     []CartItem
	version   int
	createdAt time.Time
	updatedAt time.Time

	events sharedDomain.EventBuffer
}

func NewCart(id, userID string) (*Cart, error) {
	if err := sharedDomain.ValidateID("cartId", id); err != nil {
		return nil, err
	}
	if err := sharedDomain.ValidateID("userId", userID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	c := &Cart{id: id, userID: userID, createdAt: now, updatedAt: now}
	c.events.Record(events.CartCreated{Base: events.NewBase(), CartID: id, UserID: userID})
	return c, nil
}

// ReconstituteCart rehidrata el carrito desde almacenamiento, sin eventos.
func ReconstituteCart(id, userID string, items []CartItem, version int, createdAt, updatedAt time.Time) *Cart {
	return &Cart{id: id, userID: userID, items: items, version: version, createdAt: createdAt, updatedAt: updatedAt}
}

func (c *Cart) ID() string           { return c.id }
func (c *Cart) AggregateID() string  { return c.id }
func (c *Cart) UserID() string       { return c.userID }
func (c *Cart) Version() int         { return c.version }
func (c *Cart) MarkSaved()           { c.version++ }
func (c *Cart) CreatedAt() time.Time { return c.createdAt }
func (c *Cart) UpdatedAt() time.Time { return c.updatedAt }
func (c *Cart) IsEmpty() bool        { return len(c.items) == 0 }

// Items devuelve las líneas en orden de inserción.
func (c *Cart) Items() []CartItem {
	return append([]CartItem(nil), c.items...)
}

func (c *Cart) DrainEvents() []events.DomainEvent {
	return c.events.Drain()
}

// HasChanges indica si hay eventos sin guardar.
func (c *Cart) HasChanges() bool {
	return c.events.Len() > 0
}

func (c *Cart) TotalPrice() float64 {
	var total float64
	for _, it := range c.items {
		total += it.LineTotal()
	}
	return total
}

func (c *Cart) TotalQuantity() int {
	var n int
	for _, it := range c.items {
		n += it.Quantity
	}
	return n
}

// AddItem añade el producto; si ya estaba, suma las cantidades.
func (c *Cart) AddItem(product ProductSnapshot, quantity int) error {
	if err := validateQuantity(quantity); err != nil {
		return err
	}
	if err := product.validate(); err != nil {
		return err
	}

	if idx := c.indexOf(product.ProductID); idx >= 0 {
		old := c.items[idx].Quantity
		c.items[idx].Quantity = old + quantity
		c.touch()
		c.events.Record(events.CartItemUpdated{
			Base:        events.NewBase(),
			CartID:      c.id,
			ProductID:   product.ProductID,
			OldQuantity: old,
			NewQuantity: old + quantity,
		})
		return nil
	}

	c.items = append(c.items, CartItem{ProductSnapshot: product, Quantity: quantity})
	c.touch()
	c.events.Record(events.CartItemAdded{
		Base:        events.NewBase(),
		CartID:      c.id,
		ProductID:   product.ProductID,
		ProductName: product.ProductName,
		Price:       product.Price,
		Quantity:    quantity,
	})
	return nil
}

func (c *Cart) UpdateItemQuantity(productID string, quantity int) error {
	if err := validateQuantity(quantity); err != nil {
		return err
	}
	idx := c.indexOf(productID)
	if idx < 0 {
		return itemNotFound(productID)
	}

	old := c.items[idx].Quantity
	if old == quantity {
		return nil
	}
	c.items[idx].Quantity = quantity
	c.touch()
	c.events.Record(events.CartItemUpdated{
		Base:        events.NewBase(),
		CartID:      c.id,
		ProductID:   productID,
		OldQuantity: old,
		NewQuantity: quantity,
	})
	return nil
}

func (c *Cart) RemoveItem(productID string) error {
	idx := c.indexOf(productID)
	if idx < 0 {
		return itemNotFound(productID)
	}
	c.items = append(c.items[:idx], c.items[idx+1:]...)
	c.touch()
	c.events.Record(events.CartItemRemoved{Base: events.NewBase(), CartID: c.id, ProductID: productID})
	return nil
}

// Clear vacía el carrito. Un carrito ya vacío no registra nada.
func (c *Cart) Clear() {
	if len(c.items) == 0 {
		return
	}
	c.items = nil
	c.touch()
	c.events.Record(events.CartCleared{Base: events.NewBase(), CartID: c.id})
}

func (c *Cart) indexOf(productID string) int {
	for i, it := range c.items {
		if it.ProductID == productID {
			return i
		}
	}
	return -1
}

func (c *Cart) touch() { c.updatedAt = time.Now().UTC() }

func validateQuantity(q int) error {
	if q <= 0 {
		return sharedDomain.NewValidationError("Quantity must be a positive integer", "quantity", q)
	}
	return nil
}

func itemNotFound(productID string) error {
	return sharedDomain.NewValidationError(fmt.Sprintf("Cart item not found for product %s", productID), "productId", productID)
}
