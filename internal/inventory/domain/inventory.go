// Package domain modela el stock disponible de cada producto.
package domain

import (
	"fmt"
	"time"

	sharedDomain "github.com/LeHongMinh-ST/ca-eco/internal/shared/domain"
	"github.com/LeHongMinh-ST/ca-eco/internal/shared/events"
)

const DefaultLowStockThreshold = 10

// Inventory es el stock de un producto. La cantidad nunca es negativa.
type Inventory struct {
	id                string
	productID         string
	quantity          int
	lowStockThreshold int
	version           int
	createdAt         time.Time
	updatedAt         time.Time

	events sharedDomain.EventBuffer
}

// NewInventory crea el stock de un producto y registra InventoryCreated.
func NewInventory(id, productID string, quantity, lowStockThreshold int) (*Inventory, error) {
	if err := sharedDomain.ValidateID("inventoryId", id); err != nil {
		return nil, err
	}
	if err := sharedDomain.ValidateID("productId", productID); err != nil {
		return nil, err
	}
	if quantity < 0 {
		return nil, sharedDomain.NewValidationError("Quantity cannot be negative", "quantity", quantity)
	}
	if err := validateThreshold(lowStockThreshold); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	inv := &Inventory{
		id:                id,
		productID:         productID,
		quantity:          quantity,
		lowStockThreshold: lowStockThreshold,
		createdAt:         now,
		updatedAt:         now,
	}
	inv.events.Record(events.InventoryCreated{Base: events.NewBase(), InventoryID: id, ProductID: productID})
	return inv, nil
}

// ReconstituteInventory rehidrata el agregado desde almacenamiento, sin eventos.
func ReconstituteInventory(id, productID string, quantity, lowStockThreshold, version int, createdAt, updatedAt time.Time) *Inventory {
	return &Inventory{
		id:                id,
		productID:         productID,
		quantity:          quantity,
		lowStockThreshold: lowStockThreshold,
		version:           version,
		createdAt:         createdAt,
		updatedAt:         updatedAt,
	}
}

func (i *Inventory) ID() string             { return i.id }
func (i *Inventory) AggregateID() string    { return i.id }
func (i *Inventory) ProductID() string      { return i.productID }
func (i *Inventory) Quantity() int          { return i.quantity }
func (i *Inventory) LowStockThreshold() int { return i.lowStockThreshold }
func (i *Inventory) CreatedAt() time.Time   { return i.createdAt }
func (i *Inventory) UpdatedAt() time.Time   { return i.updatedAt }

// Version es la versión persistida; 0 si nunca se ha guardado.
func (i *Inventory) Version() int { return i.version }

// MarkSaved la llama el repositorio tras un guardado correcto.
func (i *Inventory) MarkSaved() { i.version++ }

func (i *Inventory) DrainEvents() []events.DomainEvent { return i.events.Drain() }

func (i *Inventory) HasStock(requested int) bool { return i.quantity >= requested }
func (i *Inventory) IsOutOfStock() bool          { return i.quantity == 0 }
func (i *Inventory) IsLowStock() bool {
	return i.quantity > 0 && i.quantity < i.lowStockThreshold
}

// Increase suma stock y registra InventoryIncreased.
func (i *Inventory) Increase(amount int) error {
	if amount <= 0 {
		return sharedDomain.NewValidationError("Increase amount must be greater than zero", "amount", amount)
	}

	old := i.quantity
	i.quantity += amount
	i.touch()
	i.events.Record(events.InventoryIncreased{
		Base:        events.NewBase(),
		InventoryID: i.id,
		ProductID:   i.productID,
		OldQuantity: old,
		NewQuantity: i.quantity,
		Amount:      amount,
	})
	return nil
}

// Decrease resta stock o falla sin tocar nada.
// Al llegar a 0 registra además InventoryOutOfStock; al cruzar el umbral hacia abajo, InventoryLowStock.
func (i *Inventory) Decrease(amount int) error {
	if amount <= 0 {
		return sharedDomain.NewValidationError("Decrease amount must be greater than zero", "amount", amount)
	}
	if amount > i.quantity {
		return sharedDomain.NewValidationError(
			fmt.Sprintf("Insufficient stock. Available: %d, Requested: %d", i.quantity, amount), "amount", amount)
	}

	old := i.quantity
	i.quantity -= amount
	i.touch()
	i.events.Record(events.InventoryDecreased{
		Base:        events.NewBase(),
		InventoryID: i.id,
		ProductID:   i.productID,
		OldQuantity: old,
		NewQuantity: i.quantity,
		Amount:      amount,
	})

	switch {
	case i.quantity == 0:
		i.events.Record(events.InventoryOutOfStock{Base: events.NewBase(), InventoryID: i.id, ProductID: i.productID})
	case i.quantity < i.lowStockThreshold && old >= i.lowStockThreshold:
		i.events.Record(events.InventoryLowStock{
			Base:            events.NewBase(),
			InventoryID:     i.id,
			ProductID:       i.productID,
			CurrentQuantity: i.quantity,
			Threshold:       i.lowStockThreshold,
		})
	}
	return nil
}

// UpdateLowStockThreshold cambia el umbral de aviso. No emite eventos.
func (i *Inventory) UpdateLowStockThreshold(threshold int) error {
	if err := validateThreshold(threshold); err != nil {
		return err
	}
	i.lowStockThreshold = threshold
	i.touch()
	return nil
}

func (i *Inventory) touch() { i.updatedAt = time.Now().UTC() }

func validateThreshold(threshold int) error {
	if threshold < 0 {
		return sharedDomain.NewValidationError("Low stock threshold cannot be negative", "lowStockThreshold", threshold)
	}
	return nil
}

var _ sharedDomain.AggregateRoot = (*Inventory)(nil)
