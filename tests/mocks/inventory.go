package mocks

import (
	"context"
	"sync"
	"time"

	inventoryDomain "github.com/LeHongMinh-ST/ca-eco/internal/inventory/domain"
	"github.com/LeHongMinh-ST/ca-eco/internal/shared/events"
)

type inventoryRow struct {
	id, productID                string
	quantity, threshold, version int
}

// InMemoryInventoryRepo simula InventoryRepository con control de versión.
// Al guardar drena el agregado y conserva los eventos en Outbox, como haría el outbox real.
type InMemoryInventoryRepo struct {
	mu           sync.Mutex
	rows         map[string]inventoryRow // por productID
	reservations map[string]int          // orderID|productID → cantidad
	Outbox       []events.DomainEvent

	// ReserveErr, si no es nil, hace fallar Reserve sin guardar nada.
	ReserveErr error
}

func NewInMemoryInventoryRepo() *InMemoryInventoryRepo {
	return &InMemoryInventoryRepo{
		rows:         make(map[string]inventoryRow),
		reservations: make(map[string]int),
	}
}

func (r *InMemoryInventoryRepo) FindByID(ctx context.Context, id string) (*inventoryDomain.Inventory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.id == id {
			return row.toAggregate(), nil
		}
	}
	return nil, inventoryDomain.ErrInventoryNotFound
}

func (r *InMemoryInventoryRepo) FindByProductID(ctx context.Context, productID string) (*inventoryDomain.Inventory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[productID]
	if !ok {
		return nil, inventoryDomain.ErrInventoryNotFound
	}
	return row.toAggregate(), nil
}

func (r *InMemoryInventoryRepo) Save(ctx context.Context, inv *inventoryDomain.Inventory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.check(inv); err != nil {
		return err
	}
	r.store(inv)
	return nil
}

func (r *InMemoryInventoryRepo) Reserve(ctx context.Context, inv *inventoryDomain.Inventory, orderID string, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ReserveErr != nil {
		inv.DrainEvents()
		return r.ReserveErr
	}
	if err := r.check(inv); err != nil {
		return err
	}
	key := orderID + "|" + inv.ProductID()
	if _, ok := r.reservations[key]; ok {
		return inventoryDomain.ErrAlreadyReserved
	}
	r.reservations[key] = quantity
	r.store(inv)
	return nil
}

func (r *InMemoryInventoryRepo) IsReserved(ctx context.Context, orderID, productID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.reservations[orderID+"|"+productID]
	return ok, nil
}

// Quantity devuelve el stock guardado de un producto, o -1 si no existe.
func (r *InMemoryInventoryRepo) Quantity(productID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[productID]
	if !ok {
		return -1
	}
	return row.quantity
}

// Count devuelve cuántos registros de stock hay.
func (r *InMemoryInventoryRepo) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

func (r *InMemoryInventoryRepo) check(inv *inventoryDomain.Inventory) error {
	row, exists := r.rows[inv.ProductID()]
	if inv.Version() == 0 {
		if exists {
			inv.DrainEvents()
			return inventoryDomain.ErrInventoryAlreadyExists
		}
		return nil
	}
	if !exists || row.version != inv.Version() {
		inv.DrainEvents()
		return inventoryDomain.ErrConcurrentModification
	}
	return nil
}

func (r *InMemoryInventoryRepo) store(inv *inventoryDomain.Inventory) {
	r.rows[inv.ProductID()] = inventoryRow{
		id:        inv.ID(),
		productID: inv.ProductID(),
		quantity:  inv.Quantity(),
		threshold: inv.LowStockThreshold(),
		version:   inv.Version() + 1,
	}
	r.Outbox = append(r.Outbox, inv.DrainEvents()...)
	inv.MarkSaved()
}

func (row inventoryRow) toAggregate() *inventoryDomain.Inventory {
	return inventoryDomain.ReconstituteInventory(row.id, row.productID, row.quantity, row.threshold, row.version, time.Time{}, time.Time{})
}

var _ inventoryDomain.InventoryRepository = (*InMemoryInventoryRepo)(nil)
