package mocks

import (
	"context"
	"sort"
	"sync"

	orderDomain "github.com/LeHongMinh-ST/ca-eco/internal/order/domain"
	"github.com/LeHongMinh-ST/ca-eco/internal/shared/events"
)

type orderRow struct {
	order   *orderDomain.Order
	version int
}

// InMemoryOrderRepo simula OrderRepository con control de versión.
type InMemoryOrderRepo struct {
	mu     sync.Mutex
	rows   map[string]orderRow
	Outbox []events.DomainEvent

	// SaveErr, si no es nil, hace fallar Save sin guardar nada.
	SaveErr error
}

func NewInMemoryOrderRepo() *InMemoryOrderRepo {
	return &InMemoryOrderRepo{rows: make(map[string]orderRow)}
}

func (r *InMemoryOrderRepo) FindByID(ctx context.Context, id string) (*orderDomain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, orderDomain.ErrOrderNotFound
	}
	return cloneOrder(row), nil
}

func (r *InMemoryOrderRepo) FindByUserID(ctx context.Context, userID string) ([]*orderDomain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*orderDomain.Order
	for _, row := range r.rows {
		if row.order.UserID() == userID {
			out = append(out, cloneOrder(row))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt().After(out[j].CreatedAt()) })
	return out, nil
}

func (r *InMemoryOrderRepo) Save(ctx context.Context, o *orderDomain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.SaveErr != nil {
		o.DrainEvents()
		return r.SaveErr
	}
	row, exists := r.rows[o.ID()]
	if (o.Version() == 0 && exists) || (o.Version() > 0 && (!exists || row.version != o.Version())) {
		o.DrainEvents()
		return orderDomain.ErrConcurrentModification
	}
	r.Outbox = append(r.Outbox, o.DrainEvents()...)
	o.MarkSaved()
	r.rows[o.ID()] = orderRow{order: cloneOrder(orderRow{order: o, version: o.Version()}), version: o.Version()}
	return nil
}

// Status devuelve el estado guardado de un pedido, o "" si no existe.
func (r *InMemoryOrderRepo) Status(id string) orderDomain.OrderStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rows[id].statusOrEmpty()
}

// OutboxTypes lista los tipos de los eventos guardados, en orden.
func (r *InMemoryOrderRepo) OutboxTypes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.Outbox))
	for _, e := range r.Outbox {
		out = append(out, e.EventType())
	}
	return out
}

func (row orderRow) statusOrEmpty() orderDomain.OrderStatus {
	if row.order == nil {
		return ""
	}
	return row.order.Status()
}

func cloneOrder(row orderRow) *orderDomain.Order {
	o := row.order
	return orderDomain.ReconstituteOrder(o.ID(), o.UserID(), o.Items(), o.Status(), o.TotalPrice(),
		o.SourceCartID(), row.version, o.CreatedAt(), o.UpdatedAt())
}

// FakeCartPort sirve carritos fijos al módulo de pedidos.
type FakeCartPort struct {
	mu       sync.Mutex
	Carts    map[string]*orderDomain.CartSnapshot
	Cleared  []string
	ClearErr error
}

func NewFakeCartPort() *FakeCartPort {
	return &FakeCartPort{Carts: make(map[string]*orderDomain.CartSnapshot)}
}

func (p *FakeCartPort) GetCart(ctx context.Context, cartID string) (*orderDomain.CartSnapshot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	cart, ok := p.Carts[cartID]
	if !ok {
		return nil, orderDomain.ErrCartNotFound
	}
	return cart, nil
}

func (p *FakeCartPort) ClearCart(ctx context.Context, cartID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ClearErr != nil {
		return p.ClearErr
	}
	p.Cleared = append(p.Cleared, cartID)
	if cart, ok := p.Carts[cartID]; ok {
		cart.Items = nil
	}
	return nil
}

// RecordingInventoryPort guarda las devoluciones de stock por producto.
type RecordingInventoryPort struct {
	mu       sync.Mutex
	Restored map[string]int
	Err      error
}

func NewRecordingInventoryPort() *RecordingInventoryPort {
	return &RecordingInventoryPort{Restored: make(map[string]int)}
}

func (p *RecordingInventoryPort) Restore(ctx context.Context, productID string, quantity int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.Restored[productID] += quantity
	return nil
}

var (
	_ orderDomain.OrderRepository = (*InMemoryOrderRepo)(nil)
	_ orderDomain.CartPort        = (*FakeCartPort)(nil)
	_ orderDomain.InventoryPort   = (*RecordingInventoryPort)(nil)
)
