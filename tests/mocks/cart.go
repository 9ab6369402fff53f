package mocks

import (
	"context"
	"sync"
	"time"

	cartDomain "github.com/LeHongMinh-ST/ca-eco/internal/cart/domain"
	productDomain "github.com/LeHongMinh-ST/ca-eco/internal/product/domain"
	"github.com/LeHongMinh-ST/ca-eco/internal/shared/events"
)

type cartRow struct {
	id, userID string
	items      []cartDomain.CartItem
	version    int
}

// InMemoryCartRepo simula CartRepository: un carrito por usuario y control de versión.
type InMemoryCartRepo struct {
	mu     sync.Mutex
	rows   map[string]cartRow
	Outbox []events.DomainEvent
}

func NewInMemoryCartRepo() *InMemoryCartRepo {
	return &InMemoryCartRepo{rows: make(map[string]cartRow)}
}

func (r *InMemoryCartRepo) FindByID(ctx context.Context, id string) (*cartDomain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, cartDomain.ErrCartNotFound
	}
	return row.toAggregate(), nil
}

func (r *InMemoryCartRepo) FindByUserID(ctx context.Context, userID string) (*cartDomain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.userID == userID {
			return row.toAggregate(), nil
		}
	}
	return nil, cartDomain.ErrCartNotFound
}

func (r *InMemoryCartRepo) Save(ctx context.Context, c *cartDomain.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, exists := r.rows[c.ID()]
	if c.Version() == 0 {
		for _, other := range r.rows {
			if other.userID == c.UserID() {
				c.DrainEvents()
				return cartDomain.ErrCartAlreadyExists
			}
		}
	} else if !exists || row.version != c.Version() {
		c.DrainEvents()
		return cartDomain.ErrConcurrentModification
	}

	r.Outbox = append(r.Outbox, c.DrainEvents()...)
	c.MarkSaved()
	r.rows[c.ID()] = cartRow{id: c.ID(), userID: c.UserID(), items: c.Items(), version: c.Version()}
	return nil
}

// Count devuelve cuántos carritos hay guardados.
func (r *InMemoryCartRepo) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

// OutboxTypes lista los tipos de los eventos guardados, en orden.
func (r *InMemoryCartRepo) OutboxTypes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.Outbox))
	for _, e := range r.Outbox {
		out = append(out, e.EventType())
	}
	return out
}

func (row cartRow) toAggregate() *cartDomain.Cart {
	items := append([]cartDomain.CartItem(nil), row.items...)
	return cartDomain.ReconstituteCart(row.id, row.userID, items, row.version, time.Time{}, time.Time{})
}

// StaticCatalog sirve fotos de producto fijas.
type StaticCatalog struct {
	Products map[string]cartDomain.ProductSnapshot
}

func NewStaticCatalog(products ...cartDomain.ProductSnapshot) *StaticCatalog {
	c := &StaticCatalog{Products: make(map[string]cartDomain.ProductSnapshot)}
	for _, p := range products {
		c.Products[p.ProductID] = p
	}
	return c
}

func (c *StaticCatalog) Snapshot(ctx context.Context, productID string) (cartDomain.ProductSnapshot, error) {
	p, ok := c.Products[productID]
	if !ok {
		return cartDomain.ProductSnapshot{}, productDomain.ErrProductNotFound
	}
	return p, nil
}

var (
	_ cartDomain.CartRepository = (*InMemoryCartRepo)(nil)
	_ cartDomain.ProductCatalog = (*StaticCatalog)(nil)
)
