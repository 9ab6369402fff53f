package mocks

import (
	"context"
	"sort"
	"sync"

	productDomain "github.com/LeHongMinh-ST/ca-eco/internal/product/domain"
	"github.com/LeHongMinh-ST/ca-eco/internal/shared/events"
)

// InMemoryProductRepo simula ProductRepository.
type InMemoryProductRepo struct {
	mu       sync.Mutex
	products map[string]*productDomain.Product
	Outbox   []events.DomainEvent
}

func NewInMemoryProductRepo() *InMemoryProductRepo {
	return &InMemoryProductRepo{products: make(map[string]*productDomain.Product)}
}

func (r *InMemoryProductRepo) FindByID(ctx context.Context, id string) (*productDomain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, productDomain.ErrProductNotFound
	}
	return copyProduct(p), nil
}

func (r *InMemoryProductRepo) List(ctx context.Context, limit, offset int) ([]*productDomain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]*productDomain.Product, 0, len(r.products))
	for _, p := range r.products {
		all = append(all, copyProduct(p))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID() < all[j].ID() })
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (r *InMemoryProductRepo) Save(ctx context.Context, p *productDomain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.IsPersisted() {
		if _, ok := r.products[p.ID()]; !ok {
			p.DrainEvents()
			return productDomain.ErrProductNotFound
		}
	}
	r.Outbox = append(r.Outbox, p.DrainEvents()...)
	p.MarkSaved()
	r.products[p.ID()] = copyProduct(p)
	return nil
}

func copyProduct(p *productDomain.Product) *productDomain.Product {
	return productDomain.ReconstituteProduct(p.ID(), p.Name(), p.Price(), p.ImageURL(), p.CreatedAt(), p.UpdatedAt())
}

var _ productDomain.ProductRepository = (*InMemoryProductRepo)(nil)
