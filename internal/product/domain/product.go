// Package domain modela el catálogo de productos.
package domain

import (
	"context"
	"strings"
	"time"

	sharedDomain "github.com/LeHongMinh-ST/ca-eco/internal/shared/domain"
	"github.com/LeHongMinh-ST/ca-eco/internal/shared/events"
)

var ErrProductNotFound = sharedDomain.NotFound("product")

type Product struct {
	id        string
	name      string
	price     float64
	imageURL  string
	persisted bool
	createdAt time.Time
	updatedAt time.Time

	events sharedDomain.EventBuffer
}

func NewProduct(id, name string, price float64, imageURL string) (*Product, error) {
	if err := sharedDomain.ValidateID("productId", id); err != nil {
		return nil, err
	}
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := validatePrice(price); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	p := &Product{id: id, name: strings.TrimSpace(name), price: price, imageURL: imageURL, createdAt: now, updatedAt: now}
	p.events.Record(events.ProductCreated{Base: events.NewBase(), ProductID: id, Name: p.name, Price: price})
	return p, nil
}

func ReconstituteProduct(id, name string, price float64, imageURL string, createdAt, updatedAt time.Time) *Product {
	return &Product{id: id, name: name, price: price, imageURL: imageURL, persisted: true, createdAt: createdAt, updatedAt: updatedAt}
}

func (p *Product) ID() string           { return p.id }
func (p *Product) AggregateID() string  { return p.id }
func (p *Product) Name() string         { return p.name }
func (p *Product) Price() float64       { return p.price }
func (p *Product) ImageURL() string     { return p.imageURL }
func (p *Product) IsPersisted() bool    { return p.persisted }
func (p *Product) MarkSaved()           { p.persisted = true }
func (p *Product) CreatedAt() time.Time { return p.createdAt }
func (p *Product) UpdatedAt() time.Time { return p.updatedAt }

func (p *Product) DrainEvents() []events.DomainEvent {
	return p.events.Drain()
}

// UpdatePrice cambia el precio de catálogo. Los carritos y pedidos existentes conservan el suyo.
func (p *Product) UpdatePrice(price float64) error {
	if err := validatePrice(price); err != nil {
		return err
	}
	if price == p.price {
		return nil
	}
	old := p.price
	p.price = price
	p.updatedAt = time.Now().UTC()
	p.events.Record(events.ProductPriceUpdated{Base: events.NewBase(), ProductID: p.id, OldPrice: old, NewPrice: price})
	return nil
}

func (p *Product) Rename(name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	p.name = strings.TrimSpace(name)
	p.updatedAt = time.Now().UTC()
	return nil
}

func validateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return sharedDomain.NewValidationError("Product name is required", "name", name)
	}
	if len(name) > 255 {
		return sharedDomain.NewValidationError("Product name must not exceed 255 characters", "name", name)
	}
	return nil
}

func validatePrice(price float64) error {
	if price <= 0 {
		return sharedDomain.NewValidationError("Product price must be greater than zero", "price", price)
	}
	return nil
}

type ProductRepository interface {
	FindByID(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context, limit, offset int) ([]*Product, error)
	Save(ctx context.Context, p *Product) error
}
