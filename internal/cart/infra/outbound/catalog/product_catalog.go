// Package catalog adapta el servicio de productos al puerto ProductCatalog del carrito.
package catalog

import (
	"context"

	cartDomain "github.com/LeHongMinh-ST/ca-eco/internal/cart/domain"
	productDomain "github.com/LeHongMinh-ST/ca-eco/internal/product/domain"
)

type productReader interface {
	GetProduct(ctx context.Context, id string) (*productDomain.Product, error)
}

type ProductCatalog struct {
	products productReader
}

func NewProductCatalog(products productReader) *ProductCatalog {
	return &ProductCatalog{products: products}
}

// Snapshot toma la foto del producto con su precio actual.
func (c *ProductCatalog) Snapshot(ctx context.Context, productID string) (cartDomain.ProductSnapshot, error) {
	p, err := c.products.GetProduct(ctx, productID)
	if err != nil {
		return cartDomain.ProductSnapshot{}, err
	}
	return cartDomain.ProductSnapshot{
		ProductID:   p.ID(),
		ProductName: p.Name(),
		Price:       p.Price(),
		ImageURL:    p.ImageURL(),
	}, nil
}

var _ cartDomain.ProductCatalog = (*ProductCatalog)(nil)
