// Package cart expone el módulo de carritos como CartPort de pedidos.
package cart

import (
	"context"
	"errors"

	cartDomain "github.com/LeHongMinh-ST/ca-eco/internal/cart/domain"
	orderDomain "github.com/LeHongMinh-ST/ca-eco/internal/order/domain"
)

type cartService interface {
	GetCart(ctx context.Context, cartID string) (*cartDomain.Cart, error)
	ClearCart(ctx context.Context, cartID string) (*cartDomain.Cart, error)
}

type CartAdapter struct {
	carts cartService
}

func NewCartAdapter(carts cartService) *CartAdapter {
	return &CartAdapter{carts: carts}
}

func (a *CartAdapter) GetCart(ctx context.Context, cartID string) (*orderDomain.CartSnapshot, error) {
	c, err := a.carts.GetCart(ctx, cartID)
	if err != nil {
		return nil, translate(err)
	}
	lines := make([]orderDomain.CartLine, 0, len(c.Items()))
	for _, it := range c.Items() {
		lines = append(lines, orderDomain.CartLine{
			ProductID:    it.ProductID,
			ProductName:  it.ProductName,
			ProductPrice: it.Price,
			Quantity:     it.Quantity,
		})
	}
	return &orderDomain.CartSnapshot{ID: c.ID(), UserID: c.UserID(), Items: lines}, nil
}

func (a *CartAdapter) ClearCart(ctx context.Context, cartID string) error {
	_, err := a.carts.ClearCart(ctx, cartID)
	return translate(err)
}

func translate(err error) error {
	if errors.Is(err, cartDomain.ErrCartNotFound) {
		return orderDomain.ErrCartNotFound
	}
	return err
}

var _ orderDomain.CartPort = (*CartAdapter)(nil)
