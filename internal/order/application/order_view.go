package application

import (
	"time"

	"github.com/LeHongMinh-ST/ca-eco/internal/order/domain"
)

// OrderView es la vista de lectura del pedido: la que se cachea y sale por HTTP.
type OrderView struct {
	ID           string          `json:"id"`
	UserID       string          `json:"userId"`
	Status       string          `json:"status"`
	Items        []OrderItemView `json:"items"`
	TotalPrice   float64         `json:"totalPrice"`
	SourceCartID string          `json:"sourceCartId,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

type OrderItemView struct {
	ProductID    string  `json:"productId"`
	ProductName  string  `json:"productName"`
	PriceAtOrder float64 `json:"priceAtOrder"`
	Quantity     int     `json:"quantity"`
	LineTotal    float64 `json:"lineTotal"`
}

func NewOrderView(o *domain.Order) *OrderView {
	items := o.Items()
	views := make([]OrderItemView, 0, len(items))
	for _, it := range items {
		views = append(views, OrderItemView{
			ProductID:    it.ProductID,
			ProductName:  it.ProductName,
			PriceAtOrder: it.PriceAtOrder,
			Quantity:     it.Quantity,
			LineTotal:    it.LineTotal(),
		})
	}
	return &OrderView{
		ID:           o.ID(),
		UserID:       o.UserID(),
		Status:       o.Status().String(),
		Items:        views,
		TotalPrice:   o.TotalPrice(),
		SourceCartID: o.SourceCartID(),
		CreatedAt:    o.CreatedAt(),
		UpdatedAt:    o.UpdatedAt(),
	}
}
