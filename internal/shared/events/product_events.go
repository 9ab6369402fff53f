package events

const (
	ProductCreatedType      = "ProductCreated"
	ProductPriceUpdatedType = "ProductPriceUpdated"
)

type ProductCreated struct {
	Base
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
}

func (ProductCreated) EventType() string { return ProductCreatedType }

type ProductPriceUpdated struct {
	Base
	ProductID string  `json:"productId"`
	OldPrice  float64 `json:"oldPrice"`
	NewPrice  float64 `json:"newPrice"`
}

func (ProductPriceUpdated) EventType() string { return ProductPriceUpdatedType }
