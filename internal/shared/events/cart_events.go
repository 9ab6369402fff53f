package events

const (
	CartCreatedType     = "CartCreated"
	CartItemAddedType   = "CartItemAdded"
	CartItemUpdatedType = "CartItemUpdated"
	CartItemRemovedType = "CartItemRemoved"
	CartClearedType     = "CartCleared"
)

type CartCreated struct {
	Base
	CartID string `json:"cartId"`
	UserID string `json:"userId"`
}

func (CartCreated) EventType() string { return CartCreatedType }

type CartItemAdded struct {
	Base
	CartID      string  `json:"cartId"`
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
}

func (CartItemAdded) EventType() string { return CartItemAddedType }

type CartItemUpdated struct {
	Base
	CartID      string `json:"cartId"`
	ProductID   string `json:"productId"`
	OldQuantity int    `json:"oldQuantity"`
	NewQuantity int    `json:"newQuantity"`
}

func (CartItemUpdated) EventType() string { return CartItemUpdatedType }

type CartItemRemoved struct {
	Base
	CartID    string `json:"cartId"`
	ProductID string `json:"productId"`
}

func (CartItemRemoved) EventType() string { return CartItemRemovedType }

type CartCleared struct {
	Base
	CartID string `json:"cartId"`
}

func (CartCleared) EventType() string { return CartClearedType }
