package events

const (
	OrderCreatedType       = "OrderCreated"
	OrderConfirmedType     = "OrderConfirmed"
	OrderFailedType        = "OrderFailed"
	OrderCancelledType     = "OrderCancelled"
	OrderStatusChangedType = "OrderStatusChanged"
)

// OrderLine es la foto de una línea del pedido en el momento de crearlo.
type OrderLine struct {
	ProductID    string  `json:"productId"`
	ProductName  string  `json:"productName"`
	ProductPrice float64 `json:"productPrice"`
	Quantity     int     `json:"quantity"`
}

type OrderCreated struct {
	Base
	OrderID      string      `json:"orderId"`
	UserID       string      `json:"userId"`
	Items        []OrderLine `json:"items"`
	TotalPrice   float64     `json:"totalPrice"`
	SourceCartID string      `json:"sourceCartId,omitempty"`
}

func (OrderCreated) EventType() string { return OrderCreatedType }

type OrderConfirmed struct {
	Base
	OrderID      string `json:"orderId"`
	SourceCartID string `json:"sourceCartId,omitempty"`
}

func (OrderConfirmed) EventType() string { return OrderConfirmedType }

type OrderFailed struct {
	Base
	OrderID string `json:"orderId"`
	Reason  string `json:"reason"`
}

func (OrderFailed) EventType() string { return OrderFailedType }

type OrderCancelled struct {
	Base
	OrderID string `json:"orderId"`
}

func (OrderCancelled) EventType() string { return OrderCancelledType }

type OrderStatusChanged struct {
	Base
	OrderID   string `json:"orderId"`
	OldStatus string `json:"oldStatus"`
	NewStatus string `json:"newStatus"`
}

func (OrderStatusChanged) EventType() string { return OrderStatusChangedType }
