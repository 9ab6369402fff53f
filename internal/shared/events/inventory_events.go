package events

const (
	InventoryCreatedType    = "InventoryCreated"
	InventoryIncreasedType  = "InventoryIncreased"
	InventoryDecreasedType  = "InventoryDecreased"
	InventoryLowStockType   = "InventoryLowStock"
	InventoryOutOfStockType = "InventoryOutOfStock"
)

type InventoryCreated struct {
	Base
	InventoryID string `json:"inventoryId"`
	ProductID   string `json:"productId"`
}

func (InventoryCreated) EventType() string { return InventoryCreatedType }

type InventoryIncreased struct {
	Base
	InventoryID string `json:"inventoryId"`
	ProductID   string `json:"productId"`
	OldQuantity int    `json:"oldQuantity"`
	NewQuantity int    `json:"newQuantity"`
	Amount      int    `json:"amount"`
}

func (InventoryIncreased) EventType() string { return InventoryIncreasedType }

type InventoryDecreased struct {
	Base
	InventoryID string `json:"inventoryId"`
	ProductID   string `json:"productId"`
	OldQuantity int    `json:"oldQuantity"`
	NewQuantity int    `json:"newQuantity"`
	Amount      int    `json:"amount"`
}

func (InventoryDecreased) EventType() string { return InventoryDecreasedType }

type InventoryLowStock struct {
	Base
	InventoryID     string `json:"inventoryId"`
	ProductID       string `json:"productId"`
	CurrentQuantity int    `json:"currentQuantity"`
	Threshold       int    `json:"threshold"`
}

func (InventoryLowStock) EventType() string { return InventoryLowStockType }

type InventoryOutOfStock struct {
	Base
	InventoryID string `json:"inventoryId"`
	ProductID   string `json:"productId"`
}

func (InventoryOutOfStock) EventType() string { return InventoryOutOfStockType }
