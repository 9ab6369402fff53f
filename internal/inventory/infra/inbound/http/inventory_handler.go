package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/LeHongMinh-ST/ca-eco/internal/inventory/application"
	"github.com/LeHongMinh-ST/ca-eco/internal/inventory/domain"
	sharedDomain "github.com/LeHongMinh-ST/ca-eco/internal/shared/domain"
	"github.com/LeHongMinh-ST/ca-eco/pkg/utils"
)

// InventoryHandler expone el stock por producto.
type InventoryHandler struct {
	service *application.InventoryService
}

func NewInventoryHandler(service *application.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: service}
}

type inventoryResponse struct {
	ID                string    `json:"id"`
	ProductID         string    `json:"productId"`
	Quantity          int       `json:"quantity"`
	LowStockThreshold int       `json:"lowStockThreshold"`
	LowStock          bool      `json:"lowStock"`
	OutOfStock        bool      `json:"outOfStock"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

func toResponse(inv *domain.Inventory) inventoryResponse {
	return inventoryResponse{
		ID:                inv.ID(),
		ProductID:         inv.ProductID(),
		Quantity:          inv.Quantity(),
		LowStockThreshold: inv.LowStockThreshold(),
		LowStock:          inv.IsLowStock(),
		OutOfStock:        inv.IsOutOfStock(),
		UpdatedAt:         inv.UpdatedAt(),
	}
}

// GetInventory endpoint GET /inventory/:productId
func (h *InventoryHandler) GetInventory(c *gin.Context) {
	productID := c.Param("productId")
	if err := sharedDomain.ValidateID("productId", productID); err != nil {
		utils.SendDomainError(c, err)
		return
	}

	inv, err := h.service.GetByProductID(c.Request.Context(), productID)
	if err != nil {
		utils.SendDomainError(c, err)
		return
	}
	utils.SendSuccess(c, http.StatusOK, toResponse(inv))
}

// IncreaseStock endpoint POST /inventory/:productId/increase
func (h *InventoryHandler) IncreaseStock(c *gin.Context) {
	var req struct {
		Amount int `json:"amount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}

	inv, err := h.service.Increase(c.Request.Context(), c.Param("productId"), req.Amount)
	if err != nil {
		utils.SendDomainError(c, err)
		return
	}
	utils.SendSuccess(c, http.StatusOK, toResponse(inv))
}

// UpdateThreshold endpoint PUT /inventory/:productId/threshold
func (h *InventoryHandler) UpdateThreshold(c *gin.Context) {
	var req struct {
		Threshold *int `json:"threshold" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}

	inv, err := h.service.UpdateLowStockThreshold(c.Request.Context(), c.Param("productId"), *req.Threshold)
	if err != nil {
		utils.SendDomainError(c, err)
		return
	}
	utils.SendSuccess(c, http.StatusOK, toResponse(inv))
}
