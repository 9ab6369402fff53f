package http

import "github.com/gin-gonic/gin"

func RegisterInventoryRoutes(r *gin.Engine, handler *InventoryHandler) {
	inventory := r.Group("/inventory")
	{
		inventory.GET("/:productId", handler.GetInventory)
		inventory.POST("/:productId/increase", handler.IncreaseStock)
		inventory.PUT("/:productId/threshold", handler.UpdateThreshold)
	}
}
