package http

import "github.com/gin-gonic/gin"

func RegisterOrderRoutes(r *gin.Engine, h *OrderHandler) {
	orders := r.Group("/orders")
	{
		orders.POST("", h.CreateOrder)
		orders.GET("/:id", h.GetOrder)
		orders.PUT("/:id/status", h.UpdateStatus)
		orders.POST("/:id/cancel", h.CancelOrder)
	}
	r.GET("/users/:id/orders", h.ListUserOrders)
}
