package http

import "github.com/gin-gonic/gin"

func RegisterCartRoutes(r *gin.Engine, h *CartHandler) {
	carts := r.Group("/carts")
	{
		carts.POST("", h.CreateCart)
		carts.GET("/:id", h.GetCart)
		carts.POST("/:id/items", h.AddItem)
		carts.PUT("/:id/items/:productId", h.UpdateItem)
		carts.DELETE("/:id/items/:productId", h.RemoveItem)
		carts.DELETE("/:id/items", h.ClearCart)
	}
	r.GET("/users/:id/cart", h.GetCartByUser)
}
