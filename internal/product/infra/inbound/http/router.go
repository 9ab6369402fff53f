package http

import "github.com/gin-gonic/gin"

func RegisterProductRoutes(r *gin.Engine, h *ProductHandler) {
	products := r.Group("/products")
	{
		products.POST("", h.CreateProduct)
		products.GET("", h.ListProducts)
		products.GET("/:id", h.GetProduct)
		products.PUT("/:id/price", h.UpdatePrice)
	}
}
