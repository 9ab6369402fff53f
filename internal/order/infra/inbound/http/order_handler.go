package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/LeHongMinh-ST/ca-eco/internal/order/application"
	"github.com/LeHongMinh-ST/ca-eco/pkg/utils"
)

type OrderHandler struct {
	service *application.OrderService
}

func NewOrderHandler(service *application.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// CreateOrder endpoint POST /orders
// Responde 201 con el pedido en PENDING; la confirmación llega después.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req struct {
		CartID string `json:"cartId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}

	order, err := h.service.CreateOrder(c.Request.Context(), req.CartID)
	if err != nil {
		utils.SendDomainError(c, err)
		return
	}
	utils.SendSuccess(c, http.StatusCreated, application.NewOrderView(order))
}

// GetOrder endpoint GET /orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	view, err := h.service.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.SendDomainError(c, err)
		return
	}
	utils.SendSuccess(c, http.StatusOK, view)
}

// ListUserOrders endpoint GET /users/:id/orders
func (h *OrderHandler) ListUserOrders(c *gin.Context) {
	views, err := h.service.ListUserOrders(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.SendDomainError(c, err)
		return
	}
	utils.SendSuccess(c, http.StatusOK, views)
}

// UpdateStatus endpoint PUT /orders/:id/status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}

	order, err := h.service.UpdateOrderStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		utils.SendDomainError(c, err)
		return
	}
	utils.SendSuccess(c, http.StatusOK, application.NewOrderView(order))
}

// CancelOrder endpoint POST /orders/:id/cancel
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	order, err := h.service.CancelOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.SendDomainError(c, err)
		return
	}
	utils.SendSuccess(c, http.StatusOK, application.NewOrderView(order))
}
