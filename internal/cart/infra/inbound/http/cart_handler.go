package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/LeHongMinh-ST/ca-eco/internal/cart/application"
	"github.com/LeHongMinh-ST/ca-eco/internal/cart/domain"
	"github.com/LeHongMinh-ST/ca-eco/pkg/utils"
)

type CartHandler struct {
	service *application.CartService
}

func NewCartHandler(service *application.CartService) *CartHandler {
	return &CartHandler{service: service}
}

type cartItemResponse struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"imageUrl,omitempty"`
	Quantity    int     `json:"quantity"`
	LineTotal   float64 `json:"lineTotal"`
}

type cartResponse struct {
	ID            string             `json:"id"`
	UserID        string             `json:"userId"`
	Items         []cartItemResponse `json:"items"`
	TotalPrice    float64            `json:"totalPrice"`
	TotalQuantity int                `json:"totalQuantity"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

func toResponse(c *domain.Cart) cartResponse {
	items := make([]cartItemResponse, 0, len(c.Items()))
	for _, it := range c.Items() {
		items = append(items, cartItemResponse{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Price:       it.Price,
			ImageURL:    it.ImageURL,
			Quantity:    it.Quantity,
			LineTotal:   it.LineTotal(),
		})
	}
	return cartResponse{
		ID:            c.ID(),
		UserID:        c.UserID(),
		Items:         items,
		TotalPrice:    c.TotalPrice(),
		TotalQuantity: c.TotalQuantity(),
		UpdatedAt:     c.UpdatedAt(),
	}
}

// CreateCart endpoint POST /carts
func (h *CartHandler) CreateCart(c *gin.Context) {
	var req struct {
		UserID string `json:"userId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}

	cart, err := h.service.CreateCart(c.Request.Context(), req.UserID)
	if err != nil {
		utils.SendDomainError(c, err)
		return
	}
	utils.SendSuccess(c, http.StatusCreated, toResponse(cart))
}

// GetCart endpoint GET /carts/:id
func (h *CartHandler) GetCart(c *gin.Context) {
	cart, err := h.service.GetCart(c.Request.Context(), c.Param("id"))
	h.reply(c, cart, err)
}

// GetCartByUser endpoint GET /users/:id/cart
func (h *CartHandler) GetCartByUser(c *gin.Context) {
	cart, err := h.service.GetCartByUser(c.Request.Context(), c.Param("id"))
	h.reply(c, cart, err)
}

// AddItem endpoint POST /carts/:id/items
func (h *CartHandler) AddItem(c *gin.Context) {
	var req struct {
		ProductID string `json:"productId" binding:"required"`
		Quantity  int    `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}

	cart, err := h.service.AddItem(c.Request.Context(), c.Param("id"), req.ProductID, req.Quantity)
	h.reply(c, cart, err)
}

// UpdateItem endpoint PUT /carts/:id/items/:productId
func (h *CartHandler) UpdateItem(c *gin.Context) {
	var req struct {
		Quantity int `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}

	cart, err := h.service.UpdateItemQuantity(c.Request.Context(), c.Param("id"), c.Param("productId"), req.Quantity)
	h.reply(c, cart, err)
}

// RemoveItem endpoint DELETE /carts/:id/items/:productId
func (h *CartHandler) RemoveItem(c *gin.Context) {
	cart, err := h.service.RemoveItem(c.Request.Context(), c.Param("id"), c.Param("productId"))
	h.reply(c, cart, err)
}

// ClearCart endpoint DELETE /carts/:id/items
func (h *CartHandler) ClearCart(c *gin.Context) {
	cart, err := h.service.ClearCart(c.Request.Context(), c.Param("id"))
	h.reply(c, cart, err)
}

func (h *CartHandler) reply(c *gin.Context, cart *domain.Cart, err error) {
	if err != nil {
		utils.SendDomainError(c, err)
		return
	}
	utils.SendSuccess(c, http.StatusOK, toResponse(cart))
}
