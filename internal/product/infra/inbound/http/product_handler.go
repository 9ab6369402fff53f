package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/LeHongMinh-ST/ca-eco/internal/product/application"
	"github.com/LeHongMinh-ST/ca-eco/internal/product/domain"
	"github.com/LeHongMinh-ST/ca-eco/pkg/utils"
)

type ProductHandler struct {
	service *application.ProductService
}

func NewProductHandler(service *application.ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

type productResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toResponse(p *domain.Product) productResponse {
	return productResponse{
		ID:        p.ID(),
		Name:      p.Name(),
		Price:     p.Price(),
		ImageURL:  p.ImageURL(),
		CreatedAt: p.CreatedAt(),
		UpdatedAt: p.UpdatedAt(),
	}
}

// CreateProduct endpoint POST /products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req struct {
		Name     string  `json:"name" binding:"required"`
		Price    float64 `json:"price" binding:"required"`
		ImageURL string  `json:"imageUrl"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}

	p, err := h.service.CreateProduct(c.Request.Context(), req.Name, req.Price, req.ImageURL)
	if err != nil {
		utils.SendDomainError(c, err)
		return
	}
	utils.SendSuccess(c, http.StatusCreated, toResponse(p))
}

// GetProduct endpoint GET /products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	p, err := h.service.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.SendDomainError(c, err)
		return
	}
	utils.SendSuccess(c, http.StatusOK, toResponse(p))
}

// ListProducts endpoint GET /products?limit=&offset=
func (h *ProductHandler) ListProducts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	list, err := h.service.ListProducts(c.Request.Context(), limit, offset)
	if err != nil {
		utils.SendDomainError(c, err)
		return
	}
	out := make([]productResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toResponse(p))
	}
	utils.SendSuccess(c, http.StatusOK, out)
}

// UpdatePrice endpoint PUT /products/:id/price
func (h *ProductHandler) UpdatePrice(c *gin.Context) {
	var req struct {
		Price float64 `json:"price" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}

	p, err := h.service.UpdatePrice(c.Request.Context(), c.Param("id"), req.Price)
	if err != nil {
		utils.SendDomainError(c, err)
		return
	}
	utils.SendSuccess(c, http.StatusOK, toResponse(p))
}
