package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/LeHongMinh-ST/ca-eco/internal/cart/application"
	"github.com/LeHongMinh-ST/ca-eco/internal/cart/domain"
	"github.com/LeHongMinh-ST/ca-eco/tests/mocks"
)

func newRouter(t *testing.T, products ...domain.ProductSnapshot) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	service := application.NewCartService(mocks.NewInMemoryCartRepo(), mocks.NewStaticCatalog(products...), zap.NewNop())
	RegisterCartRoutes(r, NewCartHandler(service))
	return r
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) cartResponse {
	t.Helper()
	var body struct {
		Data cartResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Data
}

func TestCartHTTP_FullFlow(t *testing.T) {
	// Arrange
	mug := domain.ProductSnapshot{ProductID: uuid.NewString(), ProductName: "Taza", Price: 4}
	r := newRouter(t, mug)
	userID := uuid.NewString()

	// Act + Assert
	rec := do(r, http.MethodPost, "/carts", `{"userId":"`+userID+`"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	cartID := decode(t, rec).ID

	rec = do(r, http.MethodPost, "/carts/"+cartID+"/items", `{"productId":"`+mug.ProductID+`","quantity":3}`)
	require.Equal(t, http.StatusOK, rec.Code)
	cart := decode(t, rec)
	assert.Equal(t, 3, cart.TotalQuantity)
	assert.InDelta(t, 12.0, cart.TotalPrice, 1e-9)

	rec = do(r, http.MethodPut, "/carts/"+cartID+"/items/"+mug.ProductID, `{"quantity":1}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode(t, rec).TotalQuantity)

	rec = do(r, http.MethodGet, "/users/"+userID+"/cart", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, cartID, decode(t, rec).ID)

	rec = do(r, http.MethodDelete, "/carts/"+cartID+"/items", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode(t, rec).Items)
}

func TestCartHTTP_Errors(t *testing.T) {
	r := newRouter(t)
	userID := uuid.NewString()
	require.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/carts", `{"userId":"`+userID+`"}`).Code)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"carrito duplicado", http.MethodPost, "/carts", `{"userId":"` + userID + `"}`, http.StatusConflict},
		{"sin usuario", http.MethodPost, "/carts", `{}`, http.StatusBadRequest},
		{"id inválido", http.MethodGet, "/carts/abc", "", http.StatusBadRequest},
		{"no existe", http.MethodGet, "/carts/" + uuid.NewString(), "", http.StatusNotFound},
		{"producto inexistente", http.MethodPost, "/carts/" + uuid.NewString() + "/items", `{"productId":"` + uuid.NewString() + `","quantity":1}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, do(r, tt.method, tt.path, tt.body).Code)
		})
	}
}
