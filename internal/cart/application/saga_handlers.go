package application

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/LeHongMinh-ST/ca-eco/internal/cart/domain"
	sharedDomain "github.com/LeHongMinh-ST/ca-eco/internal/shared/domain"
	"github.com/LeHongMinh-ST/ca-eco/internal/shared/events"
)

// UserCreatedHandler da a cada usuario nuevo su carrito.
type UserCreatedHandler struct {
	service *CartService
	log     *zap.Logger
}

func NewUserCreatedHandler(service *CartService, log *zap.Logger) *UserCreatedHandler {
	return &UserCreatedHandler{service: service, log: log}
}

func (h *UserCreatedHandler) Handle(ctx context.Context, evt sharedDomain.StoredEvent) error {
	if evt.EventType != events.UserCreatedType {
		return nil
	}
	userID := evt.String("userId")

	_, created, err := h.service.EnsureCartForUser(ctx, userID)
	if err != nil {
		return err
	}
	if !created {
		h.log.Info("Evento 'UserCreated' duplicado ignorado", zap.String("user_id", userID))
	}
	return nil
}

// OrderConfirmedHandler vuelve a vaciar el carrito de origen por si el vaciado
// al crear el pedido no llegó a guardarse.
type OrderConfirmedHandler struct {
	service *CartService
	log     *zap.Logger
}

func NewOrderConfirmedHandler(service *CartService, log *zap.Logger) *OrderConfirmedHandler {
	return &OrderConfirmedHandler{service: service, log: log}
}

func (h *OrderConfirmedHandler) Handle(ctx context.Context, evt sharedDomain.StoredEvent) error {
	if evt.EventType != events.OrderConfirmedType {
		return nil
	}
	cartID := evt.String("sourceCartId")
	if cartID == "" {
		return nil
	}

	cart, err := h.service.ClearCart(ctx, cartID)
	if errors.Is(err, domain.ErrCartNotFound) {
		h.log.Warn("⚠️ Carrito de origen no encontrado", zap.String("cart_id", cartID))
		return nil
	}
	if err != nil {
		return err
	}
	h.log.Debug("Carrito de origen vacío", zap.String("cart_id", cart.ID()))
	return nil
}

var (
	_ sharedDomain.EventHandler = (*UserCreatedHandler)(nil)
	_ sharedDomain.EventHandler = (*OrderConfirmedHandler)(nil)
)
