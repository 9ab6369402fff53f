package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/LeHongMinh-ST/ca-eco/internal/order/domain"
	sharedDomain "github.com/LeHongMinh-ST/ca-eco/internal/shared/domain"
	"github.com/LeHongMinh-ST/ca-eco/internal/shared/infra/platform/cache"
	sharedUtils "github.com/LeHongMinh-ST/ca-eco/internal/shared/infra/utils"
)

const DefaultCacheTTL = 60

// OrderService define los casos de uso de pedidos.
type OrderService struct {
	repo      domain.OrderRepository
	carts     domain.CartPort
	inventory domain.InventoryPort
	cache     cache.Cache
	cacheTTL  int
	log       *zap.Logger
}

// NewOrderService acepta cache nil: entonces las lecturas van siempre al repositorio.
func NewOrderService(repo domain.OrderRepository, carts domain.CartPort, inventory domain.InventoryPort,
	c cache.Cache, cacheTTL int, log *zap.Logger) *OrderService {
	if cacheTTL <= 0 {
		cacheTTL = DefaultCacheTTL
	}
	return &OrderService{
		repo:      repo,
		carts:     carts,
		inventory: inventory,
		cache:     c,
		cacheTTL:  cacheTTL,
		log:       log,
	}
}

// CreateOrder convierte el carrito en un pedido PENDING y lo vacía.
// La reserva de stock ocurre después, de forma asíncrona, a partir de OrderCreated.
func (s *OrderService) CreateOrder(ctx context.Context, cartID string) (*domain.Order, error) {
	if err := sharedDomain.ValidateID("cartId", cartID); err != nil {
		return nil, err
	}

	cart, err := s.carts.GetCart(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, sharedDomain.NewValidationError("Cannot create order from empty cart", "cartId", cartID)
	}

	items := make([]domain.OrderItem, 0, len(cart.Items))
	for _, line := range cart.Items {
		item, err := domain.NewOrderItem(line.ProductID, line.ProductName, line.ProductPrice, line.Quantity)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	order, err := domain.NewOrder(sharedDomain.NewID(), cart.UserID, items, cartID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, order); err != nil {
		return nil, err
	}

	// El pedido ya está guardado: si el vaciado falla, OrderConfirmed lo vuelve a intentar.
	if err := s.carts.ClearCart(ctx, cartID); err != nil {
		s.log.Warn("⚠️ No se pudo vaciar el carrito tras crear el pedido",
			zap.String("order_id", order.ID()),
			zap.String("cart_id", cartID),
			zap.Error(err),
		)
	}

	s.log.Info("🧾 Pedido creado",
		zap.String("order_id", order.ID()),
		zap.String("user_id", order.UserID()),
		zap.Int("items", len(items)),
		zap.Float64("total", order.TotalPrice()),
	)
	return order, nil
}

// CancelOrder cancela el pedido y, si ya tenía stock descontado, lo devuelve al inventario.
func (s *OrderService) CancelOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	prior := order.Status()
	if err := order.Cancel(); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, order); err != nil {
		return nil, err
	}
	s.invalidate(ctx, orderID)

	if prior.HoldsStock() {
		if err := s.restoreStock(ctx, order); err != nil {
			return order, err
		}
	}

	s.log.Info("🚫 Pedido cancelado", zap.String("order_id", orderID), zap.String("previous_status", prior.String()))
	return order, nil
}

// UpdateOrderStatus aplica un cambio de estado manual. CANCELLED pasa por CancelOrder.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID, status string) (*domain.Order, error) {
	next, err := domain.ParseOrderStatus(status)
	if err != nil {
		return nil, err
	}
	if next == domain.StatusCancelled {
		return s.CancelOrder(ctx, orderID)
	}

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.UpdateStatus(next); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, order); err != nil {
		return nil, err
	}
	s.invalidate(ctx, orderID)
	return order, nil
}

// GetOrder obtiene la vista del pedido (primero intenta desde cache).
func (s *OrderService) GetOrder(ctx context.Context, orderID string) (*OrderView, error) {
	if err := sharedDomain.ValidateID("orderId", orderID); err != nil {
		return nil, err
	}

	// 1. Intentar cache
	if s.cache != nil {
		var view OrderView
		if ok, err := s.cache.Get(ctx, domain.CacheKeyByID(orderID), &view); err == nil && ok {
			return &view, nil
		}
	}

	// 2. Ir al repo con reintentos; un "no encontrado" no se reintenta.
	var order *domain.Order
	err := sharedUtils.Retry(ctx, 3, 100*time.Millisecond, func() error {
		var err error
		order, err = s.repo.FindByID(ctx, orderID)
		if errors.Is(err, sharedDomain.ErrNotFound) {
			return sharedUtils.Permanent(err)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	// 3. Actualizar cache en background
	view := NewOrderView(order)
	cache.AsyncCacheSet(ctx, s.cache, domain.CacheKeyByID(orderID), view, s.cacheTTL, s.log)
	return view, nil
}

func (s *OrderService) ListUserOrders(ctx context.Context, userID string) ([]*OrderView, error) {
	if err := sharedDomain.ValidateID("userId", userID); err != nil {
		return nil, err
	}
	orders, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	views := make([]*OrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, NewOrderView(o))
	}
	return views, nil
}

// restoreStock devuelve cada línea al inventario; sigue con las demás si una falla.
func (s *OrderService) restoreStock(ctx context.Context, order *domain.Order) error {
	var errs []error
	for _, item := range order.Items() {
		if err := s.inventory.Restore(ctx, item.ProductID, item.Quantity); err != nil {
			s.log.Error("❌ Fallo al devolver stock del pedido",
				zap.String("order_id", order.ID()),
				zap.String("product_id", item.ProductID),
				zap.Int("quantity", item.Quantity),
				zap.Error(err),
			)
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("order %s cancelled but stock restore failed: %w", order.ID(), errors.Join(errs...))
	}
	return nil
}

// InvalidateView saca de caché la vista del pedido.
func (s *OrderService) InvalidateView(ctx context.Context, orderID string) {
	s.invalidate(ctx, orderID)
}

func (s *OrderService) invalidate(ctx context.Context, orderID string) {
	cache.AsyncCacheDelete(ctx, s.cache, domain.CacheKeyByID(orderID), s.log)
}
