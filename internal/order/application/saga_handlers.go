package application

import (
	"context"

	"go.uber.org/zap"

	"github.com/LeHongMinh-ST/ca-eco/internal/order/domain"
	sharedDomain "github.com/LeHongMinh-ST/ca-eco/internal/shared/domain"
	"github.com/LeHongMinh-ST/ca-eco/internal/shared/events"
)

// OrderConfirmedHandler pasa a CONFIRMED el pedido cuyo stock se reservó.
// Si el pedido se canceló mientras estaba PENDING, el stock reservado no se
// devuelve aquí: sólo se avisa en el log para revisarlo a mano.
type OrderConfirmedHandler struct {
	repo domain.OrderRepository
	log  *zap.Logger
}

func NewOrderConfirmedHandler(repo domain.OrderRepository, log *zap.Logger) *OrderConfirmedHandler {
	return &OrderConfirmedHandler{repo: repo, log: log}
}

func (h *OrderConfirmedHandler) Handle(ctx context.Context, evt sharedDomain.StoredEvent) error {
	if evt.EventType != events.OrderConfirmedType {
		return nil
	}
	orderID := evt.String("orderId")
	if err := sharedDomain.ValidateID("orderId", orderID); err != nil {
		h.log.Warn("⚠️ OrderConfirmed sin orderId válido, se ignora", zap.String("outbox_id", evt.ID.String()), zap.Error(err))
		return nil
	}

	order, err := h.repo.FindByID(ctx, orderID)
	if err != nil {
		return err
	}

	switch order.Status() {
	case domain.StatusPending:
		if err := order.Confirm(); err != nil {
			return err
		}
		if err := h.repo.Save(ctx, order); err != nil {
			return err
		}
		h.log.Info("✅ Pedido confirmado", zap.String("order_id", orderID))

	case domain.StatusCancelled:
		h.log.Warn("⚠️ Stock reservado para un pedido ya cancelado", zap.String("order_id", orderID))

	default:
		// CONFIRMED u otro estado posterior: entrega repetida.
		h.log.Info("Evento 'OrderConfirmed' duplicado ignorado",
			zap.String("order_id", orderID),
			zap.String("status", order.Status().String()),
		)
	}
	return nil
}

// OrderFailedHandler pasa a FAILED el pedido cuya reserva no fue posible.
type OrderFailedHandler struct {
	repo domain.OrderRepository
	log  *zap.Logger
}

func NewOrderFailedHandler(repo domain.OrderRepository, log *zap.Logger) *OrderFailedHandler {
	return &OrderFailedHandler{repo: repo, log: log}
}

func (h *OrderFailedHandler) Handle(ctx context.Context, evt sharedDomain.StoredEvent) error {
	if evt.EventType != events.OrderFailedType {
		return nil
	}

	var failed events.OrderFailed
	if err := evt.Decode(&failed); err != nil {
		return err
	}
	if err := sharedDomain.ValidateID("orderId", failed.OrderID); err != nil {
		h.log.Warn("⚠️ OrderFailed sin orderId válido, se ignora", zap.String("outbox_id", evt.ID.String()), zap.Error(err))
		return nil
	}

	order, err := h.repo.FindByID(ctx, failed.OrderID)
	if err != nil {
		return err
	}
	if order.Status() != domain.StatusPending {
		h.log.Info("Evento 'OrderFailed' ignorado",
			zap.String("order_id", failed.OrderID),
			zap.String("status", order.Status().String()),
		)
		return nil
	}

	if err := order.MarkAsFailed(failed.Reason); err != nil {
		return err
	}
	if err := h.repo.Save(ctx, order); err != nil {
		return err
	}
	h.log.Warn("❌ Pedido fallido", zap.String("order_id", failed.OrderID), zap.String("reason", failed.Reason))
	return nil
}

var (
	_ sharedDomain.EventHandler = (*OrderConfirmedHandler)(nil)
	_ sharedDomain.EventHandler = (*OrderFailedHandler)(nil)
)
