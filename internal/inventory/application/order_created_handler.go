package application

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/LeHongMinh-ST/ca-eco/internal/inventory/domain"
	sharedDomain "github.com/LeHongMinh-ST/ca-eco/internal/shared/domain"
	"github.com/LeHongMinh-ST/ca-eco/internal/shared/events"
)

// OrderCreatedHandler reserva el stock de un pedido nuevo y responde con
// OrderConfirmed u OrderFailed. Primero comprueba todas las líneas y sólo
// después descuenta; lo ya descontado no se devuelve si una línea posterior falla.
//
// Si otra escritura cambia el stock entre la lectura y la reserva, Handle devuelve
// el error: la fila queda FAILED, el procesador la reintenta y las líneas ya
// reservadas se saltan gracias al registro de reservas.
type OrderCreatedHandler struct {
	repo       domain.InventoryRepository
	dispatcher sharedDomain.EventDispatcher
	log        *zap.Logger
}

func NewOrderCreatedHandler(repo domain.InventoryRepository, dispatcher sharedDomain.EventDispatcher, log *zap.Logger) *OrderCreatedHandler {
	return &OrderCreatedHandler{repo: repo, dispatcher: dispatcher, log: log}
}

type pendingLine struct {
	inv  *domain.Inventory
	line events.OrderLine
}

func (h *OrderCreatedHandler) Handle(ctx context.Context, evt sharedDomain.StoredEvent) error {
	if evt.EventType != events.OrderCreatedType {
		return nil
	}

	var order events.OrderCreated
	if err := evt.Decode(&order); err != nil {
		return err
	}
	if err := sharedDomain.ValidateID("orderId", order.OrderID); err != nil {
		h.log.Warn("⚠️ OrderCreated sin orderId válido, se ignora", zap.String("outbox_id", evt.ID.String()), zap.Error(err))
		return nil
	}
	if len(order.Items) == 0 {
		return h.fail(ctx, order.OrderID, "Order has no items")
	}

	// 1. Comprobación de todas las líneas antes de tocar nada.
	var pending []pendingLine
	for _, line := range order.Items {
		reserved, err := h.repo.IsReserved(ctx, order.OrderID, line.ProductID)
		if err != nil {
			return err
		}
		if reserved {
			// Entrega repetida: esta línea ya descontó stock.
			continue
		}

		inv, err := h.repo.FindByProductID(ctx, line.ProductID)
		if errors.Is(err, domain.ErrInventoryNotFound) {
			return h.fail(ctx, order.OrderID, fmt.Sprintf("Inventory not found for product %s", line.ProductID))
		}
		if err != nil {
			return err
		}
		if !inv.HasStock(line.Quantity) {
			return h.fail(ctx, order.OrderID, fmt.Sprintf("Insufficient stock for product %s. Required: %d, Available: %d",
				line.ProductID, line.Quantity, inv.Quantity()))
		}
		pending = append(pending, pendingLine{inv: inv, line: line})
	}

	// 2. Descuento línea a línea; cada una es su propia transacción.
	for _, p := range pending {
		if err := p.inv.Decrease(p.line.Quantity); err != nil {
			return h.fail(ctx, order.OrderID, "Inventory decrease failed: "+err.Error())
		}
		if err := h.repo.Reserve(ctx, p.inv, order.OrderID, p.line.Quantity); err != nil {
			if errors.Is(err, domain.ErrAlreadyReserved) {
				continue
			}
			if errors.Is(err, domain.ErrConcurrentModification) {
				return fmt.Errorf("reserve stock for order %s: %w", order.OrderID, err)
			}
			return h.fail(ctx, order.OrderID, "Inventory decrease failed: "+err.Error())
		}
	}

	// 3. Todo reservado.
	if err := h.dispatcher.Dispatch(ctx, events.OrderConfirmed{
		Base:         events.NewBase(),
		OrderID:      order.OrderID,
		SourceCartID: order.SourceCartID,
	}); err != nil {
		return fmt.Errorf("dispatch OrderConfirmed: %w", err)
	}

	h.log.Info("✅ Stock reservado para el pedido",
		zap.String("order_id", order.OrderID),
		zap.Int("lines", len(order.Items)),
	)
	return nil
}

func (h *OrderCreatedHandler) fail(ctx context.Context, orderID, reason string) error {
	h.log.Warn("⚠️ Reserva de stock fallida", zap.String("order_id", orderID), zap.String("reason", reason))

	if err := h.dispatcher.Dispatch(ctx, events.OrderFailed{
		Base:    events.NewBase(),
		OrderID: orderID,
		Reason:  reason,
	}); err != nil {
		return fmt.Errorf("dispatch OrderFailed: %w", err)
	}
	return nil
}

var _ sharedDomain.EventHandler = (*OrderCreatedHandler)(nil)
