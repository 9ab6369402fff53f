// Package events consume los eventos de pedido publicados en el bus para
// mantener la caché de lectura al día en todas las instancias.
package events

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	sharedEvents "github.com/LeHongMinh-ST/ca-eco/internal/shared/events"
	sharedUtils "github.com/LeHongMinh-ST/ca-eco/internal/shared/infra/utils"
)

type OrderViewCache interface {
	InvalidateView(ctx context.Context, orderID string)
}

type orderRef struct {
	OrderID string `json:"orderId"`
}

type OrderConsumer struct {
	views OrderViewCache
	log   *zap.Logger
}

func NewOrderConsumer(views OrderViewCache, logger *zap.Logger) *OrderConsumer {
	return &OrderConsumer{views: views, log: logger}
}

func (c *OrderConsumer) HandleMessage(ctx context.Context, key string, payload []byte) {
	var base sharedEvents.IntegrationEvent
	if err := json.Unmarshal(payload, &base); err != nil {
		c.log.Warn("Failed to unmarshal integration event", zap.String("key", key), zap.Error(err))
		return
	}

	switch base.Type {
	case sharedEvents.OrderConfirmedType,
		sharedEvents.OrderFailedType,
		sharedEvents.OrderCancelledType,
		sharedEvents.OrderStatusChangedType:
		sharedUtils.UnmarshalAndHandle[orderRef](c.log, base.Data, func(evt orderRef) {
			c.withContext(ctx, evt.OrderID, func(ctx context.Context) error {
				c.views.InvalidateView(ctx, evt.OrderID)
				return nil
			}, base.Type)
		})

	case sharedEvents.OrderCreatedType:
		// Aún no hay vista cacheada.

	default:
		c.log.Debug("Evento ignorado por el consumidor de pedidos", zap.String("type", base.Type))
	}
}

func (c *OrderConsumer) withContext(ctx context.Context, orderID string, action func(ctx context.Context) error, eventType string) {
	ctxOrder, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()

	if err := action(ctxOrder); err != nil {
		c.log.Warn("Failed to process order event",
			zap.String("order_id", orderID),
			zap.String("type", eventType),
			zap.Error(err),
		)
		return
	}
	c.log.Debug("🔄 Vista de pedido invalidada",
		zap.String("order_id", orderID),
		zap.String("type", eventType),
	)
}

// BackgroundConsumerChan consume los mensajes del bus en memoria hasta que se cancela ctx o se cierra el canal.
func BackgroundConsumerChan(ctx context.Context, ch <-chan interface{}, consumer *OrderConsumer) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				consumer.log.Info("OrderConsumer stopped")
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				if payload, ok := msg.([]byte); ok {
					consumer.HandleMessage(ctx, "", payload)
				}
			}
		}
	}()
}
