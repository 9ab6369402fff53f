package application

import (
	"context"

	"go.uber.org/zap"

	sharedDomain "github.com/LeHongMinh-ST/ca-eco/internal/shared/domain"
	"github.com/LeHongMinh-ST/ca-eco/internal/shared/events"
)

// ProductCreatedHandler garantiza que cada producto del catálogo tenga su registro de stock.
type ProductCreatedHandler struct {
	service *InventoryService
	log     *zap.Logger
}

func NewProductCreatedHandler(service *InventoryService, log *zap.Logger) *ProductCreatedHandler {
	return &ProductCreatedHandler{service: service, log: log}
}

func (h *ProductCreatedHandler) Handle(ctx context.Context, evt sharedDomain.StoredEvent) error {
	if evt.EventType != events.ProductCreatedType {
		return nil
	}

	var product events.ProductCreated
	if err := evt.Decode(&product); err != nil {
		return err
	}

	_, created, err := h.service.EnsureForProduct(ctx, product.ProductID)
	if err != nil {
		return err
	}
	if !created {
		h.log.Info("Evento 'ProductCreated' duplicado ignorado", zap.String("product_id", product.ProductID))
	}
	return nil
}

var _ sharedDomain.EventHandler = (*ProductCreatedHandler)(nil)
