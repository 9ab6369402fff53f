package application

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/LeHongMinh-ST/ca-eco/internal/inventory/domain"
	sharedDomain "github.com/LeHongMinh-ST/ca-eco/internal/shared/domain"
	sharedUtils "github.com/LeHongMinh-ST/ca-eco/internal/shared/infra/utils"
)

// conflictRetries limita los reintentos cuando otra escritura gana la carrera de versión.
const conflictRetries = 3

// InventoryService agrupa los casos de uso de stock.
type InventoryService struct {
	repo domain.InventoryRepository
	log  *zap.Logger
}

func NewInventoryService(repo domain.InventoryRepository, log *zap.Logger) *InventoryService {
	return &InventoryService{repo: repo, log: log}
}

func (s *InventoryService) GetByProductID(ctx context.Context, productID string) (*domain.Inventory, error) {
	return s.repo.FindByProductID(ctx, productID)
}

// EnsureForProduct crea stock vacío para el producto si aún no existe.
// Devuelve created=false cuando ya había uno.
func (s *InventoryService) EnsureForProduct(ctx context.Context, productID string) (inv *domain.Inventory, created bool, err error) {
	existing, err := s.repo.FindByProductID(ctx, productID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, domain.ErrInventoryNotFound) {
		return nil, false, err
	}

	inv, err = domain.NewInventory(sharedDomain.NewID(), productID, 0, domain.DefaultLowStockThreshold)
	if err != nil {
		return nil, false, err
	}
	if err := s.repo.Save(ctx, inv); err != nil {
		if errors.Is(err, domain.ErrInventoryAlreadyExists) {
			// Otra entrega lo creó entre la lectura y el guardado.
			existing, findErr := s.repo.FindByProductID(ctx, productID)
			return existing, false, findErr
		}
		return nil, false, err
	}

	s.log.Info("📦 Inventario creado", zap.String("product_id", productID), zap.String("inventory_id", inv.ID()))
	return inv, true, nil
}

// Increase repone stock. Si otra escritura se adelanta, relee y vuelve a aplicar.
func (s *InventoryService) Increase(ctx context.Context, productID string, amount int) (*domain.Inventory, error) {
	var result *domain.Inventory
	err := sharedUtils.Retry(ctx, conflictRetries, 10*time.Millisecond, func() error {
		inv, err := s.repo.FindByProductID(ctx, productID)
		if err != nil {
			return sharedUtils.Permanent(err)
		}
		if err := inv.Increase(amount); err != nil {
			return sharedUtils.Permanent(err)
		}
		if err := s.repo.Save(ctx, inv); err != nil {
			if errors.Is(err, domain.ErrConcurrentModification) {
				return err
			}
			return sharedUtils.Permanent(err)
		}
		result = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Restore devuelve al stock las unidades de un pedido cancelado.
func (s *InventoryService) Restore(ctx context.Context, productID string, amount int) error {
	if _, err := s.Increase(ctx, productID, amount); err != nil {
		s.log.Warn("⚠️ No se pudo restaurar stock",
			zap.String("product_id", productID),
			zap.Int("amount", amount),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// UpdateLowStockThreshold cambia el umbral de aviso de un producto.
func (s *InventoryService) UpdateLowStockThreshold(ctx context.Context, productID string, threshold int) (*domain.Inventory, error) {
	inv, err := s.repo.FindByProductID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if err := inv.UpdateLowStockThreshold(threshold); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}
