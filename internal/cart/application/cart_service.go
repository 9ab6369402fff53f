package application

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/LeHongMinh-ST/ca-eco/internal/cart/domain"
	sharedDomain "github.com/LeHongMinh-ST/ca-eco/internal/shared/domain"
	sharedUtils "github.com/LeHongMinh-ST/ca-eco/internal/shared/infra/utils"
)

const conflictRetries = 3

// CartService agrupa los casos de uso del carrito.
type CartService struct {
	repo    domain.CartRepository
	catalog domain.ProductCatalog
	log     *zap.Logger
}

func NewCartService(repo domain.CartRepository, catalog domain.ProductCatalog, log *zap.Logger) *CartService {
	return &CartService{repo: repo, catalog: catalog, log: log}
}

// CreateCart crea el carrito de un usuario; falla con ErrCartAlreadyExists si ya tiene uno.
func (s *CartService) CreateCart(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := domain.NewCart(sharedDomain.NewID(), userID)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.FindByUserID(ctx, userID); err == nil {
		return nil, domain.ErrCartAlreadyExists
	} else if !errors.Is(err, domain.ErrCartNotFound) {
		return nil, err
	}
	if err := s.repo.Save(ctx, cart); err != nil {
		return nil, err
	}
	s.log.Info("🛒 Carrito creado", zap.String("cart_id", cart.ID()), zap.String("user_id", userID))
	return cart, nil
}

// EnsureCartForUser devuelve el carrito del usuario, creándolo si no existe.
func (s *CartService) EnsureCartForUser(ctx context.Context, userID string) (cart *domain.Cart, created bool, err error) {
	cart, err = s.CreateCart(ctx, userID)
	if err == nil {
		return cart, true, nil
	}
	if errors.Is(err, domain.ErrCartAlreadyExists) {
		cart, err = s.repo.FindByUserID(ctx, userID)
		return cart, false, err
	}
	return nil, false, err
}

func (s *CartService) GetCart(ctx context.Context, cartID string) (*domain.Cart, error) {
	if err := sharedDomain.ValidateID("cartId", cartID); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, cartID)
}

func (s *CartService) GetCartByUser(ctx context.Context, userID string) (*domain.Cart, error) {
	if err := sharedDomain.ValidateID("userId", userID); err != nil {
		return nil, err
	}
	return s.repo.FindByUserID(ctx, userID)
}

// AddItem añade el producto con la foto actual del catálogo.
func (s *CartService) AddItem(ctx context.Context, cartID, productID string, quantity int) (*domain.Cart, error) {
	product, err := s.catalog.Snapshot(ctx, productID)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, cartID, func(c *domain.Cart) error {
		return c.AddItem(product, quantity)
	})
}

func (s *CartService) UpdateItemQuantity(ctx context.Context, cartID, productID string, quantity int) (*domain.Cart, error) {
	return s.mutate(ctx, cartID, func(c *domain.Cart) error {
		return c.UpdateItemQuantity(productID, quantity)
	})
}

func (s *CartService) RemoveItem(ctx context.Context, cartID, productID string) (*domain.Cart, error) {
	return s.mutate(ctx, cartID, func(c *domain.Cart) error {
		return c.RemoveItem(productID)
	})
}

// ClearCart vacía el carrito; si ya estaba vacío no guarda nada.
func (s *CartService) ClearCart(ctx context.Context, cartID string) (*domain.Cart, error) {
	return s.mutate(ctx, cartID, func(c *domain.Cart) error {
		c.Clear()
		return nil
	})
}

// mutate lee, aplica fn y guarda. Si otra escritura se adelanta, vuelve a empezar.
func (s *CartService) mutate(ctx context.Context, cartID string, fn func(*domain.Cart) error) (*domain.Cart, error) {
	if err := sharedDomain.ValidateID("cartId", cartID); err != nil {
		return nil, err
	}

	var result *domain.Cart
	err := sharedUtils.Retry(ctx, conflictRetries, 10*time.Millisecond, func() error {
		cart, err := s.repo.FindByID(ctx, cartID)
		if err != nil {
			return sharedUtils.Permanent(err)
		}
		if err := fn(cart); err != nil {
			return sharedUtils.Permanent(err)
		}
		if !cart.HasChanges() {
			result = cart
			return nil
		}
		if err := s.repo.Save(ctx, cart); err != nil {
			if errors.Is(err, domain.ErrConcurrentModification) {
				return err
			}
			return sharedUtils.Permanent(err)
		}
		result = cart
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
