package application

import (
	"context"

	"go.uber.org/zap"

	"github.com/LeHongMinh-ST/ca-eco/internal/product/domain"
	sharedDomain "github.com/LeHongMinh-ST/ca-eco/internal/shared/domain"
)

const maxPageSize = 100

type ProductService struct {
	repo domain.ProductRepository
	log  *zap.Logger
}

func NewProductService(repo domain.ProductRepository, log *zap.Logger) *ProductService {
	return &ProductService{repo: repo, log: log}
}

// CreateProduct da de alta el producto. El stock lo crea el inventario al recibir ProductCreated.
func (s *ProductService) CreateProduct(ctx context.Context, name string, price float64, imageURL string) (*domain.Product, error) {
	p, err := domain.NewProduct(sharedDomain.NewID(), name, price, imageURL)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, err
	}
	s.log.Info("🏷️ Producto creado", zap.String("product_id", p.ID()), zap.String("name", p.Name()))
	return p, nil
}

func (s *ProductService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	if err := sharedDomain.ValidateID("productId", id); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

func (s *ProductService) ListProducts(ctx context.Context, limit, offset int) ([]*domain.Product, error) {
	if limit <= 0 || limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, limit, offset)
}

func (s *ProductService) UpdatePrice(ctx context.Context, id string, price float64) (*domain.Product, error) {
	p, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := p.UpdatePrice(price); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}
