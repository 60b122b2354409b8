package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/authgate/authgate/internal/core/domain"
	"github.com/authgate/authgate/internal/core/ports"
)

type ProductService struct {
	repo   ports.ProductRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewProductService(repo ports.ProductRepository, logger zerolog.Logger) *ProductService {
	return &ProductService{repo: repo, logger: logger, now: time.Now}
}

func (s *ProductService) List(ctx context.Context) ([]ports.ProductView, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return toViews(products), nil
}

func (s *ProductService) Get(ctx context.Context, id string) (*ports.ProductView, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	v := toView(p)
	return &v, nil
}

func (s *ProductService) SearchByName(ctx context.Context, name string) ([]ports.ProductView, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return s.List(ctx)
	}
	products, err := s.repo.SearchByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	return toViews(products), nil
}

func (s *ProductService) ListByPriceRange(ctx context.Context, min, max float64) ([]ports.ProductView, error) {
	if min < 0 || max < min {
		return nil, fmt.Errorf("%w: price range [%g, %g]", domain.ErrInvalidInput, min, max)
	}
	products, err := s.repo.FindByPriceRange(ctx, min, max)
	if err != nil {
		return nil, fmt.Errorf("list products by price: %w", err)
	}
	return toViews(products), nil
}

func (s *ProductService) ListInStock(ctx context.Context) ([]ports.ProductView, error) {
	products, err := s.repo.FindInStock(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products in stock: %w", err)
	}
	return toViews(products), nil
}

// Create stores a new product. The SKU must be unique across the catalog.
func (s *ProductService) Create(ctx context.Context, in ports.ProductInput) (*ports.ProductView, error) {
	if err := checkProductInput(in); err != nil {
		return nil, err
	}

	p := &domain.Product{
		ID:            uuid.NewString(),
		Name:          in.Name,
		Description:   in.Description,
		Price:         in.Price,
		StockQuantity: in.StockQuantity,
		SKU:           in.SKU,
		CreatedAt:     s.now().UTC(),
	}
	if err := s.repo.Create(ctx, p); err != nil {
		if errors.Is(err, domain.ErrDuplicateSKU) {
			return nil, err
		}
		s.logger.Error().Err(err).Msg("failed to create product")
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.logger.Info().Str("product_id", p.ID).Str("sku", p.SKU).Msg("product created")
	v := toView(p)
	return &v, nil
}

// Update replaces the writable fields of an existing product.
func (s *ProductService) Update(ctx context.Context, id string, in ports.ProductInput) (*ports.ProductView, error) {
	if err := checkProductInput(in); err != nil {
		return nil, err
	}

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	p.Name = in.Name
	p.Description = in.Description
	p.Price = in.Price
	p.StockQuantity = in.StockQuantity
	p.SKU = in.SKU
	p.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, p); err != nil {
		if errors.Is(err, domain.ErrDuplicateSKU) || errors.Is(err, domain.ErrProductNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update product: %w", err)
	}

	s.logger.Info().Str("product_id", p.ID).Msg("product updated")
	v := toView(p)
	return &v, nil
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return err
		}
		return fmt.Errorf("delete product: %w", err)
	}
	s.logger.Info().Str("product_id", id).Msg("product deleted")
	return nil
}

func checkProductInput(in ports.ProductInput) error {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	case strings.TrimSpace(in.SKU) == "":
		return fmt.Errorf("%w: sku is required", domain.ErrInvalidInput)
	case in.Price < 0:
		return fmt.Errorf("%w: price must not be negative", domain.ErrInvalidInput)
	case in.StockQuantity < 0:
		return fmt.Errorf("%w: stock quantity must not be negative", domain.ErrInvalidInput)
	}
	return nil
}

func toView(p *domain.Product) ports.ProductView {
	return ports.ProductView{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		StockQuantity: p.StockQuantity,
		SKU:           p.SKU,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func toViews(products []*domain.Product) []ports.ProductView {
	out := make([]ports.ProductView, len(products))
	for i, p := range products {
		out[i] = toView(p)
	}
	return out
}
