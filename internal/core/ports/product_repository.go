package ports

import (
	"context"

	"github.com/authgate/authgate/internal/core/domain"
)

// ProductRepository defines persistence operations for catalog products.
type ProductRepository interface {
	List(ctx context.Context) ([]*domain.Product, error)
	// FindByID returns domain.ErrProductNotFound when no record matches.
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	// SearchByName matches name case-insensitively as a substring.
	SearchByName(ctx context.Context, name string) ([]*domain.Product, error)
	FindByPriceRange(ctx context.Context, min, max float64) ([]*domain.Product, error)
	FindInStock(ctx context.Context) ([]*domain.Product, error)
	// Create returns domain.ErrDuplicateSKU when the SKU is taken.
	Create(ctx context.Context, p *domain.Product) error
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id string) error
}
