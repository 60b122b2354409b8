package ports

import (
	"context"
	"time"
)

// ProductInput carries the writable fields of a product.
type ProductInput struct {
	Name          string
	Description   string
	Price         float64
	StockQuantity int
	SKU           string
}

// ProductView is the read model returned by ProductService.
type ProductView struct {
	ID            string
	Name          string
	Description   string
	Price         float64
	StockQuantity int
	SKU           string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ProductService defines use-case operations for the catalog.
type ProductService interface {
	List(ctx context.Context) ([]ProductView, error)
	Get(ctx context.Context, id string) (*ProductView, error)
	SearchByName(ctx context.Context, name string) ([]ProductView, error)
	ListByPriceRange(ctx context.Context, min, max float64) ([]ProductView, error)
	ListInStock(ctx context.Context) ([]ProductView, error)
	Create(ctx context.Context, in ProductInput) (*ProductView, error)
	Update(ctx context.Context, id string, in ProductInput) (*ProductView, error)
	Delete(ctx context.Context, id string) error
}
